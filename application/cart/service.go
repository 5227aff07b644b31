/*
Package cart Application Layer - cart business process orchestration.

The service validates against the catalog and the purchase ledger before the
cart is touched: an already-purchased movie is rejected without leaving any
trace in the cart. Removal records a moderation event which the unit of work
writes to the outbox inside the same transaction as the removal itself.
*/
package cart

import (
	"context"
	stderrors "errors"
	"time"

	"movieshop/domain/cart"
	"movieshop/domain/catalog"
	"movieshop/domain/shared"
	"movieshop/infrastructure/cache"
	"movieshop/pkg/errors"
	"movieshop/pkg/logger"

	"go.uber.org/zap"
)

// ApplicationService Cart application service
type ApplicationService struct {
	cartRepo   cart.Repository
	movies     catalog.Catalog
	ledger     purchaseLedger
	uowFactory shared.UnitOfWorkFactory
	cartCache  cache.CartCache // nil when caching is disabled
	currency   string          // shown on totals when no line resolves a price
}

// purchaseLedger is the slice of the ledger the cart flow needs.
type purchaseLedger interface {
	IsPurchased(ctx context.Context, userID, movieID string) (bool, error)
}

// NewApplicationService Create cart application service
func NewApplicationService(
	cartRepo cart.Repository,
	movies catalog.Catalog,
	ledger purchaseLedger,
	uowFactory shared.UnitOfWorkFactory,
	cartCache cache.CartCache,
	currency string,
) *ApplicationService {
	return &ApplicationService{
		cartRepo:   cartRepo,
		movies:     movies,
		ledger:     ledger,
		uowFactory: uowFactory,
		cartCache:  cartCache,
		currency:   currency,
	}
}

// ============================================================================
// DTO Definitions
// ============================================================================

// ItemResponse Cart line response DTO
type ItemResponse struct {
	MovieID string        `json:"movie_id"`
	Title   string        `json:"title"`
	Price   MoneyResponse `json:"price"`
	AddedAt time.Time     `json:"added_at"`
}

// CartResponse Cart response DTO
type CartResponse struct {
	CartID string         `json:"cart_id"`
	UserID string         `json:"user_id"`
	Items  []ItemResponse `json:"items"`
	Total  MoneyResponse  `json:"total"`
}

// MoneyResponse Money response DTO
type MoneyResponse struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// eventCarrier lets plain operations hand events to the unit of work.
type eventCarrier struct {
	events []shared.DomainEvent
}

func (c *eventCarrier) record(event shared.DomainEvent) {
	c.events = append(c.events, event)
}

func (c *eventCarrier) PullEvents() []shared.DomainEvent {
	events := c.events
	c.events = nil
	return events
}

// ============================================================================
// Application Service Methods
// ============================================================================

// AddItem Put a movie into the user's cart, creating the cart on first use.
// Rejected when the movie does not exist, is already owned, or is already in
// the cart; in the owned case the cart is never touched, not even created.
func (s *ApplicationService) AddItem(ctx context.Context, userID, movieID string) error {
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		if _, err := s.movies.GetMovie(ctx, movieID); err != nil {
			if stderrors.Is(err, catalog.ErrMovieNotFound) {
				return errors.MovieNotFound()
			}
			return errors.Persistence(err)
		}

		owned, err := s.ledger.IsPurchased(ctx, userID, movieID)
		if err != nil {
			return errors.Persistence(err)
		}
		if owned {
			return errors.AlreadyPurchased()
		}

		c, err := s.cartRepo.CreateIfAbsent(ctx, userID)
		if err != nil {
			return errors.Persistence(err)
		}

		if _, err := s.cartRepo.AddItem(ctx, c.ID, movieID); err != nil {
			if stderrors.Is(err, cart.ErrDuplicateItem) {
				return errors.CartItemExists()
			}
			return errors.Persistence(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ctx, userID)
	return nil
}

// RemoveItem Take a movie out of the user's cart. The removal and the
// moderation alert event commit together; publishing happens afterwards and
// its failures never reach this caller.
func (s *ApplicationService) RemoveItem(ctx context.Context, userID, movieID string) error {
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		c, err := s.cartRepo.FindByUserID(ctx, userID)
		if err != nil {
			if stderrors.Is(err, cart.ErrCartNotFound) {
				return errors.CartNotFound()
			}
			return errors.Persistence(err)
		}

		title := movieID
		if m, err := s.movies.GetMovie(ctx, movieID); err == nil {
			title = m.Title
		}

		if err := s.cartRepo.RemoveItem(ctx, c.ID, movieID); err != nil {
			if stderrors.Is(err, cart.ErrItemNotFound) {
				return errors.New(errors.CodeNotFound, "movie is not in the cart")
			}
			return errors.Persistence(err)
		}

		carrier := &eventCarrier{}
		carrier.record(cart.NewItemRemovedEvent(c.ID, userID, movieID, title))
		uow.RegisterDirty(carrier)
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ctx, userID)
	return nil
}

// Clear Empty the user's cart in one operation. Clearing an empty cart is a
// conflict so clients can tell a no-op from a real clear.
func (s *ApplicationService) Clear(ctx context.Context, userID string) error {
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		c, err := s.cartRepo.FindByUserID(ctx, userID)
		if err != nil {
			if stderrors.Is(err, cart.ErrCartNotFound) {
				return errors.CartNotFound()
			}
			return errors.Persistence(err)
		}

		items, err := s.cartRepo.ListItems(ctx, c.ID)
		if err != nil {
			return errors.Persistence(err)
		}
		if len(items) == 0 {
			return errors.CartEmpty()
		}

		if err := s.cartRepo.ClearItems(ctx, c.ID); err != nil {
			return errors.Persistence(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ctx, userID)
	return nil
}

// View Return the user's cart with every line resolved against the catalog.
// Served from cache when possible; cache failures degrade to storage.
func (s *ApplicationService) View(ctx context.Context, userID string) (*CartResponse, error) {
	if s.cartCache != nil {
		if view, err := s.cartCache.Get(ctx, userID); err == nil {
			return cachedToResponse(view), nil
		} else if !stderrors.Is(err, cache.ErrCacheMiss) {
			logger.Warn("Cart cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	c, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, cart.ErrCartNotFound) {
			return nil, errors.CartNotFound()
		}
		return nil, errors.Persistence(err)
	}

	items, err := s.cartRepo.ListItems(ctx, c.ID)
	if err != nil {
		return nil, errors.Persistence(err)
	}

	response := &CartResponse{
		CartID: c.ID,
		UserID: c.UserID,
		Items:  make([]ItemResponse, 0, len(items)),
	}
	var total int64
	currency := s.currency
	for _, item := range items {
		m, err := s.movies.GetMovie(ctx, item.MovieID)
		if err != nil {
			if stderrors.Is(err, catalog.ErrMovieNotFound) {
				// Movie withdrawn from the catalog after being carted.
				continue
			}
			return nil, errors.Persistence(err)
		}
		total += m.Price.Amount()
		currency = m.Price.Currency()
		response.Items = append(response.Items, ItemResponse{
			MovieID: item.MovieID,
			Title:   m.Title,
			Price:   MoneyResponse{Amount: m.Price.Amount(), Currency: m.Price.Currency()},
			AddedAt: item.AddedAt,
		})
	}
	response.Total = MoneyResponse{Amount: total, Currency: currency}

	if s.cartCache != nil {
		if err := s.cartCache.Set(ctx, userID, responseToCached(response)); err != nil {
			logger.Warn("Cart cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	return response, nil
}

func (s *ApplicationService) invalidateCache(ctx context.Context, userID string) {
	if s.cartCache == nil {
		return
	}
	if err := s.cartCache.Delete(ctx, userID); err != nil {
		logger.Warn("Cart cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func cachedToResponse(view *cache.CartView) *CartResponse {
	response := &CartResponse{
		CartID: view.CartID,
		UserID: view.UserID,
		Items:  make([]ItemResponse, len(view.Items)),
		Total:  MoneyResponse{Amount: view.Total, Currency: view.Currency},
	}
	for i, item := range view.Items {
		response.Items[i] = ItemResponse{
			MovieID: item.MovieID,
			Title:   item.Title,
			Price:   MoneyResponse{Amount: item.Price, Currency: view.Currency},
			AddedAt: item.AddedAt,
		}
	}
	return response
}

func responseToCached(response *CartResponse) *cache.CartView {
	view := &cache.CartView{
		CartID:   response.CartID,
		UserID:   response.UserID,
		Items:    make([]cache.CartViewItem, len(response.Items)),
		Total:    response.Total.Amount,
		Currency: response.Total.Currency,
	}
	for i, item := range response.Items {
		view.Items[i] = cache.CartViewItem{
			MovieID: item.MovieID,
			Title:   item.Title,
			Price:   item.Price.Amount,
			AddedAt: item.AddedAt,
		}
	}
	return view
}
