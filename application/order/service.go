/*
Package order Application Layer - checkout and order lifecycle orchestration.

Checkout converts the whole cart into one PENDING order inside a single
transaction: re-purchase screening, price resolution and order persistence
either all commit or none do. The cart itself is left as it was; it is
working state, not part of the order's consistency boundary.
*/
package order

import (
	"context"
	stderrors "errors"
	"time"

	"movieshop/domain/cart"
	"movieshop/domain/catalog"
	"movieshop/domain/order"
	"movieshop/domain/shared"
	"movieshop/pkg/errors"
)

// ApplicationService Order application service
type ApplicationService struct {
	orderRepo  order.Repository
	cartRepo   cart.Repository
	movies     catalog.Catalog
	ledger     purchaseLedger
	uowFactory shared.UnitOfWorkFactory
}

// purchaseLedger is the slice of the ledger the checkout flow needs.
type purchaseLedger interface {
	IsPurchased(ctx context.Context, userID, movieID string) (bool, error)
}

// NewApplicationService Create order application service
func NewApplicationService(
	orderRepo order.Repository,
	cartRepo cart.Repository,
	movies catalog.Catalog,
	ledger purchaseLedger,
	uowFactory shared.UnitOfWorkFactory,
) *ApplicationService {
	return &ApplicationService{
		orderRepo:  orderRepo,
		cartRepo:   cartRepo,
		movies:     movies,
		ledger:     ledger,
		uowFactory: uowFactory,
	}
}

// ============================================================================
// DTO Definitions
// ============================================================================

// OrderItemResponse Order line response DTO
type OrderItemResponse struct {
	ID           string        `json:"id"`
	MovieID      string        `json:"movie_id"`
	PriceAtOrder MoneyResponse `json:"price_at_order"`
}

// OrderResponse Order response DTO
type OrderResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	Items       []OrderItemResponse `json:"items"`
	TotalAmount MoneyResponse       `json:"total_amount"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
}

// MoneyResponse Money response DTO
type MoneyResponse struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// ListRequest Admin listing request DTO
type ListRequest struct {
	Status    string `form:"status"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

// ListResponse Admin listing response DTO
type ListResponse struct {
	Orders   []*OrderResponse `json:"orders"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// ============================================================================
// Application Service Methods
// ============================================================================

// Checkout Turn the user's entire cart into one PENDING order.
// Everything happens in a single transaction: if any movie in the cart is
// already owned the whole checkout aborts and no order row exists. Prices
// are snapshotted from the catalog here and never re-read.
func (s *ApplicationService) Checkout(ctx context.Context, userID string) (*OrderResponse, error) {
	var o *order.Order

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

		lines := make([]order.Line, 0, len(items))
		for _, item := range items {
			owned, err := s.ledger.IsPurchased(ctx, userID, item.MovieID)
			if err != nil {
				return errors.Persistence(err)
			}
			if owned {
				return errors.AlreadyPurchased()
			}

			m, err := s.movies.GetMovie(ctx, item.MovieID)
			if err != nil {
				if stderrors.Is(err, catalog.ErrMovieNotFound) {
					return errors.MovieNotFound()
				}
				return errors.Persistence(err)
			}
			lines = append(lines, order.Line{MovieID: m.ID, Price: m.Price})
		}

		o, err = order.NewOrder(userID, lines)
		if err != nil {
			return errors.Wrap(err, errors.CodeValidation, "cannot create order")
		}

		if err := s.orderRepo.Save(ctx, o); err != nil {
			return errors.Persistence(err)
		}

		uow.RegisterNew(o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return convertToResponse(o), nil
}

// Cancel Move a PENDING order to CANCELED.
// The conditional transition is the single winner gate: when a cancel races
// a payment (or another cancel), exactly one request moves the row and the
// rest get a conflict.
func (s *ApplicationService) Cancel(ctx context.Context, userID, orderID string) error {
	uow := s.uowFactory.New()
	return uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orderRepo.FindByUserAndID(ctx, userID, orderID)
		if err != nil {
			if stderrors.Is(err, order.ErrOrderNotFound) {
				return errors.OrderNotFound()
			}
			return errors.Persistence(err)
		}

		if err := o.Cancel(); err != nil {
			if stderrors.Is(err, order.ErrNotCancelable) {
				return errors.OrderNotCancelable()
			}
			return errors.Wrap(err, errors.CodeConflict, "cannot cancel order")
		}

		if err := s.orderRepo.TransitionStatus(ctx, orderID, order.StatusPending, order.StatusCanceled); err != nil {
			switch {
			case stderrors.Is(err, order.ErrStatusConflict):
				return errors.OrderNotCancelable()
			case stderrors.Is(err, order.ErrOrderNotFound):
				return errors.OrderNotFound()
			default:
				return errors.Persistence(err)
			}
		}

		uow.RegisterDirty(o)
		return nil
	})
}

// GetOrder Return one of the user's orders. A foreign order is reported as
// missing, never as forbidden.
func (s *ApplicationService) GetOrder(ctx context.Context, userID, orderID string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByUserAndID(ctx, userID, orderID)
	if err != nil {
		if stderrors.Is(err, order.ErrOrderNotFound) {
			return nil, errors.OrderNotFound()
		}
		return nil, errors.Persistence(err)
	}
	return convertToResponse(o), nil
}

// ListForUser Return the user's orders, most recent first.
func (s *ApplicationService) ListForUser(ctx context.Context, userID string) ([]*OrderResponse, error) {
	orders, err := s.orderRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Persistence(err)
	}

	responses := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = convertToResponse(o)
	}
	return responses, nil
}

// ListAll Admin listing with optional status filter, allow-listed sorting
// and pagination. Unknown sort fields and statuses are rejected before any
// query runs.
func (s *ApplicationService) ListAll(ctx context.Context, req ListRequest) (*ListResponse, error) {
	criteria := order.SearchCriteria{
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if criteria.SortBy == "" {
		criteria.SortBy = "created_at"
	}
	if _, ok := order.SortableFields[criteria.SortBy]; !ok {
		return nil, errors.Validation("unsortable field: " + criteria.SortBy)
	}
	if criteria.SortOrder == "" {
		criteria.SortOrder = "DESC"
	}

	if req.Status != "" {
		status := order.Status(req.Status)
		switch status {
		case order.StatusPending, order.StatusPaid, order.StatusCanceled:
			criteria.Status = &status
		default:
			return nil, errors.Validation("unknown order status: " + req.Status)
		}
	}

	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 {
		criteria.PageSize = 20
	}

	orders, total, err := s.orderRepo.Search(ctx, criteria)
	if err != nil {
		return nil, errors.Persistence(err)
	}

	responses := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = convertToResponse(o)
	}
	return &ListResponse{
		Orders:   responses,
		Total:    total,
		Page:     criteria.Page,
		PageSize: criteria.PageSize,
	}, nil
}

// convertToResponse Convert order aggregate to response DTO
func convertToResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items()))
	for i, item := range o.Items() {
		items[i] = OrderItemResponse{
			ID:      item.ID(),
			MovieID: item.MovieID(),
			PriceAtOrder: MoneyResponse{
				Amount:   item.PriceAtOrder().Amount(),
				Currency: item.PriceAtOrder().Currency(),
			},
		}
	}

	return &OrderResponse{
		ID:     o.ID(),
		UserID: o.UserID(),
		Items:  items,
		TotalAmount: MoneyResponse{
			Amount:   o.TotalAmount().Amount(),
			Currency: o.TotalAmount().Currency(),
		},
		Status:    string(o.Status()),
		CreatedAt: o.CreatedAt(),
	}
}
