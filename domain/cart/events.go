package cart

import "time"

// ItemRemovedEvent is recorded when a user removes a movie from their cart.
// Subscribers alert moderation; delivery is best-effort and must never fail
// the removal itself.
type ItemRemovedEvent struct {
	cartID     string
	userID     string
	movieID    string
	movieTitle string
	occurredOn time.Time
}

func NewItemRemovedEvent(cartID, userID, movieID, movieTitle string) *ItemRemovedEvent {
	return &ItemRemovedEvent{
		cartID:     cartID,
		userID:     userID,
		movieID:    movieID,
		movieTitle: movieTitle,
		occurredOn: time.Now(),
	}
}

func (e *ItemRemovedEvent) EventName() string     { return "cart.item_removed" }
func (e *ItemRemovedEvent) OccurredOn() time.Time { return e.occurredOn }
func (e *ItemRemovedEvent) AggregateID() string   { return e.cartID }

func (e *ItemRemovedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"cart_id":     e.cartID,
		"user_id":     e.userID,
		"movie_id":    e.movieID,
		"movie_title": e.movieTitle,
	}
}
