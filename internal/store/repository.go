package store

import (
	"context"
	"errors"
	"time"

	"blood-orders/internal/orders"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Repository is the backing-store collaborator behind the query
// pipeline. ListByHospital must never omit a matching order; the
// pipeline does the filtering, not the store.
type Repository interface {
	// Save creates or replaces an order record
	Save(ctx context.Context, order *orders.Order) error

	// GetByID retrieves an order by id
	GetByID(ctx context.Context, id string) (*orders.Order, error)

	// ListByHospital returns the full candidate collection for one tenant
	ListByHospital(ctx context.Context, hospitalID string) ([]*orders.Order, error)

	// UpdateStatus applies a status change on the store's mutation path,
	// stamping the matching lifecycle timestamp exactly once and bumping
	// updatedAt. Returns the updated order and the event to publish on
	// the live stream.
	UpdateStatus(ctx context.Context, id string, status orders.Status, rider *orders.Rider) (*orders.Order, orders.UpdateEvent, error)
}

// applyStatus mutates the order for a status change and builds the
// matching update event. Shared by both repository implementations so
// the stamping rules cannot diverge.
func applyStatus(o *orders.Order, status orders.Status, rider *orders.Rider, now time.Time) orders.UpdateEvent {
	o.Status = status
	switch status {
	case orders.StatusConfirmed:
		if o.ConfirmedAt == nil {
			t := now
			o.ConfirmedAt = &t
		}
	case orders.StatusDelivered:
		if o.DeliveredAt == nil {
			t := now
			o.DeliveredAt = &t
		}
	case orders.StatusCancelled:
		if o.CancelledAt == nil {
			t := now
			o.CancelledAt = &t
		}
	}
	if rider != nil {
		r := *rider
		o.Rider = &r
	}
	o.UpdatedAt = now

	return orders.UpdateEvent{
		ID:          o.ID,
		Status:      o.Status,
		Rider:       o.Rider,
		UpdatedAt:   o.UpdatedAt,
		DeliveredAt: o.DeliveredAt,
	}
}
