package store

import (
	"context"
	"sync"
	"time"

	"blood-orders/internal/orders"
)

// MemoryRepository is an in-memory Repository for tests, the ordertool
// and single-node deployments. Reads return clones so callers can
// never mutate stored records through a page.
type MemoryRepository struct {
	mu sync.RWMutex

	// Primary storage: order id -> Order
	records map[string]*orders.Order

	// Index: hospital id -> order ids in insertion order
	byHospital map[string][]string

	now func() time.Time
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:    make(map[string]*orders.Order),
		byHospital: make(map[string][]string),
		now:        time.Now,
	}
}

// SetClock overrides the repository clock; tests use it to make
// lifecycle timestamps deterministic.
func (r *MemoryRepository) SetClock(now func() time.Time) {
	r.now = now
}

// Save creates or replaces an order record
func (r *MemoryRepository) Save(ctx context.Context, order *orders.Order) error {
	if order == nil || order.ID == "" {
		return ErrInvalidArgument
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := order.Clone()
	if existing, ok := r.records[stored.ID]; ok {
		if existing.Hospital.ID != stored.Hospital.ID {
			r.removeFromIndex(existing)
			r.byHospital[stored.Hospital.ID] = append(r.byHospital[stored.Hospital.ID], stored.ID)
		}
	} else {
		r.byHospital[stored.Hospital.ID] = append(r.byHospital[stored.Hospital.ID], stored.ID)
	}
	r.records[stored.ID] = stored

	return nil
}

// GetByID retrieves an order by id
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*orders.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.records[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return order.Clone(), nil
}

// ListByHospital returns every order for the hospital, oldest first
func (r *MemoryRepository) ListByHospital(ctx context.Context, hospitalID string) ([]*orders.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*orders.Order, 0, len(r.byHospital[hospitalID]))
	for _, id := range r.byHospital[hospitalID] {
		if order, ok := r.records[id]; ok {
			list = append(list, order.Clone())
		}
	}
	return list, nil
}

// UpdateStatus applies a status change and returns the stream event
func (r *MemoryRepository) UpdateStatus(ctx context.Context, id string, status orders.Status, rider *orders.Rider) (*orders.Order, orders.UpdateEvent, error) {
	if !status.IsValid() {
		return nil, orders.UpdateEvent{}, ErrInvalidArgument
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.records[id]
	if !ok {
		return nil, orders.UpdateEvent{}, ErrOrderNotFound
	}

	event := applyStatus(order, status, rider, r.now())
	return order.Clone(), event, nil
}

func (r *MemoryRepository) removeFromIndex(order *orders.Order) {
	ids := r.byHospital[order.Hospital.ID]
	for i, id := range ids {
		if id == order.ID {
			r.byHospital[order.Hospital.ID] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}
