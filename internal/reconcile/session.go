package reconcile

import (
	"sync"

	"blood-orders/internal/orders"
	"blood-orders/internal/query"
)

// Session binds one displayed page to its live update feed. Events for
// the same page must be applied one at a time in arrival order; the
// session enforces that single-writer discipline so concurrent stream
// deliveries cannot interleave mid-merge.
type Session struct {
	mu   sync.Mutex
	page *query.Page
}

// NewSession wraps a page produced by the query pipeline
func NewSession(page *query.Page) *Session {
	return &Session{page: page}
}

// Apply reconciles one event into the session's page. Returns true
// when the page should be refetched because the order's true position
// may have moved beyond it.
func (s *Session) Apply(event orders.UpdateEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Reconcile(s.page, event)
}

// Replace swaps in a freshly fetched page, the fallback after a stream
// gap or a moved-out-of-page signal.
func (s *Session) Replace(page *query.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
}

// Snapshot returns a deep copy of the current page safe to render
// while further events arrive.
func (s *Session) Snapshot() *query.Page {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page == nil {
		return nil
	}
	copied := *s.page
	copied.Orders = make([]*orders.Order, len(s.page.Orders))
	for i, o := range s.page.Orders {
		copied.Orders[i] = o.Clone()
	}
	return &copied
}
