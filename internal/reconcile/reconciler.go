// Package reconcile merges live status updates into an already
// computed, already paginated page without breaking the ordering
// invariants the query pipeline established.
package reconcile

import (
	"log"

	"blood-orders/internal/orders"
	"blood-orders/internal/query"
)

// Reconcile applies a partial update event to the page in place and
// reports whether the reconciled order's true position may have moved
// beyond the page, in which case the caller should refetch.
//
// An event whose id is not on the page is a no-op: the order may live
// on another page or be excluded by the current filters. Fields absent
// from the event never overwrite existing fields. The page is re-sorted
// only when the order crossed the active/completed partition; a
// same-partition status change cannot change position.
func Reconcile(page *query.Page, event orders.UpdateEvent) bool {
	if page == nil {
		return false
	}

	var target *orders.Order
	for _, o := range page.Orders {
		if o.ID == event.ID {
			target = o
			break
		}
	}
	if target == nil {
		return false
	}

	wasActive := target.Status.IsActive()
	anomaly := false

	if event.Status != "" {
		if target.Status.IsCompleted() && event.Status.IsActive() {
			// Completed orders do not come back to life. Merge anyway and
			// re-sort defensively so the partition invariant holds either way.
			log.Printf("reconcile: anomalous status transition for order %s: %s -> %s",
				target.ID, target.Status, event.Status)
			anomaly = true
		}
		target.Status = event.Status
	}
	if event.Rider != nil {
		r := *event.Rider
		target.Rider = &r
	}
	if event.DeliveredAt != nil {
		d := *event.DeliveredAt
		target.DeliveredAt = &d
	}
	if !event.UpdatedAt.IsZero() {
		target.UpdatedAt = event.UpdatedAt
	}

	crossedPartition := wasActive != target.Status.IsActive()
	if !crossedPartition && !anomaly {
		return false
	}

	orders.SortStable(page.Orders, page.SortColumn, page.SortDirection)

	return movedOutOfPage(page, target)
}

// movedOutOfPage reports whether the order's true position may fall
// outside the page. The slice itself never exceeds pageSize, so the
// signal is: the order sank to the final row of a full page and more
// pages exist, meaning rows beyond the slice could precede it.
func movedOutOfPage(page *query.Page, target *orders.Order) bool {
	idx := -1
	for i, o := range page.Orders {
		if o.ID == target.ID {
			idx = i
			break
		}
	}
	if idx < 0 || idx >= page.PageSize {
		return true
	}
	fullPage := len(page.Orders) == page.PageSize
	lastRow := idx == len(page.Orders)-1
	morePages := page.CurrentPage < page.TotalPages
	return fullPage && lastRow && morePages
}
