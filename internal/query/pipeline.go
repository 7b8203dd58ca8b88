package query

import (
	"errors"
	"fmt"
	"strings"

	"blood-orders/internal/orders"
)

// ErrScopeViolation signals an internal invariant breach: an order
// outside the requested hospital survived scoping. Never expected in
// correct operation.
var ErrScopeViolation = errors.New("order outside requested hospital scope")

// Execute runs the full scope -> filter -> order -> paginate pipeline.
// It is pure: it never mutates its inputs and retains no state between
// calls. A page beyond the available range yields an empty slice with
// true totals, not an error.
func Execute(all []*orders.Order, state QueryState) (*Page, error) {
	matched, err := filterAndSort(all, state)
	if err != nil {
		return nil, err
	}

	totalCount := len(matched)
	totalPages := 0
	if totalCount > 0 {
		totalPages = (totalCount + state.PageSize - 1) / state.PageSize
	}

	// Guard the page check before any multiplication: page numbers up to
	// the full int range are valid input, and (page-1)*pageSize would
	// wrap negative long before the slice bounds could catch it.
	start, end := totalCount, totalCount
	if state.Page <= totalPages {
		start = (state.Page - 1) * state.PageSize
		end = start + state.PageSize
		if end > totalCount {
			end = totalCount
		}
	}

	data := make([]*orders.Order, end-start)
	copy(data, matched[start:end])

	return &Page{
		Orders:        data,
		CurrentPage:   state.Page,
		PageSize:      state.PageSize,
		TotalCount:    totalCount,
		TotalPages:    totalPages,
		SortColumn:    state.SortColumn,
		SortDirection: state.SortDirection,
	}, nil
}

// ExecuteAll returns the complete filtered+sorted collection without
// pagination. Used by the CSV export, which covers the whole current
// view rather than one page.
func ExecuteAll(all []*orders.Order, state QueryState) ([]*orders.Order, error) {
	// Export ignores pagination, but the state it receives may carry
	// arbitrary page fields; normalize them so validation covers the
	// rest of the state.
	state.Page = DefaultPage
	state.PageSize = DefaultPageSize
	return filterAndSort(all, state)
}

func filterAndSort(all []*orders.Order, state QueryState) ([]*orders.Order, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}

	// Scope first: no later step may see a cross-tenant order.
	scoped := make([]*orders.Order, 0, len(all))
	for _, o := range all {
		if o.Hospital.ID == state.HospitalID {
			scoped = append(scoped, o)
		}
	}

	matched := scoped[:0]
	for _, o := range scoped {
		if matches(o, state) {
			matched = append(matched, o)
		}
	}

	orders.SortStable(matched, state.SortColumn, state.SortDirection)

	for _, o := range matched {
		if o.Hospital.ID != state.HospitalID {
			return nil, fmt.Errorf("%w: order %s belongs to hospital %s, requested %s",
				ErrScopeViolation, o.ID, o.Hospital.ID, state.HospitalID)
		}
	}

	return matched, nil
}

// matches applies every filter dimension conjunctively
func matches(o *orders.Order, state QueryState) bool {
	if state.StartDate != nil && o.PlacedAt.Before(*state.StartDate) {
		return false
	}
	if state.EndDate != nil {
		// Day-granular bound, inclusive of the entire end day.
		endExclusive := state.EndDate.AddDate(0, 0, 1)
		if !o.PlacedAt.Before(endExclusive) {
			return false
		}
	}
	if len(state.BloodTypes) > 0 && !containsBloodType(state.BloodTypes, o.BloodType) {
		return false
	}
	if len(state.Statuses) > 0 && !containsStatus(state.Statuses, o.Status) {
		return false
	}
	if state.BloodBankSearch != "" {
		name := strings.ToLower(o.BloodBank.Name)
		if !strings.Contains(name, strings.ToLower(state.BloodBankSearch)) {
			return false
		}
	}
	return true
}

func containsBloodType(set []orders.BloodType, v orders.BloodType) bool {
	for _, m := range set {
		if m == v {
			return true
		}
	}
	return false
}

func containsStatus(set []orders.Status, v orders.Status) bool {
	for _, m := range set {
		if m == v {
			return true
		}
	}
	return false
}
