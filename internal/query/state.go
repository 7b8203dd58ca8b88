package query

import (
	"errors"
	"fmt"
	"time"

	"blood-orders/internal/orders"
)

// Page sizes the pipeline accepts; anything else is a validation error,
// never silently clamped.
var validPageSizes = map[int]bool{25: true, 50: true, 100: true}

const (
	DefaultPage     = 1
	DefaultPageSize = 25
)

// ValidPageSizes returns the accepted page sizes in ascending order
func ValidPageSizes() []int {
	return []int{25, 50, 100}
}

// QueryState is the caller-owned filter/sort/pagination state that
// round-trips through a URL. Date bounds are day-granular; a nil bound
// is not a constraint. Empty BloodTypes/Statuses sets mean
// "no constraint", not "match nothing".
type QueryState struct {
	HospitalID      string
	StartDate       *time.Time
	EndDate         *time.Time
	BloodTypes      []orders.BloodType
	Statuses        []orders.Status
	BloodBankSearch string
	SortColumn      orders.SortColumn
	SortDirection   orders.SortDirection
	Page            int
	PageSize        int
}

// DefaultState returns the state a fresh view starts from:
// no filters, placedAt/desc, first page of 25.
func DefaultState(hospitalID string) QueryState {
	return QueryState{
		HospitalID:    hospitalID,
		SortColumn:    orders.SortByPlacedAt,
		SortDirection: orders.SortDesc,
		Page:          DefaultPage,
		PageSize:      DefaultPageSize,
	}
}

// ErrValidation is the sentinel all validation errors match via errors.Is
var ErrValidation = errors.New("validation failed")

// ValidationError reports a caller error in a single QueryState field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validate rejects malformed state before any filtering runs
func (s *QueryState) Validate() error {
	if s.HospitalID == "" {
		return &ValidationError{Field: "hospitalId", Reason: "required"}
	}
	if !validPageSizes[s.PageSize] {
		return &ValidationError{Field: "pageSize", Reason: fmt.Sprintf("must be one of %v, got %d", ValidPageSizes(), s.PageSize)}
	}
	if s.Page < 1 {
		return &ValidationError{Field: "page", Reason: fmt.Sprintf("must be >= 1, got %d", s.Page)}
	}
	if s.StartDate != nil && s.EndDate != nil && s.StartDate.After(*s.EndDate) {
		return &ValidationError{Field: "dateRange", Reason: "startDate is after endDate"}
	}
	if !s.SortColumn.IsValid() {
		return &ValidationError{Field: "sortBy", Reason: fmt.Sprintf("unknown sort column %q", s.SortColumn)}
	}
	if !s.SortDirection.IsValid() {
		return &ValidationError{Field: "sortOrder", Reason: fmt.Sprintf("must be %q or %q, got %q", orders.SortAsc, orders.SortDesc, s.SortDirection)}
	}
	for _, bt := range s.BloodTypes {
		if !bt.IsValid() {
			return &ValidationError{Field: "bloodTypes", Reason: fmt.Sprintf("unknown blood type %q", bt)}
		}
	}
	for _, st := range s.Statuses {
		if !st.IsValid() {
			return &ValidationError{Field: "statuses", Reason: fmt.Sprintf("unknown status %q", st)}
		}
	}
	return nil
}

// Page is one bounded slice of the filtered+sorted collection plus
// pagination metadata. SortColumn/SortDirection record how the slice
// was ordered so the reconciler can re-sort with the same comparator.
type Page struct {
	Orders        []*orders.Order      `json:"orders"`
	CurrentPage   int                  `json:"currentPage"`
	PageSize      int                  `json:"pageSize"`
	TotalCount    int                  `json:"totalCount"`
	TotalPages    int                  `json:"totalPages"`
	SortColumn    orders.SortColumn    `json:"sortBy"`
	SortDirection orders.SortDirection `json:"sortOrder"`
}
