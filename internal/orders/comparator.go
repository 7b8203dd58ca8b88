package orders

import (
	"sort"
	"strings"
	"time"
)

// SortColumn identifies a sortable column. Wire values match the
// sortBy URL parameter.
type SortColumn string

const (
	SortByID          SortColumn = "id"
	SortByQuantity    SortColumn = "quantity"
	SortByBloodBank   SortColumn = "bloodBank"
	SortByStatus      SortColumn = "status"
	SortByPlacedAt    SortColumn = "placedAt"
	SortByDeliveredAt SortColumn = "deliveredAt"
)

// SortDirection is the requested direction for the secondary sort key
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

func (d SortDirection) IsValid() bool {
	return d == SortAsc || d == SortDesc
}

// columnComparators maps each sortable column to its typed comparison
// function. New sortable columns are added here, not by branching in
// Compare.
var columnComparators = map[SortColumn]func(a, b *Order) int{
	SortByID:          func(a, b *Order) int { return strings.Compare(a.ID, b.ID) },
	SortByQuantity:    func(a, b *Order) int { return a.Quantity - b.Quantity },
	SortByBloodBank:   func(a, b *Order) int { return strings.Compare(a.BloodBank.Name, b.BloodBank.Name) },
	SortByStatus:      func(a, b *Order) int { return strings.Compare(string(a.Status), string(b.Status)) },
	SortByPlacedAt:    func(a, b *Order) int { return compareTime(&a.PlacedAt, &b.PlacedAt) },
	SortByDeliveredAt: func(a, b *Order) int { return compareTime(a.DeliveredAt, b.DeliveredAt) },
}

func (c SortColumn) IsValid() bool {
	_, ok := columnComparators[c]
	return ok
}

// compareTime orders timestamps chronologically; a nil timestamp sorts
// as the lowest value.
func compareTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	}
	return 0
}

func partitionRank(o *Order) int {
	if o.Status.IsActive() {
		return 0
	}
	return 1
}

// Compare is the single ordering function shared by the query pipeline
// and the live reconciler. The primary key is the active/completed
// partition (active first, regardless of direction); the secondary key
// is the requested column, with direction applied to it alone. Returns
// a negative value when a sorts before b, 0 when equal.
func Compare(a, b *Order, column SortColumn, direction SortDirection) int {
	if r := partitionRank(a) - partitionRank(b); r != 0 {
		return r
	}
	cmp, ok := columnComparators[column]
	if !ok {
		cmp = columnComparators[SortByPlacedAt]
	}
	c := cmp(a, b)
	if direction == SortDesc {
		c = -c
	}
	return c
}

// SortStable sorts the slice in place with Compare, preserving the
// relative order of equal elements.
func SortStable(list []*Order, column SortColumn, direction SortDirection) {
	sort.SliceStable(list, func(i, j int) bool {
		return Compare(list[i], list[j], column, direction) < 0
	})
}
