package orders

import (
	"testing"
	"time"
)

func mkOrder(id string, status Status, placedAt time.Time) *Order {
	return &Order{
		ID:        id,
		BloodType: BloodTypeOPos,
		Quantity:  2,
		BloodBank: BloodBank{ID: "bb1", Name: "Central Bank"},
		Hospital:  Hospital{ID: "h1", Name: "General"},
		Status:    status,
		PlacedAt:  placedAt,
		CreatedAt: placedAt,
		UpdatedAt: placedAt,
	}
}

func TestCompare_ActiveBeforeCompleted(t *testing.T) {
	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	// Completed order is newer; active must still sort first under placedAt/desc
	active := mkOrder("O1", StatusPending, day1)
	completed := mkOrder("O2", StatusDelivered, day2)

	if Compare(active, completed, SortByPlacedAt, SortDesc) >= 0 {
		t.Errorf("active order must sort before completed regardless of date")
	}
	if Compare(completed, active, SortByPlacedAt, SortAsc) <= 0 {
		t.Errorf("completed order must sort after active regardless of direction")
	}
}

func TestCompare_DirectionAppliesToSecondaryOnly(t *testing.T) {
	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	a := mkOrder("A", StatusPending, day1)
	b := mkOrder("B", StatusPending, day2)

	if Compare(a, b, SortByPlacedAt, SortAsc) >= 0 {
		t.Errorf("asc: earlier placedAt should sort first")
	}
	if Compare(a, b, SortByPlacedAt, SortDesc) <= 0 {
		t.Errorf("desc: later placedAt should sort first")
	}
}

func TestCompare_QuantityNumeric(t *testing.T) {
	now := time.Now()
	a := mkOrder("A", StatusPending, now)
	a.Quantity = 2
	b := mkOrder("B", StatusPending, now)
	b.Quantity = 10

	if Compare(a, b, SortByQuantity, SortAsc) >= 0 {
		t.Errorf("quantity must compare numerically, not lexically")
	}
}

func TestCompare_AbsentDeliveredAtSortsLowest(t *testing.T) {
	now := time.Now()
	delivered := now.Add(-time.Hour)

	a := mkOrder("A", StatusDelivered, now)
	a.DeliveredAt = &delivered
	b := mkOrder("B", StatusCancelled, now) // never delivered

	if Compare(b, a, SortByDeliveredAt, SortAsc) >= 0 {
		t.Errorf("absent deliveredAt must sort as the lowest value")
	}
}

func TestSortStable_PreservesTieOrder(t *testing.T) {
	now := time.Now()
	list := []*Order{
		mkOrder("first", StatusPending, now),
		mkOrder("second", StatusPending, now),
		mkOrder("third", StatusPending, now),
	}

	SortStable(list, SortByPlacedAt, SortDesc)

	for i, want := range []string{"first", "second", "third"} {
		if list[i].ID != want {
			t.Fatalf("tie at index %d reordered: got %s, want %s", i, list[i].ID, want)
		}
	}
}

func TestSortStable_PartitionsThenSecondary(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	list := []*Order{
		mkOrder("C1", StatusDelivered, day(5)),
		mkOrder("A1", StatusPending, day(1)),
		mkOrder("C2", StatusCancelled, day(9)),
		mkOrder("A2", StatusInTransit, day(3)),
	}

	SortStable(list, SortByPlacedAt, SortDesc)

	want := []string{"A2", "A1", "C2", "C1"}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("index %d: got %s, want %s", i, list[i].ID, id)
		}
	}
}

func TestStatusPartition(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusInTransit} {
		if !s.IsActive() || s.IsCompleted() {
			t.Errorf("%s must be active and not completed", s)
		}
	}
	for _, s := range []Status{StatusDelivered, StatusCancelled} {
		if s.IsActive() || !s.IsCompleted() {
			t.Errorf("%s must be completed and not active", s)
		}
	}
}

func TestClone_DeepCopiesOptionalFields(t *testing.T) {
	now := time.Now()
	o := mkOrder("O1", StatusDelivered, now)
	o.Rider = &Rider{ID: "r1", Name: "Sam", Phone: "555"}
	o.DeliveredAt = &now

	c := o.Clone()
	c.Rider.Name = "changed"
	*c.DeliveredAt = now.Add(time.Hour)

	if o.Rider.Name != "Sam" {
		t.Errorf("clone shares rider with original")
	}
	if !o.DeliveredAt.Equal(now) {
		t.Errorf("clone shares deliveredAt with original")
	}
}
