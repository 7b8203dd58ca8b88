package store

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"blood-orders/internal/orders"
)

// openTestRepo connects to the postgres instance named by
// BLOOD_ORDERS_TEST_DSN, or skips the test when none is available.
func openTestRepo(t *testing.T) *GormRepository {
	t.Helper()

	dsn := os.Getenv("BLOOD_ORDERS_TEST_DSN")
	if dsn == "" {
		t.Skip("BLOOD_ORDERS_TEST_DSN not set; skipping postgres tests")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("migrating schema: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM blood_orders")
	})

	return NewGormRepository(db)
}

func TestGormRepository_RoundTrip(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	saved := seedOrder("O1", "h1")
	saved.Rider = &orders.Rider{ID: "r1", Name: "Sam", Phone: "555-0101"}
	if err := repo.Save(ctx, saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "O1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Hospital.ID != "h1" || got.BloodType != saved.BloodType {
		t.Errorf("row round trip lost fields: %+v", got)
	}
	if got.Rider == nil || got.Rider.Name != "Sam" {
		t.Errorf("rider columns lost: %+v", got.Rider)
	}

	list, err := repo.ListByHospital(ctx, "h1")
	if err != nil {
		t.Fatalf("ListByHospital failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 order for h1, got %d", len(list))
	}
}

func TestGormRepository_ConcurrentUpdateStatusStampsOnce(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, seedOrder("O1", "h1")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Every call gets a distinct clock reading, so a double stamp would
	// be visible as diverging deliveredAt values.
	var ticks int64
	base := time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC)
	repo.SetClock(func() time.Time {
		return base.Add(time.Duration(atomic.AddInt64(&ticks, 1)) * time.Second)
	})

	const writers = 8
	events := make([]orders.UpdateEvent, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, event, err := repo.UpdateStatus(ctx, "O1", orders.StatusDelivered, nil)
			if err != nil {
				t.Errorf("UpdateStatus failed: %v", err)
				return
			}
			events[i] = event
		}(i)
	}
	wg.Wait()

	stored, err := repo.GetByID(ctx, "O1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.DeliveredAt == nil {
		t.Fatal("deliveredAt never stamped")
	}

	// The first transaction to commit stamps; the row lock forces every
	// later one to see the existing stamp and carry it unchanged.
	for i, event := range events {
		if event.DeliveredAt == nil {
			t.Fatalf("event %d missing deliveredAt", i)
		}
		if !event.DeliveredAt.Equal(*stored.DeliveredAt) {
			t.Errorf("event %d reports deliveredAt %v, stored %v — stamp was overwritten",
				i, event.DeliveredAt, stored.DeliveredAt)
		}
	}
}
