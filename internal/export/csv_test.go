package export

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"blood-orders/internal/orders"
)

func sampleOrder(id string) *orders.Order {
	placed := time.Date(2024, 2, 10, 14, 30, 45, 123_000_000, time.UTC)
	return &orders.Order{
		ID:        id,
		BloodType: orders.BloodTypeABNeg,
		Quantity:  3,
		BloodBank: orders.BloodBank{ID: "bb1", Name: "Central Blood Bank"},
		Hospital:  orders.Hospital{ID: "h1"},
		Status:    orders.StatusPending,
		PlacedAt:  placed,
		CreatedAt: placed,
		UpdatedAt: placed,
	}
}

func TestRows_HeaderAndShape(t *testing.T) {
	rows := Rows([]*orders.Order{sampleOrder("O1")})

	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	wantHeader := []string{"Order ID", "Blood Type", "Quantity", "Blood Bank",
		"Status", "Rider", "Placed At", "Delivered At"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Errorf("header = %v, want %v", rows[0], wantHeader)
	}
	if len(rows[1]) != len(wantHeader) {
		t.Errorf("row width %d != header width %d", len(rows[1]), len(wantHeader))
	}
}

func TestRows_AbsentRiderIsEmptyField(t *testing.T) {
	rows := Rows([]*orders.Order{sampleOrder("O1")})

	if rider := rows[1][5]; rider != "" {
		t.Errorf("absent rider must encode as empty field, got %q", rider)
	}
}

func TestRows_TimestampFormat(t *testing.T) {
	o := sampleOrder("O1")
	delivered := time.Date(2024, 2, 11, 9, 5, 0, 500_000_000, time.FixedZone("CET", 3600))
	o.DeliveredAt = &delivered

	rows := Rows([]*orders.Order{o})

	if got := rows[1][6]; got != "2024-02-10T14:30:45.123Z" {
		t.Errorf("placedAt = %q, want millisecond-precision UTC", got)
	}
	// CET timestamp must come out converted to UTC with the Z suffix.
	if got := rows[1][7]; got != "2024-02-11T08:05:00.500Z" {
		t.Errorf("deliveredAt = %q, want %q", got, "2024-02-11T08:05:00.500Z")
	}
}

func TestRows_PreservesInputOrder(t *testing.T) {
	rows := Rows([]*orders.Order{sampleOrder("Z"), sampleOrder("A"), sampleOrder("M")})

	want := []string{"Z", "A", "M"}
	for i, id := range want {
		if rows[i+1][0] != id {
			t.Errorf("row %d: got %s, want %s — projection must not reorder", i, rows[i+1][0], id)
		}
	}
}

func TestWrite_QuotesEmbeddedCommasAndQuotes(t *testing.T) {
	o := sampleOrder("O1")
	o.BloodBank.Name = `St. Mary's, "Downtown" Branch`

	var buf bytes.Buffer
	if err := Write(&buf, []*orders.Order{o}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"St. Mary's, ""Downtown"" Branch"`) {
		t.Errorf("embedded comma/quote not escaped:\n%s", out)
	}
}

func TestFilename_UsesExportDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 23, 59, 0, 0, time.UTC)

	if got := Filename(now); got != "orders_export_2024-06-15.csv" {
		t.Errorf("Filename = %q", got)
	}
}
