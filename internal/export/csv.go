// Package export projects ordered sequences of orders into CSV for
// download. The projection adds no filtering, sorting, or
// deduplication of its own; row order is the input order.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"blood-orders/internal/orders"
)

// Columns is the fixed CSV header
var Columns = []string{
	"Order ID", "Blood Type", "Quantity", "Blood Bank",
	"Status", "Rider", "Placed At", "Delivered At",
}

// timestampLayout is ISO-8601 with millisecond precision and a UTC
// suffix, irrespective of the record's internal zone.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Rows returns the header row followed by one row per order, in input
// order. Absent rider and deliveredAt encode as empty fields.
func Rows(list []*orders.Order) [][]string {
	rows := make([][]string, 0, len(list)+1)
	rows = append(rows, Columns)
	for _, o := range list {
		rows = append(rows, row(o))
	}
	return rows
}

func row(o *orders.Order) []string {
	rider := ""
	if o.Rider != nil {
		rider = o.Rider.Name
	}
	delivered := ""
	if o.DeliveredAt != nil {
		delivered = formatTimestamp(*o.DeliveredAt)
	}
	return []string{
		o.ID,
		string(o.BloodType),
		fmt.Sprintf("%d", o.Quantity),
		o.BloodBank.Name,
		string(o.Status),
		rider,
		formatTimestamp(o.PlacedAt),
		delivered,
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// Write streams the projection as CSV
func Write(w io.Writer, list []*orders.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Rows(list)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Filename returns the download filename for an export happening at
// the given moment: orders_export_<YYYY-MM-DD>.csv.
func Filename(now time.Time) string {
	return fmt.Sprintf("orders_export_%s.csv", now.Format("2006-01-02"))
}
