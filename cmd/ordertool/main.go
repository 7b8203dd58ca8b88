// ordertool seeds an in-memory order collection, runs one query
// against it, prints the resulting page as a table, and can write the
// CSV export. Useful for eyeballing filter/sort behavior without a
// database or a browser.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"

	"blood-orders/internal/export"
	"blood-orders/internal/orders"
	"blood-orders/internal/query"
	"blood-orders/internal/store"
)

func main() {
	var (
		hospital  = flag.String("hospital", "h1", "hospital id to query as")
		seedCount = flag.Int("seed", 120, "number of synthetic orders to seed")
		seedValue = flag.Int64("seed-rand", 1, "PRNG seed for reproducible fixtures")
		page      = flag.Int("page", 1, "page number")
		pageSize  = flag.Int("page-size", 25, "page size (25, 50 or 100)")
		sortBy    = flag.String("sort", "placedAt", "sort column")
		sortOrder = flag.String("order", "desc", "sort direction (asc|desc)")
		statuses  = flag.String("statuses", "", "comma-joined status filter")
		types     = flag.String("blood-types", "", "comma-joined blood type filter")
		bank      = flag.String("bank", "", "blood bank name search")
		exportDir = flag.String("export", "", "directory to write the CSV export into")
	)
	flag.Parse()

	repo := store.NewMemoryRepository()
	ctx := context.Background()

	rng := rand.New(rand.NewSource(*seedValue))
	if err := seedOrders(ctx, repo, rng, *seedCount, *hospital); err != nil {
		log.Fatalf("seeding: %v", err)
	}

	state := query.DefaultState(*hospital)
	state.Page = *page
	state.PageSize = *pageSize
	state.SortColumn = orders.SortColumn(*sortBy)
	state.SortDirection = orders.SortDirection(*sortOrder)
	state.BloodBankSearch = *bank
	for _, s := range splitFlag(*statuses) {
		state.Statuses = append(state.Statuses, orders.Status(s))
	}
	for _, bt := range splitFlag(*types) {
		state.BloodTypes = append(state.BloodTypes, orders.BloodType(bt))
	}

	all, err := repo.ListByHospital(ctx, *hospital)
	if err != nil {
		log.Fatalf("listing orders: %v", err)
	}

	result, err := query.Execute(all, state)
	if err != nil {
		log.Fatalf("query: %v", err)
	}

	renderPage(result)

	if *exportDir != "" {
		full, err := query.ExecuteAll(all, state)
		if err != nil {
			log.Fatalf("export query: %v", err)
		}
		path := filepath.Join(*exportDir, export.Filename(time.Now()))
		f, err := os.Create(path)
		if err != nil {
			log.Fatalf("creating %s: %v", path, err)
		}
		if err := export.Write(f, full); err != nil {
			f.Close()
			log.Fatalf("writing csv: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("closing %s: %v", path, err)
		}
		log.Printf("wrote %d rows to %s", len(full), path)
	}
}

var bankNames = []string{
	"Central Blood Bank", "St. Mary's & Co", "LifeSource Downtown",
	"Northside Transfusion Center", "Red Crescent Depot",
}

func seedOrders(ctx context.Context, repo *store.MemoryRepository, rng *rand.Rand, count int, hospitalID string) error {
	base := time.Now().AddDate(0, -3, 0)

	for i := 0; i < count; i++ {
		placed := base.Add(time.Duration(rng.Intn(90*24)) * time.Hour)
		status := orders.Statuses[rng.Intn(len(orders.Statuses))]
		bank := bankNames[rng.Intn(len(bankNames))]

		o := &orders.Order{
			ID:        uuid.NewString(),
			BloodType: orders.BloodTypes[rng.Intn(len(orders.BloodTypes))],
			Quantity:  1 + rng.Intn(6),
			BloodBank: orders.BloodBank{ID: "bb-" + bank, Name: bank, Location: "Downtown"},
			Hospital:  orders.Hospital{ID: hospitalID, Name: "General Hospital"},
			Status:    status,
			PlacedAt:  placed,
			CreatedAt: placed,
			UpdatedAt: placed,
		}
		if status == orders.StatusDelivered {
			d := placed.Add(time.Duration(2+rng.Intn(10)) * time.Hour)
			o.DeliveredAt = &d
			o.Rider = &orders.Rider{ID: uuid.NewString(), Name: "Rider " + fmt.Sprint(i%7), Phone: "555-0100"}
		}
		if err := repo.Save(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

func renderPage(page *query.Page) {
	table := tablewriter.NewTable(os.Stdout)
	table.Header("Order ID", "Blood Type", "Qty", "Blood Bank", "Status", "Placed At")

	for _, o := range page.Orders {
		table.Append([]string{
			o.ID[:8],
			string(o.BloodType),
			fmt.Sprint(o.Quantity),
			o.BloodBank.Name,
			string(o.Status),
			o.PlacedAt.Format("2006-01-02 15:04"),
		})
	}

	if err := table.Render(); err != nil {
		log.Fatalf("rendering table: %v", err)
	}
	fmt.Printf("page %d/%d, %d orders total\n", page.CurrentPage, page.TotalPages, page.TotalCount)
}

func splitFlag(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
