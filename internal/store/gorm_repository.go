package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blood-orders/internal/orders"
)

// orderRow is the flat persistence model for an order. Nested
// bank/hospital/rider structs are denormalized into columns; the read
// path is a single indexed scan per hospital.
type orderRow struct {
	ID                string     `gorm:"primaryKey;size:64"`
	BloodType         string     `gorm:"size:4;not null"`
	Quantity          int        `gorm:"not null"`
	BloodBankID       string     `gorm:"size:64"`
	BloodBankName     string     `gorm:"size:255;index"`
	BloodBankLocation string     `gorm:"size:255"`
	HospitalID        string     `gorm:"size:64;index;not null"`
	HospitalName      string     `gorm:"size:255"`
	HospitalLocation  string     `gorm:"size:255"`
	Status            string     `gorm:"size:16;index;not null"`
	RiderID           *string    `gorm:"size:64"`
	RiderName         *string    `gorm:"size:255"`
	RiderPhone        *string    `gorm:"size:32"`
	PlacedAt          time.Time  `gorm:"index;not null"`
	ConfirmedAt       *time.Time
	DeliveredAt       *time.Time
	CancelledAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (orderRow) TableName() string {
	return "blood_orders"
}

// EnsureSchema migrates the order table
func EnsureSchema(db *gorm.DB) error {
	return db.AutoMigrate(&orderRow{})
}

// GormRepository is the PostgreSQL-backed Repository
type GormRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormRepository creates a repository over an open gorm DB
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db, now: time.Now}
}

// SetClock overrides the repository clock; tests use it to make
// lifecycle timestamps deterministic.
func (r *GormRepository) SetClock(now func() time.Time) {
	r.now = now
}

// Save creates or replaces an order record
func (r *GormRepository) Save(ctx context.Context, order *orders.Order) error {
	if order == nil || order.ID == "" {
		return ErrInvalidArgument
	}
	return r.db.WithContext(ctx).Save(toRow(order)).Error
}

// GetByID retrieves an order by id
func (r *GormRepository) GetByID(ctx context.Context, id string) (*orders.Order, error) {
	var row orderRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromRow(&row), nil
}

// ListByHospital returns every order for the hospital, oldest first
func (r *GormRepository) ListByHospital(ctx context.Context, hospitalID string) ([]*orders.Order, error) {
	var rows []orderRow
	err := r.db.WithContext(ctx).
		Where("hospital_id = ?", hospitalID).
		Order("placed_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := make([]*orders.Order, len(rows))
	for i := range rows {
		list[i] = fromRow(&rows[i])
	}
	return list, nil
}

// UpdateStatus applies a status change inside a transaction and
// returns the stream event.
func (r *GormRepository) UpdateStatus(ctx context.Context, id string, status orders.Status, rider *orders.Rider) (*orders.Order, orders.UpdateEvent, error) {
	if !status.IsValid() {
		return nil, orders.UpdateEvent{}, ErrInvalidArgument
	}

	var (
		updated *orders.Order
		event   orders.UpdateEvent
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// SELECT ... FOR UPDATE: concurrent mutations of the same order
		// must serialize on the row, or two of them could both see a nil
		// lifecycle stamp and both write one.
		var row orderRow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		order := fromRow(&row)
		event = applyStatus(order, status, rider, r.now())
		updated = order

		return tx.Save(toRow(order)).Error
	})
	if err != nil {
		return nil, orders.UpdateEvent{}, err
	}
	return updated, event, nil
}

func toRow(o *orders.Order) *orderRow {
	row := &orderRow{
		ID:                o.ID,
		BloodType:         string(o.BloodType),
		Quantity:          o.Quantity,
		BloodBankID:       o.BloodBank.ID,
		BloodBankName:     o.BloodBank.Name,
		BloodBankLocation: o.BloodBank.Location,
		HospitalID:        o.Hospital.ID,
		HospitalName:      o.Hospital.Name,
		HospitalLocation:  o.Hospital.Location,
		Status:            string(o.Status),
		PlacedAt:          o.PlacedAt,
		ConfirmedAt:       o.ConfirmedAt,
		DeliveredAt:       o.DeliveredAt,
		CancelledAt:       o.CancelledAt,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	if o.Rider != nil {
		row.RiderID = &o.Rider.ID
		row.RiderName = &o.Rider.Name
		row.RiderPhone = &o.Rider.Phone
	}
	return row
}

func fromRow(row *orderRow) *orders.Order {
	o := &orders.Order{
		ID:          row.ID,
		BloodType:   orders.BloodType(row.BloodType),
		Quantity:    row.Quantity,
		BloodBank:   orders.BloodBank{ID: row.BloodBankID, Name: row.BloodBankName, Location: row.BloodBankLocation},
		Hospital:    orders.Hospital{ID: row.HospitalID, Name: row.HospitalName, Location: row.HospitalLocation},
		Status:      orders.Status(row.Status),
		PlacedAt:    row.PlacedAt,
		ConfirmedAt: row.ConfirmedAt,
		DeliveredAt: row.DeliveredAt,
		CancelledAt: row.CancelledAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.RiderID != nil {
		o.Rider = &orders.Rider{ID: *row.RiderID}
		if row.RiderName != nil {
			o.Rider.Name = *row.RiderName
		}
		if row.RiderPhone != nil {
			o.Rider.Phone = *row.RiderPhone
		}
	}
	return o
}
