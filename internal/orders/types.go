package orders

import (
	"time"
)

// BloodType represents one of the eight ABO/Rh blood groups
type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

// BloodTypes lists all valid blood types in display order
var BloodTypes = []BloodType{
	BloodTypeAPos, BloodTypeANeg,
	BloodTypeBPos, BloodTypeBNeg,
	BloodTypeABPos, BloodTypeABNeg,
	BloodTypeOPos, BloodTypeONeg,
}

func (b BloodType) IsValid() bool {
	switch b {
	case BloodTypeAPos, BloodTypeANeg, BloodTypeBPos, BloodTypeBNeg,
		BloodTypeABPos, BloodTypeABNeg, BloodTypeOPos, BloodTypeONeg:
		return true
	}
	return false
}

// Status represents the lifecycle status of a blood order
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Statuses lists all valid statuses in lifecycle order
var Statuses = []Status{
	StatusPending, StatusConfirmed, StatusInTransit,
	StatusDelivered, StatusCancelled,
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether the status is in the active partition
// (pending, confirmed, in_transit).
func (s Status) IsActive() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInTransit:
		return true
	}
	return false
}

// IsCompleted reports whether the status is in the completed partition
// (delivered, cancelled).
func (s Status) IsCompleted() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// BloodBank identifies the blood bank fulfilling an order
type BloodBank struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Hospital identifies the ordering hospital; ID is the tenant partition key
type Hospital struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Rider identifies the delivery rider assigned to an order
type Rider struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Order represents a blood order record. A nil Rider means unassigned;
// nil lifecycle timestamps mean the corresponding status was never reached.
type Order struct {
	ID          string     `json:"id"`
	BloodType   BloodType  `json:"bloodType"`
	Quantity    int        `json:"quantity"`
	BloodBank   BloodBank  `json:"bloodBank"`
	Hospital    Hospital   `json:"hospital"`
	Status      Status     `json:"status"`
	Rider       *Rider     `json:"rider"`
	PlacedAt    time.Time  `json:"placedAt"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy of the order
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	if o.Rider != nil {
		r := *o.Rider
		c.Rider = &r
	}
	c.ConfirmedAt = cloneTime(o.ConfirmedAt)
	c.DeliveredAt = cloneTime(o.DeliveredAt)
	c.CancelledAt = cloneTime(o.CancelledAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// UpdateEvent is a partial status update delivered over the live stream.
// Only non-nil optional fields overwrite the target order; unknown JSON
// fields from the transport are ignored.
type UpdateEvent struct {
	ID          string     `json:"id"`
	Status      Status     `json:"status"`
	Rider       *Rider     `json:"rider"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeliveredAt *time.Time `json:"deliveredAt"`
}
