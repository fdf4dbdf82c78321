package model

import "time"

type PriceUnit string

const (
	PriceUnitHour  PriceUnit = "hour"
	PriceUnitDay   PriceUnit = "day"
	PriceUnitWeek  PriceUnit = "week"
	PriceUnitMonth PriceUnit = "month"
)

type Workspace struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID        string    `json:"owner_id" bson:"owner_id" validate:"required,max=128"`
	Name           string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description    string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	City           string    `json:"city" bson:"city" validate:"required,min=2,max=50"`
	Address        string    `json:"address" bson:"address" validate:"required,min=2,max=200"`
	Capacity       int       `json:"capacity" bson:"capacity" validate:"min=0,max=1000"`
	PriceUnit      PriceUnit `json:"price_unit" bson:"price_unit" validate:"required,oneof=hour day week month"`
	Price          float64   `json:"price" bson:"price" validate:"min=0"`
	InstantBooking bool      `json:"instant_booking" bson:"instant_booking"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

func (w *Workspace) IsHourly() bool {
	return w.PriceUnit == PriceUnitHour
}

type WorkspaceUpdate struct {
	Name           string    `json:"name,omitempty" bson:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description    string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	City           string    `json:"city,omitempty" bson:"city,omitempty" validate:"omitempty,min=2,max=50"`
	Address        string    `json:"address,omitempty" bson:"address,omitempty" validate:"omitempty,min=2,max=200"`
	Capacity       *int      `json:"capacity,omitempty" bson:"capacity,omitempty" validate:"omitempty,min=0,max=1000"`
	PriceUnit      PriceUnit `json:"price_unit,omitempty" bson:"price_unit,omitempty" validate:"omitempty,oneof=hour day week month"`
	Price          *float64  `json:"price,omitempty" bson:"price,omitempty" validate:"omitempty,min=0"`
	InstantBooking *bool     `json:"instant_booking,omitempty" bson:"instant_booking,omitempty"`
}
