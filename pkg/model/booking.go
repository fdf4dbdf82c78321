package model

import (
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// BookingStatuses lists every known status in lifecycle order.
var BookingStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted}

// ActiveBookingStatuses are the statuses that occupy a workspace.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingConfirmed}

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

func (s BookingStatus) IsActive() bool {
	return s == BookingPending || s == BookingConfirmed
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

func (s BookingStatus) String() string {
	return string(s)
}

type ContactInfo struct {
	Name  string `json:"name,omitempty" bson:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email string `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
}

// Booking dates are calendar days (YYYY-MM-DD) and times are wall-clock
// HH:MM values, so both compare correctly as strings.
type Booking struct {
	ID                 string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	WorkspaceID        string        `json:"workspace_id" bson:"workspace_id" validate:"required,mongodb"`
	UserID             string        `json:"user_id" bson:"user_id" validate:"required,max=128"`
	StartDate          string        `json:"start_date" bson:"start_date" validate:"required,calendar_date"`
	EndDate            string        `json:"end_date" bson:"end_date" validate:"required,calendar_date"`
	StartTime          string        `json:"start_time,omitempty" bson:"start_time,omitempty" validate:"omitempty,clock_time"`
	EndTime            string        `json:"end_time,omitempty" bson:"end_time,omitempty" validate:"omitempty,clock_time"`
	Status             BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	TotalPrice         float64       `json:"total_price" bson:"total_price" validate:"min=0"`
	GuestCount         int           `json:"guest_count" bson:"guest_count" validate:"required,min=1,max=1000"`
	SpecialRequests    string        `json:"special_requests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=1000"`
	ContactInfo        *ContactInfo  `json:"contact_info,omitempty" bson:"contact_info,omitempty" validate:"omitempty"`
	CancellationReason string        `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty" validate:"omitempty,max=500"`
	CreatedAt          time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" bson:"updated_at"`
}

// HasTimeRange reports whether both time-of-day bounds are set.
func (b *Booking) HasTimeRange() bool {
	return b.StartTime != "" && b.EndTime != ""
}

type BookingCreate struct {
	WorkspaceID     string       `json:"workspace_id" validate:"required,mongodb"`
	StartDate       string       `json:"start_date" validate:"required,calendar_date"`
	EndDate         string       `json:"end_date" validate:"required,calendar_date"`
	StartTime       string       `json:"start_time,omitempty" validate:"omitempty,clock_time"`
	EndTime         string       `json:"end_time,omitempty" validate:"omitempty,clock_time"`
	GuestCount      int          `json:"guest_count,omitempty" validate:"omitempty,min=1,max=1000"`
	SpecialRequests string       `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
	ContactInfo     *ContactInfo `json:"contact_info,omitempty" validate:"omitempty"`
}

type BookingReschedule struct {
	StartDate string `json:"start_date" validate:"required,calendar_date"`
	EndDate   string `json:"end_date" validate:"required,calendar_date"`
	StartTime string `json:"start_time,omitempty" validate:"omitempty,clock_time"`
	EndTime   string `json:"end_time,omitempty" validate:"omitempty,clock_time"`
}

type BookingStatusChange struct {
	Status             string `json:"status" validate:"required"`
	CancellationReason string `json:"cancellation_reason,omitempty" validate:"omitempty,max=500"`
}

type BookingCancel struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}
