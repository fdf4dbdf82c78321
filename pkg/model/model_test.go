package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBookingStatus(t *testing.T) {
	for _, s := range BookingStatuses {
		got, ok := ParseBookingStatus(string(s))
		assert.True(t, ok, s)
		assert.Equal(t, s, got)
	}

	for _, raw := range []string{"", "approved", "Pending", "CONFIRMED"} {
		_, ok := ParseBookingStatus(raw)
		assert.False(t, ok, raw)
	}
}

func TestBookingStatus_ActiveAndTerminal(t *testing.T) {
	tests := []struct {
		status   BookingStatus
		active   bool
		terminal bool
	}{
		{BookingPending, true, false},
		{BookingConfirmed, true, false},
		{BookingCancelled, false, true},
		{BookingCompleted, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.active, tt.status.IsActive())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestBooking_HasTimeRange(t *testing.T) {
	assert.True(t, (&Booking{StartTime: "09:00", EndTime: "10:00"}).HasTimeRange())
	assert.False(t, (&Booking{StartTime: "09:00"}).HasTimeRange())
	assert.False(t, (&Booking{EndTime: "10:00"}).HasTimeRange())
	assert.False(t, (&Booking{}).HasTimeRange())
}

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"guest", "owner", "admin"} {
		role, ok := ParseRole(raw)
		assert.True(t, ok)
		assert.Equal(t, Role(raw), role)
	}

	_, ok := ParseRole("superuser")
	assert.False(t, ok)
	assert.True(t, Requester{ID: "u1", Role: RoleAdmin}.IsAdmin())
	assert.False(t, Requester{ID: "u1", Role: RoleOwner}.IsAdmin())
}

func TestWorkspace_IsHourly(t *testing.T) {
	assert.True(t, (&Workspace{PriceUnit: PriceUnitHour}).IsHourly())
	assert.False(t, (&Workspace{PriceUnit: PriceUnitDay}).IsHourly())
}
