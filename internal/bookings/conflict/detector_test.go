package conflict

import (
	"context"
	"errors"
	"testing"

	apperrors "deskly/pkg/errors"
	"deskly/pkg/logger"
	"deskly/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockFinder struct {
	findFunc func(ctx context.Context, workspaceID, startDate, endDate, excludeID string) ([]*model.Booking, error)
	calls    int
}

func (m *mockFinder) FindOverlapping(ctx context.Context, workspaceID, startDate, endDate, excludeID string) ([]*model.Booking, error) {
	m.calls++
	if m.findFunc != nil {
		return m.findFunc(ctx, workspaceID, startDate, endDate, excludeID)
	}
	return nil, nil
}

func booking(id, startDate, endDate, startTime, endTime string, status model.BookingStatus) *model.Booking {
	return &model.Booking{
		ID:          id,
		WorkspaceID: "665f1f77bcf86cd799439011",
		UserID:      "user-1",
		StartDate:   startDate,
		EndDate:     endDate,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      status,
		GuestCount:  1,
	}
}

func TestOverlaps_Dates(t *testing.T) {
	existing := booking("a", "2025-06-10", "2025-06-12", "", "", model.BookingConfirmed)

	tests := []struct {
		name  string
		query Query
		want  bool
	}{
		{"disjoint before", Query{StartDate: "2025-06-01", EndDate: "2025-06-09"}, false},
		{"disjoint after", Query{StartDate: "2025-06-13", EndDate: "2025-06-20"}, false},
		{"touches start day", Query{StartDate: "2025-06-05", EndDate: "2025-06-10"}, true},
		{"touches end day", Query{StartDate: "2025-06-12", EndDate: "2025-06-14"}, true},
		{"contained", Query{StartDate: "2025-06-11", EndDate: "2025-06-11"}, true},
		{"contains", Query{StartDate: "2025-06-01", EndDate: "2025-06-30"}, true},
		{"excluded self", Query{StartDate: "2025-06-10", EndDate: "2025-06-12", ExcludeBookingID: "a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(existing, tt.query, false))
		})
	}
}

func TestOverlaps_InactiveStatusesNeverConflict(t *testing.T) {
	q := Query{StartDate: "2025-06-10", EndDate: "2025-06-12"}

	for _, status := range []model.BookingStatus{model.BookingCancelled, model.BookingCompleted} {
		assert.False(t, Overlaps(booking("a", "2025-06-10", "2025-06-12", "", "", status), q, false), status)
	}
	for _, status := range model.ActiveBookingStatuses {
		assert.True(t, Overlaps(booking("a", "2025-06-10", "2025-06-12", "", "", status), q, false), status)
	}
}

func TestOverlaps_HourlyTimes(t *testing.T) {
	tests := []struct {
		name     string
		existing *model.Booking
		query    Query
		hourly   bool
		want     bool
	}{
		{
			name:     "touching boundary is not overlap",
			existing: booking("a", "2025-06-01", "2025-06-01", "09:00", "12:00", model.BookingPending),
			query:    Query{StartDate: "2025-06-01", EndDate: "2025-06-01", StartTime: "12:00", EndTime: "15:00"},
			hourly:   true,
			want:     false,
		},
		{
			name:     "partial overlap",
			existing: booking("a", "2025-06-01", "2025-06-01", "09:00", "13:00", model.BookingPending),
			query:    Query{StartDate: "2025-06-01", EndDate: "2025-06-01", StartTime: "12:00", EndTime: "15:00"},
			hourly:   true,
			want:     true,
		},
		{
			name:     "candidate ends where existing starts",
			existing: booking("a", "2025-06-01", "2025-06-01", "12:00", "15:00", model.BookingConfirmed),
			query:    Query{StartDate: "2025-06-01", EndDate: "2025-06-01", StartTime: "09:00", EndTime: "12:00"},
			hourly:   true,
			want:     false,
		},
		{
			name:     "same day different dates never reach time check",
			existing: booking("a", "2025-06-02", "2025-06-02", "09:00", "12:00", model.BookingConfirmed),
			query:    Query{StartDate: "2025-06-01", EndDate: "2025-06-01", StartTime: "09:00", EndTime: "12:00"},
			hourly:   true,
			want:     false,
		},
		{
			name:     "existing without times occupies the day",
			existing: booking("a", "2025-06-01", "2025-06-01", "", "", model.BookingConfirmed),
			query:    Query{StartDate: "2025-06-01", EndDate: "2025-06-01", StartTime: "18:00", EndTime: "19:00"},
			hourly:   true,
			want:     true,
		},
		{
			name:     "existing with only start time is treated as full day",
			existing: booking("a", "2025-06-01", "2025-06-01", "09:00", "", model.BookingConfirmed),
			query:    Query{StartDate: "2025-06-01", EndDate: "2025-06-01", StartTime: "18:00", EndTime: "19:00"},
			hourly:   true,
			want:     true,
		},
		{
			name:     "candidate without times occupies the day",
			existing: booking("a", "2025-06-01", "2025-06-01", "09:00", "10:00", model.BookingConfirmed),
			query:    Query{StartDate: "2025-06-01", EndDate: "2025-06-01"},
			hourly:   true,
			want:     true,
		},
		{
			name:     "non hourly ignores disjoint times",
			existing: booking("a", "2025-06-01", "2025-06-01", "09:00", "10:00", model.BookingConfirmed),
			query:    Query{StartDate: "2025-06-01", EndDate: "2025-06-01", StartTime: "18:00", EndTime: "19:00"},
			hourly:   false,
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.existing, tt.query, tt.hourly))
		})
	}
}

func TestDetector_Check_AvailabilityScenarios(t *testing.T) {
	a := booking("a", "2025-06-01", "2025-06-01", "09:00", "12:00", model.BookingPending)
	finder := &mockFinder{
		findFunc: func(_ context.Context, _, _, _, _ string) ([]*model.Booking, error) {
			return []*model.Booking{a}, nil
		},
	}
	detector := NewDetector(finder, logger.Discard())

	busy := Query{WorkspaceID: a.WorkspaceID, StartDate: "2025-06-01", EndDate: "2025-06-01", StartTime: "10:00", EndTime: "11:00"}
	result, err := detector.Check(context.Background(), busy, true)
	require.NoError(t, err)
	require.True(t, result.HasConflict())
	require.Len(t, result.Ranges(), 1)
	assert.Equal(t, "a", result.Ranges()[0].ID)
	assert.Equal(t, model.BookingPending, result.Ranges()[0].Status)

	free := Query{WorkspaceID: a.WorkspaceID, StartDate: "2025-06-01", EndDate: "2025-06-01", StartTime: "12:00", EndTime: "13:00"}
	result, err = detector.Check(context.Background(), free, true)
	require.NoError(t, err)
	assert.False(t, result.HasConflict())
	assert.Empty(t, result.Ranges())
}

func TestDetector_Check_Idempotent(t *testing.T) {
	finder := &mockFinder{
		findFunc: func(_ context.Context, _, _, _, _ string) ([]*model.Booking, error) {
			return []*model.Booking{
				booking("a", "2025-06-01", "2025-06-02", "", "", model.BookingConfirmed),
				booking("b", "2025-06-05", "2025-06-06", "", "", model.BookingPending),
			}, nil
		},
	}
	detector := NewDetector(finder, logger.Discard())
	q := Query{WorkspaceID: "w", StartDate: "2025-06-02", EndDate: "2025-06-05"}

	first, err := detector.Check(context.Background(), q, false)
	require.NoError(t, err)
	second, err := detector.Check(context.Background(), q, false)
	require.NoError(t, err)

	assert.Equal(t, first.Ranges(), second.Ranges())
	assert.Len(t, first.Conflicts, 2)
	assert.Equal(t, 2, finder.calls)
}

func TestDetector_Check_PassesExclusionToFinder(t *testing.T) {
	var gotExclude string
	finder := &mockFinder{
		findFunc: func(_ context.Context, _, _, _, excludeID string) ([]*model.Booking, error) {
			gotExclude = excludeID
			return []*model.Booking{booking("self", "2025-06-01", "2025-06-03", "", "", model.BookingConfirmed)}, nil
		},
	}
	detector := NewDetector(finder, logger.Discard())

	result, err := detector.Check(context.Background(), Query{
		WorkspaceID:      "w",
		StartDate:        "2025-06-01",
		EndDate:          "2025-06-03",
		ExcludeBookingID: "self",
	}, false)

	require.NoError(t, err)
	assert.Equal(t, "self", gotExclude)
	assert.False(t, result.HasConflict())
}

func TestDetector_Check_LookupFailureIsUnavailable(t *testing.T) {
	cause := errors.New("server selection timeout")
	finder := &mockFinder{
		findFunc: func(_ context.Context, _, _, _, _ string) ([]*model.Booking, error) {
			return nil, cause
		},
	}
	detector := NewDetector(finder, logger.Discard())

	result, err := detector.Check(context.Background(), Query{WorkspaceID: "w", StartDate: "2025-06-01", EndDate: "2025-06-01"}, false)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnavailable))
	assert.True(t, errors.Is(err, cause))
}
