// Package conflict decides whether a proposed reservation of a workspace
// overlaps an existing active booking.
//
// Date ranges are inclusive on both ends. For hourly workspaces the
// time-of-day ranges are half-open, so 09:00-12:00 and 12:00-15:00 on the
// same day do not collide. A booking that lacks either time bound occupies
// the whole of every day in its date range.
package conflict

import (
	"context"

	apperrors "deskly/pkg/errors"
	"deskly/pkg/logger"
	"deskly/pkg/model"
)

type Query struct {
	WorkspaceID      string
	StartDate        string
	EndDate          string
	StartTime        string
	EndTime          string
	ExcludeBookingID string
}

func (q Query) hasTimeRange() bool {
	return q.StartTime != "" && q.EndTime != ""
}

// Finder returns the active bookings of a workspace whose date range
// intersects [startDate, endDate], without the booking excludeID.
type Finder interface {
	FindOverlapping(ctx context.Context, workspaceID, startDate, endDate, excludeID string) ([]*model.Booking, error)
}

type Range struct {
	ID        string              `json:"id"`
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
	StartTime string              `json:"start_time,omitempty"`
	EndTime   string              `json:"end_time,omitempty"`
	Status    model.BookingStatus `json:"status"`
}

type Result struct {
	Conflicts []*model.Booking
}

func (r *Result) HasConflict() bool {
	return len(r.Conflicts) > 0
}

// Ranges is the client-facing view of the conflicting bookings.
func (r *Result) Ranges() []Range {
	ranges := make([]Range, 0, len(r.Conflicts))
	for _, b := range r.Conflicts {
		ranges = append(ranges, Range{
			ID:        b.ID,
			StartDate: b.StartDate,
			EndDate:   b.EndDate,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			Status:    b.Status,
		})
	}
	return ranges
}

type Detector struct {
	finder Finder
	log    *logger.Logger
}

func NewDetector(finder Finder, log *logger.Logger) *Detector {
	return &Detector{finder: finder, log: log}
}

// Check never reports "no conflict" when the lookup itself fails: storage
// errors come back as an Unavailable AppError so callers can retry.
func (d *Detector) Check(ctx context.Context, q Query, hourly bool) (*Result, error) {
	candidates, err := d.finder.FindOverlapping(ctx, q.WorkspaceID, q.StartDate, q.EndDate, q.ExcludeBookingID)
	if err != nil {
		d.log.Error("conflict lookup failed",
			"workspace_id", q.WorkspaceID,
			"start_date", q.StartDate,
			"end_date", q.EndDate,
			"error", err,
		)
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Unavailable("Booking store", err)
	}

	result := &Result{}
	for _, existing := range candidates {
		if Overlaps(existing, q, hourly) {
			result.Conflicts = append(result.Conflicts, existing)
		}
	}

	if result.HasConflict() {
		d.log.Debug("conflicting bookings found",
			"workspace_id", q.WorkspaceID,
			"count", len(result.Conflicts),
		)
	}
	return result, nil
}

// Overlaps re-applies the full predicate in memory, so it is safe to feed it
// bookings that the storage query over-selected.
func Overlaps(existing *model.Booking, q Query, hourly bool) bool {
	if existing == nil || !existing.Status.IsActive() {
		return false
	}
	if q.ExcludeBookingID != "" && existing.ID == q.ExcludeBookingID {
		return false
	}
	if existing.StartDate > q.EndDate || existing.EndDate < q.StartDate {
		return false
	}
	if !hourly {
		return true
	}
	if !existing.HasTimeRange() || !q.hasTimeRange() {
		return true
	}
	return existing.StartTime < q.EndTime && existing.EndTime > q.StartTime
}
