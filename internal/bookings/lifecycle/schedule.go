package lifecycle

import (
	"regexp"
	"time"

	apperrors "deskly/pkg/errors"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// time.Parse accepts "9:30" for TimeLayout; stored times are compared as
// strings, so only zero-padded HH:MM is allowed.
var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Range is a reservation window: inclusive calendar dates plus an optional
// daily time-of-day window.
type Range struct {
	StartDate string
	EndDate   string
	StartTime string
	EndTime   string
}

func (r Range) HasTimeRange() bool {
	return r.StartTime != "" && r.EndTime != ""
}

// Today formats now as a calendar date in now's location.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// ValidateRange checks a requested range against the workspace pricing
// unit and the current date. Every failure is InvalidInput.
func ValidateRange(r Range, hourly bool, today string) error {
	if err := ValidateShape(r, hourly); err != nil {
		return err
	}
	if r.StartDate < today {
		return apperrors.InvalidInput("start_date cannot be in the past").
			WithDetails(map[string]any{"start_date": r.StartDate, "today": today})
	}
	return nil
}

// ValidateShape checks date and time formats and ordering without looking
// at the current date.
func ValidateShape(r Range, hourly bool) error {
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return apperrors.InvalidInput("start_date must be a date in YYYY-MM-DD format")
	}
	end, err := time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return apperrors.InvalidInput("end_date must be a date in YYYY-MM-DD format")
	}
	if end.Before(start) {
		return apperrors.InvalidInput("end_date must be on or after start_date")
	}

	if (r.StartTime == "") != (r.EndTime == "") {
		return apperrors.InvalidInput("start_time and end_time must be provided together")
	}
	if hourly && !r.HasTimeRange() {
		return apperrors.InvalidInput("start_time and end_time are required for hourly workspaces")
	}
	if r.HasTimeRange() {
		if !clockRegex.MatchString(r.StartTime) {
			return apperrors.InvalidInput("start_time must be in HH:MM format")
		}
		if !clockRegex.MatchString(r.EndTime) {
			return apperrors.InvalidInput("end_time must be in HH:MM format")
		}
		if r.EndTime <= r.StartTime {
			return apperrors.InvalidInput("end_time must be later than start_time")
		}
	}
	return nil
}
