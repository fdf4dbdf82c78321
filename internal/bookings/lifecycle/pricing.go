package lifecycle

import (
	"fmt"
	"math"
	"time"

	"deskly/pkg/model"
)

// Units returns how many price units the range spans for the workspace.
//
//	hour:  exact hours per day (minute precision) x days in the range, inclusive
//	day:   end_date - start_date, at least one
//	week:  ceil(days / 7)
//	month: ceil(days / 30)
func Units(ws *model.Workspace, r Range) (float64, error) {
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return 0, fmt.Errorf("parse start_date: %w", err)
	}
	end, err := time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return 0, fmt.Errorf("parse end_date: %w", err)
	}
	span := int(end.Sub(start).Hours() / 24)
	if span < 0 {
		return 0, fmt.Errorf("end_date %s is before start_date %s", r.EndDate, r.StartDate)
	}
	days := max(1, span)

	switch ws.PriceUnit {
	case model.PriceUnitHour:
		if !r.HasTimeRange() {
			return 0, fmt.Errorf("hourly pricing needs start_time and end_time")
		}
		from, err := time.Parse(TimeLayout, r.StartTime)
		if err != nil {
			return 0, fmt.Errorf("parse start_time: %w", err)
		}
		to, err := time.Parse(TimeLayout, r.EndTime)
		if err != nil {
			return 0, fmt.Errorf("parse end_time: %w", err)
		}
		return to.Sub(from).Hours() * float64(span+1), nil
	case model.PriceUnitDay:
		return float64(days), nil
	case model.PriceUnitWeek:
		return math.Ceil(float64(days) / 7), nil
	case model.PriceUnitMonth:
		return math.Ceil(float64(days) / 30), nil
	default:
		return 0, fmt.Errorf("unknown price unit %q", ws.PriceUnit)
	}
}

// Price is Units x workspace price, rounded to cents.
func Price(ws *model.Workspace, r Range) (float64, error) {
	units, err := Units(ws, r)
	if err != nil {
		return 0, err
	}
	return math.Round(units*ws.Price*100) / 100, nil
}
