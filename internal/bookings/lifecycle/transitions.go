// Package lifecycle holds the booking status machine, the date and time
// rules a booking range must satisfy, and the price formula.
package lifecycle

import (
	apperrors "deskly/pkg/errors"
	"deskly/pkg/model"
)

// AllowedTransitions maps each status to the statuses reachable from it.
// Cancelled and completed are terminal.
var AllowedTransitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingPending:   {model.BookingConfirmed, model.BookingCancelled},
	model.BookingConfirmed: {model.BookingCancelled, model.BookingCompleted},
	model.BookingCancelled: {},
	model.BookingCompleted: {},
}

func NextStatuses(from model.BookingStatus) []model.BookingStatus {
	next := AllowedTransitions[from]
	out := make([]model.BookingStatus, len(next))
	copy(out, next)
	return out
}

func CanTransition(from, to model.BookingStatus) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition returns an InvalidTransition error listing the legal next
// statuses when from -> to is not allowed.
func Transition(from, to model.BookingStatus) error {
	if CanTransition(from, to) {
		return nil
	}
	next := AllowedTransitions[from]
	allowed := make([]string, 0, len(next))
	for _, s := range next {
		allowed = append(allowed, string(s))
	}
	return apperrors.InvalidTransition(string(from), string(to), allowed)
}

func InitialStatus(ws *model.Workspace) model.BookingStatus {
	if ws.InstantBooking {
		return model.BookingConfirmed
	}
	return model.BookingPending
}
