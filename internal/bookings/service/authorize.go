package service

import (
	apperrors "deskly/pkg/errors"
	"deskly/pkg/model"
)

type participant int

const (
	participantGuest participant = iota
	participantOwner
)

// authorizeParticipant lets through the booking's guest and the owner of
// its workspace. Admins act as owners.
func authorizeParticipant(requester model.Requester, booking *model.Booking, ws *model.Workspace) (participant, error) {
	if requester.ID == "" {
		return 0, apperrors.Unauthorized("Authentication required")
	}

	switch requester.Role {
	case model.RoleAdmin:
		return participantOwner, nil
	case model.RoleOwner, model.RoleGuest:
		if ws.OwnerID == requester.ID {
			return participantOwner, nil
		}
		if booking.UserID == requester.ID {
			return participantGuest, nil
		}
		return 0, apperrors.Forbidden("You do not have access to this booking")
	default:
		return 0, apperrors.Forbidden("Unknown role")
	}
}

func authorizeOwner(requester model.Requester, ws *model.Workspace) error {
	if requester.ID == "" {
		return apperrors.Unauthorized("Authentication required")
	}

	switch requester.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleOwner, model.RoleGuest:
		if ws.OwnerID == requester.ID {
			return nil
		}
		return apperrors.Forbidden("Only the workspace owner can view its bookings")
	default:
		return apperrors.Forbidden("Unknown role")
	}
}
