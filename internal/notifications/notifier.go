// Package notifications turns booking events into messages for the guest
// and the workspace owner.
package notifications

import (
	"context"
	"fmt"

	"deskly/internal/bookings/events"
	"deskly/pkg/kafka"
	"deskly/pkg/logger"
	"deskly/pkg/model"
)

type Notification struct {
	RecipientID string `json:"recipient_id"`
	BookingID   string `json:"booking_id"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// LogSender writes notifications to the log. Delivery channels plug in
// behind Sender.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, n Notification) error {
	s.log.Info("Notification sent",
		"recipient_id", n.RecipientID,
		"booking_id", n.BookingID,
		"subject", n.Subject,
	)
	return nil
}

type Handler struct {
	sender Sender
	log    *logger.Logger
}

func NewHandler(sender Sender, log *logger.Logger) *Handler {
	return &Handler{sender: sender, log: log}
}

// Handle is a kafka.MessageHandler. Undecodable payloads are permanent
// failures; a failing sender is retried.
func (h *Handler) Handle(ctx context.Context, msg kafka.Message) error {
	var ev events.BookingEvent
	if err := msg.DecodeValue(&ev); err != nil {
		return kafka.NewPermanentError("decode booking event", err)
	}

	notifications := Build(ev)
	if len(notifications) == 0 {
		h.log.Debug("Booking event needs no notification", "type", ev.Type, "booking_id", ev.BookingID)
		return nil
	}
	for _, n := range notifications {
		if err := h.sender.Send(ctx, n); err != nil {
			return kafka.NewTransientError("send notification", err)
		}
	}
	return nil
}

// Build lists the notifications an event produces. Actors are not
// notified of their own actions.
func Build(ev events.BookingEvent) []Notification {
	var out []Notification
	add := func(recipient, subject, body string) {
		if recipient == "" || recipient == ev.ActorID {
			return
		}
		out = append(out, Notification{
			RecipientID: recipient,
			BookingID:   ev.BookingID,
			Subject:     subject,
			Body:        body,
		})
	}

	when := dateRange(ev)
	switch ev.Type {
	case events.TypeBookingCreated:
		if ev.Status == model.BookingConfirmed {
			add(ev.OwnerID, "New booking", fmt.Sprintf("%s is booked %s.", ev.WorkspaceName, when))
		} else {
			add(ev.OwnerID, "Booking request", fmt.Sprintf("A guest asked to book %s %s.", ev.WorkspaceName, when))
		}
	case events.TypeBookingStatusChanged:
		body := fmt.Sprintf("Your booking of %s %s is now %s.", ev.WorkspaceName, when, ev.Status)
		if ev.Reason != "" {
			body += " Reason: " + ev.Reason
		}
		add(ev.UserID, "Booking "+string(ev.Status), body)
		add(ev.OwnerID, "Booking "+string(ev.Status), fmt.Sprintf("The booking of %s %s is now %s.", ev.WorkspaceName, when, ev.Status))
	case events.TypeBookingRescheduled:
		add(ev.OwnerID, "Booking rescheduled", fmt.Sprintf("A booking of %s moved to %s.", ev.WorkspaceName, when))
	}
	return out
}

func dateRange(ev events.BookingEvent) string {
	s := "from " + ev.StartDate + " to " + ev.EndDate
	if ev.StartDate == ev.EndDate {
		s = "on " + ev.StartDate
	}
	if ev.StartTime != "" && ev.EndTime != "" {
		s += ", " + ev.StartTime + "-" + ev.EndTime
	}
	return s
}
