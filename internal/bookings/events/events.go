package events

import (
	"context"
	"time"

	"deskly/pkg/kafka"
	"deskly/pkg/model"
)

type Type string

const (
	TypeBookingCreated       Type = "booking.created"
	TypeBookingStatusChanged Type = "booking.status_changed"
	TypeBookingRescheduled   Type = "booking.rescheduled"
)

const schemaVersion = "1"

// BookingEvent is the payload published for every booking mutation.
type BookingEvent struct {
	Type           Type                `json:"type"`
	BookingID      string              `json:"booking_id"`
	WorkspaceID    string              `json:"workspace_id"`
	WorkspaceName  string              `json:"workspace_name,omitempty"`
	OwnerID        string              `json:"owner_id,omitempty"`
	UserID         string              `json:"user_id"`
	Status         model.BookingStatus `json:"status"`
	PreviousStatus model.BookingStatus `json:"previous_status,omitempty"`
	StartDate      string              `json:"start_date"`
	EndDate        string              `json:"end_date"`
	StartTime      string              `json:"start_time,omitempty"`
	EndTime        string              `json:"end_time,omitempty"`
	TotalPrice     float64             `json:"total_price"`
	Reason         string              `json:"reason,omitempty"`
	ActorID        string              `json:"actor_id,omitempty"`
	OccurredAt     time.Time           `json:"occurred_at"`
}

func NewBookingEvent(t Type, b *model.Booking, ws *model.Workspace, actorID string, at time.Time) BookingEvent {
	ev := BookingEvent{
		Type:        t,
		BookingID:   b.ID,
		WorkspaceID: b.WorkspaceID,
		UserID:      b.UserID,
		Status:      b.Status,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		TotalPrice:  b.TotalPrice,
		Reason:      b.CancellationReason,
		ActorID:     actorID,
		OccurredAt:  at.UTC(),
	}
	if ws != nil {
		ev.WorkspaceName = ws.Name
		ev.OwnerID = ws.OwnerID
	}
	return ev
}

type Publisher interface {
	Publish(ctx context.Context, ev BookingEvent) error
}

type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaPublisher keys messages by workspace so all events of one workspace
// land on the same partition in order.
type KafkaPublisher struct {
	producer publisher
	source   string
}

func NewKafkaPublisher(producer publisher, source string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev BookingEvent) error {
	msg, err := kafka.NewMessage().
		WithKey(ev.WorkspaceID).
		WithEventType(string(ev.Type)).
		WithSchemaVersion(schemaVersion).
		WithSource(p.source).
		WithCorrelationID(CorrelationID(ctx)).
		WithTimestamp(ev.OccurredAt).
		WithValue(ev).
		Build()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, BookingEvent) error {
	return nil
}

type correlationKey struct{}

func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
