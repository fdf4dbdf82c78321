package events

import (
	"context"
	"testing"
	"time"

	"deskly/pkg/kafka"
	"deskly/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProducer struct {
	publishFunc func(ctx context.Context, msg kafka.Message) error
}

func (m *mockProducer) Publish(ctx context.Context, msg kafka.Message) error {
	return m.publishFunc(ctx, msg)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	var got kafka.Message
	producer := &mockProducer{publishFunc: func(_ context.Context, msg kafka.Message) error {
		got = msg
		return nil
	}}

	at := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	booking := &model.Booking{
		ID:          "b-1",
		WorkspaceID: "ws-1",
		UserID:      "u-1",
		Status:      model.BookingPending,
		StartDate:   "2025-06-10",
		EndDate:     "2025-06-12",
		TotalPrice:  300,
	}
	ws := &model.Workspace{ID: "ws-1", OwnerID: "o-1", Name: "Loft"}

	ctx := WithCorrelationID(context.Background(), "req-1")
	err := NewKafkaPublisher(producer, "bookings").
		Publish(ctx, NewBookingEvent(TypeBookingCreated, booking, ws, "u-1", at))
	require.NoError(t, err)

	assert.Equal(t, "ws-1", got.Key)
	assert.Equal(t, "booking.created", got.GetEventType())
	assert.Equal(t, "req-1", got.GetCorrelationID())
	assert.Equal(t, "bookings", got.Headers[kafka.HeaderSource])

	var ev BookingEvent
	require.NoError(t, got.DecodeValue(&ev))
	assert.Equal(t, "b-1", ev.BookingID)
	assert.Equal(t, "o-1", ev.OwnerID)
	assert.Equal(t, "Loft", ev.WorkspaceName)
	assert.Equal(t, model.BookingPending, ev.Status)
	assert.True(t, at.Equal(ev.OccurredAt))
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), BookingEvent{}))
}
