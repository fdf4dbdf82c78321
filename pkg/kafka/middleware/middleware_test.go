package kafka_middleware

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"deskly/pkg/kafka"
	"deskly/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage(t *testing.T) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().
		WithKey("ws-1").
		WithEventType("booking.created").
		WithValue(map[string]string{"booking_id": "b-1"}).
		Build()
	require.NoError(t, err)
	return msg
}

func TestLoggingProducerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf, Level: logger.DEBUG})
	mw := LoggingProducerMiddleware(log)

	err := mw(context.Background(), testMessage(t), func(context.Context, kafka.Message) error { return nil })
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Published message")
	assert.Contains(t, buf.String(), "booking.created")

	buf.Reset()
	boom := errors.New("broker down")
	err = mw(context.Background(), testMessage(t), func(context.Context, kafka.Message) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), "Failed to publish message")
	assert.Contains(t, buf.String(), "broker down")
}

func TestLoggingConsumerMiddleware_PassesErrorThrough(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf, Level: logger.DEBUG})
	mw := LoggingConsumerMiddleware(log)

	boom := errors.New("decode failed")
	err := mw(context.Background(), testMessage(t), func(context.Context, kafka.Message) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), "Failed to process message")
}

func TestMetricsMiddleware_CallsNext(t *testing.T) {
	called := 0
	next := func(context.Context, kafka.Message) error {
		called++
		return nil
	}

	require.NoError(t, MetricsProducerMiddleware()(context.Background(), testMessage(t), next))
	require.NoError(t, MetricsConsumerMiddleware()(context.Background(), testMessage(t), next))
	assert.Equal(t, 2, called)
}
