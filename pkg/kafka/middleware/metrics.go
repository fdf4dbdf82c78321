package kafka_middleware

import (
	"context"

	"deskly/pkg/kafka"
	"deskly/pkg/metrics"
)

// MetricsProducerMiddleware counts publish outcomes per event type.
func MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		err := next(ctx, msg)
		metrics.IncEventPublished(msg.GetEventType(), err == nil)
		return err
	}
}

func MetricsConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		err := next(ctx, msg)
		metrics.IncEventConsumed(msg.GetEventType(), err == nil)
		return err
	}
}
