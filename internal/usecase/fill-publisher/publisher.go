package fillpublisher

import (
	"context"

	"github.com/segmentio/kafka-go"

	fillpublisherv1 "github.com/openclob/matching-engine/internal/domain/fill-publisher/v1"
	"github.com/openclob/matching-engine/pkg/config"
	"github.com/openclob/matching-engine/pkg/errors"
	"github.com/openclob/matching-engine/pkg/logger"
)

// Publisher represents a Kafka publisher for publishing execution events.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      *logger.Logger
}

// NewPublisher creates a new Kafka publisher for publishing execution events.
func NewPublisher(cfg config.KafkaConfig, log *logger.Logger) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.FillTopic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// PublishExecution publishes an execution event to the fill topic. The
// execution ID keys the message so replays can be deduplicated downstream.
func (p *Publisher) PublishExecution(ctx context.Context, event *fillpublisherv1.ExecutionEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.ExecutionID),
		Value: fillpublisherv1.ToBytes(event),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "executionID", Value: event.ExecutionID},
			logger.Field{Key: "requestID", Value: event.RequestID},
		)
		return errors.NewTracer("failed to publish execution event")
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
