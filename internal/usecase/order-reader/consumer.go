package orderreader

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	orderreaderv1 "github.com/openclob/matching-engine/internal/domain/order-reader/v1"
	"github.com/openclob/matching-engine/pkg/config"
	"github.com/openclob/matching-engine/pkg/logger"
)

// Reader consumes order requests from the order topic. It reads a single
// partition at an explicit offset: the engine owns offset tracking, so a
// restart replays from wherever the engine decides to resume. Matching
// correctness depends on requests arriving in partition order, which a
// consumer group rebalance could not guarantee.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      *logger.Logger
}

// NewReader creates a Kafka reader for the order topic.
func NewReader(cfg config.KafkaConfig, log *logger.Logger) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.OrderTopic,
		Partition:   0,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return &Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

// logError is a helper method to log errors consistently.
func (r *Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "operation", Value: operation},
	)
}

// SetOffset positions the reader at the given offset.
func (r *Reader) SetOffset(offset int64) error {
	if err := r.kafkaReader.SetOffset(offset); err != nil {
		r.logError(err, "SetOffset")
		return err
	}
	return nil
}

// ReadMessage reads one message and parses it as an OrderRequest. The
// message offset is copied onto the request for the engine's tracking.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, orderreaderv1.OrderRequest, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		r.logError(err, "ReadMessage")
		return kafka.Message{}, orderreaderv1.OrderRequest{}, err
	}

	var request orderreaderv1.OrderRequest
	if err := json.Unmarshal(msg.Value, &request); err != nil {
		r.logError(err, "UnmarshalOrderRequest")
		return kafka.Message{}, orderreaderv1.OrderRequest{}, err
	}

	request.Offset = msg.Offset

	r.logger.Debug("ReadMessage",
		logger.Field{Key: "requestID", Value: request.RequestID},
		logger.Field{Key: "type", Value: request.Type},
		logger.Field{Key: "side", Value: request.Side.String()},
		logger.Field{Key: "price", Value: request.Price},
		logger.Field{Key: "size", Value: request.Size},
		logger.Field{Key: "offset", Value: request.Offset},
	)

	return msg, request, nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}

// CommitMessages is a no-op: the reader runs without a consumer group and
// the engine keeps its own offset, re-applied through SetOffset on start.
func (r *Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	return nil
}
