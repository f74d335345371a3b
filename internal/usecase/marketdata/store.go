package marketdata

import (
	"context"
	"encoding/json"
	"fmt"

	marketdatav1 "github.com/openclob/matching-engine/internal/domain/marketdata/v1"
	"github.com/openclob/matching-engine/pkg/errors"
	"github.com/openclob/matching-engine/pkg/logger"
	"github.com/openclob/matching-engine/pkg/redis"
)

// Store persists depth snapshots in Redis. The latest snapshot is kept
// under a per-pair key for consumers that poll, and every update is also
// published on the depth channel for consumers that subscribe.
type Store struct {
	pair        string
	channel     string
	logger      *logger.Logger
	redisclient redis.Client
}

// NewDepthStore creates a new depth store for the given pair.
func NewDepthStore(redisclient redis.Client, pair, channel string, logger *logger.Logger) *Store {
	return &Store{
		pair:        pair,
		channel:     channel,
		redisclient: redisclient,
		logger:      logger,
	}
}

func (s *Store) key() string {
	return fmt.Sprintf("depth:%s", s.pair)
}

// Store writes the snapshot to Redis and publishes it on the depth channel.
func (s *Store) Store(ctx context.Context, snapshot *marketdatav1.DepthSnapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: s.pair,
		})
		return errors.NewTracer("depth_marshal_error").Wrap(err)
	}

	if err := s.redisclient.Set(ctx, s.key(), buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: s.pair,
		}, logger.Field{
			Key:   "sequence",
			Value: snapshot.Sequence,
		})
		return errors.NewTracer("depth_store_error").Wrap(err)
	}

	if _, err := s.redisclient.Publish(ctx, s.channel, buf); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: s.pair,
		}, logger.Field{
			Key:   "channel",
			Value: s.channel,
		})
		return errors.NewTracer("depth_publish_error").Wrap(err)
	}

	s.logger.DebugContext(ctx, fmt.Sprintf("Depth stored for pair %s", s.pair), logger.Field{
		Key:   "sequence",
		Value: snapshot.Sequence,
	}, logger.Field{
		Key:   "bids",
		Value: len(snapshot.Bids),
	}, logger.Field{
		Key:   "asks",
		Value: len(snapshot.Asks),
	})
	return nil
}

// Load reads the latest snapshot for the pair from Redis. It returns
// nil without error when no snapshot has been stored yet.
func (s *Store) Load(ctx context.Context) (*marketdatav1.DepthSnapshot, error) {
	data, err := s.redisclient.Get(ctx, s.key())
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: s.pair,
		}, logger.Field{
			Key:   "action",
			Value: "load depth",
		})
		return nil, errors.NewTracer("depth_load_error").Wrap(err)
	}

	if data == "" {
		s.logger.WarnContext(ctx, fmt.Sprintf("No depth snapshot found for pair %s", s.pair), logger.Field{
			Key:   "pair",
			Value: s.pair,
		})
		return nil, nil
	}

	var snapshot marketdatav1.DepthSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: s.pair,
		}, logger.Field{
			Key:   "action",
			Value: "unmarshal depth",
		})
		return nil, errors.NewTracer("depth_unmarshal_error").Wrap(err)
	}

	return &snapshot, nil
}
