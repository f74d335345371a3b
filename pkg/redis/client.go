package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openclob/matching-engine/pkg/errors"
	"github.com/openclob/matching-engine/pkg/logger"
)

type client struct {
	logger  *logger.Logger
	config  *Config
	cmdable redis.Cmdable
}

// NewClient creates a new Redis client with the provided logger and configuration.
func NewClient(logger *logger.Logger, config *Config) Client {
	return &client{
		logger: logger,
		config: config,
	}
}

func (c *client) Connect(ctx context.Context) error {
	var cmdable redis.Cmdable
	if c.config == nil {
		return errors.NewErrorDetails("Redis config is nil", string(errors.RedisConfigError), "connect")
	}

	if len(c.config.Addrs) == 0 {
		return errors.NewErrorDetails("Redis addresses are empty", string(errors.RedisConfigError), "connect")
	}

	if c.config.ConnectTimeout <= 0 {
		return errors.NewErrorDetails("Invalid Redis connect timeout", string(errors.RedisConfigError), "connect")
	}

	if c.config.PoolSize <= 0 {
		return errors.NewErrorDetails("Invalid Redis pool size", string(errors.RedisConfigError), "connect")
	}

	if c.config.MaxIdleConns < 0 {
		return errors.NewErrorDetails("Invalid Redis max idle connections", string(errors.RedisConfigError), "connect")
	}

	if c.config.ConnMaxLifetime <= 0 {
		return errors.NewErrorDetails("Invalid Redis connection max lifetime", string(errors.RedisConfigError), "connect")
	}

	if c.config.ConnMaxIdleTime <= 0 {
		return errors.NewErrorDetails("Invalid Redis connection max idle time", string(errors.RedisConfigError), "connect")
	}

	if c.config.PoolTimeout <= 0 {
		return errors.NewErrorDetails("Invalid Redis pool timeout", string(errors.RedisConfigError), "connect")
	}

	if c.config.MaxRetries < 0 {
		return errors.NewErrorDetails("Invalid Redis max retries", string(errors.RedisConfigError), "connect")
	}

	if c.config.MinRetryBackoff < 0 {
		return errors.NewErrorDetails("Invalid Redis minimum retry backoff", string(errors.RedisConfigError), "connect")
	}

	if c.config.MaxRetryBackoff < 0 {
		return errors.NewErrorDetails("Invalid Redis maximum retry backoff", string(errors.RedisConfigError), "connect")
	}

	switch c.config.Mode {
	case Standalone:
		cmdable = redis.NewClient(&redis.Options{
			Addr:            c.config.Addrs[0],
			Username:        c.config.Username,
			Password:        c.config.Password,
			DB:              c.config.DB,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			MaxIdleConns:    c.config.MaxIdleConns,
			ConnMaxLifetime: c.config.ConnMaxLifetime,
			ConnMaxIdleTime: c.config.ConnMaxIdleTime,
			PoolTimeout:     c.config.PoolTimeout,
		})
	case Cluster:
		cmdable = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:           c.config.Addrs,
			Username:        c.config.Username,
			Password:        c.config.Password,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			MaxIdleConns:    c.config.MaxIdleConns,
			ConnMaxLifetime: c.config.ConnMaxLifetime,
			ConnMaxIdleTime: c.config.ConnMaxIdleTime,
			PoolTimeout:     c.config.PoolTimeout,
		})
	default:
		return errors.NewErrorDetails("Invalid Redis mode", string(errors.RedisConfigError), "connect")
	}

	c.cmdable = cmdable

	if err := c.cmdable.Ping(ctx).Err(); err != nil {
		return errors.NewErrorDetails("Failed to ping Redis", string(errors.RedisPingError), "connect")
	}

	c.logger.Info("Connected to Redis", logger.Field{
		Key:   "mode",
		Value: string(c.config.Mode),
	}, logger.Field{
		Key:   "addrs",
		Value: c.config.Addrs,
	})

	return nil
}

func (c *client) Disconnect(ctx context.Context) error {
	switch c.config.Mode {
	case Standalone:
		return c.cmdable.(*redis.Client).Close()
	case Cluster:
		return c.cmdable.(*redis.ClusterClient).Close()
	default:
		return errors.NewErrorDetails("Unsupported Redis mode for disconnect", string(errors.RedisDisconnectionError), "disconnect")
	}
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.cmdable.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.NewErrorDetails("Failed to get value from Redis", string(errors.RedisGetError), "get")
	}
	return val, nil
}

func (c *client) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if err := c.cmdable.Set(ctx, key, value, expiration).Err(); err != nil {
		return errors.NewErrorDetails("Failed to set value in Redis", string(errors.RedisSetError), "set")
	}
	return nil
}

// Publish sends a message to the given channel. A zero subscriber count is
// not an error, market data channels may have no listeners attached yet.
func (c *client) Publish(ctx context.Context, channel string, message any) (int64, error) {
	var (
		published int64
		err       error
	)

	switch c.config.Mode {
	case Standalone:
		published, err = c.cmdable.(*redis.Client).Publish(ctx, channel, message).Result()
	case Cluster:
		published, err = c.cmdable.(*redis.ClusterClient).Publish(ctx, channel, message).Result()
	default:
		return 0, errors.NewErrorDetails("Unsupported Redis mode for publish", string(errors.RedisPublishError), "publish")
	}

	if err != nil {
		return 0, errors.NewErrorDetails("Failed to publish message to Redis", string(errors.RedisPublishError), "publish")
	}
	return published, nil
}
