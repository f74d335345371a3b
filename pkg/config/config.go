package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// MustLoad loads the configuration from the environment into cfg and panics
// when a required variable is missing or malformed. A .env file is applied
// first when one is present.
func MustLoad[T any](cfg T) T {
	_ = godotenv.Load()

	return env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from a .env file and the environment into cfg.
func Load[T any](cfg T) error {
	err := godotenv.Load()
	if err != nil {
		return err
	}

	return env.Parse(cfg)
}

// Config holds the configuration for the matching engine service.
type Config struct {
	// Pair is the trading pair this engine instance owns, e.g. "BTC-USD".
	Pair string `env:"PAIR,required"`
	// TickSize is the price increment of the pair. Prices are stored as
	// integer multiples of this increment.
	TickSize decimal.Decimal `env:"TICK_SIZE" envDefault:"0.01"`
	// LotSize is the size increment of the pair. Quantities are stored as
	// integer multiples of this increment.
	LotSize decimal.Decimal `env:"LOT_SIZE" envDefault:"0.001"`

	KafkaConfig  KafkaConfig  `envPrefix:"KAFKA_"`
	RedisConfig  RedisConfig  `envPrefix:"REDIS_"`
	EngineConfig EngineConfig `envPrefix:"ENGINE_"`
}

// KafkaConfig holds the Kafka configuration for the matching engine service.
type KafkaConfig struct {
	OrderTopic string   `env:"ORDER_TOPIC,required"`
	FillTopic  string   `env:"FILL_TOPIC,required"`
	Brokers    []string `env:"BROKER,required"`
}

// RedisConfig holds the Redis configuration for the matching engine service.
type RedisConfig struct {
	Addrs        string `env:"ADDRESS,required"`
	Password     string `env:"PASSWORD" envDefault:""`
	Username     string `env:"USERNAME" envDefault:""`
	DB           int    `env:"DB" envDefault:"0"`
	DepthChannel string `env:"DEPTH_CHANNEL" envDefault:"marketdata.depth"`
}

// EngineConfig holds tuning knobs for the engine loops.
type EngineConfig struct {
	// DepthInterval is how often the depth snapshot publisher wakes up.
	DepthInterval time.Duration `env:"DEPTH_INTERVAL" envDefault:"1s"`
	// DepthLevels is the number of price levels per side included in
	// published depth snapshots.
	DepthLevels int `env:"DEPTH_LEVELS" envDefault:"10"`
	// QueueSize is the capacity of the inbound order queue between the
	// Kafka reader and the book owner goroutine.
	QueueSize int `env:"QUEUE_SIZE" envDefault:"1024"`
}
