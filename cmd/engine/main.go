package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/openclob/matching-engine/internal/app/engine"
	instrumentv1 "github.com/openclob/matching-engine/internal/domain/instrument/v1"
	orderbookv1 "github.com/openclob/matching-engine/internal/domain/orderbook/v1"
	fillpublisher "github.com/openclob/matching-engine/internal/usecase/fill-publisher"
	"github.com/openclob/matching-engine/internal/usecase/marketdata"
	orderreader "github.com/openclob/matching-engine/internal/usecase/order-reader"
	"github.com/openclob/matching-engine/pkg/config"
	"github.com/openclob/matching-engine/pkg/logger"
	"github.com/openclob/matching-engine/pkg/redis"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = config.MustLoad(&config.Config{})

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	redisConfig := redis.DefaultConfig()
	redisConfig.Addrs = []string{cfg.RedisConfig.Addrs}
	redisConfig.Password = cfg.RedisConfig.Password
	redisConfig.Username = cfg.RedisConfig.Username
	redisConfig.DB = cfg.RedisConfig.DB
	// Initialize Redis client
	rclient := redis.NewClient(log, redisConfig)

	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_redis",
		})
		return
	}

	instrument, err := instrumentv1.NewInstrument(cfg.Pair, cfg.TickSize, cfg.LotSize)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "build_instrument",
		})
		return
	}

	// Initialize components
	book := orderbookv1.NewBook()
	reader := orderreader.NewReader(cfg.KafkaConfig, log)
	publisher := fillpublisher.NewPublisher(cfg.KafkaConfig, log)
	depthStore := marketdata.NewDepthStore(rclient, cfg.Pair, cfg.RedisConfig.DepthChannel, log)

	options := app.OptionsFromConfig(
		cfg.EngineConfig.DepthInterval,
		cfg.EngineConfig.DepthLevels,
		cfg.EngineConfig.QueueSize,
	)
	matchingEngine := app.NewEngineWithOptions(
		book,
		instrument,
		reader,
		publisher,
		depthStore,
		log,
		cfg,
		options,
	)

	// Start the engine
	if err := matchingEngine.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_engine",
		})
		return
	}

	log.Info("Matching engine started successfully", logger.Field{
		Key:   "pair",
		Value: cfg.Pair,
	}, logger.Field{
		Key:   "tickSize",
		Value: cfg.TickSize,
	}, logger.Field{
		Key:   "lotSize",
		Value: cfg.LotSize,
	})

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	// Cancel the main context to signal shutdown
	cancel()

	// Create a timeout context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop the engine gracefully
	if err := matchingEngine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_engine",
		})
	}

	if err := publisher.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_fill_publisher",
		})
	}

	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "disconnect_redis",
		})
	}

	log.Info("Matching engine shutdown complete")
}
