package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap/zapcore"

	fillpublisherv1 "github.com/openclob/matching-engine/internal/domain/fill-publisher/v1"
	instrumentv1 "github.com/openclob/matching-engine/internal/domain/instrument/v1"
	marketdatav1 "github.com/openclob/matching-engine/internal/domain/marketdata/v1"
	orderreaderv1 "github.com/openclob/matching-engine/internal/domain/order-reader/v1"
	orderbookv1 "github.com/openclob/matching-engine/internal/domain/orderbook/v1"
	"github.com/openclob/matching-engine/pkg/config"
	"github.com/openclob/matching-engine/pkg/logger"
)

// ErrNotRunning is returned by queries before Start or after Stop.
var ErrNotRunning = errors.New("engine is not running")

// Engine owns the order book for one pair. The book itself is not safe for
// concurrent use, so the engine confines it to a single goroutine: order
// requests, analytics queries and depth snapshots all go through that owner,
// which serializes them without the book ever taking a lock.
type Engine struct {
	book          *orderbookv1.Book
	instrument    *instrumentv1.Instrument
	orderReader   orderreaderv1.OrderReader
	fillPublisher fillpublisherv1.FillPublisher
	depthStore    marketdatav1.DepthStore
	logger        *logger.Logger
	config        *config.Config

	// requests and queries are the only ways into the book owner
	// goroutine. executions and depth carry its output to the
	// publisher goroutines so a slow broker never stalls matching.
	requests   chan orderreaderv1.OrderRequest
	queries    chan func(book *orderbookv1.Book)
	executions chan *fillpublisherv1.ExecutionEvent
	depth      chan *marketdatav1.DepthSnapshot

	// latestDepth holds the most recent *marketdatav1.DepthSnapshot for
	// lock-free reads. sequence is owned by the book goroutine.
	latestDepth atomic.Value
	sequence    uint64

	mu              sync.RWMutex
	orderOffset     int64
	totalExecutions int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	depthInterval time.Duration
	depthLevels   int
}

// NewEngine creates a new instance of Engine with the provided dependencies.
func NewEngine(
	book *orderbookv1.Book,
	instrument *instrumentv1.Instrument,
	orderReader orderreaderv1.OrderReader,
	fillPublisher fillpublisherv1.FillPublisher,
	depthStore marketdatav1.DepthStore,
	logger *logger.Logger,
	config *config.Config,
) *Engine {
	return NewEngineWithOptions(book, instrument, orderReader, fillPublisher, depthStore, logger, config, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options.
func NewEngineWithOptions(
	book *orderbookv1.Book,
	instrument *instrumentv1.Instrument,
	orderReader orderreaderv1.OrderReader,
	fillPublisher fillpublisherv1.FillPublisher,
	depthStore marketdatav1.DepthStore,
	logger *logger.Logger,
	config *config.Config,
	options *Options,
) *Engine {
	return &Engine{
		book:          book,
		instrument:    instrument,
		orderReader:   orderReader,
		fillPublisher: fillPublisher,
		depthStore:    depthStore,
		logger:        logger,
		config:        config,

		requests:   make(chan orderreaderv1.OrderRequest, options.QueueSize),
		queries:    make(chan func(book *orderbookv1.Book)),
		executions: make(chan *fillpublisherv1.ExecutionEvent, options.QueueSize),
		depth:      make(chan *marketdatav1.DepthSnapshot, 1),

		orderOffset: -1,

		depthInterval: options.DepthInterval,
		depthLevels:   options.DepthLevels,
	}
}

// Start launches the engine goroutines.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(4)
	go e.runReader()
	go e.runBook()
	go e.runExecutionPublisher()
	go e.runDepthPublisher()

	e.logger.Info("Engine started", logger.Field{
		Key:   "pair",
		Value: e.config.Pair,
	})

	return nil
}

// Stop gracefully shuts down the engine.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Engine stopped gracefully")
		return nil
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}
}

// runReader consumes order requests from the stream and queues them for the
// book goroutine.
func (e *Engine) runReader() {
	defer e.wg.Done()

	e.logger.Info("Starting order reader", logger.Field{
		Key:   "pair",
		Value: e.config.Pair,
	})

	currentOffset := e.getOrderOffset()
	if currentOffset >= 0 {
		// Resume one past the last processed request.
		currentOffset++
	}

	if err := e.orderReader.SetOffset(currentOffset); err != nil {
		e.logger.GetZap().Fatal("Failed to set offset for order reader", zapcore.Field{
			Key:       "error",
			Interface: err,
		})
	}

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Order reader shutting down")
			e.orderReader.Close()
			return
		default:
			msg, request, err := e.orderReader.ReadMessage(e.ctx)
			if err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "read_order_message",
				})
				time.Sleep(100 * time.Millisecond)
				continue
			}

			if err := e.orderReader.CommitMessages(e.ctx, msg); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "commit_order_message",
				})
			}

			select {
			case e.requests <- request:
			case <-e.ctx.Done():
			}
		}
	}
}

// runBook is the book owner goroutine. Nothing else touches the book.
func (e *Engine) runBook() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.depthInterval)
	defer ticker.Stop()

	// Publish an empty snapshot immediately so Depth is served before the
	// first tick.
	e.publishDepth()

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Book owner shutting down")
			return
		case request := <-e.requests:
			if err := e.processOrder(&request); err != nil {
				e.logger.ErrorContext(e.ctx, err,
					logger.Field{Key: "action", Value: "process_order"},
					logger.Field{Key: "requestID", Value: request.RequestID},
					logger.Field{Key: "offset", Value: request.Offset},
				)
				continue
			}
			e.setOrderOffset(request.Offset)
		case query := <-e.queries:
			query(e.book)
		case <-ticker.C:
			e.publishDepth()
		}
	}
}

// processOrder applies a single order request to the book.
func (e *Engine) processOrder(request *orderreaderv1.OrderRequest) error {
	if err := request.Validate(); err != nil {
		return err
	}

	e.logger.Debug("Processing order",
		logger.Field{Key: "requestID", Value: request.RequestID},
		logger.Field{Key: "type", Value: request.Type},
		logger.Field{Key: "offset", Value: request.Offset},
	)

	switch request.Type {
	case orderreaderv1.OrderTypeLimit:
		return e.placeLimit(request)
	case orderreaderv1.OrderTypeMarket:
		return e.executeMarket(request)
	case orderreaderv1.OrderTypeCancel:
		e.cancelOrder(request)
	}
	return nil
}

func (e *Engine) placeLimit(request *orderreaderv1.OrderRequest) error {
	price, err := e.instrument.PriceToTicks(request.Price)
	if err != nil {
		return err
	}
	size, err := e.instrument.SizeToLots(request.Size)
	if err != nil {
		return err
	}

	result, err := e.book.AddLimitOrder(request.Side, price, size)
	if err != nil {
		return err
	}

	e.logger.Debug("Limit order placed",
		logger.Field{Key: "orderID", Value: result.OrderID},
		logger.Field{Key: "requestID", Value: request.RequestID},
		logger.Field{Key: "side", Value: request.Side.String()},
		logger.Field{Key: "filled", Value: result.Execution.Filled},
		logger.Field{Key: "resting", Value: result.Resting},
	)

	if result.Execution.Filled > 0 {
		e.emitExecution(request, result.Execution)
	}
	return nil
}

func (e *Engine) executeMarket(request *orderreaderv1.OrderRequest) error {
	size, err := e.instrument.SizeToLots(request.Size)
	if err != nil {
		return err
	}

	result, err := e.book.ExecuteMarket(request.Side, size)
	if err != nil {
		return err
	}

	if !result.IsComplete() {
		e.logger.Warn("Market order exhausted the book",
			logger.Field{Key: "requestID", Value: request.RequestID},
			logger.Field{Key: "side", Value: request.Side.String()},
			logger.Field{Key: "requested", Value: result.Requested},
			logger.Field{Key: "filled", Value: result.Filled},
			logger.Field{Key: "shortfall", Value: result.Shortfall()},
		)
	}

	if result.Filled > 0 {
		e.emitExecution(request, result)
	}
	return nil
}

func (e *Engine) cancelOrder(request *orderreaderv1.OrderRequest) {
	order, ok := e.book.CancelOrder(request.OrderID)
	if !ok {
		// Already filled or already cancelled. Not an error.
		e.logger.Warn("Cancel for unknown order",
			logger.Field{Key: "orderID", Value: request.OrderID},
			logger.Field{Key: "requestID", Value: request.RequestID},
		)
		return
	}

	e.logger.Debug("Order cancelled",
		logger.Field{Key: "orderID", Value: order.ID},
		logger.Field{Key: "requestID", Value: request.RequestID},
		logger.Field{Key: "remaining", Value: order.Size},
	)
}

// emitExecution queues the execution for publishing. A full queue blocks
// the book on purpose: trade records must not be dropped.
func (e *Engine) emitExecution(request *orderreaderv1.OrderRequest, result orderbookv1.ExecutionResult) {
	event := fillpublisherv1.FromExecution(e.instrument, request.RequestID, request.Side, result)

	e.mu.Lock()
	e.totalExecutions++
	e.mu.Unlock()

	select {
	case e.executions <- event:
	case <-e.ctx.Done():
	}
}

// publishDepth snapshots the top of the book, caches it for lock-free
// reads and hands it to the depth publisher. When the publisher is still
// busy with the previous snapshot this one is dropped: the next tick
// supersedes it.
func (e *Engine) publishDepth() {
	e.sequence++
	snapshot := marketdatav1.FromLevels(
		e.instrument,
		e.sequence,
		e.book.TopBids(e.depthLevels),
		e.book.TopAsks(e.depthLevels),
	)
	e.latestDepth.Store(snapshot)

	select {
	case e.depth <- snapshot:
	default:
	}
}

// runExecutionPublisher publishes execution events in the order the book
// produced them.
func (e *Engine) runExecutionPublisher() {
	defer e.wg.Done()

	for {
		select {
		case <-e.ctx.Done():
			e.flushExecutions()
			e.logger.Info("Execution publisher shutting down")
			return
		case event := <-e.executions:
			e.publishExecution(e.ctx, event)
		}
	}
}

// flushExecutions drains events still queued at shutdown. The book already
// applied these fills, so dropping them would lose trades from the stream.
func (e *Engine) flushExecutions() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for {
		select {
		case event := <-e.executions:
			e.publishExecution(ctx, event)
		default:
			return
		}
	}
}

func (e *Engine) publishExecution(ctx context.Context, event *fillpublisherv1.ExecutionEvent) {
	if err := e.fillPublisher.PublishExecution(ctx, event); err != nil {
		e.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "publish_execution"},
			logger.Field{Key: "executionID", Value: event.ExecutionID},
			logger.Field{Key: "requestID", Value: event.RequestID},
		)
	}
}

// runDepthPublisher ships depth snapshots to the store.
func (e *Engine) runDepthPublisher() {
	defer e.wg.Done()

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Depth publisher shutting down")
			return
		case snapshot := <-e.depth:
			if err := e.depthStore.Store(e.ctx, snapshot); err != nil {
				e.logger.ErrorContext(e.ctx, err,
					logger.Field{Key: "action", Value: "store_depth"},
					logger.Field{Key: "sequence", Value: snapshot.Sequence},
				)
			}
		}
	}
}

// Thread-safe getters and setters
func (e *Engine) getOrderOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.orderOffset
}

func (e *Engine) setOrderOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orderOffset = offset
}

// GetOrderOffset returns the offset of the last processed request.
func (e *Engine) GetOrderOffset() int64 {
	return e.getOrderOffset()
}

// GetTotalExecutions returns the number of executions published so far.
func (e *Engine) GetTotalExecutions() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.totalExecutions
}
