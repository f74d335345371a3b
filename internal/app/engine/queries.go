package engine

import (
	"context"

	"github.com/shopspring/decimal"

	marketdatav1 "github.com/openclob/matching-engine/internal/domain/marketdata/v1"
	orderbookv1 "github.com/openclob/matching-engine/internal/domain/orderbook/v1"
)

// Queries run inside the book owner goroutine, so they observe a consistent
// book without any locking. Each call costs one round trip through the
// queries channel; Depth is the exception, served from the cached snapshot.

// inspect runs fn on the book inside the owner goroutine and waits for it
// to finish.
func (e *Engine) inspect(ctx context.Context, fn func(book *orderbookv1.Book)) error {
	if e.ctx == nil {
		return ErrNotRunning
	}

	done := make(chan struct{})
	wrapped := func(book *orderbookv1.Book) {
		fn(book)
		close(done)
	}

	select {
	case e.queries <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	case <-e.ctx.Done():
		return ErrNotRunning
	}

	select {
	case <-done:
		return nil
	case <-e.ctx.Done():
		return ErrNotRunning
	}
}

// Depth returns the latest published depth snapshot without blocking the
// book. It is nil until the engine has started.
func (e *Engine) Depth() *marketdatav1.DepthSnapshot {
	snapshot, _ := e.latestDepth.Load().(*marketdatav1.DepthSnapshot)
	return snapshot
}

// BestBid returns the highest bid level, or nil when the bid side is empty.
func (e *Engine) BestBid(ctx context.Context) (*marketdatav1.DepthLevel, error) {
	return e.bestOf(ctx, (*orderbookv1.Book).BestBid)
}

// BestAsk returns the lowest ask level, or nil when the ask side is empty.
func (e *Engine) BestAsk(ctx context.Context) (*marketdatav1.DepthLevel, error) {
	return e.bestOf(ctx, (*orderbookv1.Book).BestAsk)
}

func (e *Engine) bestOf(ctx context.Context, pick func(*orderbookv1.Book) (orderbookv1.Level, bool)) (*marketdatav1.DepthLevel, error) {
	var (
		level orderbookv1.Level
		ok    bool
	)
	if err := e.inspect(ctx, func(book *orderbookv1.Book) {
		level, ok = pick(book)
	}); err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	return &marketdatav1.DepthLevel{
		Price:  e.instrument.PriceFromTicks(level.Price),
		Volume: e.instrument.SizeFromLots(level.Volume),
		Orders: level.Orders,
	}, nil
}

// Spread returns best ask minus best bid. ok is false while either side
// is empty.
func (e *Engine) Spread(ctx context.Context) (spread decimal.Decimal, ok bool, err error) {
	var ticks int64
	err = e.inspect(ctx, func(book *orderbookv1.Book) {
		ticks, ok = book.Spread()
	})
	if err != nil {
		return decimal.Zero, false, err
	}
	if !ok {
		return decimal.Zero, false, nil
	}
	return e.instrument.PriceFromTicks(ticks), true, nil
}

// MidPrice returns the midpoint between best bid and best ask. ok is false
// while either side is empty.
func (e *Engine) MidPrice(ctx context.Context) (mid decimal.Decimal, ok bool, err error) {
	var bid, ask orderbookv1.Level
	var bidOK, askOK bool
	err = e.inspect(ctx, func(book *orderbookv1.Book) {
		bid, bidOK = book.BestBid()
		ask, askOK = book.BestAsk()
	})
	if err != nil || !bidOK || !askOK {
		return decimal.Zero, false, err
	}

	two := decimal.NewFromInt(2)
	return e.instrument.PriceFromTicks(bid.Price + ask.Price).Div(two), true, nil
}

// PriceForBuy estimates the volume weighted average price of buying size
// against the resting asks. The book is not mutated.
func (e *Engine) PriceForBuy(ctx context.Context, size decimal.Decimal) (decimal.Decimal, error) {
	return e.priceFor(ctx, size, (*orderbookv1.Book).PriceForBuy)
}

// PriceForSell estimates the volume weighted average price of selling size
// against the resting bids. The book is not mutated.
func (e *Engine) PriceForSell(ctx context.Context, size decimal.Decimal) (decimal.Decimal, error) {
	return e.priceFor(ctx, size, (*orderbookv1.Book).PriceForSell)
}

func (e *Engine) priceFor(ctx context.Context, size decimal.Decimal, estimate func(*orderbookv1.Book, int64) (float64, error)) (decimal.Decimal, error) {
	lots, err := e.instrument.SizeToLots(size)
	if err != nil {
		return decimal.Zero, err
	}

	var (
		average  float64
		priceErr error
	)
	if err := e.inspect(ctx, func(book *orderbookv1.Book) {
		average, priceErr = estimate(book, lots)
	}); err != nil {
		return decimal.Zero, err
	}
	if priceErr != nil {
		return decimal.Zero, priceErr
	}

	return decimal.NewFromFloat(average).Mul(e.instrument.TickSize), nil
}

// Slippage estimates the relative market impact of an order of the given
// size: positive for buys, negative for sells.
func (e *Engine) Slippage(ctx context.Context, taker orderbookv1.Side, size decimal.Decimal) (float64, error) {
	lots, err := e.instrument.SizeToLots(size)
	if err != nil {
		return 0, err
	}

	var (
		slippage    float64
		slippageErr error
	)
	if err := e.inspect(ctx, func(book *orderbookv1.Book) {
		slippage, slippageErr = book.Slippage(taker, lots)
	}); err != nil {
		return 0, err
	}
	return slippage, slippageErr
}

// OrderImbalance returns bid volume / (bid volume + ask volume).
func (e *Engine) OrderImbalance(ctx context.Context) (float64, error) {
	var imbalance float64
	err := e.inspect(ctx, func(book *orderbookv1.Book) {
		imbalance = book.OrderImbalance()
	})
	return imbalance, err
}

// DepthToPrice returns the resting quantity on a side across all levels at
// least as aggressive as the target price.
func (e *Engine) DepthToPrice(ctx context.Context, side orderbookv1.Side, target decimal.Decimal) (decimal.Decimal, error) {
	ticks, err := e.instrument.PriceToTicks(target)
	if err != nil {
		return decimal.Zero, err
	}

	var lots int64
	if err := e.inspect(ctx, func(book *orderbookv1.Book) {
		lots = book.DepthToPrice(side, ticks)
	}); err != nil {
		return decimal.Zero, err
	}
	return e.instrument.SizeFromLots(lots), nil
}

// Stats returns the book's lifetime counters and current shape. Volumes are
// reported in lots.
func (e *Engine) Stats(ctx context.Context) (orderbookv1.Stats, error) {
	var stats orderbookv1.Stats
	err := e.inspect(ctx, func(book *orderbookv1.Book) {
		stats = book.Stats()
	})
	return stats, err
}
