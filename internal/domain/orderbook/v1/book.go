package orderbookv1

import "fmt"

// Book is the order book for a single instrument. It owns both ladders,
// assigns order IDs and keeps an orderID index so cancellation does not
// scan the ladders.
//
// Book is not safe for concurrent use. All mutation must be serialized by
// a single owner, see internal/app/engine.
type Book struct {
	bids   *Ladder
	asks   *Ladder
	orders map[uint64]*Order
	nextID uint64

	bidVolume int64
	askVolume int64

	ordersProcessed int64
	fillCount       int64
	volumeTraded    int64
}

// NewBook creates an empty order book.
func NewBook() *Book {
	return &Book{
		bids:   NewLadder(SideBid),
		asks:   NewLadder(SideAsk),
		orders: make(map[uint64]*Order),
	}
}

// AddLimitOrder admits a limit order. When the order crosses the opposite
// best price it is matched first, in price then time priority, and only the
// unmatched remainder rests at the limit price. The assigned order ID is
// valid even when the order fills completely on entry and never rests.
func (b *Book) AddLimitOrder(side Side, price, size int64) (LimitResult, error) {
	if side != SideBid && side != SideAsk {
		return LimitResult{}, fmt.Errorf("%w: %d", ErrInvalidSide, int8(side))
	}
	if price <= 0 {
		return LimitResult{}, fmt.Errorf("%w: %d", ErrInvalidPrice, price)
	}
	if size <= 0 {
		return LimitResult{}, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	b.nextID++
	b.ordersProcessed++
	order := NewOrder(b.nextID, side, price, size)

	execution := b.match(side, size, price)
	order.Size -= execution.Filled

	if order.Size > 0 {
		b.rest(order)
	}

	return LimitResult{
		OrderID:   order.ID,
		Execution: execution,
		Resting:   order.Size,
	}, nil
}

// ExecuteMarket fills a market order for the taker side against the
// opposite ladder. A bid taker consumes asks, an ask taker consumes bids.
// Exhausting the opposite side is not an error: the result reports
// Filled < Requested and the caller interprets the shortfall.
func (b *Book) ExecuteMarket(taker Side, size int64) (ExecutionResult, error) {
	if taker != SideBid && taker != SideAsk {
		return ExecutionResult{}, fmt.Errorf("%w: %d", ErrInvalidSide, int8(taker))
	}
	if size <= 0 {
		return ExecutionResult{}, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	b.ordersProcessed++
	return b.match(taker, size, 0), nil
}

// match walks the ladder opposite the taker in price priority, consuming
// orders in FIFO order within each level. A positive limit bounds how deep
// the walk may go: a bid taker stops above it, an ask taker below it.
// limit == 0 means no price bound (market order).
func (b *Book) match(taker Side, size, limit int64) ExecutionResult {
	result := ExecutionResult{
		Requested: size,
		Fills:     []Fill{},
	}

	ladder := b.ladder(taker.Opposite())
	remaining := size

	for remaining > 0 {
		level := ladder.Best()
		if level == nil {
			break
		}
		if limit > 0 && !crosses(taker, level.Price(), limit) {
			break
		}

		for remaining > 0 && !level.IsEmpty() {
			fill, makerDone := level.FillHead(remaining)
			remaining -= fill.Size

			result.Fills = append(result.Fills, fill)
			result.Filled += fill.Size
			result.Notional += fill.Notional()

			b.addVolume(taker.Opposite(), -fill.Size)
			b.fillCount++
			b.volumeTraded += fill.Size

			if makerDone {
				delete(b.orders, fill.MakerID)
			}
		}

		if level.IsEmpty() {
			ladder.Drop(level.Price())
		}
	}

	return result
}

// crosses reports whether a maker level at levelPrice is reachable by a
// taker bounded at limit.
func crosses(taker Side, levelPrice, limit int64) bool {
	if taker == SideBid {
		return levelPrice <= limit
	}
	return levelPrice >= limit
}

// rest parks an order at its price level and indexes it for cancellation.
func (b *Book) rest(order *Order) {
	b.ladder(order.Side).GetOrCreate(order.Price).Append(order)
	b.orders[order.ID] = order
	b.addVolume(order.Side, order.Size)
}

// CancelOrder removes a resting order by ID and returns it. An unknown ID,
// from an order already filled or already cancelled, reports ok == false;
// this is a normal outcome, not an error.
func (b *Book) CancelOrder(id uint64) (*Order, bool) {
	order, ok := b.orders[id]
	if !ok {
		return nil, false
	}

	level := order.level
	level.Remove(order)
	if level.IsEmpty() {
		b.ladder(order.Side).Drop(level.Price())
	}

	delete(b.orders, id)
	b.addVolume(order.Side, -order.Size)
	return order, true
}

// Order returns the resting order with the given ID.
func (b *Book) Order(id uint64) (*Order, bool) {
	order, ok := b.orders[id]
	return order, ok
}

// BestBid returns the highest bid level.
func (b *Book) BestBid() (Level, bool) {
	return bestOf(b.bids)
}

// BestAsk returns the lowest ask level.
func (b *Book) BestAsk() (Level, bool) {
	return bestOf(b.asks)
}

func bestOf(ladder *Ladder) (Level, bool) {
	level := ladder.Best()
	if level == nil {
		return Level{}, false
	}
	return level.Snapshot(), true
}

// BidVolume returns the total quantity resting on the bid side.
func (b *Book) BidVolume() int64 {
	return b.bidVolume
}

// AskVolume returns the total quantity resting on the ask side.
func (b *Book) AskVolume() int64 {
	return b.askVolume
}

// BidLevels returns the number of distinct bid price levels.
func (b *Book) BidLevels() int {
	return b.bids.Len()
}

// AskLevels returns the number of distinct ask price levels.
func (b *Book) AskLevels() int {
	return b.asks.Len()
}

// RestingOrders returns the number of orders resting across both sides.
func (b *Book) RestingOrders() int {
	return len(b.orders)
}

func (b *Book) ladder(side Side) *Ladder {
	if side == SideBid {
		return b.bids
	}
	return b.asks
}

func (b *Book) addVolume(side Side, delta int64) {
	if side == SideBid {
		b.bidVolume += delta
		return
	}
	b.askVolume += delta
}
