package orderbookv1

import (
	"container/list"
	"time"
)

// Order represents a single order resting in the book. Price is expressed
// in ticks and Size in lots; Size is the remaining quantity and is counted
// down as the order fills.
type Order struct {
	ID        uint64 `json:"id"`
	Side      Side   `json:"side"`
	Price     int64  `json:"price"`
	Size      int64  `json:"size"`
	Timestamp int64  `json:"timestamp"`

	// Handles into the owning price level, kept for O(1) cancellation.
	elem  *list.Element
	level *PriceLevel
}

// NewOrder creates a new order with the given parameters.
func NewOrder(id uint64, side Side, price, size int64) *Order {
	return &Order{
		ID:        id,
		Side:      side,
		Price:     price,
		Size:      size,
		Timestamp: time.Now().UnixNano(),
	}
}

// IsBid reports whether the order is a bid (buy) order.
func (o *Order) IsBid() bool {
	return o.Side == SideBid
}

// IsAsk reports whether the order is an ask (sell) order.
func (o *Order) IsAsk() bool {
	return o.Side == SideAsk
}

// IsFilled reports whether the order is fully filled.
func (o *Order) IsFilled() bool {
	return o.Size == 0
}

// Resting reports whether the order currently rests at a price level.
func (o *Order) Resting() bool {
	return o.level != nil
}
