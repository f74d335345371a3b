package orderbookv1

import "container/list"

// PriceLevel is a FIFO queue of orders resting at a single price. Orders
// keep a handle to their list element so cancellation never scans the queue.
type PriceLevel struct {
	price  int64
	orders *list.List
	volume int64
}

// NewPriceLevel creates an empty price level.
func NewPriceLevel(price int64) *PriceLevel {
	return &PriceLevel{
		price:  price,
		orders: list.New(),
	}
}

// Price returns the level price in ticks.
func (l *PriceLevel) Price() int64 {
	return l.price
}

// Volume returns the total resting quantity at this level in lots.
func (l *PriceLevel) Volume() int64 {
	return l.volume
}

// OrderCount returns the number of orders queued at this level.
func (l *PriceLevel) OrderCount() int {
	return l.orders.Len()
}

// IsEmpty reports whether the level holds no orders.
func (l *PriceLevel) IsEmpty() bool {
	return l.orders.Len() == 0
}

// Append queues an order at the back of the level, giving it the lowest
// time priority at this price.
func (l *PriceLevel) Append(order *Order) {
	order.level = l
	order.elem = l.orders.PushBack(order)
	l.volume += order.Size
}

// Remove unlinks an order from the level in O(1) via the handle stored on
// the order. It reports false when the order does not rest here.
func (l *PriceLevel) Remove(order *Order) bool {
	if order == nil || order.level != l || order.elem == nil {
		return false
	}

	l.orders.Remove(order.elem)
	l.volume -= order.Size
	order.elem = nil
	order.level = nil
	return true
}

// Head returns the oldest order at this level, or nil when empty.
func (l *PriceLevel) Head() *Order {
	front := l.orders.Front()
	if front == nil {
		return nil
	}
	return front.Value.(*Order)
}

// FillHead consumes up to max lots from the oldest order at this level and
// returns the resulting fill. The bool reports whether that maker was fully
// consumed and unlinked from the queue.
func (l *PriceLevel) FillHead(max int64) (Fill, bool) {
	front := l.orders.Front()
	if front == nil || max <= 0 {
		return Fill{}, false
	}

	maker := front.Value.(*Order)
	quantity := min(max, maker.Size)
	maker.Size -= quantity
	l.volume -= quantity

	fill := Fill{
		MakerID: maker.ID,
		Price:   l.price,
		Size:    quantity,
	}

	if maker.Size == 0 {
		l.orders.Remove(front)
		maker.elem = nil
		maker.level = nil
		return fill, true
	}

	return fill, false
}

// Orders returns the queued orders in time priority.
func (l *PriceLevel) Orders() []*Order {
	orders := make([]*Order, 0, l.orders.Len())
	for e := l.orders.Front(); e != nil; e = e.Next() {
		orders = append(orders, e.Value.(*Order))
	}
	return orders
}

// Snapshot returns an aggregated view of the level.
func (l *PriceLevel) Snapshot() Level {
	return Level{
		Price:  l.price,
		Volume: l.volume,
		Orders: l.orders.Len(),
	}
}
