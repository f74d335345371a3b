package orderbookv1

// Fill records one maker order consumed, partially or fully, by a taker.
// The price is the maker's level price, so a taker crossing several levels
// produces fills at several prices.
type Fill struct {
	MakerID uint64 `json:"makerID"`
	Price   int64  `json:"price"`
	Size    int64  `json:"size"`
}

// Notional returns price times size in tick-lots.
func (f Fill) Notional() int64 {
	return f.Price * f.Size
}

// ExecutionResult aggregates the fills produced by one taker execution.
// A partial fill is a normal outcome: Filled may be anywhere between zero
// and Requested.
type ExecutionResult struct {
	Requested int64  `json:"requested"`
	Filled    int64  `json:"filled"`
	Notional  int64  `json:"notional"`
	Fills     []Fill `json:"fills"`
}

// AveragePrice returns the volume weighted average fill price in ticks,
// or zero when nothing was filled.
func (r ExecutionResult) AveragePrice() float64 {
	if r.Filled == 0 {
		return 0
	}
	return float64(r.Notional) / float64(r.Filled)
}

// Shortfall returns the requested quantity that found no liquidity.
func (r ExecutionResult) Shortfall() int64 {
	return r.Requested - r.Filled
}

// IsComplete reports whether the requested quantity was fully filled.
func (r ExecutionResult) IsComplete() bool {
	return r.Filled == r.Requested
}

// LimitResult reports the outcome of admitting a limit order.
type LimitResult struct {
	// OrderID is the identifier assigned to the order. It is valid even
	// when the order filled completely on entry and never rested.
	OrderID uint64 `json:"orderID"`
	// Execution carries the fills produced while the order crossed the
	// opposite side on entry.
	Execution ExecutionResult `json:"execution"`
	// Resting is the quantity left resting at the limit price after
	// matching. Zero means the order filled completely on entry.
	Resting int64 `json:"resting"`
}
