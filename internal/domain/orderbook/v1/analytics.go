package orderbookv1

import "fmt"

// Analytics are pure reads over the current book state. Prices returned as
// float64 are expressed in ticks; fractional values only appear where a
// quotient is inherently fractional (mid price, volume weighted averages).

// Spread returns best ask minus best bid. It is undefined while either
// side is empty.
func (b *Book) Spread() (int64, bool) {
	bid, bidOK := b.BestBid()
	ask, askOK := b.BestAsk()
	if !bidOK || !askOK {
		return 0, false
	}
	return ask.Price - bid.Price, true
}

// MidPrice returns the midpoint between best bid and best ask. It is
// undefined while either side is empty.
func (b *Book) MidPrice() (float64, bool) {
	bid, bidOK := b.BestBid()
	ask, askOK := b.BestAsk()
	if !bidOK || !askOK {
		return 0, false
	}
	return float64(bid.Price+ask.Price) / 2, true
}

// PriceForBuy simulates buying size lots against the resting asks and
// returns the volume weighted average price in ticks. The book is not
// mutated. ErrInsufficientAskVolume is returned when the asks cannot cover
// the full size.
func (b *Book) PriceForBuy(size int64) (float64, error) {
	return b.simulate(SideBid, size)
}

// PriceForSell simulates selling size lots against the resting bids and
// returns the volume weighted average price in ticks. The book is not
// mutated. ErrInsufficientBidVolume is returned when the bids cannot cover
// the full size.
func (b *Book) PriceForSell(size int64) (float64, error) {
	return b.simulate(SideAsk, size)
}

// simulate walks the ladder opposite the taker exactly like match does,
// accumulating notional without touching any level.
func (b *Book) simulate(taker Side, size int64) (float64, error) {
	if size <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	ladder := b.ladder(taker.Opposite())

	remaining := size
	notional := int64(0)
	ladder.Walk(func(level *PriceLevel) bool {
		quantity := min(remaining, level.Volume())
		notional += quantity * level.Price()
		remaining -= quantity
		return remaining > 0
	})

	if remaining > 0 {
		return 0, b.insufficientVolume(taker)
	}
	return float64(notional) / float64(size), nil
}

func (b *Book) insufficientVolume(taker Side) error {
	if taker == SideBid {
		return fmt.Errorf("%w: %d available", ErrInsufficientAskVolume, b.askVolume)
	}
	return fmt.Errorf("%w: %d available", ErrInsufficientBidVolume, b.bidVolume)
}

// Slippage quantifies the market impact of a hypothetical order of the
// given size as (simulated average price - best price) / best price. The
// sign follows the direction: positive for buys walking up the asks,
// negative for sells walking down the bids.
func (b *Book) Slippage(taker Side, size int64) (float64, error) {
	if taker != SideBid && taker != SideAsk {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSide, int8(taker))
	}

	average, err := b.simulate(taker, size)
	if err != nil {
		return 0, err
	}

	var best Level
	if taker == SideBid {
		best, _ = b.BestAsk()
	} else {
		best, _ = b.BestBid()
	}

	return (average - float64(best.Price)) / float64(best.Price), nil
}

// OrderImbalance returns bid volume / (bid volume + ask volume), a value
// in [0, 1] read as a short-term directional signal. It is 0 when the
// book is empty.
func (b *Book) OrderImbalance() float64 {
	total := b.bidVolume + b.askVolume
	if total == 0 {
		return 0
	}
	return float64(b.bidVolume) / float64(total)
}

// DepthToPrice sums the resting quantity on a side across all levels at
// least as aggressive as target: bids at or above it, asks at or below it.
func (b *Book) DepthToPrice(side Side, target int64) int64 {
	depth := int64(0)
	b.ladder(side).Walk(func(level *PriceLevel) bool {
		if side == SideBid && level.Price() < target {
			return false
		}
		if side == SideAsk && level.Price() > target {
			return false
		}
		depth += level.Volume()
		return true
	})
	return depth
}
