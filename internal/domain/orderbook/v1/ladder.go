package orderbookv1

import (
	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
)

// Ladder keeps one side's price levels ordered by priority. The comparator
// is chosen per side so the leftmost tree node is always the best price:
// highest first for bids, lowest first for asks. Neither side ever needs to
// know about the other's ordering.
type Ladder struct {
	side   Side
	levels *rbt.Tree[int64, *PriceLevel]
}

// NewLadder creates an empty ladder for the given side.
func NewLadder(side Side) *Ladder {
	comparator := func(a, b int64) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
	if side == SideBid {
		comparator = func(a, b int64) int {
			switch {
			case a > b:
				return -1
			case a < b:
				return 1
			default:
				return 0
			}
		}
	}

	return &Ladder{
		side:   side,
		levels: rbt.NewWith[int64, *PriceLevel](comparator),
	}
}

// Side returns the side this ladder belongs to.
func (ld *Ladder) Side() Side {
	return ld.side
}

// Len returns the number of price levels.
func (ld *Ladder) Len() int {
	return ld.levels.Size()
}

// IsEmpty reports whether the ladder holds no levels.
func (ld *Ladder) IsEmpty() bool {
	return ld.levels.Empty()
}

// Best returns the highest-priority level, or nil when the ladder is empty.
func (ld *Ladder) Best() *PriceLevel {
	node := ld.levels.Left()
	if node == nil {
		return nil
	}
	return node.Value
}

// Level returns the level resting at the given price.
func (ld *Ladder) Level(price int64) (*PriceLevel, bool) {
	return ld.levels.Get(price)
}

// GetOrCreate returns the level at the given price, creating it if needed.
func (ld *Ladder) GetOrCreate(price int64) *PriceLevel {
	if level, ok := ld.levels.Get(price); ok {
		return level
	}

	level := NewPriceLevel(price)
	ld.levels.Put(price, level)
	return level
}

// Drop removes the level at the given price.
func (ld *Ladder) Drop(price int64) {
	ld.levels.Remove(price)
}

// Walk visits levels in priority order until fn returns false.
func (ld *Ladder) Walk(fn func(level *PriceLevel) bool) {
	it := ld.levels.Iterator()
	for it.Next() {
		if !fn(it.Value()) {
			return
		}
	}
}
