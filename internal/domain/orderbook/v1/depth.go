package orderbookv1

// Level is an aggregated, read-only view of one price level.
type Level struct {
	Price  int64 `json:"price"`
	Volume int64 `json:"volume"`
	Orders int   `json:"orders"`
}

// TopBids returns up to n bid levels in priority order, best bid first.
func (b *Book) TopBids(n int) []Level {
	return topOf(b.bids, n)
}

// TopAsks returns up to n ask levels in priority order, best ask first.
func (b *Book) TopAsks(n int) []Level {
	return topOf(b.asks, n)
}

func topOf(ladder *Ladder, n int) []Level {
	if n <= 0 {
		return nil
	}

	levels := make([]Level, 0, min(n, ladder.Len()))
	ladder.Walk(func(level *PriceLevel) bool {
		levels = append(levels, level.Snapshot())
		return len(levels) < n
	})
	return levels
}
