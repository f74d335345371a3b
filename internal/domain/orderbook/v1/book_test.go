package orderbookv1

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// restOrder places a non-crossing limit order and returns its ID.
func restOrder(t *testing.T, b *Book, side Side, price, size int64) uint64 {
	t.Helper()

	res, err := b.AddLimitOrder(side, price, size)
	require.NoError(t, err)
	require.Equal(t, size, res.Resting, "order expected to rest without matching")
	return res.OrderID
}

// seedBook builds the four-level book used across scenarios:
// bids 42_100 x 15, 42_050 x 20; asks 42_150 x 12, 42_200 x 25.
func seedBook(t *testing.T) *Book {
	t.Helper()

	b := NewBook()
	restOrder(t, b, SideBid, 42_100, 15)
	restOrder(t, b, SideBid, 42_050, 20)
	restOrder(t, b, SideAsk, 42_150, 12)
	restOrder(t, b, SideAsk, 42_200, 25)
	return b
}

// Test 1: Basic constructor
func TestNewBook(t *testing.T) {
	b := NewBook()

	assert.Equal(t, 0, b.BidLevels())
	assert.Equal(t, 0, b.AskLevels())
	assert.Equal(t, 0, b.RestingOrders())
	assert.Equal(t, int64(0), b.BidVolume())
	assert.Equal(t, int64(0), b.AskVolume())

	_, ok := b.BestBid()
	assert.False(t, ok)
	_, ok = b.BestAsk()
	assert.False(t, ok)
}

// Test 2: Rest a single limit order
func TestBook_AddLimitOrder_Basic(t *testing.T) {
	b := NewBook()

	res, err := b.AddLimitOrder(SideAsk, 42_150, 12)

	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.OrderID)
	assert.Equal(t, int64(12), res.Resting)
	assert.Equal(t, int64(0), res.Execution.Filled)
	assert.Empty(t, res.Execution.Fills)

	assert.Equal(t, 1, b.AskLevels())
	assert.Equal(t, 0, b.BidLevels())
	assert.Equal(t, int64(12), b.AskVolume())
	assert.Equal(t, 1, b.RestingOrders())

	best, ok := b.BestAsk()
	require.True(t, ok)
	assert.Equal(t, int64(42_150), best.Price)
	assert.Equal(t, int64(12), best.Volume)
	assert.Equal(t, 1, best.Orders)
}

// Test 3: Orders at the same price share one level
func TestBook_AddLimitOrder_SamePriceLevel(t *testing.T) {
	b := NewBook()

	restOrder(t, b, SideAsk, 42_150, 10)
	restOrder(t, b, SideAsk, 42_150, 5)

	assert.Equal(t, 1, b.AskLevels())
	assert.Equal(t, 2, b.RestingOrders())

	best, ok := b.BestAsk()
	require.True(t, ok)
	assert.Equal(t, int64(15), best.Volume)
	assert.Equal(t, 2, best.Orders)
}

// Test 4: IDs increase strictly across both sides
func TestBook_AddLimitOrder_MonotonicIDs(t *testing.T) {
	b := NewBook()

	var last uint64
	for i := int64(0); i < 10; i++ {
		side := SideBid
		price := 42_000 - i
		if i%2 == 1 {
			side = SideAsk
			price = 43_000 + i
		}

		res, err := b.AddLimitOrder(side, price, 1)
		require.NoError(t, err)
		assert.Greater(t, res.OrderID, last)
		last = res.OrderID
	}
}

// Test 5: Best bid is the maximum bid, best ask the minimum ask, after
// every insertion
func TestBook_PricePriority(t *testing.T) {
	b := NewBook()

	bidPrices := []int64{42_000, 42_100, 41_900, 42_050, 41_800}
	askPrices := []int64{43_000, 42_900, 43_200, 42_950, 43_100}

	var maxBid, minAsk int64
	for i := range bidPrices {
		restOrder(t, b, SideBid, bidPrices[i], 1)
		if bidPrices[i] > maxBid {
			maxBid = bidPrices[i]
		}

		restOrder(t, b, SideAsk, askPrices[i], 1)
		if minAsk == 0 || askPrices[i] < minAsk {
			minAsk = askPrices[i]
		}

		bestBid, ok := b.BestBid()
		require.True(t, ok)
		assert.Equal(t, maxBid, bestBid.Price)

		bestAsk, ok := b.BestAsk()
		require.True(t, ok)
		assert.Equal(t, minAsk, bestAsk.Price)
	}
}

// Test 6: Input validation rejects before any mutation
func TestBook_AddLimitOrder_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		side    Side
		price   int64
		size    int64
		wantErr error
	}{
		{
			name:    "zero price",
			side:    SideBid,
			price:   0,
			size:    10,
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "negative price",
			side:    SideAsk,
			price:   -42_000,
			size:    10,
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "zero size",
			side:    SideBid,
			price:   42_000,
			size:    0,
			wantErr: ErrInvalidSize,
		},
		{
			name:    "negative size",
			side:    SideAsk,
			price:   42_000,
			size:    -1,
			wantErr: ErrInvalidSize,
		},
		{
			name:    "invalid side",
			side:    Side(7),
			price:   42_000,
			size:    10,
			wantErr: ErrInvalidSide,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := seedBook(t)
			before := b.Stats()

			_, err := b.AddLimitOrder(tc.side, tc.price, tc.size)

			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr))
			assert.Equal(t, before, b.Stats(), "rejected input must not mutate the book")
		})
	}
}

// Test 7: A crossing limit order matches before resting
func TestBook_AddLimitOrder_Crossing(t *testing.T) {
	t.Run("fully filled on entry, nothing rests", func(t *testing.T) {
		b := NewBook()
		askID := restOrder(t, b, SideAsk, 42_150, 12)

		res, err := b.AddLimitOrder(SideBid, 42_150, 12)

		require.NoError(t, err)
		assert.Equal(t, int64(0), res.Resting)
		assert.Equal(t, int64(12), res.Execution.Filled)
		require.Len(t, res.Execution.Fills, 1)
		assert.Equal(t, askID, res.Execution.Fills[0].MakerID)
		assert.Equal(t, int64(42_150), res.Execution.Fills[0].Price)

		assert.Equal(t, 0, b.AskLevels())
		assert.Equal(t, 0, b.BidLevels())
		assert.Equal(t, 0, b.RestingOrders())
	})

	t.Run("partial fill, remainder rests at the limit", func(t *testing.T) {
		b := NewBook()
		restOrder(t, b, SideAsk, 42_150, 12)

		res, err := b.AddLimitOrder(SideBid, 42_150, 20)

		require.NoError(t, err)
		assert.Equal(t, int64(12), res.Execution.Filled)
		assert.Equal(t, int64(8), res.Resting)

		best, ok := b.BestBid()
		require.True(t, ok)
		assert.Equal(t, int64(42_150), best.Price)
		assert.Equal(t, int64(8), best.Volume)
		assert.Equal(t, 0, b.AskLevels())
	})

	t.Run("walk stops at the limit price", func(t *testing.T) {
		b := NewBook()
		restOrder(t, b, SideAsk, 42_150, 12)
		restOrder(t, b, SideAsk, 42_200, 25)

		res, err := b.AddLimitOrder(SideBid, 42_150, 20)

		require.NoError(t, err)
		assert.Equal(t, int64(12), res.Execution.Filled)
		assert.Equal(t, int64(8), res.Resting)

		// The 42_200 asks are above the limit and must stay untouched.
		bestAsk, ok := b.BestAsk()
		require.True(t, ok)
		assert.Equal(t, int64(42_200), bestAsk.Price)
		assert.Equal(t, int64(25), bestAsk.Volume)
	})

	t.Run("crossing sell consumes bids from the top", func(t *testing.T) {
		b := NewBook()
		restOrder(t, b, SideBid, 42_100, 15)
		restOrder(t, b, SideBid, 42_050, 20)

		res, err := b.AddLimitOrder(SideAsk, 42_050, 30)

		require.NoError(t, err)
		assert.Equal(t, int64(30), res.Execution.Filled)
		assert.Equal(t, int64(0), res.Resting)
		require.Len(t, res.Execution.Fills, 2)
		assert.Equal(t, int64(42_100), res.Execution.Fills[0].Price)
		assert.Equal(t, int64(15), res.Execution.Fills[0].Size)
		assert.Equal(t, int64(42_050), res.Execution.Fills[1].Price)
		assert.Equal(t, int64(15), res.Execution.Fills[1].Size)

		bestBid, ok := b.BestBid()
		require.True(t, ok)
		assert.Equal(t, int64(42_050), bestBid.Price)
		assert.Equal(t, int64(5), bestBid.Volume)
	})

	t.Run("book never crosses at rest", func(t *testing.T) {
		b := seedBook(t)

		// Aggressive orders in both directions.
		_, err := b.AddLimitOrder(SideBid, 42_175, 14)
		require.NoError(t, err)
		_, err = b.AddLimitOrder(SideAsk, 42_000, 50)
		require.NoError(t, err)

		bid, bidOK := b.BestBid()
		ask, askOK := b.BestAsk()
		if bidOK && askOK {
			assert.Less(t, bid.Price, ask.Price)
		}
	})
}

// Test 8: Market buy walks ask levels in price priority
func TestBook_ExecuteMarket_BuyAcrossLevels(t *testing.T) {
	b := seedBook(t)

	// Consumes the whole 42_150 level, then part of 42_200.
	res, err := b.ExecuteMarket(SideBid, 15)

	require.NoError(t, err)
	assert.Equal(t, int64(15), res.Filled)
	assert.True(t, res.IsComplete())
	require.Len(t, res.Fills, 2)

	assert.Equal(t, int64(42_150), res.Fills[0].Price)
	assert.Equal(t, int64(12), res.Fills[0].Size)
	assert.Equal(t, int64(42_200), res.Fills[1].Price)
	assert.Equal(t, int64(3), res.Fills[1].Size)

	wantAverage := float64(42_150*12+42_200*3) / 15
	assert.InDelta(t, wantAverage, res.AveragePrice(), 1e-9)

	bestAsk, ok := b.BestAsk()
	require.True(t, ok)
	assert.Equal(t, int64(42_200), bestAsk.Price)
	assert.Equal(t, int64(22), bestAsk.Volume)

	// Bids are untouched by a buy.
	bestBid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, int64(42_100), bestBid.Price)
	assert.Equal(t, int64(15), bestBid.Volume)
}

// Test 9: Market sell consumes bids from the highest price down
func TestBook_ExecuteMarket_SellAcrossLevels(t *testing.T) {
	b := seedBook(t)

	res, err := b.ExecuteMarket(SideAsk, 20)

	require.NoError(t, err)
	assert.Equal(t, int64(20), res.Filled)
	require.Len(t, res.Fills, 2)
	assert.Equal(t, int64(42_100), res.Fills[0].Price)
	assert.Equal(t, int64(15), res.Fills[0].Size)
	assert.Equal(t, int64(42_050), res.Fills[1].Price)
	assert.Equal(t, int64(5), res.Fills[1].Size)

	bestBid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, int64(42_050), bestBid.Price)
	assert.Equal(t, int64(15), bestBid.Volume)
}

// Test 10: Time priority within one price level is strict FIFO
func TestBook_ExecuteMarket_TimePriority(t *testing.T) {
	b := NewBook()
	first := restOrder(t, b, SideAsk, 42_150, 10)
	second := restOrder(t, b, SideAsk, 42_150, 10)

	// Partial consumption must fully fill the older order before touching
	// the newer one.
	res, err := b.ExecuteMarket(SideBid, 14)

	require.NoError(t, err)
	require.Len(t, res.Fills, 2)
	assert.Equal(t, first, res.Fills[0].MakerID)
	assert.Equal(t, int64(10), res.Fills[0].Size)
	assert.Equal(t, second, res.Fills[1].MakerID)
	assert.Equal(t, int64(4), res.Fills[1].Size)

	_, ok := b.Order(first)
	assert.False(t, ok, "fully consumed maker must leave the index")

	remaining, ok := b.Order(second)
	require.True(t, ok)
	assert.Equal(t, int64(6), remaining.Size)
}

// Test 11: Liquidity exhaustion is a partial fill, not an error
func TestBook_ExecuteMarket_InsufficientLiquidity(t *testing.T) {
	b := seedBook(t)

	res, err := b.ExecuteMarket(SideBid, 1_000)

	require.NoError(t, err)
	assert.Equal(t, int64(37), res.Filled)
	assert.Equal(t, int64(963), res.Shortfall())
	assert.False(t, res.IsComplete())

	assert.Equal(t, 0, b.AskLevels())
	assert.Equal(t, int64(0), b.AskVolume())
	_, ok := b.BestAsk()
	assert.False(t, ok)
}

// Test 12: Market order against an empty side yields zero fills
func TestBook_ExecuteMarket_EmptySide(t *testing.T) {
	b := NewBook()
	restOrder(t, b, SideBid, 42_100, 15)

	res, err := b.ExecuteMarket(SideBid, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Filled)
	assert.Empty(t, res.Fills)
	assert.Equal(t, float64(0), res.AveragePrice())
	assert.Equal(t, int64(10), res.Shortfall())
}

// Test 13: Market order input validation
func TestBook_ExecuteMarket_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		taker   Side
		size    int64
		wantErr error
	}{
		{name: "zero size", taker: SideBid, size: 0, wantErr: ErrInvalidSize},
		{name: "negative size", taker: SideAsk, size: -5, wantErr: ErrInvalidSize},
		{name: "invalid side", taker: Side(3), size: 10, wantErr: ErrInvalidSide},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := seedBook(t)
			before := b.Stats()

			_, err := b.ExecuteMarket(tc.taker, tc.size)

			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr))
			assert.Equal(t, before, b.Stats())
		})
	}
}

// Test 14: Fill quantities reconcile with the filled total and the
// resting volume removed from the side
func TestBook_ExecuteMarket_QuantityConservation(t *testing.T) {
	testCases := []struct {
		name      string
		requested int64
	}{
		{name: "inside one level", requested: 5},
		{name: "exactly one level", requested: 12},
		{name: "across levels", requested: 30},
		{name: "beyond available", requested: 50},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := seedBook(t)
			askVolumeBefore := b.AskVolume()

			res, err := b.ExecuteMarket(SideBid, tc.requested)
			require.NoError(t, err)

			sum := int64(0)
			notional := int64(0)
			for _, fill := range res.Fills {
				sum += fill.Size
				notional += fill.Notional()
			}

			assert.Equal(t, res.Filled, sum)
			assert.Equal(t, res.Notional, notional)
			assert.LessOrEqual(t, res.Filled, tc.requested)
			assert.Equal(t, askVolumeBefore-res.Filled, b.AskVolume())
		})
	}
}

// Test 15: Cancel removes the order and collapses its level
func TestBook_CancelOrder(t *testing.T) {
	b := NewBook()
	id := restOrder(t, b, SideBid, 42_100, 15)

	order, ok := b.CancelOrder(id)

	require.True(t, ok)
	assert.Equal(t, id, order.ID)
	assert.Equal(t, int64(15), order.Size)
	assert.False(t, order.Resting())

	assert.Equal(t, 0, b.BidLevels())
	assert.Equal(t, int64(0), b.BidVolume())
	assert.Equal(t, 0, b.RestingOrders())
}

// Test 16: Cancelling twice returns an empty result the second time and
// leaves the book untouched
func TestBook_CancelOrder_Idempotent(t *testing.T) {
	b := seedBook(t)
	id := restOrder(t, b, SideBid, 42_000, 7)

	_, ok := b.CancelOrder(id)
	require.True(t, ok)
	after := b.Stats()

	order, ok := b.CancelOrder(id)
	assert.False(t, ok)
	assert.Nil(t, order)
	assert.Equal(t, after, b.Stats())

	// Unknown IDs behave the same way.
	_, ok = b.CancelOrder(999_999)
	assert.False(t, ok)
}

// Test 17: Cancelling from the middle of a queue keeps FIFO order intact
func TestBook_CancelOrder_MiddleOfQueue(t *testing.T) {
	b := NewBook()
	first := restOrder(t, b, SideAsk, 42_150, 4)
	second := restOrder(t, b, SideAsk, 42_150, 6)
	third := restOrder(t, b, SideAsk, 42_150, 8)

	_, ok := b.CancelOrder(second)
	require.True(t, ok)

	best, ok := b.BestAsk()
	require.True(t, ok)
	assert.Equal(t, int64(12), best.Volume)
	assert.Equal(t, 2, best.Orders)

	res, err := b.ExecuteMarket(SideBid, 12)
	require.NoError(t, err)
	require.Len(t, res.Fills, 2)
	assert.Equal(t, first, res.Fills[0].MakerID)
	assert.Equal(t, third, res.Fills[1].MakerID)
}

// Test 18: A fully filled order cannot be cancelled afterwards
func TestBook_CancelOrder_AfterFill(t *testing.T) {
	b := NewBook()
	id := restOrder(t, b, SideAsk, 42_150, 12)

	res, err := b.ExecuteMarket(SideBid, 12)
	require.NoError(t, err)
	require.Equal(t, int64(12), res.Filled)

	_, ok := b.CancelOrder(id)
	assert.False(t, ok)
}

// Test 19: No empty level survives any sequence of operations
func TestBook_NoEmptyLevels(t *testing.T) {
	b := seedBook(t)

	id := restOrder(t, b, SideBid, 41_900, 3)
	_, ok := b.CancelOrder(id)
	require.True(t, ok)

	_, err := b.ExecuteMarket(SideBid, 12) // clears the 42_150 level exactly
	require.NoError(t, err)
	_, err = b.AddLimitOrder(SideAsk, 42_050, 20) // crossing sell clears 42_100
	require.NoError(t, err)

	assertNoEmptyLevels(t, b)
}

func assertNoEmptyLevels(t *testing.T, b *Book) {
	t.Helper()

	for _, ladder := range []*Ladder{b.bids, b.asks} {
		ladder.Walk(func(level *PriceLevel) bool {
			assert.False(t, level.IsEmpty(), "empty level at price %d", level.Price())
			assert.Positive(t, level.Volume())
			return true
		})
	}
}

// Test 20: Stats counters follow admissions, fills and volume
func TestBook_Stats(t *testing.T) {
	b := seedBook(t)

	stats := b.Stats()
	assert.Equal(t, int64(4), stats.OrdersProcessed)
	assert.Equal(t, int64(0), stats.FillCount)
	assert.Equal(t, 2, stats.BidLevels)
	assert.Equal(t, 2, stats.AskLevels)
	assert.Equal(t, int64(35), stats.BidVolume)
	assert.Equal(t, int64(37), stats.AskVolume)
	assert.Equal(t, 4, stats.RestingOrders)

	_, err := b.ExecuteMarket(SideBid, 15)
	require.NoError(t, err)

	stats = b.Stats()
	assert.Equal(t, int64(5), stats.OrdersProcessed)
	assert.Equal(t, int64(2), stats.FillCount)
	assert.Equal(t, int64(15), stats.VolumeTraded)
	assert.Equal(t, int64(22), stats.AskVolume)
	assert.Equal(t, 1, stats.AskLevels)
	assert.Equal(t, 3, stats.RestingOrders)
}
