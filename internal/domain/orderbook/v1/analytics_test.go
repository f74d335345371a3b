package orderbookv1

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook_SpreadAndMidPrice(t *testing.T) {
	t.Run("both sides populated", func(t *testing.T) {
		b := seedBook(t)

		spread, ok := b.Spread()
		require.True(t, ok)
		assert.Equal(t, int64(50), spread)

		mid, ok := b.MidPrice()
		require.True(t, ok)
		assert.Equal(t, 42_125.0, mid)
	})

	t.Run("undefined while a side is empty", func(t *testing.T) {
		b := NewBook()
		restOrder(t, b, SideBid, 42_100, 15)

		_, ok := b.Spread()
		assert.False(t, ok)
		_, ok = b.MidPrice()
		assert.False(t, ok)
	})
}

func TestBook_PriceForBuy(t *testing.T) {
	testCases := []struct {
		name    string
		size    int64
		want    float64
		wantErr error
	}{
		{
			name: "inside the best level",
			size: 10,
			want: 42_150,
		},
		{
			name: "across two levels",
			size: 15,
			want: float64(42_150*12+42_200*3) / 15,
		},
		{
			name: "exactly all liquidity",
			size: 37,
			want: float64(42_150*12+42_200*25) / 37,
		},
		{
			name:    "beyond available liquidity",
			size:    38,
			wantErr: ErrInsufficientAskVolume,
		},
		{
			name:    "non-positive size",
			size:    0,
			wantErr: ErrInvalidSize,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := seedBook(t)
			before := b.Stats()

			got, err := b.PriceForBuy(tc.size)

			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.wantErr))
			} else {
				require.NoError(t, err)
				assert.InDelta(t, tc.want, got, 1e-9)
			}

			assert.Equal(t, before, b.Stats(), "simulation must not mutate the book")
		})
	}
}

func TestBook_PriceForSell(t *testing.T) {
	b := seedBook(t)

	t.Run("walks bids from the best down", func(t *testing.T) {
		got, err := b.PriceForSell(20)
		require.NoError(t, err)
		assert.InDelta(t, float64(42_100*15+42_050*5)/20, got, 1e-9)
	})

	t.Run("insufficient bid volume", func(t *testing.T) {
		_, err := b.PriceForSell(36)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInsufficientBidVolume))
	})
}

func TestBook_Slippage(t *testing.T) {
	b := seedBook(t)

	t.Run("buy slippage is positive when walking up the asks", func(t *testing.T) {
		got, err := b.Slippage(SideBid, 15)
		require.NoError(t, err)

		average := float64(42_150*12+42_200*3) / 15
		want := (average - 42_150) / 42_150
		assert.InDelta(t, want, got, 1e-12)
		assert.Positive(t, got)
	})

	t.Run("sell slippage is negative when walking down the bids", func(t *testing.T) {
		got, err := b.Slippage(SideAsk, 20)
		require.NoError(t, err)

		average := float64(42_100*15+42_050*5) / 20
		want := (average - 42_100) / 42_100
		assert.InDelta(t, want, got, 1e-12)
		assert.Negative(t, got)
	})

	t.Run("zero inside the best level", func(t *testing.T) {
		got, err := b.Slippage(SideBid, 12)
		require.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("insufficient liquidity propagates", func(t *testing.T) {
		_, err := b.Slippage(SideBid, 1_000)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInsufficientAskVolume))
	})
}

func TestBook_OrderImbalance(t *testing.T) {
	t.Run("empty book", func(t *testing.T) {
		b := NewBook()
		assert.Equal(t, 0.0, b.OrderImbalance())
	})

	t.Run("only bids", func(t *testing.T) {
		b := NewBook()
		restOrder(t, b, SideBid, 42_100, 15)
		assert.Equal(t, 1.0, b.OrderImbalance())
	})

	t.Run("only asks", func(t *testing.T) {
		b := NewBook()
		restOrder(t, b, SideAsk, 42_150, 12)
		assert.Equal(t, 0.0, b.OrderImbalance())
	})

	t.Run("mixed book", func(t *testing.T) {
		b := seedBook(t)
		assert.InDelta(t, 35.0/72.0, b.OrderImbalance(), 1e-12)
	})
}

func TestBook_DepthToPrice(t *testing.T) {
	b := seedBook(t)

	testCases := []struct {
		name   string
		side   Side
		target int64
		want   int64
	}{
		{name: "bids at or above best", side: SideBid, target: 42_100, want: 15},
		{name: "bids at or above second level", side: SideBid, target: 42_050, want: 35},
		{name: "bids below the whole ladder", side: SideBid, target: 40_000, want: 35},
		{name: "bids above the whole ladder", side: SideBid, target: 43_000, want: 0},
		{name: "asks at or below best", side: SideAsk, target: 42_150, want: 12},
		{name: "asks at or below second level", side: SideAsk, target: 42_200, want: 37},
		{name: "asks below the whole ladder", side: SideAsk, target: 42_000, want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, b.DepthToPrice(tc.side, tc.target))
		})
	}
}

func TestBook_TopLevels(t *testing.T) {
	b := seedBook(t)

	t.Run("bids in priority order", func(t *testing.T) {
		bids := b.TopBids(10)
		require.Len(t, bids, 2)
		assert.Equal(t, Level{Price: 42_100, Volume: 15, Orders: 1}, bids[0])
		assert.Equal(t, Level{Price: 42_050, Volume: 20, Orders: 1}, bids[1])
	})

	t.Run("asks in priority order", func(t *testing.T) {
		asks := b.TopAsks(10)
		require.Len(t, asks, 2)
		assert.Equal(t, Level{Price: 42_150, Volume: 12, Orders: 1}, asks[0])
		assert.Equal(t, Level{Price: 42_200, Volume: 25, Orders: 1}, asks[1])
	})

	t.Run("depth limit honoured", func(t *testing.T) {
		asks := b.TopAsks(1)
		require.Len(t, asks, 1)
		assert.Equal(t, int64(42_150), asks[0].Price)
	})

	t.Run("non-positive depth", func(t *testing.T) {
		assert.Empty(t, b.TopBids(0))
		assert.Empty(t, b.TopAsks(-1))
	})
}
