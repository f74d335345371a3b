package marketdatav1

import (
	"time"

	"github.com/shopspring/decimal"

	instrumentv1 "github.com/openclob/matching-engine/internal/domain/instrument/v1"
	orderbookv1 "github.com/openclob/matching-engine/internal/domain/orderbook/v1"
)

// DepthSnapshot is a depth-limited view of both sides of the book, best
// prices first, published for display and market data distribution. It is
// an export format, not a recovery mechanism.
type DepthSnapshot struct {
	Pair      string       `json:"pair"`
	Sequence  uint64       `json:"sequence"`
	Timestamp time.Time    `json:"timestamp"`
	Bids      []DepthLevel `json:"bids"`
	Asks      []DepthLevel `json:"asks"`
}

// DepthLevel is one aggregated price level in display units.
type DepthLevel struct {
	Price  decimal.Decimal `json:"price"`
	Volume decimal.Decimal `json:"volume"`
	Orders int             `json:"orders"`
}

// FromLevels converts book levels, in ticks and lots, into a decimal
// snapshot for the given pair.
func FromLevels(ins *instrumentv1.Instrument, sequence uint64, bids, asks []orderbookv1.Level) *DepthSnapshot {
	return &DepthSnapshot{
		Pair:      ins.Pair,
		Sequence:  sequence,
		Timestamp: time.Now().UTC(),
		Bids:      convertLevels(ins, bids),
		Asks:      convertLevels(ins, asks),
	}
}

func convertLevels(ins *instrumentv1.Instrument, levels []orderbookv1.Level) []DepthLevel {
	converted := make([]DepthLevel, 0, len(levels))
	for _, level := range levels {
		converted = append(converted, DepthLevel{
			Price:  ins.PriceFromTicks(level.Price),
			Volume: ins.SizeFromLots(level.Volume),
			Orders: level.Orders,
		})
	}
	return converted
}
