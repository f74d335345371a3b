package instrumentv1

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyPair is returned when an instrument has no pair symbol.
	ErrEmptyPair = errors.New("pair must not be empty")
	// ErrInvalidTickSize is returned when the tick size is not positive.
	ErrInvalidTickSize = errors.New("tick size must be positive")
	// ErrInvalidLotSize is returned when the lot size is not positive.
	ErrInvalidLotSize = errors.New("lot size must be positive")
	// ErrInvalidPrice is returned when a price is not positive.
	ErrInvalidPrice = errors.New("price must be positive")
	// ErrInvalidSize is returned when a size is not positive.
	ErrInvalidSize = errors.New("size must be positive")
	// ErrPriceNotAligned is returned when a price is not a whole multiple
	// of the tick size.
	ErrPriceNotAligned = errors.New("price is not a multiple of the tick size")
	// ErrSizeNotAligned is returned when a size is not a whole multiple
	// of the lot size.
	ErrSizeNotAligned = errors.New("size is not a multiple of the lot size")
)

// Instrument describes one traded pair and converts between the decimal
// prices and sizes used at the boundary and the integer ticks and lots the
// book works with. Keeping the book on integers avoids float map keys and
// float comparison hazards entirely.
type Instrument struct {
	Pair     string
	TickSize decimal.Decimal
	LotSize  decimal.Decimal
}

// NewInstrument validates the pair parameters and returns an Instrument.
func NewInstrument(pair string, tickSize, lotSize decimal.Decimal) (*Instrument, error) {
	if pair == "" {
		return nil, ErrEmptyPair
	}
	if !tickSize.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTickSize, tickSize)
	}
	if !lotSize.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLotSize, lotSize)
	}

	return &Instrument{
		Pair:     pair,
		TickSize: tickSize,
		LotSize:  lotSize,
	}, nil
}

// PriceToTicks converts a decimal price into ticks. The price must be
// positive and tick-aligned; off-tick prices are rejected, not rounded.
func (i *Instrument) PriceToTicks(price decimal.Decimal) (int64, error) {
	if !price.IsPositive() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPrice, price)
	}

	ticks, rem := price.QuoRem(i.TickSize, 0)
	if !rem.IsZero() {
		return 0, fmt.Errorf("%w: %s at tick %s", ErrPriceNotAligned, price, i.TickSize)
	}
	return ticks.IntPart(), nil
}

// SizeToLots converts a decimal quantity into lots. The size must be
// positive and lot-aligned.
func (i *Instrument) SizeToLots(size decimal.Decimal) (int64, error) {
	if !size.IsPositive() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidSize, size)
	}

	lots, rem := size.QuoRem(i.LotSize, 0)
	if !rem.IsZero() {
		return 0, fmt.Errorf("%w: %s at lot %s", ErrSizeNotAligned, size, i.LotSize)
	}
	return lots.IntPart(), nil
}

// PriceFromTicks converts ticks back into a decimal price.
func (i *Instrument) PriceFromTicks(ticks int64) decimal.Decimal {
	return i.TickSize.Mul(decimal.NewFromInt(ticks))
}

// SizeFromLots converts lots back into a decimal quantity.
func (i *Instrument) SizeFromLots(lots int64) decimal.Decimal {
	return i.LotSize.Mul(decimal.NewFromInt(lots))
}

// AveragePrice converts a fill notional, in tick-lot units, and a filled
// quantity in lots into a decimal volume weighted average price.
func (i *Instrument) AveragePrice(notional, filled int64) decimal.Decimal {
	if filled == 0 {
		return decimal.Zero
	}
	return i.TickSize.Mul(decimal.NewFromInt(notional)).Div(decimal.NewFromInt(filled))
}
