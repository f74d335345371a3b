package fillpublisherv1

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	instrumentv1 "github.com/openclob/matching-engine/internal/domain/instrument/v1"
	orderbookv1 "github.com/openclob/matching-engine/internal/domain/orderbook/v1"
)

// ExecutionEvent is the outbound record of one taker execution: the fills
// it produced, how much of the request was satisfied and at what average
// price. Downstream consumers (settlement, reporting, market data) treat
// it as the authoritative trade record.
type ExecutionEvent struct {
	ExecutionID  string           `json:"executionID"`
	Pair         string           `json:"pair"`
	RequestID    string           `json:"requestID"`
	TakerSide    orderbookv1.Side `json:"takerSide"`
	Requested    decimal.Decimal  `json:"requested"`
	Filled       decimal.Decimal  `json:"filled"`
	AveragePrice decimal.Decimal  `json:"averagePrice"`
	Fills        []FillEvent      `json:"fills"`
	Timestamp    time.Time        `json:"timestamp"`
}

// FillEvent is one maker order consumed during the execution, priced at
// the maker's level.
type FillEvent struct {
	MakerOrderID uint64          `json:"makerOrderID"`
	Price        decimal.Decimal `json:"price"`
	Size         decimal.Decimal `json:"size"`
}

// FromExecution builds an ExecutionEvent from a matching result, converting
// ticks and lots back to decimals and stamping a fresh execution ID.
func FromExecution(
	ins *instrumentv1.Instrument,
	requestID string,
	taker orderbookv1.Side,
	result orderbookv1.ExecutionResult,
) *ExecutionEvent {
	fills := make([]FillEvent, 0, len(result.Fills))
	for _, fill := range result.Fills {
		fills = append(fills, FillEvent{
			MakerOrderID: fill.MakerID,
			Price:        ins.PriceFromTicks(fill.Price),
			Size:         ins.SizeFromLots(fill.Size),
		})
	}

	return &ExecutionEvent{
		ExecutionID:  ulid.Make().String(),
		Pair:         ins.Pair,
		RequestID:    requestID,
		TakerSide:    taker,
		Requested:    ins.SizeFromLots(result.Requested),
		Filled:       ins.SizeFromLots(result.Filled),
		AveragePrice: ins.AveragePrice(result.Notional, result.Filled),
		Fills:        fills,
		Timestamp:    time.Now().UTC(),
	}
}

// ToBytes converts the execution event to a byte array.
func ToBytes(event *ExecutionEvent) []byte {
	buf, err := json.Marshal(event)
	if err != nil {
		return nil
	}
	return buf
}

// FromBytes converts a byte array to an execution event.
func FromBytes(data []byte) *ExecutionEvent {
	var event ExecutionEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil
	}
	return &event
}
