package orderreaderv1

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	orderbookv1 "github.com/openclob/matching-engine/internal/domain/orderbook/v1"
)

// OrderType represents the type of an inbound order request.
type OrderType string

const (
	// OrderTypeLimit represents a limit order.
	OrderTypeLimit OrderType = "limit"
	// OrderTypeMarket represents a market order.
	OrderTypeMarket OrderType = "market"
	// OrderTypeCancel represents a cancel request.
	OrderTypeCancel OrderType = "cancel"
)

var (
	// ErrUnknownOrderType is returned for an unrecognized request type.
	ErrUnknownOrderType = errors.New("unknown order type")
	// ErrMissingOrderID is returned when a cancel request carries no order ID.
	ErrMissingOrderID = errors.New("cancel request requires an order ID")
	// ErrInvalidPrice is returned when a limit request price is not positive.
	ErrInvalidPrice = errors.New("price must be positive")
	// ErrInvalidSize is returned when a request size is not positive.
	ErrInvalidSize = errors.New("size must be positive")
)

// OrderRequest is the payload consumed from the order topic. Prices and
// sizes arrive as decimals; the engine converts them to ticks and lots at
// admission.
type OrderRequest struct {
	RequestID string           `json:"requestID"`
	Type      OrderType        `json:"type"`
	Side      orderbookv1.Side `json:"side"`
	Price     decimal.Decimal  `json:"price"`
	Size      decimal.Decimal  `json:"size"`
	// OrderID identifies the resting order a cancel request targets.
	OrderID uint64 `json:"orderID,omitempty"`
	// Offset is the position of the request in the stream, set by the
	// reader from the consumed message.
	Offset int64 `json:"-"`
}

// Validate checks the request shape before it reaches the book. Numeric
// alignment against the instrument is checked later, at admission.
func (r *OrderRequest) Validate() error {
	switch r.Type {
	case OrderTypeLimit:
		if !r.Price.IsPositive() {
			return fmt.Errorf("%w: %s", ErrInvalidPrice, r.Price)
		}
		if !r.Size.IsPositive() {
			return fmt.Errorf("%w: %s", ErrInvalidSize, r.Size)
		}
	case OrderTypeMarket:
		if !r.Size.IsPositive() {
			return fmt.Errorf("%w: %s", ErrInvalidSize, r.Size)
		}
	case OrderTypeCancel:
		if r.OrderID == 0 {
			return ErrMissingOrderID
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOrderType, r.Type)
	}
	return nil
}
