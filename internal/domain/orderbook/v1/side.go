package orderbookv1

import "fmt"

// Side identifies which half of the book an order belongs to.
type Side int8

const (
	// SideBid is the buy side of the book.
	SideBid Side = iota
	// SideAsk is the sell side of the book.
	SideAsk
)

// ParseSide converts "bid" or "ask" into a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "bid":
		return SideBid, nil
	case "ask":
		return SideAsk, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSide, s)
	}
}

// Opposite returns the side a taker of s consumes liquidity from.
func (s Side) Opposite() Side {
	if s == SideBid {
		return SideAsk
	}
	return SideBid
}

// String implements fmt.Stringer.
func (s Side) String() string {
	switch s {
	case SideBid:
		return "bid"
	case SideAsk:
		return "ask"
	default:
		return fmt.Sprintf("side(%d)", int8(s))
	}
}

// MarshalText implements encoding.TextMarshaler so sides render as
// "bid"/"ask" in JSON payloads.
func (s Side) MarshalText() ([]byte, error) {
	switch s {
	case SideBid, SideAsk:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidSide, int8(s))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}

	*s = side
	return nil
}
