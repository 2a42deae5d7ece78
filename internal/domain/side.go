package domain

import (
	"fmt"
	"strings"
)

// Side is the market operation being optimised.
// For a sell the input is the taker token; for a buy the input is the maker token.
type Side uint8

const (
	SideSell Side = iota
	SideBuy
)

func (s Side) String() string {
	switch s {
	case SideSell:
		return "sell"
	case SideBuy:
		return "buy"
	default:
		return "UNKNOWN"
	}
}

func (s Side) MarshalText() ([]byte, error) {
	if s != SideSell && s != SideBuy {
		return nil, fmt.Errorf("invalid side: %d", s)
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "sell":
		*s = SideSell
	case "buy":
		*s = SideBuy
	default:
		return fmt.Errorf("invalid side: %q", string(text))
	}
	return nil
}

// FillType identifies how a fill is settled.
type FillType uint8

const (
	FillTypeBridge FillType = iota
	FillTypeLimit
	FillTypeRfq
)

func (t FillType) String() string {
	switch t {
	case FillTypeBridge:
		return "bridge"
	case FillTypeLimit:
		return "limit"
	case FillTypeRfq:
		return "rfq"
	default:
		return "UNKNOWN"
	}
}

func (t FillType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *FillType) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "bridge":
		*t = FillTypeBridge
	case "limit":
		*t = FillTypeLimit
	case "rfq":
		*t = FillTypeRfq
	default:
		return fmt.Errorf("invalid fill type: %q", string(text))
	}
	return nil
}

// IsNative reports whether the fill type is settled as a signed 0x-style order.
func (t FillType) IsNative() bool {
	return t == FillTypeLimit || t == FillTypeRfq
}
