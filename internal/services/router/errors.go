package router

import "errors"

var (
	// User-facing: the request cannot be filled with the liquidity at hand.
	ErrNoLiquidity   = errors.New("no liquidity")
	ErrNoOptimalPath = errors.New("no optimal path")
	ErrEmptyOrders   = errors.New("optimizer produced no orders")

	// Programming errors: never recovered, always propagated.
	ErrInvalidPath         = errors.New("optimal path failed validation")
	ErrTargetInputMismatch = errors.New("target input mismatch")
	ErrInvalidBridgeSource = errors.New("source cannot be encoded as a bridge order")
	ErrNoBridgeForSource   = errors.New("no bridge encoder for source")
	ErrInvalidFillData     = errors.New("fill data does not match source")
	ErrAmountOverflow      = errors.New("order amount does not fit in uint256")
	ErrMissingPenaltyOpts  = errors.New("missing path penalty options")
)

// IsInsufficientLiquidity reports whether err is one of the conditions a caller
// should present to an end user as "insufficient liquidity".
func IsInsufficientLiquidity(err error) bool {
	return errors.Is(err, ErrNoLiquidity) ||
		errors.Is(err, ErrNoOptimalPath) ||
		errors.Is(err, ErrEmptyOrders)
}
