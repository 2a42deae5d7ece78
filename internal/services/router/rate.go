package router

import (
	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/shopspring/decimal"
)

// Rate is output per input for sells and input per output for buys,
// so a larger rate is always better for the taker. Zero when either amount is zero.
func Rate(side domain.Side, input, output decimal.Decimal) decimal.Decimal {
	if input.IsZero() || output.IsZero() {
		return zero
	}
	if side == domain.SideSell {
		return div(output, input)
	}
	return div(input, output)
}

// CompleteRate is Rate scaled by how much of the target a partial amount covers,
// which lets incomplete paths be ranked against complete ones.
func CompleteRate(side domain.Side, input, output, targetInput decimal.Decimal) decimal.Decimal {
	if input.IsZero() || output.IsZero() || targetInput.IsZero() {
		return zero
	}
	if side == domain.SideSell {
		return div(output, targetInput)
	}
	// (input / output) * (input / target)
	return div(input, output).Mul(div(input, targetInput))
}
