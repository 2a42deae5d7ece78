package router

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/shopspring/decimal"
)

// divPrecision is the number of fractional digits kept by quotients.
// Rates between 6 and 18 decimal tokens need more than decimal's default 16.
const divPrecision = 40

var (
	zero = decimal.Zero

	// MaxUint256 marks "whatever the previous hop produced" in two-hop orders.
	MaxUint256 = decimal.NewFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)), 0)
)

// div returns a / b, or zero when b is zero.
func div(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return zero
	}
	return a.DivRound(b, divPrecision)
}

func minDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// ethToOutputAmount converts an amount of wei into output token units.
// Without an output/ETH rate it goes through the input/ETH rate and the
// fill's own output/input price.
func ethToOutputAmount(input, output, ethAmount, inputAmountPerEth, outputAmountPerEth decimal.Decimal) decimal.Decimal {
	if !outputAmountPerEth.IsZero() {
		return outputAmountPerEth.Mul(ethAmount)
	}
	if input.IsZero() {
		return zero
	}
	return inputAmountPerEth.Mul(ethAmount).Mul(div(output, input))
}

// penalize moves an output amount against the taker: down for sells, up for buys.
func penalize(side domain.Side, output, penalty decimal.Decimal) decimal.Decimal {
	if side == domain.SideSell {
		return output.Sub(penalty)
	}
	return output.Add(penalty)
}

// toUint256 checks that an order amount is a non-negative integer fitting in 256 bits.
func toUint256(d decimal.Decimal) (*uint256.Int, error) {
	if d.Sign() < 0 || !d.IsInteger() {
		return nil, ErrAmountOverflow
	}
	v, overflow := uint256.FromBig(d.BigInt())
	if overflow {
		return nil, ErrAmountOverflow
	}
	return v, nil
}
