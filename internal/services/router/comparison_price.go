package router

import (
	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonPrice is the maker-per-taker price, in whole-token units, an RFQ
// maker would have to beat to improve on adjustedRate once the flat RFQ
// settlement gas is charged against it. ok is false when the penalised trade
// leaves either side non-positive.
func ComparisonPrice(
	adjustedRate, amount decimal.Decimal,
	msl *domain.MarketSideLiquidity,
	gasPrice decimal.Decimal,
	rfqGas uint64,
) (price decimal.Decimal, ok bool) {
	if adjustedRate.Sign() <= 0 || amount.Sign() <= 0 {
		return zero, false
	}

	feeInEth := decimal.NewFromInt(int64(rfqGas)).Mul(gasPrice)
	var penalty decimal.Decimal
	if !msl.OutputAmountPerEth.IsZero() {
		penalty = msl.OutputAmountPerEth.Mul(feeInEth)
	} else if msl.Side == domain.SideSell {
		penalty = msl.InputAmountPerEth.Mul(feeInEth).Mul(adjustedRate)
	} else {
		penalty = div(msl.InputAmountPerEth.Mul(feeInEth), adjustedRate)
	}

	var makerAmount, takerAmount decimal.Decimal
	if msl.Side == domain.SideSell {
		makerAmount = adjustedRate.Mul(amount).Sub(penalty).Ceil()
		takerAmount = amount.Floor()
	} else {
		makerAmount = amount.Ceil()
		takerAmount = div(amount, adjustedRate).Add(penalty).Floor()
	}
	if makerAmount.Sign() <= 0 || takerAmount.Sign() <= 0 {
		return zero, false
	}

	maker := makerAmount.Shift(-msl.MakerTokenDecimals)
	taker := takerAmount.Shift(-msl.TakerTokenDecimals)
	return div(maker, taker), true
}
