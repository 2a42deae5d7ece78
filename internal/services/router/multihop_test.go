package router

import (
	"testing"

	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoHopSample(input, output string) domain.TwoHopSample {
	return domain.TwoHopSample{
		Input:  dec(input),
		Output: dec(output),
		FillData: &domain.MultiHopFillData{
			IntermediateToken: tokenMid,
			FirstHopSource:    &domain.SourceQuote{Source: domain.SourceUniswapV2, FillData: uniswapV2Data()},
			SecondHopSource:   &domain.SourceQuote{Source: domain.SourceCurve, FillData: curveData()},
		},
	}
}

func TestGetTwoHopAdjustedRate(t *testing.T) {
	opts := &TwoHopOpts{
		Side:        domain.SideSell,
		TargetInput: dec("100"),
		GasSchedule: DefaultGasSchedule(),
		PenaltyOpts: &domain.PathPenaltyOpts{
			OutputAmountPerEth:    dec("1"),
			InputAmountPerEth:     decimal.Zero,
			GasPrice:              dec("1"),
			ExchangeProxyOverhead: DefaultExchangeProxyOverhead(dec("1")),
		},
	}

	sample := twoHopSample("100", "10000000")
	// 150k overhead + 90k uniswap v2 + 600k curve
	rate := GetTwoHopAdjustedRate(&sample, opts)
	assert.True(t, rate.Equal(dec("91600")), "got %s", rate)

	short := twoHopSample("99", "10000000")
	assert.True(t, GetTwoHopAdjustedRate(&short, opts).IsZero())

	opts.Side = domain.SideBuy
	buy := twoHopSample("100", "160000")
	assert.True(t, GetTwoHopAdjustedRate(&buy, opts).Equal(dec("0.0001")))
}

func TestGetBestTwoHopQuote(t *testing.T) {
	opts := &TwoHopOpts{
		Side:        domain.SideSell,
		TargetInput: dec("100"),
		GasSchedule: DefaultGasSchedule(),
		PenaltyOpts: noPenalty(),
	}

	missingHop := twoHopSample("100", "900")
	missingHop.FillData.SecondHopSource = nil
	noData := twoHopSample("100", "900")
	noData.FillData = nil

	samples := []domain.TwoHopSample{
		twoHopSample("100", "200"),
		missingHop,
		noData,
		twoHopSample("100", "0"),
		twoHopSample("100", "300"),
	}

	best, rate := GetBestTwoHopQuote(samples, opts)
	require.NotNil(t, best)
	assert.Same(t, &samples[4], best)
	assert.True(t, rate.Equal(dec("3")))

	best, rate = GetBestTwoHopQuote(nil, opts)
	assert.Nil(t, best)
	assert.True(t, rate.IsZero())
}

func TestCreateOrdersFromTwoHopSample(t *testing.T) {
	sample := twoHopSample("100", "300")

	t.Run("sell", func(t *testing.T) {
		orders, err := CreateOrdersFromTwoHopSample(&sample, &CreateOrderOpts{
			Side: domain.SideSell, InputToken: tokenIn, OutputToken: tokenOut,
		})
		require.NoError(t, err)
		require.Len(t, orders, 2)

		first, second := orders[0], orders[1]
		assert.Equal(t, tokenMid, first.MakerToken)
		assert.Equal(t, tokenIn, first.TakerToken)
		assert.True(t, first.TakerAmount.Equal(dec("100")))
		assert.True(t, first.MakerAmount.IsZero())
		assert.Equal(t, domain.SourceUniswapV2, first.Source)

		assert.Equal(t, tokenOut, second.MakerToken)
		assert.Equal(t, tokenMid, second.TakerToken)
		assert.True(t, second.MakerAmount.Equal(dec("300")))
		assert.True(t, second.TakerAmount.Equal(MaxUint256))
		assert.Equal(t, domain.SourceCurve, second.Source)
	})

	t.Run("buy", func(t *testing.T) {
		orders, err := CreateOrdersFromTwoHopSample(&sample, &CreateOrderOpts{
			Side: domain.SideBuy, InputToken: tokenOut, OutputToken: tokenIn,
		})
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, tokenIn, orders[0].TakerToken)
		assert.True(t, orders[0].TakerAmount.Equal(dec("300")))
		assert.True(t, orders[1].MakerAmount.Equal(dec("100")))
		assert.True(t, orders[1].TakerAmount.Equal(MaxUint256))
	})

	t.Run("incomplete fill data", func(t *testing.T) {
		broken := twoHopSample("100", "300")
		broken.FillData.FirstHopSource = nil
		_, err := CreateOrdersFromTwoHopSample(&broken, &CreateOrderOpts{Side: domain.SideSell})
		assert.ErrorIs(t, err, ErrInvalidFillData)
	})
}
