package router

import (
	"testing"

	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseFillsOpts(side domain.Side, target string) *FillsOpts {
	return &FillsOpts{
		Side:               side,
		TargetInput:        dec(target),
		OutputAmountPerEth: decimal.Zero,
		InputAmountPerEth:  decimal.Zero,
		GasSchedule:        DefaultGasSchedule(),
		GasPrice:           decimal.Zero,
	}
}

func TestNativeOrdersToFills(t *testing.T) {
	b := NewFillBuilder(sequentialIDs())

	t.Run("sorted best first and chained", func(t *testing.T) {
		opts := baseFillsOpts(domain.SideSell, "100")
		feeOrder := limitOrder("10", "90")
		feeOrder.FillableTakerFeeAmount = dec("1")
		opts.Orders = []domain.NativeOrderWithFillableAmounts{
			limitOrder("10", "30"),
			limitOrder("10", "50"),
			feeOrder,
		}

		fills := b.NativeOrdersToFills(opts)
		require.Len(t, fills, 2)

		assert.True(t, fills[0].Output.Equal(dec("50")))
		assert.Equal(t, 0, fills[0].Index)
		assert.False(t, fills[0].HasParent)

		assert.True(t, fills[1].Output.Equal(dec("30")))
		assert.Equal(t, 1, fills[1].Index)
		assert.True(t, fills[0].IsParentOf(fills[1]))

		assert.Equal(t, fills[0].SourcePathID, fills[1].SourcePathID)
		assert.Equal(t, domain.FlagLimitOrder, fills[0].Flags)
		assert.Equal(t, domain.FillTypeLimit, fills[0].Type)
	})

	t.Run("buy swaps input and output", func(t *testing.T) {
		opts := baseFillsOpts(domain.SideBuy, "100")
		opts.Orders = []domain.NativeOrderWithFillableAmounts{limitOrder("10", "30")}

		fills := b.NativeOrdersToFills(opts)
		require.Len(t, fills, 1)
		assert.True(t, fills[0].Input.Equal(dec("30")))
		assert.True(t, fills[0].Output.Equal(dec("10")))
	})

	t.Run("orders larger than the target are clipped", func(t *testing.T) {
		opts := baseFillsOpts(domain.SideSell, "100")
		opts.Orders = []domain.NativeOrderWithFillableAmounts{limitOrder("1000", "5000")}

		fills := b.NativeOrdersToFills(opts)
		require.Len(t, fills, 1)
		assert.True(t, fills[0].Input.Equal(dec("100")), "got %s", fills[0].Input)
		assert.True(t, fills[0].Output.Equal(dec("500")), "got %s", fills[0].Output)
		assert.True(t, fills[0].AdjustedOutput.Equal(dec("500")), "got %s", fills[0].AdjustedOutput)
	})

	t.Run("unprofitable orders are dropped", func(t *testing.T) {
		opts := baseFillsOpts(domain.SideSell, "100")
		opts.GasPrice = dec("1")
		opts.OutputAmountPerEth = dec("1")

		rfq := limitOrder("10", "200000")
		rfq.Type = domain.FillTypeRfq
		opts.Orders = []domain.NativeOrderWithFillableAmounts{limitOrder("10", "30"), rfq}

		fills := b.NativeOrdersToFills(opts)
		require.Len(t, fills, 1)
		assert.Equal(t, domain.FillTypeRfq, fills[0].Type)
		assert.Equal(t, domain.FlagRfqOrder, fills[0].Flags)
		assert.Equal(t, uint64(NativeRfqOrderGas), fills[0].GasCost)
		assert.True(t, fills[0].AdjustedOutput.Equal(dec("100000")), "got %s", fills[0].AdjustedOutput)
	})

	t.Run("ranked on the clipped portion", func(t *testing.T) {
		opts := baseFillsOpts(domain.SideSell, "10")
		opts.GasPrice = dec("1")
		opts.OutputAmountPerEth = dec("1")
		// The larger order has the better raw rate but only 10 of it is usable.
		opts.Orders = []domain.NativeOrderWithFillableAmounts{
			limitOrder("1000", "2000000"),
			limitOrder("10", "1300000"),
		}

		fills := b.NativeOrdersToFills(opts)
		require.Len(t, fills, 1)
		assert.True(t, fills[0].Input.Equal(dec("10")))
	})
}

func TestDexSamplesToFills(t *testing.T) {
	b := NewFillBuilder(sequentialIDs())

	t.Run("leading and trailing zero samples", func(t *testing.T) {
		opts := baseFillsOpts(domain.SideSell, "100")
		samples := dexCurve(domain.SourceUniswapV2, uniswapV2Data(),
			[2]string{"1", "0"}, [2]string{"2", "20"}, [2]string{"3", "30"}, [2]string{"4", "0"})

		fills := b.DexSamplesToFills(opts, samples)
		require.Len(t, fills, 2)

		assert.True(t, fills[0].Input.Equal(dec("1")))
		assert.True(t, fills[0].Output.Equal(dec("20")))
		assert.True(t, fills[1].Input.Equal(dec("1")))
		assert.True(t, fills[1].Output.Equal(dec("10")))

		assert.False(t, fills[0].HasParent)
		assert.True(t, fills[0].IsParentOf(fills[1]))
		assert.Equal(t, domain.FillTypeBridge, fills[1].Type)
		assert.Equal(t, domain.SourceUniswapV2.Flag(), fills[1].Flags)
	})

	t.Run("penalty only on the first fill", func(t *testing.T) {
		opts := baseFillsOpts(domain.SideSell, "1000")
		opts.GasPrice = dec("1")
		opts.OutputAmountPerEth = dec("1")
		samples := dexCurve(domain.SourceUniswap, &domain.UniswapFillData{Router: testRouter},
			[2]string{"100", "1000000"}, [2]string{"200", "1800000"})

		fills := b.DexSamplesToFills(opts, samples)
		require.Len(t, fills, 2)
		assert.True(t, fills[0].AdjustedOutput.Equal(dec("910000")), "got %s", fills[0].AdjustedOutput)
		assert.Equal(t, uint64(90000), fills[0].GasCost)
		assert.True(t, fills[1].AdjustedOutput.Equal(fills[1].Output))
		assert.Zero(t, fills[1].GasCost)
	})

	t.Run("buy adds the penalty", func(t *testing.T) {
		opts := baseFillsOpts(domain.SideBuy, "1000")
		opts.GasPrice = dec("1")
		opts.OutputAmountPerEth = dec("1")
		samples := dexCurve(domain.SourceUniswap, &domain.UniswapFillData{Router: testRouter},
			[2]string{"100", "1000000"})

		fills := b.DexSamplesToFills(opts, samples)
		require.Len(t, fills, 1)
		assert.True(t, fills[0].AdjustedOutput.Equal(dec("1090000")))
	})
}

func TestCreateFills(t *testing.T) {
	t.Run("clips to target and drops empty chains", func(t *testing.T) {
		b := NewFillBuilder(sequentialIDs())
		opts := baseFillsOpts(domain.SideSell, "80")
		opts.DexQuotes = [][]domain.DexSample{
			dexCurve(domain.SourceUniswapV2, uniswapV2Data(),
				[2]string{"40", "80"}, [2]string{"80", "150"}, [2]string{"120", "210"}),
			dexCurve(domain.SourceCurve, curveData(), [2]string{"40", "0"}),
		}

		chains := b.CreateFills(opts)
		require.Len(t, chains, 1)
		require.Len(t, chains[0], 2)
		assert.Equal(t, "path-1", chains[0][0].SourcePathID)
	})

	t.Run("excluded sources", func(t *testing.T) {
		b := NewFillBuilder(sequentialIDs())
		opts := baseFillsOpts(domain.SideSell, "100")
		opts.ExcludedSources = []domain.Source{domain.SourceUniswapV2}
		opts.DexQuotes = [][]domain.DexSample{
			dexCurve(domain.SourceUniswapV2, uniswapV2Data(), [2]string{"100", "200"}),
			dexCurve(domain.SourceCurve, curveData(), [2]string{"100", "190"}),
		}
		opts.Orders = []domain.NativeOrderWithFillableAmounts{limitOrder("50", "100")}

		chains := b.CreateFills(opts)
		require.Len(t, chains, 2)
		assert.Equal(t, domain.SourceCurve, chains[0][0].Source)
		assert.Equal(t, domain.SourceNative, chains[1][0].Source)
		assert.Equal(t, "path-3", chains[1][0].SourcePathID)
	})

	t.Run("no liquidity", func(t *testing.T) {
		b := NewFillBuilder(nil)
		assert.Empty(t, b.CreateFills(baseFillsOpts(domain.SideSell, "100")))
	})
}

func TestClipFillsToInput(t *testing.T) {
	fills := []*domain.Fill{
		bridgeFill("a", domain.SourceUniswapV2, 0, "40", "1"),
		bridgeFill("a", domain.SourceUniswapV2, 1, "40", "1"),
		bridgeFill("a", domain.SourceUniswapV2, 2, "40", "1"),
	}
	assert.Len(t, clipFillsToInput(fills, dec("100")), 3)
	assert.Len(t, clipFillsToInput(fills, dec("80")), 2)
	assert.Len(t, clipFillsToInput(fills, dec("10")), 1)
}
