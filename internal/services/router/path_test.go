package router

import (
	"testing"

	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathAppendClipsToTarget(t *testing.T) {
	first := bridgeFill("a", domain.SourceUniswapV2, 0, "60", "120")
	first.AdjustedOutput = dec("110")
	second := bridgeFill("a", domain.SourceUniswapV2, 1, "60", "60")
	second.AdjustedOutput = dec("50")

	p := CreatePath(domain.SideSell, []*domain.Fill{first, second}, dec("100"), noPenalty())

	assert.True(t, p.Size().Input.Equal(dec("100")))
	assert.True(t, p.Size().Output.Equal(dec("160")), "got %s", p.Size().Output)
	// 110 + 40 scaled + (50 - 60) penalty carried in full
	assert.True(t, p.AdjustedSize().Output.Equal(dec("140")), "got %s", p.AdjustedSize().Output)
	assert.True(t, p.IsComplete())
	assert.Equal(t, domain.SourceUniswapV2.Flag(), p.SourceFlags())
}

func TestPathAdjustedSizeOverhead(t *testing.T) {
	opts := &domain.PathPenaltyOpts{
		OutputAmountPerEth: dec("2"),
		InputAmountPerEth:  decimal.Zero,
		ExchangeProxyOverhead: func(flags domain.SourceFlags) decimal.Decimal {
			return dec("5")
		},
	}
	fills := []*domain.Fill{bridgeFill("a", domain.SourceUniswapV2, 0, "100", "200")}

	sell := CreatePath(domain.SideSell, fills, dec("100"), opts)
	assert.True(t, sell.AdjustedSize().Output.Equal(dec("190")))
	assert.True(t, sell.AdjustedRate().Equal(dec("1.9")))

	buy := CreatePath(domain.SideBuy, fills, dec("100"), opts)
	assert.True(t, buy.AdjustedSize().Output.Equal(dec("210")))
}

func TestPathAdjustedSizeOverheadAtAdjustedRate(t *testing.T) {
	opts := &domain.PathPenaltyOpts{
		OutputAmountPerEth: decimal.Zero,
		InputAmountPerEth:  dec("1"),
		ExchangeProxyOverhead: func(flags domain.SourceFlags) decimal.Decimal {
			return dec("10")
		},
	}
	fill := bridgeFill("a", domain.SourceUniswapV2, 0, "100", "200")
	fill.AdjustedOutput = dec("100")

	// The overhead is converted at the fee-adjusted rate of 1, not the raw rate of 2.
	p := CreatePath(domain.SideSell, []*domain.Fill{fill}, dec("100"), opts)
	assert.True(t, p.AdjustedSize().Output.Equal(dec("90")), "got %s", p.AdjustedSize().Output)
	assert.True(t, p.Size().Output.Equal(dec("200")))
}

func TestPathIsBetterThan(t *testing.T) {
	target := dec("100")
	partial := CreatePath(domain.SideSell, []*domain.Fill{bridgeFill("a", domain.SourceUniswapV2, 0, "50", "500")}, target, noPenalty())
	complete := CreatePath(domain.SideSell, []*domain.Fill{bridgeFill("b", domain.SourceCurve, 0, "100", "150")}, target, noPenalty())
	better := CreatePath(domain.SideSell, []*domain.Fill{bridgeFill("c", domain.SourceCurve, 0, "100", "180")}, target, noPenalty())

	ok, err := complete.IsBetterThan(partial)
	require.NoError(t, err)
	assert.True(t, ok, "more input wins below target")

	ok, err = partial.IsBetterThan(complete)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = better.IsBetterThan(complete)
	require.NoError(t, err)
	assert.True(t, ok)

	other := CreatePath(domain.SideSell, nil, dec("99"), noPenalty())
	_, err = complete.IsBetterThan(other)
	assert.ErrorIs(t, err, ErrTargetInputMismatch)
}

func TestPathValidity(t *testing.T) {
	a0 := bridgeFill("a", domain.SourceUniswapV2, 0, "10", "10")
	a1 := bridgeFill("a", domain.SourceUniswapV2, 1, "10", "10")
	b0 := bridgeFill("b", domain.SourceCurve, 0, "10", "10")

	p := CreatePath(domain.SideSell, []*domain.Fill{a0}, dec("100"), noPenalty())
	assert.True(t, p.IsValidNextFill(a1))
	assert.True(t, p.IsValidNextFill(b0))

	p.Append(b0)
	assert.False(t, p.IsValidNextFill(a1), "a1 must directly follow a0")
	assert.False(t, NewPath(domain.SideSell, dec("1"), noPenalty()).IsValidNextFill(a1))

	assert.True(t, CreatePath(domain.SideSell, []*domain.Fill{a0, a1, b0}, dec("100"), noPenalty()).IsValid(false))
	assert.False(t, CreatePath(domain.SideSell, []*domain.Fill{a0, b0, a1}, dec("100"), noPenalty()).IsValid(true))
	assert.False(t, CreatePath(domain.SideSell, []*domain.Fill{a1}, dec("100"), noPenalty()).IsValid(true))

	dup := CreatePath(domain.SideSell, []*domain.Fill{b0, b0}, dec("100"), noPenalty())
	assert.True(t, dup.IsValid(true))
	assert.False(t, dup.IsValid(false))
}

func TestPathCloneIsIndependent(t *testing.T) {
	a0 := bridgeFill("a", domain.SourceUniswapV2, 0, "10", "10")
	b0 := bridgeFill("b", domain.SourceCurve, 0, "10", "20")

	p := CreatePath(domain.SideSell, []*domain.Fill{a0}, dec("100"), noPenalty())
	c := p.Clone().Append(b0)

	assert.Len(t, p.Fills(), 1)
	assert.Len(t, c.Fills(), 2)
	assert.True(t, p.Size().Output.Equal(dec("10")))
	assert.True(t, c.Size().Output.Equal(dec("30")))
	assert.Same(t, p.PenaltyOpts(), c.PenaltyOpts())
}

func TestPathAddFallback(t *testing.T) {
	t.Run("native first and duplicates dropped", func(t *testing.T) {
		uni := bridgeFill("u", domain.SourceUniswapV2, 0, "50", "100")
		native := nativeFill("n", 0, "50", "110")

		p := CreatePath(domain.SideSell, []*domain.Fill{uni, native}, dec("100"), noPenalty())
		fallback := CreatePath(domain.SideSell, []*domain.Fill{uni}, dec("100"), noPenalty())
		p.AddFallback(fallback)

		require.Len(t, p.Fills(), 2)
		assert.Same(t, native, p.Fills()[0])
		assert.Same(t, uni, p.Fills()[1])

		start, ok := p.FallbackFillsStartIndex()
		assert.True(t, ok)
		assert.Equal(t, 2, start)
		assert.Equal(t, domain.SourceUniswapV2.Flag()|domain.FlagLimitOrder, p.SourceFlags())
	})

	t.Run("already present fallback leaves the path unchanged", func(t *testing.T) {
		uni := bridgeFill("u", domain.SourceUniswapV2, 0, "50", "100")
		lp := bridgeFill("l", domain.SourceLiquidityProvider, 0, "50", "100")

		p := CreatePath(domain.SideSell, []*domain.Fill{uni, lp}, dec("100"), noPenalty())
		p.AddFallback(CreatePath(domain.SideSell, []*domain.Fill{uni}, dec("100"), noPenalty()))

		require.Len(t, p.Fills(), 2)
		assert.Same(t, uni, p.Fills()[0])
		assert.Same(t, lp, p.Fills()[1])
	})

	t.Run("flags equal the union of merged fills", func(t *testing.T) {
		native := nativeFill("n", 0, "100", "110")
		curve := bridgeFill("c", domain.SourceCurve, 0, "100", "100")

		p := CreatePath(domain.SideSell, []*domain.Fill{native}, dec("100"), noPenalty())
		p.AddFallback(CreatePath(domain.SideSell, []*domain.Fill{curve}, dec("100"), noPenalty()))

		var expected domain.SourceFlags
		for _, f := range p.Fills() {
			expected |= f.Flags
		}
		assert.Equal(t, expected, p.SourceFlags())
		start, _ := p.FallbackFillsStartIndex()
		assert.Equal(t, 1, start)
	})
}

func TestPathCollapse(t *testing.T) {
	opts := &CreateOrderOpts{Side: domain.SideSell, InputToken: tokenIn, OutputToken: tokenOut}

	t.Run("merges consecutive bridge fills only", func(t *testing.T) {
		n0 := nativeFill("n", 0, "10", "50")
		n1 := nativeFill("n", 1, "10", "40")
		a0 := bridgeFill("a", domain.SourceUniswapV2, 0, "20", "70")
		a1 := bridgeFill("a", domain.SourceUniswapV2, 1, "20", "60")
		a1.FillData = &domain.UniswapV2FillData{Router: testRouter, TokenAddressPath: a0.FillData.(*domain.UniswapV2FillData).TokenAddressPath}
		c0 := bridgeFill("c", domain.SourceCurve, 0, "40", "100")

		p := CreatePath(domain.SideSell, []*domain.Fill{n0, n1, a0, a1, c0}, dec("100"), noPenalty())
		orders, err := p.Collapse(opts)
		require.NoError(t, err)
		require.Len(t, orders, 4)

		assert.Equal(t, domain.SourceNative, orders[0].Source)
		assert.Equal(t, domain.SourceNative, orders[1].Source)

		merged := p.CollapsedFills()[2]
		assert.Len(t, merged.SubFills, 2)
		assert.True(t, merged.Input.Equal(dec("40")))
		assert.True(t, merged.Output.Equal(dec("130")))
		assert.Same(t, a1.FillData, merged.FillData)

		assert.True(t, orders[2].MakerAmount.Equal(dec("130")))
		assert.True(t, orders[2].TakerAmount.Equal(dec("40")))
		assert.Equal(t, tokenOut, orders[2].MakerToken)
		assert.Equal(t, tokenIn, orders[2].TakerToken)
		assert.NotNil(t, orders[2].Bridge)
		assert.Equal(t, domain.SourceCurve, orders[3].Source)
	})

	t.Run("fallback fills stay separate", func(t *testing.T) {
		n0 := nativeFill("n", 0, "100", "500")
		a0 := bridgeFill("a", domain.SourceUniswapV2, 0, "50", "240")
		a1 := bridgeFill("a", domain.SourceUniswapV2, 1, "50", "230")

		p := CreatePath(domain.SideSell, []*domain.Fill{n0, a0}, dec("100"), noPenalty())
		p.AddFallback(CreatePath(domain.SideSell, []*domain.Fill{a0, a1}, dec("100"), noPenalty()))

		orders, err := p.Collapse(opts)
		require.NoError(t, err)
		require.Len(t, orders, 3)
		assert.False(t, orders[0].IsFallback)
		assert.False(t, orders[1].IsFallback)
		assert.True(t, orders[2].IsFallback)
		assert.Equal(t, orders[1].SourcePathID, orders[2].SourcePathID)
	})

	t.Run("deterministic", func(t *testing.T) {
		fills := []*domain.Fill{
			nativeFill("n", 0, "10", "50"),
			bridgeFill("a", domain.SourceUniswapV2, 0, "20", "70"),
			bridgeFill("a", domain.SourceUniswapV2, 1, "20", "60"),
		}
		first, err := CreatePath(domain.SideSell, fills, dec("100"), noPenalty()).Collapse(opts)
		require.NoError(t, err)
		second, err := CreatePath(domain.SideSell, fills, dec("100"), noPenalty()).Collapse(opts)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestPathSlippageAndBestRate(t *testing.T) {
	p := CreatePath(domain.SideSell, []*domain.Fill{
		bridgeFill("a", domain.SourceUniswapV2, 0, "50", "150"),
		bridgeFill("a", domain.SourceUniswapV2, 1, "50", "50"),
	}, dec("100"), noPenalty())

	assert.True(t, p.BestRate().Equal(dec("3")))
	assert.True(t, p.AdjustedRate().Equal(dec("2")))
	assert.True(t, p.AdjustedSlippage(dec("4")).Equal(dec("0.5")))
	assert.True(t, p.AdjustedSlippage(decimal.Zero).IsZero())
}
