package router

import (
	"testing"

	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillTokenAmountsRounding(t *testing.T) {
	maker, taker := fillTokenAmounts(domain.SideSell, dec("10.2"), dec("30.7"))
	assert.True(t, maker.Equal(dec("30")))
	assert.True(t, taker.Equal(dec("11")))

	maker, taker = fillTokenAmounts(domain.SideBuy, dec("10.2"), dec("30.7"))
	assert.True(t, maker.Equal(dec("11")))
	assert.True(t, taker.Equal(dec("30")))
}

func TestCreateNativeOptimizedOrder(t *testing.T) {
	f := nativeFill("n", 0, "40", "120")
	cf := &domain.CollapsedFill{
		SourcePathID: f.SourcePathID,
		Source:       f.Source,
		Type:         domain.FillTypeRfq,
		FillData:     f.FillData,
		Input:        f.Input,
		Output:       f.Output,
		SubFills:     []*domain.Fill{f},
	}

	order, err := CreateNativeOptimizedOrder(cf, domain.SideSell)
	require.NoError(t, err)
	assert.Equal(t, domain.FillTypeRfq, order.Type)
	assert.Equal(t, tokenOut, order.MakerToken)
	assert.Equal(t, tokenIn, order.TakerToken)
	assert.True(t, order.MakerAmount.Equal(dec("120")))
	assert.True(t, order.TakerAmount.Equal(dec("40")))
	assert.Nil(t, order.Bridge)
	assert.Same(t, f.FillData, order.FillData)

	cf.FillData = uniswapV2Data()
	_, err = CreateNativeOptimizedOrder(cf, domain.SideSell)
	assert.ErrorIs(t, err, ErrInvalidFillData)
}

func TestCreateBridgeOrder(t *testing.T) {
	f := bridgeFill("a", domain.SourceUniswapV2, 0, "40", "120")
	cf := &domain.CollapsedFill{
		SourcePathID: "a",
		Source:       f.Source,
		Type:         f.Type,
		FillData:     f.FillData,
		Input:        f.Input,
		Output:       f.Output,
		SubFills:     []*domain.Fill{f},
	}

	order, err := CreateBridgeOrder(cf, &CreateOrderOpts{Side: domain.SideBuy, InputToken: tokenOut, OutputToken: tokenIn})
	require.NoError(t, err)
	assert.Equal(t, domain.FillTypeBridge, order.Type)
	assert.Equal(t, tokenOut, order.MakerToken)
	assert.Equal(t, tokenIn, order.TakerToken)
	assert.True(t, order.MakerAmount.Equal(dec("40")))
	assert.True(t, order.TakerAmount.Equal(dec("120")))
	require.NotNil(t, order.Bridge)
	assert.Equal(t, BridgeSourceID(BridgeProtocolUniswapV2, "Uniswap_V2"), order.Bridge.SourceID)

	cf.Output = MaxUint256.Add(dec("1"))
	_, err = CreateBridgeOrder(cf, &CreateOrderOpts{Side: domain.SideSell, InputToken: tokenIn, OutputToken: tokenOut})
	assert.ErrorIs(t, err, ErrAmountOverflow)
}
