package router

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	tokenIn       = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	tokenOut      = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	tokenMid      = common.HexToAddress("0x00000000000000000000000000000000000000c3")
	testRouter    = common.HexToAddress("0x7a250d5630b4cf539739df2c5dacb4c659f2488d")
	testCurvePool = common.HexToAddress("0xa5407eae9ba41422680e2e00537571bcc53efbfd")
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// sequentialIDs returns a deterministic source path id generator.
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("path-%d", n)
	}
}

func uniswapV2Data() *domain.UniswapV2FillData {
	return &domain.UniswapV2FillData{Router: testRouter, TokenAddressPath: []common.Address{tokenIn, tokenOut}}
}

func curveData() *domain.CurveFillData {
	return &domain.CurveFillData{PoolAddress: testCurvePool, FromTokenIdx: 0, ToTokenIdx: 1}
}

// bridgeFill builds a DEX fill without penalty.
func bridgeFill(id string, source domain.Source, index int, input, output string) *domain.Fill {
	var fd domain.FillData = uniswapV2Data()
	if source == domain.SourceCurve {
		fd = curveData()
	}
	return &domain.Fill{
		SourcePathID:   id,
		Source:         source,
		Type:           domain.FillTypeBridge,
		FillData:       fd,
		Flags:          source.Flag(),
		Input:          dec(input),
		Output:         dec(output),
		AdjustedOutput: dec(output),
		Index:          index,
		HasParent:      index > 0,
	}
}

func nativeFill(id string, index int, input, output string) *domain.Fill {
	o := limitOrder(input, output)
	return &domain.Fill{
		SourcePathID:   id,
		Source:         domain.SourceNative,
		Type:           domain.FillTypeLimit,
		FillData:       &domain.NativeFillData{NativeOrderWithFillableAmounts: o},
		Flags:          domain.FlagLimitOrder,
		Input:          dec(input),
		Output:         dec(output),
		AdjustedOutput: dec(output),
		Index:          index,
		HasParent:      index > 0,
	}
}

// limitOrder builds a sell-side native order taking tokenIn for tokenOut.
func limitOrder(taker, maker string) domain.NativeOrderWithFillableAmounts {
	return domain.NativeOrderWithFillableAmounts{
		Type: domain.FillTypeLimit,
		Order: domain.NativeOrder{
			MakerToken:  tokenOut,
			TakerToken:  tokenIn,
			MakerAmount: dec(maker),
			TakerAmount: dec(taker),
		},
		FillableMakerAmount:    dec(maker),
		FillableTakerAmount:    dec(taker),
		FillableTakerFeeAmount: decimal.Zero,
	}
}

func dexCurve(source domain.Source, fd domain.FillData, points ...[2]string) []domain.DexSample {
	samples := make([]domain.DexSample, len(points))
	for i, p := range points {
		samples[i] = domain.DexSample{Source: source, Input: dec(p[0]), Output: dec(p[1]), FillData: fd}
	}
	return samples
}

func noPenalty() *domain.PathPenaltyOpts {
	return &domain.PathPenaltyOpts{
		OutputAmountPerEth: decimal.Zero,
		InputAmountPerEth:  decimal.Zero,
		GasPrice:           decimal.Zero,
	}
}
