package router

import (
	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	TxBaseGas                       = 21000
	FillQuoteTransformerGasOverhead = 150000
	LiquidityProviderSettlementGas  = TxBaseGas + 10000
	DefaultLiquidityProviderGas     = 100000
	NativeLimitOrderGas             = 120000
	NativeRfqOrderGas               = 100000
)

func flatGas(gas uint64) domain.GasEstimator {
	return func(domain.FillData) uint64 { return gas }
}

// DefaultGasSchedule returns the gas estimate of each source.
func DefaultGasSchedule() domain.GasSchedule {
	schedule := domain.GasSchedule{
		domain.SourceNative: func(fd domain.FillData) uint64 {
			if native, ok := fd.(*domain.NativeFillData); ok && native.Type == domain.FillTypeRfq {
				return NativeRfqOrderGas
			}
			return NativeLimitOrderGas
		},
		domain.SourceUniswap:    flatGas(90000),
		domain.SourceUniswapV2:  uniswapV2Gas,
		domain.SourceSushiSwap:  uniswapV2Gas,
		domain.SourceCurve:      flatGas(600000),
		domain.SourceSwerve:     flatGas(600000),
		domain.SourceBalancer:   flatGas(120000),
		domain.SourceCream:      flatGas(120000),
		domain.SourceBalancerV2: flatGas(100000),
		domain.SourceBancor:     flatGas(300000),
		domain.SourceKyber:      flatGas(450000),
		domain.SourceMooniswap:  flatGas(130000),
		domain.SourceDodo:       flatGas(100000),
		domain.SourceDodoV2:     flatGas(100000),
		domain.SourceShell:      flatGas(170000),
		domain.SourceMStable:    flatGas(700000),
		domain.SourceEth2Dai:    flatGas(400000),
		domain.SourceLido:       flatGas(226000),
		domain.SourceLiquidityProvider: func(fd domain.FillData) uint64 {
			if lp, ok := fd.(*domain.LiquidityProviderFillData); ok && lp.GasCost > 0 {
				return lp.GasCost
			}
			return DefaultLiquidityProviderGas
		},
		domain.SourceUniswapV3: func(fd domain.FillData) uint64 {
			gas := uint64(100000)
			if v3, ok := fd.(*domain.UniswapV3FillData); ok && v3.HopCount > 1 {
				gas += uint64(v3.HopCount-1) * 32000
			}
			return gas
		},
		domain.SourceKyberDmm: func(fd domain.FillData) uint64 {
			gas := uint64(95000)
			if dmm, ok := fd.(*domain.KyberDmmFillData); ok && len(dmm.PoolsPath) > 1 {
				gas += uint64(len(dmm.PoolsPath)-1) * 30000
			}
			return gas
		},
	}
	// A two-hop route costs both of its hops.
	schedule[domain.SourceMultiHop] = func(fd domain.FillData) uint64 {
		mh, ok := fd.(*domain.MultiHopFillData)
		if !ok || mh.FirstHopSource == nil || mh.SecondHopSource == nil {
			return 0
		}
		return schedule.Gas(mh.FirstHopSource.Source, mh.FirstHopSource.FillData) +
			schedule.Gas(mh.SecondHopSource.Source, mh.SecondHopSource.FillData)
	}
	return schedule
}

func uniswapV2Gas(fd domain.FillData) uint64 {
	gas := uint64(90000)
	if v2, ok := fd.(*domain.UniswapV2FillData); ok && len(v2.TokenAddressPath) > 2 {
		gas += uint64(len(v2.TokenAddressPath)-2) * 60000
	}
	return gas
}

// DefaultExchangeProxyOverhead prices the settlement overhead of a path.
// Paths made of exactly one direct-call source skip the transformer overhead.
func DefaultExchangeProxyOverhead(gasPrice decimal.Decimal) domain.ExchangeProxyOverhead {
	return func(flags domain.SourceFlags) decimal.Decimal {
		var gas int64
		switch flags {
		case domain.SourceUniswapV2.Flag(), domain.SourceSushiSwap.Flag():
			gas = TxBaseGas
		case domain.SourceLiquidityProvider.Flag():
			gas = LiquidityProviderSettlementGas
		default:
			gas = FillQuoteTransformerGasOverhead
		}
		return decimal.NewFromInt(gas).Mul(gasPrice)
	}
}
