package domain

// Source is a liquidity venue identifier.
type Source string

const (
	SourceNative            Source = "Native"
	SourceUniswap           Source = "Uniswap"
	SourceUniswapV2         Source = "Uniswap_V2"
	SourceUniswapV3         Source = "Uniswap_V3"
	SourceSushiSwap         Source = "SushiSwap"
	SourceCurve             Source = "Curve"
	SourceSwerve            Source = "Swerve"
	SourceBalancer          Source = "Balancer"
	SourceBalancerV2        Source = "Balancer_V2"
	SourceCream             Source = "Cream"
	SourceBancor            Source = "Bancor"
	SourceKyber             Source = "Kyber"
	SourceKyberDmm          Source = "KyberDMM"
	SourceMooniswap         Source = "Mooniswap"
	SourceDodo              Source = "DODO"
	SourceDodoV2            Source = "DODO_V2"
	SourceShell             Source = "Shell"
	SourceMStable           Source = "mStable"
	SourceEth2Dai           Source = "Eth2Dai"
	SourceLiquidityProvider Source = "LiquidityProvider"
	SourceLido              Source = "Lido"
	SourceMultiHop          Source = "MultiHop"
)

// SourceFlags is a bitmask of the venue categories present in a path.
type SourceFlags uint64

// AllSources lists every known source. Its order fixes the flag bit of each source.
var AllSources = []Source{
	SourceNative,
	SourceUniswap,
	SourceUniswapV2,
	SourceUniswapV3,
	SourceSushiSwap,
	SourceCurve,
	SourceSwerve,
	SourceBalancer,
	SourceBalancerV2,
	SourceCream,
	SourceBancor,
	SourceKyber,
	SourceKyberDmm,
	SourceMooniswap,
	SourceDodo,
	SourceDodoV2,
	SourceShell,
	SourceMStable,
	SourceEth2Dai,
	SourceLiquidityProvider,
	SourceLido,
	SourceMultiHop,
}

var (
	// FlagLimitOrder and FlagRfqOrder sit above every source bit.
	FlagLimitOrder = SourceFlags(1) << uint(len(AllSources))
	FlagRfqOrder   = SourceFlags(1) << uint(len(AllSources)+1)

	sourceFlags = func() map[Source]SourceFlags {
		m := make(map[Source]SourceFlags, len(AllSources))
		for i, s := range AllSources {
			m[s] = SourceFlags(1) << uint(i)
		}
		return m
	}()
)

// Flag returns the bit for the source, or 0 for an unknown source.
func (s Source) Flag() SourceFlags {
	return sourceFlags[s]
}

// IsKnown reports whether the source is part of AllSources.
func (s Source) IsKnown() bool {
	_, ok := sourceFlags[s]
	return ok
}

// Has reports whether every bit of other is set.
func (f SourceFlags) Has(other SourceFlags) bool {
	return f&other == other
}

// Sources expands the mask back into source names, in AllSources order.
func (f SourceFlags) Sources() []Source {
	out := make([]Source, 0, 4)
	for _, s := range AllSources {
		if f&s.Flag() != 0 {
			out = append(out, s)
		}
	}
	return out
}

// NativeOrderFlag returns the flag a native fill of the given type carries.
func NativeOrderFlag(t FillType) SourceFlags {
	if t == FillTypeRfq {
		return FlagRfqOrder
	}
	return FlagLimitOrder
}
