package domain

import "github.com/shopspring/decimal"

// GasEstimator returns the gas units a fill of a source costs given its fill data.
type GasEstimator func(fd FillData) uint64

// GasSchedule maps each source to its gas estimator.
type GasSchedule map[Source]GasEstimator

// Gas returns the estimated gas for a source, 0 when the source is not scheduled.
func (g GasSchedule) Gas(source Source, fd FillData) uint64 {
	est, ok := g[source]
	if !ok || est == nil {
		return 0
	}
	return est(fd)
}

// Fee returns the ETH (wei) cost of a fill at the given gas price.
func (g GasSchedule) Fee(source Source, fd FillData, gasPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(g.Gas(source, fd))).Mul(gasPrice)
}

// ExchangeProxyOverhead returns the flat ETH (wei) settlement overhead implied by a flags mask.
type ExchangeProxyOverhead func(flags SourceFlags) decimal.Decimal

// PathPenaltyOpts is shared read-only by every path of one optimisation run.
type PathPenaltyOpts struct {
	OutputAmountPerEth    decimal.Decimal
	InputAmountPerEth     decimal.Decimal
	ExchangeProxyOverhead ExchangeProxyOverhead
	GasPrice              decimal.Decimal
}

// Overhead evaluates the exchange proxy overhead, treating a nil function as zero.
func (o *PathPenaltyOpts) Overhead(flags SourceFlags) decimal.Decimal {
	if o == nil || o.ExchangeProxyOverhead == nil {
		return decimal.Zero
	}
	return o.ExchangeProxyOverhead(flags)
}
