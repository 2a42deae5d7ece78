package router

import (
	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/shopspring/decimal"
)

// TwoHopOpts prices two-hop quotes against one another and the direct path.
type TwoHopOpts struct {
	Side        domain.Side
	TargetInput decimal.Decimal
	GasSchedule domain.GasSchedule
	PenaltyOpts *domain.PathPenaltyOpts
}

// GetTwoHopAdjustedRate is the rate of a two-hop quote after both hop fees and
// the multi-hop settlement overhead. Quotes that fall short of the target rate zero.
func GetTwoHopAdjustedRate(sample *domain.TwoHopSample, opts *TwoHopOpts) decimal.Decimal {
	if sample.Output.IsZero() || sample.Input.LessThan(opts.TargetInput) {
		return zero
	}
	var gasPrice, inputPerEth, outputPerEth decimal.Decimal
	if opts.PenaltyOpts != nil {
		gasPrice = opts.PenaltyOpts.GasPrice
		inputPerEth, outputPerEth = opts.PenaltyOpts.InputAmountPerEth, opts.PenaltyOpts.OutputAmountPerEth
	}
	penaltyEth := opts.PenaltyOpts.Overhead(domain.SourceMultiHop.Flag()).
		Add(opts.GasSchedule.Fee(domain.SourceMultiHop, sample.FillData, gasPrice))
	penalty := ethToOutputAmount(sample.Input, sample.Output, penaltyEth, inputPerEth, outputPerEth)
	adjustedOutput := penalize(opts.Side, sample.Output, penalty)
	return Rate(opts.Side, sample.Input, adjustedOutput)
}

// GetBestTwoHopQuote returns the best usable two-hop quote and its adjusted rate.
// Quotes without both hop sources or without output are ignored.
func GetBestTwoHopQuote(samples []domain.TwoHopSample, opts *TwoHopOpts) (*domain.TwoHopSample, decimal.Decimal) {
	var (
		best     *domain.TwoHopSample
		bestRate = zero
	)
	for i := range samples {
		s := &samples[i]
		if !IsUsableTwoHop(s) {
			continue
		}
		rate := GetTwoHopAdjustedRate(s, opts)
		if best == nil || rate.GreaterThan(bestRate) {
			best, bestRate = s, rate
		}
	}
	return best, bestRate
}

// IsUsableTwoHop reports whether both hops are known and the route yields output.
func IsUsableTwoHop(s *domain.TwoHopSample) bool {
	if s.FillData == nil || s.FillData.FirstHopSource == nil || s.FillData.SecondHopSource == nil {
		return false
	}
	return s.Output.Sign() > 0
}
