package router

import (
	"sort"

	"github.com/google/uuid"
	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/shopspring/decimal"
)

// FillsOpts is everything the fill builder needs from one optimisation request.
type FillsOpts struct {
	Side               domain.Side
	Orders             []domain.NativeOrderWithFillableAmounts
	DexQuotes          [][]domain.DexSample
	TargetInput        decimal.Decimal
	OutputAmountPerEth decimal.Decimal
	InputAmountPerEth  decimal.Decimal
	ExcludedSources    []domain.Source
	GasSchedule        domain.GasSchedule
	GasPrice           decimal.Decimal
}

// FillBuilder turns sampled liquidity into chains of penalized fills.
type FillBuilder struct {
	newSourcePathID func() string
}

// NewFillBuilder returns a builder. A nil id generator falls back to random UUIDs.
func NewFillBuilder(newSourcePathID func() string) *FillBuilder {
	if newSourcePathID == nil {
		newSourcePathID = uuid.NewString
	}
	return &FillBuilder{newSourcePathID: newSourcePathID}
}

// CreateFills builds one chain per DEX curve plus one chain for all native orders.
// Chains are clipped to the first prefix reaching the target, and chains from
// excluded sources or without liquidity are dropped.
func (b *FillBuilder) CreateFills(opts *FillsOpts) [][]*domain.Fill {
	excluded := make(map[domain.Source]struct{}, len(opts.ExcludedSources))
	for _, s := range opts.ExcludedSources {
		excluded[s] = struct{}{}
	}

	chains := make([][]*domain.Fill, 0, len(opts.DexQuotes)+1)
	for _, samples := range opts.DexQuotes {
		chains = append(chains, b.DexSamplesToFills(opts, samples))
	}
	chains = append(chains, b.NativeOrdersToFills(opts))

	out := make([][]*domain.Fill, 0, len(chains))
	for _, chain := range chains {
		chain = clipFillsToInput(chain, opts.TargetInput)
		if !hasLiquidity(chain) {
			continue
		}
		if _, skip := excluded[chain[0].Source]; skip {
			continue
		}
		out = append(out, chain)
	}
	return out
}

// NativeOrdersToFills builds a single chain out of every fee-free native order,
// ordered by descending penalty-adjusted rate.
func (b *FillBuilder) NativeOrdersToFills(opts *FillsOpts) []*domain.Fill {
	sourcePathID := b.newSourcePathID()

	type rankedFill struct {
		fill         *domain.Fill
		adjustedRate decimal.Decimal
	}
	ranked := make([]rankedFill, 0, len(opts.Orders))

	for i := range opts.Orders {
		o := opts.Orders[i]
		if o.FillableTakerFeeAmount.Sign() != 0 {
			continue
		}

		input, output := o.FillableTakerAmount, o.FillableMakerAmount
		if opts.Side == domain.SideBuy {
			input, output = output, input
		}
		if input.Sign() <= 0 || output.Sign() <= 0 {
			continue
		}

		fillData := &domain.NativeFillData{NativeOrderWithFillableAmounts: o}
		gas := opts.GasSchedule.Gas(domain.SourceNative, fillData)
		fee := decimal.NewFromInt(int64(gas)).Mul(opts.GasPrice)
		penalty := ethToOutputAmount(input, output, fee, opts.InputAmountPerEth, opts.OutputAmountPerEth)

		// Rank on the portion of the order that can actually be used.
		clippedInput := minDecimal(opts.TargetInput, input)
		clippedOutput := div(clippedInput.Mul(output), input)
		adjustedOutput := penalize(opts.Side, clippedOutput, penalty)
		var adjustedRate decimal.Decimal
		if opts.Side == domain.SideSell {
			adjustedRate = div(adjustedOutput, clippedInput)
		} else {
			adjustedRate = div(clippedInput, adjustedOutput)
		}
		if adjustedRate.Sign() <= 0 {
			continue
		}

		ranked = append(ranked, rankedFill{
			adjustedRate: adjustedRate,
			fill: &domain.Fill{
				SourcePathID:   sourcePathID,
				Source:         domain.SourceNative,
				Type:           o.Type,
				FillData:       fillData,
				Flags:          domain.NativeOrderFlag(o.Type),
				Input:          clippedInput,
				Output:         clippedOutput,
				AdjustedOutput: adjustedOutput,
				GasCost:        gas,
			},
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].adjustedRate.GreaterThan(ranked[j].adjustedRate)
	})

	fills := make([]*domain.Fill, len(ranked))
	for i, r := range ranked {
		r.fill.Index = i
		r.fill.HasParent = i > 0
		fills[i] = r.fill
	}
	return fills
}

// DexSamplesToFills differences a cumulative sample curve into marginal fills.
//
// Zero-output samples before the first non-zero sample are skipped but still
// act as the baseline for the next difference, so the first fill's rate is
// measured over the input span since the last zero sample and may overstate
// the marginal rate of that span. The first zero-output sample after that ends
// the curve. Only the first fill carries the source gas penalty.
func (b *FillBuilder) DexSamplesToFills(opts *FillsOpts, samples []domain.DexSample) []*domain.Fill {
	sourcePathID := b.newSourcePathID()
	fills := make([]*domain.Fill, 0, len(samples))

	var prevInput, prevOutput decimal.Decimal
	for _, s := range samples {
		if s.Output.Sign() <= 0 {
			if len(fills) > 0 {
				break
			}
			prevInput, prevOutput = s.Input, s.Output
			continue
		}

		input := s.Input.Sub(prevInput)
		output := s.Output.Sub(prevOutput)
		if input.Sign() <= 0 {
			continue
		}
		prevInput, prevOutput = s.Input, s.Output

		fill := &domain.Fill{
			SourcePathID:   sourcePathID,
			Source:         s.Source,
			Type:           domain.FillTypeBridge,
			FillData:       s.FillData,
			Flags:          s.Source.Flag(),
			Input:          input,
			Output:         output,
			AdjustedOutput: output,
			Index:          len(fills),
			HasParent:      len(fills) > 0,
		}
		if len(fills) == 0 {
			fill.GasCost = opts.GasSchedule.Gas(s.Source, s.FillData)
			fee := decimal.NewFromInt(int64(fill.GasCost)).Mul(opts.GasPrice)
			penalty := ethToOutputAmount(s.Input, s.Output, fee, opts.InputAmountPerEth, opts.OutputAmountPerEth)
			fill.AdjustedOutput = penalize(opts.Side, output, penalty)
		}
		fills = append(fills, fill)
	}
	return fills
}

// clipFillsToInput keeps the shortest prefix whose total input reaches target.
func clipFillsToInput(fills []*domain.Fill, target decimal.Decimal) []*domain.Fill {
	input := zero
	for i, f := range fills {
		if input.GreaterThanOrEqual(target) {
			return fills[:i]
		}
		input = input.Add(f.Input)
	}
	return fills
}

func hasLiquidity(fills []*domain.Fill) bool {
	if len(fills) == 0 {
		return false
	}
	input, output := zero, zero
	for _, f := range fills {
		input = input.Add(f.Input)
		output = output.Add(f.Output)
	}
	return input.Sign() > 0 && output.Sign() > 0
}
