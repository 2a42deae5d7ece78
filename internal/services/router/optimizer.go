package router

import (
	"fmt"

	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizerOpts tunes one optimisation run. Zero values pick the defaults.
type OptimizerOpts struct {
	RunLimit              int
	AllowFallback         bool
	MaxFallbackSlippage   decimal.Decimal
	ExcludedSources       []domain.Source
	GasPrice              decimal.Decimal
	GasSchedule           domain.GasSchedule
	ExchangeProxyOverhead domain.ExchangeProxyOverhead
	// DirectSettlementGas is charged against the direct path only when
	// comparing it with the best two-hop quote.
	DirectSettlementGas uint64
	RfqGas              uint64
	// RfqOrders are appended to the native orders of the snapshot.
	RfqOrders []domain.NativeOrderWithFillableAmounts
}

// OptimizerResult is the outcome of one optimisation run.
type OptimizerResult struct {
	OptimizedOrders    []*domain.OptimizedOrder
	SourceFlags        domain.SourceFlags
	AdjustedRate       decimal.Decimal
	LiquidityDelivered []*domain.CollapsedFill
	TwoHopQuote        *domain.TwoHopSample
	ConsideredPaths    []*Path
	Fills              [][]*domain.Fill
	IsTwoHop           bool
	FallbackAdopted    bool
	ComparisonPrice    *decimal.Decimal
	SearchSteps        int
}

// Optimizer runs the fill, search, multi-hop, fallback and collapse pipeline.
// It holds no per-request state and may be shared between goroutines.
type Optimizer struct {
	finder   PathFinder
	fills    *FillBuilder
	encoders *BridgeEncoderRegistry
}

type OptimizerOption func(*Optimizer)

// WithPathFinder swaps the search backend.
func WithPathFinder(f PathFinder) OptimizerOption {
	return func(o *Optimizer) { o.finder = f }
}

// WithSourcePathIDGenerator replaces the random source path ids.
func WithSourcePathIDGenerator(gen func() string) OptimizerOption {
	return func(o *Optimizer) { o.fills = NewFillBuilder(gen) }
}

func WithBridgeEncoders(r *BridgeEncoderRegistry) OptimizerOption {
	return func(o *Optimizer) { o.encoders = r }
}

func NewOptimizer(opts ...OptimizerOption) *Optimizer {
	o := &Optimizer{
		finder:   NewMixingPathFinder(),
		fills:    NewFillBuilder(nil),
		encoders: defaultBridgeEncoders,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize finds the best way to fill msl.InputAmount and materializes it into orders.
func (o *Optimizer) Optimize(msl *domain.MarketSideLiquidity, opts OptimizerOpts) (*OptimizerResult, error) {
	if opts.GasSchedule == nil {
		opts.GasSchedule = DefaultGasSchedule()
	}
	if opts.ExchangeProxyOverhead == nil {
		opts.ExchangeProxyOverhead = DefaultExchangeProxyOverhead(opts.GasPrice)
	}
	if opts.RunLimit <= 0 {
		opts.RunLimit = DefaultRunLimit
	}
	if opts.RfqGas == 0 {
		opts.RfqGas = NativeRfqOrderGas
	}

	side := msl.Side
	penaltyOpts := &domain.PathPenaltyOpts{
		OutputAmountPerEth:    msl.OutputAmountPerEth,
		InputAmountPerEth:     msl.InputAmountPerEth,
		ExchangeProxyOverhead: opts.ExchangeProxyOverhead,
		GasPrice:              opts.GasPrice,
	}
	orderOpts := &CreateOrderOpts{
		Side:        side,
		InputToken:  msl.InputToken,
		OutputToken: msl.OutputToken,
		Encoders:    o.encoders,
	}

	nativeOrders := make([]domain.NativeOrderWithFillableAmounts, 0, len(msl.NativeOrders)+len(opts.RfqOrders))
	nativeOrders = append(nativeOrders, msl.NativeOrders...)
	nativeOrders = append(nativeOrders, opts.RfqOrders...)

	fills := o.fills.CreateFills(&FillsOpts{
		Side:               side,
		Orders:             nativeOrders,
		DexQuotes:          msl.DexQuotes,
		TargetInput:        msl.InputAmount,
		OutputAmountPerEth: msl.OutputAmountPerEth,
		InputAmountPerEth:  msl.InputAmountPerEth,
		ExcludedSources:    opts.ExcludedSources,
		GasSchedule:        opts.GasSchedule,
		GasPrice:           opts.GasPrice,
	})

	twoHopOpts := &TwoHopOpts{
		Side:        side,
		TargetInput: msl.InputAmount,
		GasSchedule: opts.GasSchedule,
		PenaltyOpts: penaltyOpts,
	}
	bestTwoHop, bestTwoHopRate := GetBestTwoHopQuote(msl.TwoHopQuotes, twoHopOpts)
	if len(fills) == 0 && bestTwoHop == nil {
		return nil, ErrNoLiquidity
	}

	found, err := o.finder.FindOptimalPath(&PathFinderRequest{
		Side:        side,
		Fills:       fills,
		TargetInput: msl.InputAmount,
		RunLimit:    opts.RunLimit,
		PenaltyOpts: penaltyOpts,
	})
	if err != nil {
		return nil, fmt.Errorf("path search: %w", err)
	}

	result := &OptimizerResult{
		Fills:           fills,
		ConsideredPaths: found.ConsideredPaths,
		SearchSteps:     found.Steps,
	}
	optimal := found.Path

	directRate := zero
	if optimal != nil {
		directRate = o.directRate(optimal, opts)
	}
	if bestTwoHop != nil && bestTwoHopRate.GreaterThan(directRate) {
		orders, err := CreateOrdersFromTwoHopSample(bestTwoHop, orderOpts)
		if err != nil {
			return nil, fmt.Errorf("two-hop orders: %w", err)
		}
		result.OptimizedOrders = orders
		result.SourceFlags = domain.SourceMultiHop.Flag()
		result.AdjustedRate = bestTwoHopRate
		result.TwoHopQuote = bestTwoHop
		result.IsTwoHop = true
		o.setComparisonPrice(result, msl, opts)
		return result, nil
	}

	if optimal == nil {
		return nil, ErrNoOptimalPath
	}

	if opts.AllowFallback && optimal.SourceFlags()&(domain.FlagLimitOrder|domain.FlagRfqOrder) != 0 {
		// The winner may be one of the considered paths; keep those as searched.
		optimal = optimal.Clone()
		adopted, err := o.addFallback(optimal, fills, msl.InputAmount, penaltyOpts, opts)
		if err != nil {
			return nil, err
		}
		result.FallbackAdopted = adopted
	}

	orders, err := optimal.Collapse(orderOpts)
	if err != nil {
		return nil, fmt.Errorf("collapse path: %w", err)
	}
	if len(orders) == 0 {
		return nil, ErrEmptyOrders
	}

	result.OptimizedOrders = orders
	result.SourceFlags = optimal.SourceFlags()
	result.AdjustedRate = optimal.AdjustedRate()
	result.LiquidityDelivered = optimal.CollapsedFills()
	o.setComparisonPrice(result, msl, opts)
	return result, nil
}

// directRate charges the direct path a flat settlement cost so it can be
// compared with two-hop quotes on equal terms.
func (o *Optimizer) directRate(path *Path, opts OptimizerOpts) decimal.Decimal {
	if opts.DirectSettlementGas == 0 {
		return path.AdjustedRate()
	}
	size := path.AdjustedSize()
	penaltyOpts := path.PenaltyOpts()
	fee := decimal.NewFromInt(int64(opts.DirectSettlementGas)).Mul(opts.GasPrice)
	penalty := ethToOutputAmount(size.Input, size.Output, fee, penaltyOpts.InputAmountPerEth, penaltyOpts.OutputAmountPerEth)
	return Rate(path.Side(), size.Input, penalize(path.Side(), size.Output, penalty))
}

// addFallback searches the non-native chains on their own and appends the
// result to a path holding native fills, so the settlement can fall back to
// DEX liquidity if the native orders fail.
func (o *Optimizer) addFallback(
	optimal *Path,
	fills [][]*domain.Fill,
	targetInput decimal.Decimal,
	penaltyOpts *domain.PathPenaltyOpts,
	opts OptimizerOpts,
) (bool, error) {
	nonNative := make([][]*domain.Fill, 0, len(fills))
	for _, chain := range fills {
		if len(chain) > 0 && !chain[0].IsNative() {
			nonNative = append(nonNative, chain)
		}
	}
	if len(nonNative) == 0 {
		return false, nil
	}

	found, err := o.finder.FindOptimalPath(&PathFinderRequest{
		Side:        optimal.Side(),
		Fills:       nonNative,
		TargetInput: targetInput,
		RunLimit:    opts.RunLimit,
		PenaltyOpts: penaltyOpts,
	})
	if err != nil {
		return false, fmt.Errorf("fallback search: %w", err)
	}
	sturdy := found.Path
	if sturdy == nil {
		return false, nil
	}

	allNative := true
	for _, f := range optimal.Fills() {
		if !f.IsNative() {
			allNative = false
			break
		}
	}
	if !allNative && sturdy.AdjustedSlippage(optimal.AdjustedRate()).GreaterThan(opts.MaxFallbackSlippage) {
		return false, nil
	}
	optimal.AddFallback(sturdy)
	return true, nil
}

func (o *Optimizer) setComparisonPrice(result *OptimizerResult, msl *domain.MarketSideLiquidity, opts OptimizerOpts) {
	if price, ok := ComparisonPrice(result.AdjustedRate, msl.InputAmount, msl, opts.GasPrice, opts.RfqGas); ok {
		result.ComparisonPrice = &price
	}
}
