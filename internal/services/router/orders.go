package router

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/shopspring/decimal"
)

// CreateOrderOpts carries the request context an order needs beyond its fill.
type CreateOrderOpts struct {
	Side        domain.Side
	InputToken  common.Address
	OutputToken common.Address
	Encoders    *BridgeEncoderRegistry
}

func (o *CreateOrderOpts) makerTakerTokens() (common.Address, common.Address) {
	if o.Side == domain.SideSell {
		return o.OutputToken, o.InputToken
	}
	return o.InputToken, o.OutputToken
}

func (o *CreateOrderOpts) encoders() *BridgeEncoderRegistry {
	if o.Encoders == nil {
		return defaultBridgeEncoders
	}
	return o.Encoders
}

// fillTokenAmounts maps a fill's input/output onto maker/taker amounts.
// Maker amounts round down and taker amounts round up, in the maker's favour.
func fillTokenAmounts(side domain.Side, input, output decimal.Decimal) (maker, taker decimal.Decimal) {
	if side == domain.SideSell {
		return output.Floor(), input.Ceil()
	}
	return input.Ceil(), output.Floor()
}

func checkAmounts(maker, taker decimal.Decimal) error {
	if _, err := toUint256(maker); err != nil {
		return fmt.Errorf("maker amount %s: %w", maker, err)
	}
	if _, err := toUint256(taker); err != nil {
		return fmt.Errorf("taker amount %s: %w", taker, err)
	}
	return nil
}

// CreateNativeOptimizedOrder turns a native collapsed fill back into the signed
// order it came from, sized to the fill.
func CreateNativeOptimizedOrder(cf *domain.CollapsedFill, side domain.Side) (*domain.OptimizedOrder, error) {
	native, ok := cf.FillData.(*domain.NativeFillData)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrInvalidFillData, cf.FillData)
	}
	maker, taker := fillTokenAmounts(side, cf.Input, cf.Output)
	if err := checkAmounts(maker, taker); err != nil {
		return nil, err
	}
	return &domain.OptimizedOrder{
		Type:         cf.Type,
		Source:       cf.Source,
		SourcePathID: cf.SourcePathID,
		MakerToken:   native.Order.MakerToken,
		TakerToken:   native.Order.TakerToken,
		MakerAmount:  maker,
		TakerAmount:  taker,
		FillData:     native,
		Fills:        []*domain.CollapsedFill{cf},
		IsFallback:   cf.IsFallback,
	}, nil
}

// CreateBridgeOrder builds the bridge order of a collapsed DEX fill.
func CreateBridgeOrder(cf *domain.CollapsedFill, opts *CreateOrderOpts) (*domain.OptimizedOrder, error) {
	makerToken, takerToken := opts.makerTakerTokens()
	return createBridgeOrder(cf, makerToken, takerToken, opts.Side, opts.encoders())
}

func createBridgeOrder(
	cf *domain.CollapsedFill,
	makerToken, takerToken common.Address,
	side domain.Side,
	encoders *BridgeEncoderRegistry,
) (*domain.OptimizedOrder, error) {
	bridge, err := encoders.Encode(cf.Source, cf.FillData)
	if err != nil {
		return nil, err
	}
	maker, taker := fillTokenAmounts(side, cf.Input, cf.Output)
	if err := checkAmounts(maker, taker); err != nil {
		return nil, err
	}
	return &domain.OptimizedOrder{
		Type:         domain.FillTypeBridge,
		Source:       cf.Source,
		SourcePathID: cf.SourcePathID,
		MakerToken:   makerToken,
		TakerToken:   takerToken,
		MakerAmount:  maker,
		TakerAmount:  taker,
		FillData:     cf.FillData,
		Bridge:       bridge,
		Fills:        []*domain.CollapsedFill{cf},
		IsFallback:   cf.IsFallback,
	}, nil
}

// CreateOrdersFromTwoHopSample splits a two-hop route into one bridge order per hop.
// The second hop spends whatever the first produced, marked by MaxUint256.
func CreateOrdersFromTwoHopSample(sample *domain.TwoHopSample, opts *CreateOrderOpts) ([]*domain.OptimizedOrder, error) {
	fd := sample.FillData
	if fd == nil || fd.FirstHopSource == nil || fd.SecondHopSource == nil {
		return nil, fmt.Errorf("%w: incomplete two-hop fill data", ErrInvalidFillData)
	}
	makerToken, takerToken := opts.makerTakerTokens()

	firstHop := &domain.CollapsedFill{
		Source:   fd.FirstHopSource.Source,
		Type:     domain.FillTypeBridge,
		FillData: fd.FirstHopSource.FillData,
	}
	secondHop := &domain.CollapsedFill{
		Source:   fd.SecondHopSource.Source,
		Type:     domain.FillTypeBridge,
		FillData: fd.SecondHopSource.FillData,
	}
	if opts.Side == domain.SideSell {
		firstHop.Input, firstHop.Output = sample.Input, zero
		secondHop.Input, secondHop.Output = MaxUint256, sample.Output
	} else {
		firstHop.Input, firstHop.Output = zero, sample.Output
		secondHop.Input, secondHop.Output = sample.Input, MaxUint256
	}

	encoders := opts.encoders()
	first, err := createBridgeOrder(firstHop, fd.IntermediateToken, takerToken, opts.Side, encoders)
	if err != nil {
		return nil, fmt.Errorf("first hop: %w", err)
	}
	second, err := createBridgeOrder(secondHop, makerToken, fd.IntermediateToken, opts.Side, encoders)
	if err != nil {
		return nil, fmt.Errorf("second hop: %w", err)
	}
	return []*domain.OptimizedOrder{first, second}, nil
}
