package router

import (
	"fmt"

	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/shopspring/decimal"
)

// PathSize is the accumulated input and output of a path.
type PathSize struct {
	Input  decimal.Decimal `json:"input"`
	Output decimal.Decimal `json:"output"`
}

// Path is an ordered sequence of fills bounded by a target input.
//
// Paths are built by value: Append mutates the receiver and returns it, so a
// search branch must Clone before appending. Penalty options are shared between
// every path of one run and never written.
type Path struct {
	side        domain.Side
	targetInput decimal.Decimal
	penaltyOpts *domain.PathPenaltyOpts

	fills        []*domain.Fill
	sourceFlags  domain.SourceFlags
	size         PathSize
	adjustedSize PathSize

	hasFallback             bool
	fallbackFillsStartIndex int

	collapsedFills []*domain.CollapsedFill
	orders         []*domain.OptimizedOrder
}

// NewPath returns an empty path.
func NewPath(side domain.Side, targetInput decimal.Decimal, opts *domain.PathPenaltyOpts) *Path {
	return &Path{
		side:        side,
		targetInput: targetInput,
		penaltyOpts: opts,
		size:        PathSize{Input: zero, Output: zero},
		adjustedSize: PathSize{
			Input:  zero,
			Output: zero,
		},
	}
}

// CreatePath returns a path made of fills in the given order.
func CreatePath(side domain.Side, fills []*domain.Fill, targetInput decimal.Decimal, opts *domain.PathPenaltyOpts) *Path {
	p := NewPath(side, targetInput, opts)
	p.fills = make([]*domain.Fill, 0, len(fills))
	for _, f := range fills {
		p.Append(f)
	}
	return p
}

func (p *Path) Side() domain.Side                    { return p.side }
func (p *Path) TargetInput() decimal.Decimal         { return p.targetInput }
func (p *Path) Fills() []*domain.Fill                { return p.fills }
func (p *Path) SourceFlags() domain.SourceFlags      { return p.sourceFlags }
func (p *Path) Size() PathSize                       { return p.size }
func (p *Path) PenaltyOpts() *domain.PathPenaltyOpts { return p.penaltyOpts }

// FallbackFillsStartIndex returns where fallback fills begin, and whether a
// fallback was ever added.
func (p *Path) FallbackFillsStartIndex() (int, bool) {
	return p.fallbackFillsStartIndex, p.hasFallback
}

// Append adds a fill at the end of the path and returns the path.
func (p *Path) Append(f *domain.Fill) *Path {
	p.fills = append(p.fills, f)
	p.sourceFlags |= f.Flags
	p.addFillSize(f)
	p.collapsedFills, p.orders = nil, nil
	return p
}

// Clone returns a path that shares fills but not the fill slice.
func (p *Path) Clone() *Path {
	c := *p
	c.fills = make([]*domain.Fill, len(p.fills), len(p.fills)+1)
	copy(c.fills, p.fills)
	c.collapsedFills, c.orders = nil, nil
	return &c
}

// addFillSize accumulates a fill. A fill that would overshoot the target
// contributes only the input still needed and proportional output; its
// penalty is carried in full.
func (p *Path) addFillSize(f *domain.Fill) {
	if p.size.Input.Add(f.Input).GreaterThan(p.targetInput) {
		remaining := p.targetInput.Sub(p.size.Input)
		scaledOutput := div(f.Output.Mul(remaining), f.Input)
		p.size = PathSize{
			Input:  p.targetInput,
			Output: p.size.Output.Add(scaledOutput),
		}
		p.adjustedSize = PathSize{
			Input:  p.targetInput,
			Output: p.adjustedSize.Output.Add(scaledOutput).Add(f.AdjustedOutput.Sub(f.Output)),
		}
		return
	}
	p.size = PathSize{
		Input:  p.size.Input.Add(f.Input),
		Output: p.size.Output.Add(f.Output),
	}
	p.adjustedSize = PathSize{
		Input:  p.adjustedSize.Input.Add(f.Input),
		Output: p.adjustedSize.Output.Add(f.AdjustedOutput),
	}
}

// AdjustedSize is the fill-penalized size further penalized by the settlement
// overhead implied by the path's source flags.
func (p *Path) AdjustedSize() PathSize {
	overhead := p.penaltyOpts.Overhead(p.sourceFlags)
	var (
		inputPerEth, outputPerEth decimal.Decimal
	)
	if p.penaltyOpts != nil {
		inputPerEth, outputPerEth = p.penaltyOpts.InputAmountPerEth, p.penaltyOpts.OutputAmountPerEth
	}
	penalty := ethToOutputAmount(p.adjustedSize.Input, p.adjustedSize.Output, overhead, inputPerEth, outputPerEth)
	return PathSize{
		Input:  p.adjustedSize.Input,
		Output: penalize(p.side, p.adjustedSize.Output, penalty),
	}
}

func (p *Path) AdjustedRate() decimal.Decimal {
	s := p.AdjustedSize()
	return Rate(p.side, s.Input, s.Output)
}

func (p *Path) AdjustedCompleteRate() decimal.Decimal {
	s := p.AdjustedSize()
	return CompleteRate(p.side, s.Input, s.Output, p.targetInput)
}

// AdjustedSlippage is how far the path's adjusted rate falls below maxRate, as a fraction.
func (p *Path) AdjustedSlippage(maxRate decimal.Decimal) decimal.Decimal {
	if maxRate.IsZero() {
		return zero
	}
	return div(maxRate.Sub(p.AdjustedRate()), maxRate)
}

// BestRate is the best raw rate among the path's individual fills.
func (p *Path) BestRate() decimal.Decimal {
	best := zero
	for _, f := range p.fills {
		if r := Rate(p.side, f.Input, f.Output); r.GreaterThan(best) {
			best = r
		}
	}
	return best
}

// IsComplete reports whether the path covers its target input.
func (p *Path) IsComplete() bool {
	return p.size.Input.GreaterThanOrEqual(p.targetInput)
}

// IsBetterThan ranks incomplete paths by input covered and complete paths by
// adjusted complete rate.
func (p *Path) IsBetterThan(other *Path) (bool, error) {
	if !p.targetInput.Equal(other.targetInput) {
		return false, fmt.Errorf("%w: %s vs %s", ErrTargetInputMismatch, p.targetInput, other.targetInput)
	}
	if p.size.Input.LessThan(p.targetInput) || other.size.Input.LessThan(other.targetInput) {
		return p.size.Input.GreaterThan(other.size.Input), nil
	}
	return p.AdjustedCompleteRate().GreaterThan(other.AdjustedCompleteRate()), nil
}

// IsValidNextFill reports whether f may be appended: either it has no parent or
// its parent is the current last fill.
func (p *Path) IsValidNextFill(f *domain.Fill) bool {
	if !f.HasParent {
		return true
	}
	if len(p.fills) == 0 {
		return false
	}
	return p.fills[len(p.fills)-1].IsParentOf(f)
}

// IsValid checks that every parented fill immediately follows its parent.
// Unless quick is set it also rejects duplicate fills.
func (p *Path) IsValid(quick bool) bool {
	for i, f := range p.fills {
		if !f.HasParent {
			continue
		}
		if i == 0 || !p.fills[i-1].IsParentOf(f) {
			return false
		}
	}
	if quick {
		return true
	}
	seen := make(map[domain.FillID]struct{}, len(p.fills))
	for _, f := range p.fills {
		id := f.ID()
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}

// AddFallback reorders the path to native fills, then its other fills, then
// the fallback's fills not already present. Everything from the returned
// start index on is settled only if the primary fills revert.
func (p *Path) AddFallback(fallback *Path) *Path {
	native := make([]*domain.Fill, 0, len(p.fills))
	other := make([]*domain.Fill, 0, len(p.fills))
	present := make(map[domain.FillID]struct{}, len(p.fills))
	for _, f := range p.fills {
		if f.IsNative() {
			native = append(native, f)
			continue
		}
		other = append(other, f)
		present[f.ID()] = struct{}{}
	}

	fills := make([]*domain.Fill, 0, len(p.fills)+len(fallback.fills))
	fills = append(fills, native...)
	fills = append(fills, other...)
	for _, f := range fallback.fills {
		if _, ok := present[f.ID()]; ok {
			continue
		}
		fills = append(fills, f)
	}

	p.fills = fills
	p.sourceFlags = 0
	for _, f := range fills {
		p.sourceFlags |= f.Flags
	}
	p.hasFallback = true
	p.fallbackFillsStartIndex = len(native) + len(other)
	p.collapsedFills, p.orders = nil, nil
	return p
}

// Collapse merges consecutive fills of one source path and materializes one
// order per merged fill. Native fills are never merged, and fallback fills
// never merge with primary ones.
func (p *Path) Collapse(opts *CreateOrderOpts) ([]*domain.OptimizedOrder, error) {
	collapsed := make([]*domain.CollapsedFill, 0, len(p.fills))
	for i, f := range p.fills {
		isFallback := p.hasFallback && i >= p.fallbackFillsStartIndex
		if n := len(collapsed); n > 0 && !f.IsNative() {
			prev := collapsed[n-1]
			if prev.SourcePathID == f.SourcePathID && prev.IsFallback == isFallback {
				prev.Input = prev.Input.Add(f.Input)
				prev.Output = prev.Output.Add(f.Output)
				prev.FillData = f.FillData
				prev.SubFills = append(prev.SubFills, f)
				continue
			}
		}
		collapsed = append(collapsed, &domain.CollapsedFill{
			SourcePathID: f.SourcePathID,
			Source:       f.Source,
			Type:         f.Type,
			FillData:     f.FillData,
			Input:        f.Input,
			Output:       f.Output,
			SubFills:     []*domain.Fill{f},
			IsFallback:   isFallback,
		})
	}

	orders := make([]*domain.OptimizedOrder, 0, len(collapsed))
	for _, cf := range collapsed {
		var (
			order *domain.OptimizedOrder
			err   error
		)
		if cf.Type.IsNative() {
			order, err = CreateNativeOptimizedOrder(cf, opts.Side)
		} else {
			order, err = CreateBridgeOrder(cf, opts)
		}
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	p.collapsedFills, p.orders = collapsed, orders
	return orders, nil
}

// CollapsedFills returns the merged fills of the last Collapse call.
func (p *Path) CollapsedFills() []*domain.CollapsedFill { return p.collapsedFills }

// Orders returns the orders of the last Collapse call.
func (p *Path) Orders() []*domain.OptimizedOrder { return p.orders }
