package router

import (
	"fmt"
	"math"
	"sort"

	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// DefaultRunLimit is the step budget of the first mixing round.
	DefaultRunLimit = 1 << 15
	// RunLimitDecayFactor shrinks the budget of each later round.
	RunLimitDecayFactor = 0.5
	// MinRunSteps is the floor of any round's step budget.
	MinRunSteps = 32
)

// PathFinderRequest is the input of a path search.
type PathFinderRequest struct {
	Side        domain.Side
	Fills       [][]*domain.Fill
	TargetInput decimal.Decimal
	RunLimit    int
	PenaltyOpts *domain.PathPenaltyOpts
}

// PathFinderResult carries the winning path, nil when no complete path exists.
type PathFinderResult struct {
	Path            *Path
	ConsideredPaths []*Path
	Steps           int
}

// PathFinder is the search backend of the optimizer.
type PathFinder interface {
	FindOptimalPath(req *PathFinderRequest) (*PathFinderResult, error)
}

// MixingPathFinder folds per-source paths into one with a bounded depth-first
// mixing search. It is deterministic and holds no state between calls.
type MixingPathFinder struct{}

func NewMixingPathFinder() *MixingPathFinder {
	return &MixingPathFinder{}
}

func (MixingPathFinder) FindOptimalPath(req *PathFinderRequest) (*PathFinderResult, error) {
	if req.PenaltyOpts == nil {
		return nil, ErrMissingPenaltyOpts
	}
	runLimit := req.RunLimit
	if runLimit <= 0 {
		runLimit = DefaultRunLimit
	}

	sortedPaths := fillsToSortedPaths(req.Side, req.Fills, req.TargetInput, req.PenaltyOpts)
	result := &PathFinderResult{ConsideredPaths: sortedPaths}
	if len(sortedPaths) == 0 {
		return result, nil
	}

	rates := rateBySourcePathID(sortedPaths)
	optimal := sortedPaths[0]
	for i, path := range sortedPaths[1:] {
		budget := int(float64(runLimit) * math.Pow(RunLimitDecayFactor, float64(i)))
		mixed, steps, err := mixPaths(req.Side, optimal, path, req.TargetInput, budget, rates)
		result.Steps += steps
		if err != nil {
			return nil, err
		}
		optimal = mixed
	}

	if optimal.IsComplete() {
		result.Path = optimal
	}
	return result, nil
}

// fillsToSortedPaths turns each chain into a path, drops chains that cannot
// compete and orders the rest by descending adjusted complete rate.
func fillsToSortedPaths(side domain.Side, fills [][]*domain.Fill, targetInput decimal.Decimal, opts *domain.PathPenaltyOpts) []*Path {
	paths := make([]*Path, 0, len(fills))
	rates := make([]decimal.Decimal, 0, len(fills))
	for _, chain := range fills {
		p := CreatePath(side, chain, targetInput, opts)
		paths = append(paths, p)
		rates = append(rates, p.AdjustedCompleteRate())
	}

	idx := make([]int, len(paths))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return rates[idx[a]].GreaterThan(rates[idx[b]])
	})
	sorted := make([]*Path, len(paths))
	for i, j := range idx {
		sorted[i] = paths[j]
	}
	return reducePaths(sorted)
}

// reducePaths drops paths whose best single fill cannot beat the complete rate
// of the best complete non-native path.
func reducePaths(sortedPaths []*Path) []*Path {
	var bestComplete *Path
	for _, p := range sortedPaths {
		if p.IsComplete() && len(p.fills) > 0 && !p.fills[0].IsNative() {
			bestComplete = p
			break
		}
	}
	if bestComplete == nil {
		return sortedPaths
	}
	bestRate := bestComplete.AdjustedCompleteRate()
	if bestRate.Sign() <= 0 {
		return sortedPaths
	}

	out := make([]*Path, 0, len(sortedPaths))
	for _, p := range sortedPaths {
		if p.BestRate().GreaterThanOrEqual(bestRate) {
			out = append(out, p)
		}
	}
	return out
}

// rateBySourcePathID keys each source's fee-adjusted rate, so a source whose
// gas cost outweighs its better raw price is tried after cheaper sources.
func rateBySourcePathID(paths []*Path) map[string]decimal.Decimal {
	rates := make(map[string]decimal.Decimal, len(paths))
	for _, p := range paths {
		if len(p.fills) == 0 {
			continue
		}
		rates[p.fills[0].SourcePathID] = p.AdjustedRate()
	}
	return rates
}

// mixPaths searches orderings of the union of two paths' fills, visiting at
// most max(budget, MinRunSteps) partial paths. Candidates are tried best
// source first; fills of one source stay in index order.
func mixPaths(
	side domain.Side,
	pathA, pathB *Path,
	targetInput decimal.Decimal,
	budget int,
	rates map[string]decimal.Decimal,
) (*Path, int, error) {
	maxSteps := budget
	if maxSteps < MinRunSteps {
		maxSteps = MinRunSteps
	}

	all := make([]*domain.Fill, 0, len(pathA.fills)+len(pathB.fills))
	all = append(all, pathA.fills...)
	all = append(all, pathB.fills...)

	// Sources with equal rates keep the order they first appear in.
	firstSeen := make(map[string]int, len(all))
	for i, f := range all {
		if _, ok := firstSeen[f.SourcePathID]; !ok {
			firstSeen[f.SourcePathID] = i
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.SourcePathID == b.SourcePathID {
			return a.Index < b.Index
		}
		if ra, rb := rates[a.SourcePathID], rates[b.SourcePathID]; !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		return firstSeen[a.SourcePathID] < firstSeen[b.SourcePathID]
	})

	var (
		best  = pathA
		steps int
		walk  func(path *Path, remaining []*domain.Fill) error
	)
	walk = func(path *Path, remaining []*domain.Fill) error {
		steps++
		better, err := path.IsBetterThan(best)
		if err != nil {
			return err
		}
		if better {
			best = path
		}
		if targetInput.Sub(path.size.Input).Sign() <= 0 {
			return nil
		}
		for i := 0; i < len(remaining) && steps < maxSteps; i++ {
			fill := remaining[i]
			if !path.IsValidNextFill(fill) {
				continue
			}
			next := make([]*domain.Fill, 0, len(remaining)-1)
			next = append(next, remaining[:i]...)
			next = append(next, remaining[i+1:]...)
			if err := walk(path.Clone().Append(fill), next); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(NewPath(side, targetInput, pathA.penaltyOpts), all); err != nil {
		return nil, steps, err
	}
	if !best.IsValid(false) {
		return nil, steps, fmt.Errorf("%w: %d fills", ErrInvalidPath, len(best.fills))
	}
	return best, steps, nil
}
