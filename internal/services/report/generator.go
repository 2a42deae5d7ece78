package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/hxuan190/swap-optimizer/internal/services/router"
)

// Generator builds quote reports from optimisation results.
type Generator struct {
	newID func() string
	now   func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// NewGeneratorWith builds a generator with fixed id and clock sources.
func NewGeneratorWith(newID func() string, now func() time.Time) *Generator {
	g := NewGenerator()
	if newID != nil {
		g.newID = newID
	}
	if now != nil {
		g.now = now
	}
	return g
}

// Generate records every source the optimizer was offered and the ones its
// winning route actually used. rfqOrders are the orders supplied next to msl.
func (g *Generator) Generate(
	msl *domain.MarketSideLiquidity,
	result *router.OptimizerResult,
	rfqOrders []domain.NativeOrderWithFillableAmounts,
) *domain.QuoteReport {
	r := &domain.QuoteReport{
		ID:           g.newID(),
		Side:         msl.Side,
		InputToken:   msl.InputToken.Hex(),
		OutputToken:  msl.OutputToken.Hex(),
		InputAmount:  msl.InputAmount,
		BlockNumber:  msl.BlockNumber,
		AdjustedRate: result.AdjustedRate,
		SourceFlags:  result.SourceFlags,
		IsTwoHop:     result.IsTwoHop,
		CreatedAt:    g.now().UTC(),
	}
	r.SourcesConsidered = considered(msl, rfqOrders)
	r.SourcesDelivered = delivered(msl.Side, result)
	return r
}

func considered(msl *domain.MarketSideLiquidity, rfqOrders []domain.NativeOrderWithFillableAmounts) []domain.QuoteReportEntry {
	entries := make([]domain.QuoteReportEntry, 0, len(msl.DexQuotes)+len(msl.NativeOrders)+len(rfqOrders))
	for _, samples := range msl.DexQuotes {
		// The deepest sample with output stands for the whole curve.
		for i := len(samples) - 1; i >= 0; i-- {
			if samples[i].Output.Sign() > 0 {
				entries = append(entries, sampleEntry(msl.Side, samples[i]))
				break
			}
		}
	}
	for i := range msl.NativeOrders {
		entries = append(entries, nativeEntry(&msl.NativeOrders[i]))
	}
	for i := range rfqOrders {
		entries = append(entries, nativeEntry(&rfqOrders[i]))
	}
	for i := range msl.TwoHopQuotes {
		s := &msl.TwoHopQuotes[i]
		if router.IsUsableTwoHop(s) {
			entries = append(entries, twoHopEntry(msl.Side, s))
		}
	}
	return entries
}

func delivered(side domain.Side, result *router.OptimizerResult) []domain.QuoteReportEntry {
	if result.IsTwoHop && result.TwoHopQuote != nil {
		return []domain.QuoteReportEntry{twoHopEntry(side, result.TwoHopQuote)}
	}
	entries := make([]domain.QuoteReportEntry, 0, len(result.LiquidityDelivered))
	for _, cf := range result.LiquidityDelivered {
		if cf.Type.IsNative() {
			// A collapsed native fill may span several orders.
			for _, f := range cf.SubFills {
				if nfd, ok := f.FillData.(*domain.NativeFillData); ok {
					e := nativeEntry(&nfd.NativeOrderWithFillableAmounts)
					e.IsFallback = cf.IsFallback
					entries = append(entries, e)
				}
			}
			continue
		}
		maker, taker := makerTaker(side, cf.Input, cf.Output)
		entries = append(entries, domain.QuoteReportEntry{
			Source:      cf.Source,
			MakerAmount: maker,
			TakerAmount: taker,
			FillData:    cf.FillData,
			IsFallback:  cf.IsFallback,
		})
	}
	return entries
}

func sampleEntry(side domain.Side, s domain.DexSample) domain.QuoteReportEntry {
	maker, taker := makerTaker(side, s.Input, s.Output)
	return domain.QuoteReportEntry{
		Source:      s.Source,
		MakerAmount: maker,
		TakerAmount: taker,
		FillData:    s.FillData,
	}
}

func twoHopEntry(side domain.Side, s *domain.TwoHopSample) domain.QuoteReportEntry {
	maker, taker := makerTaker(side, s.Input, s.Output)
	return domain.QuoteReportEntry{
		Source:      domain.SourceMultiHop,
		MakerAmount: maker,
		TakerAmount: taker,
		FillData:    s.FillData,
	}
}

func nativeEntry(o *domain.NativeOrderWithFillableAmounts) domain.QuoteReportEntry {
	return domain.QuoteReportEntry{
		Source:      domain.SourceNative,
		MakerAmount: o.Order.MakerAmount,
		TakerAmount: o.Order.TakerAmount,
		FillData:    &domain.NativeFillData{NativeOrderWithFillableAmounts: *o},
		IsRfq:       o.Type == domain.FillTypeRfq,
	}
}

// makerTaker maps path input/output onto maker/taker amounts.
func makerTaker(side domain.Side, input, output decimal.Decimal) (maker, taker decimal.Decimal) {
	if side == domain.SideSell {
		return output, input
	}
	return input, output
}
