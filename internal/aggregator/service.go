package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/hxuan190/swap-optimizer/internal/adapters/persistence"
	"github.com/hxuan190/swap-optimizer/internal/config"
	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/hxuan190/swap-optimizer/internal/metrics"
	"github.com/hxuan190/swap-optimizer/internal/services"
	"github.com/hxuan190/swap-optimizer/internal/services/report"
	"github.com/hxuan190/swap-optimizer/internal/services/router"
)

const AGGREGATOR_SERVICE = "aggregator-service"

var (
	ErrInvalidRequest = errors.New("invalid optimise request")

	// Error aliases
	ErrReportNotFound = persistence.ErrReportNotFound
	ErrNoLiquidity    = router.ErrNoLiquidity
	ErrNoOptimalPath  = router.ErrNoOptimalPath
)

// ReportStore persists quote reports.
type ReportStore interface {
	Save(r *domain.QuoteReport) error
	Get(id string) (*domain.QuoteReport, error)
	List(limit int) ([]*domain.QuoteReport, error)
	Close() error
}

// OptimizeRequest is one optimisation call. Nil options fall back to the
// service configuration.
type OptimizeRequest struct {
	Liquidity           *domain.MarketSideLiquidity
	GasPrice            decimal.Decimal
	RunLimit            int
	AllowFallback       *bool
	MaxFallbackSlippage *decimal.Decimal
	ExcludedSources     []domain.Source
	RfqOrders           []domain.NativeOrderWithFillableAmounts
}

type OptimizeResponse struct {
	Result *router.OptimizerResult
	Report *domain.QuoteReport
}

// BatchItem holds the outcome of one request of a batch. Exactly one of
// Response and Err is set.
type BatchItem struct {
	Response *OptimizeResponse
	Err      error
}

type Service struct {
	logger    *services.ServiceLogger
	optimizer *router.Optimizer
	reports   *report.Generator
	store     ReportStore

	config     *config.OptimizerConfig
	reportConf *config.ReportConfig
}

type Option func(*Service)

// WithReportStore skips opening the configured store.
func WithReportStore(store ReportStore) Option {
	return func(svc *Service) { svc.store = store }
}

func WithOptimizer(o *router.Optimizer) Option {
	return func(svc *Service) { svc.optimizer = o }
}

func WithReportGenerator(g *report.Generator) Option {
	return func(svc *Service) { svc.reports = g }
}

func NewService(conf *config.OptimizerConfig, reportConf *config.ReportConfig, opts ...Option) *Service {
	svc := &Service{
		config:     conf,
		reportConf: reportConf,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (svc *Service) ID() string {
	return AGGREGATOR_SERVICE
}

func (svc *Service) Configure() error {
	svc.logger = services.NewServiceLogger(svc)
	if svc.config == nil {
		return errors.New("missing optimizer config")
	}
	if svc.optimizer == nil {
		svc.optimizer = router.NewOptimizer()
	}
	if svc.reports == nil {
		svc.reports = report.NewGenerator()
	}
	if svc.store != nil {
		return nil
	}

	if svc.reportConf == nil {
		return errors.New("missing report config")
	}
	storeLog := svc.logger.With("component", "reports")
	if !svc.reportConf.PersistenceEnabled {
		svc.store = persistence.NewMemoryStorage(svc.reportConf.MemoryCapacity)
		storeLog.Info().Int("capacity", svc.reportConf.MemoryCapacity).Msg("persistence disabled, keeping reports in memory")
		return nil
	}

	store, err := persistence.NewStorage(svc.reportConf.DBPath)
	if err != nil {
		return fmt.Errorf("open report store: %w", err)
	}
	svc.store = store
	storeLog.Info().Str("path", svc.reportConf.DBPath).Msg("report store ready")
	return nil
}

func (svc *Service) Start() error {
	svc.logger.Info().
		Int("run_limit", svc.config.RunLimit).
		Bool("allow_fallback", svc.config.AllowFallback).
		Str("max_fallback_slippage", svc.config.MaxFallbackSlippage.String()).
		Msg("aggregator service started")
	return nil
}

func (svc *Service) Stop() error {
	if svc.store == nil {
		return nil
	}
	if err := svc.store.Close(); err != nil {
		log.Error().Err(err).Msg("[aggregatorService] failed to close report store")
		return err
	}
	return nil
}

// Optimize runs one optimisation and records its quote report.
func (svc *Service) Optimize(ctx context.Context, req *OptimizeRequest) (*OptimizeResponse, error) {
	if req == nil || req.Liquidity == nil {
		return nil, fmt.Errorf("%w: missing liquidity", ErrInvalidRequest)
	}
	if req.RunLimit < 0 || req.RunLimit > svc.config.MaxRunLimit {
		return nil, fmt.Errorf("%w: run limit %d outside [0, %d]", ErrInvalidRequest, req.RunLimit, svc.config.MaxRunLimit)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	msl := req.Liquidity
	side := msl.Side.String()
	start := time.Now()

	result, err := svc.optimizer.Optimize(msl, svc.optimizerOpts(req))
	metrics.OptimizeDuration.WithLabelValues(side).Observe(time.Since(start).Seconds())
	if err != nil {
		status := "error"
		if router.IsInsufficientLiquidity(err) {
			status = "insufficient_liquidity"
			svc.logger.Debug().Err(err).Str("side", side).Msg("no route")
		} else {
			svc.logger.Error().Err(err).Str("side", side).Msg("optimisation failed")
		}
		metrics.OptimizeRequests.WithLabelValues(side, status).Inc()
		return nil, err
	}

	metrics.OptimizeRequests.WithLabelValues(side, "ok").Inc()
	metrics.SearchSteps.Observe(float64(result.SearchSteps))
	metrics.PathsConsidered.Observe(float64(len(result.ConsideredPaths)))
	if result.FallbackAdopted {
		metrics.FallbackAdopted.Inc()
	}
	if result.IsTwoHop {
		metrics.MultiHopWins.Inc()
	}

	rep := svc.reports.Generate(msl, result, req.RfqOrders)
	if err := svc.store.Save(rep); err != nil {
		// A lost report does not invalidate the orders.
		metrics.ReportsSaved.WithLabelValues("error").Inc()
		svc.logger.Error().Err(err).Str("report_id", rep.ID).Msg("failed to save quote report")
	} else {
		metrics.ReportsSaved.WithLabelValues("ok").Inc()
	}

	svc.logger.Debug().
		Str("side", side).
		Str("report_id", rep.ID).
		Int("sources_considered", len(rep.SourcesConsidered)).
		Str("adjusted_rate", result.AdjustedRate.String()).
		Int("steps", result.SearchSteps).
		Bool("fallback_adopted", result.FallbackAdopted).
		Bool("multihop", result.IsTwoHop).
		Dur("took", time.Since(start)).
		Msg("optimised")

	return &OptimizeResponse{Result: result, Report: rep}, nil
}

// OptimizeBatch runs the requests concurrently, at most BatchConcurrency at a
// time. Items come back in request order; a failing request does not stop the
// others. Only cancellation of ctx fails the whole batch.
func (svc *Service) OptimizeBatch(ctx context.Context, reqs []*OptimizeRequest) ([]BatchItem, error) {
	items := make([]BatchItem, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(svc.config.BatchConcurrency)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resp, err := svc.Optimize(gctx, req)
			if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
				return err
			}
			items[i] = BatchItem{Response: resp, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func (svc *Service) GetReport(id string) (*domain.QuoteReport, error) {
	return svc.store.Get(id)
}

func (svc *Service) ListReports(limit int) ([]*domain.QuoteReport, error) {
	return svc.store.List(limit)
}

func (svc *Service) optimizerOpts(req *OptimizeRequest) router.OptimizerOpts {
	opts := router.OptimizerOpts{
		RunLimit:            svc.config.RunLimit,
		AllowFallback:       svc.config.AllowFallback,
		MaxFallbackSlippage: svc.config.MaxFallbackSlippage,
		ExcludedSources:     req.ExcludedSources,
		GasPrice:            req.GasPrice,
		DirectSettlementGas: svc.config.DirectSettlementGas,
		RfqGas:              svc.config.RfqGas,
		RfqOrders:           req.RfqOrders,
	}
	if req.RunLimit > 0 {
		opts.RunLimit = req.RunLimit
	}
	if req.AllowFallback != nil {
		opts.AllowFallback = *req.AllowFallback
	}
	if req.MaxFallbackSlippage != nil {
		opts.MaxFallbackSlippage = *req.MaxFallbackSlippage
	}
	return opts
}
