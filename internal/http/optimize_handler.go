package http

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/swap-optimizer/internal/aggregator"
	"github.com/hxuan190/swap-optimizer/internal/domain"
	"github.com/hxuan190/swap-optimizer/internal/http/httputil"
)

const maxBatchSize = 32

type OptimizeHandler struct {
	aggregatorSvc *aggregator.Service
}

func NewOptimizeHandler(aggregatorSvc *aggregator.Service) *OptimizeHandler {
	return &OptimizeHandler{aggregatorSvc: aggregatorSvc}
}

func (h *OptimizeHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("", h.optimize)
	pub.POST("/batch", h.optimizeBatch)
}

func (h *OptimizeHandler) Root() string {
	return "/optimize"
}

// OptimizeRequest asks for the best fill of one market side
type OptimizeRequest struct {
	// Sampled liquidity snapshot: DEX curves, native orders and two-hop samples
	Liquidity *domain.MarketSideLiquidity `json:"liquidity" binding:"required"`

	// Gas price in wei
	GasPrice decimal.Decimal `json:"gasPrice" swaggertype:"string" example:"30000000000"`

	// Step budget of the first search round, at most the server maximum. Default: server setting
	RunLimit int `json:"runLimit,omitempty" example:"32768"`

	// Append a DEX-only fallback behind native orders. Default: server setting
	AllowFallback *bool `json:"allowFallback,omitempty"`

	// Largest rate shortfall a fallback may have, as a fraction. Default: server setting
	MaxFallbackSlippage *decimal.Decimal `json:"maxFallbackSlippage,omitempty" swaggertype:"string" example:"0.05"`

	// Sources to ignore
	ExcludedSources []domain.Source `json:"excludedSources,omitempty" example:"Curve"`

	// RFQ quotes obtained for this request
	RfqOrders []domain.NativeOrderWithFillableAmounts `json:"rfqOrders,omitempty"`
}

// OptimizeResponse is the optimised order set
type OptimizeResponse struct {
	ReportID        string                   `json:"reportId" example:"0b6b0a1e-3f55-4b8e-9a55-7e1b2c9d4f10"`
	Side            domain.Side              `json:"side" swaggertype:"string" example:"sell"`
	Orders          []*domain.OptimizedOrder `json:"orders"`
	SourceFlags     domain.SourceFlags       `json:"sourceFlags"`
	Sources         []domain.Source          `json:"sources"`
	AdjustedRate    decimal.Decimal          `json:"adjustedRate" swaggertype:"string" example:"4.5"`
	ComparisonPrice *decimal.Decimal         `json:"comparisonPrice,omitempty" swaggertype:"string"`
	IsTwoHop        bool                     `json:"isTwoHop"`
	FallbackAdopted bool                     `json:"fallbackAdopted"`
	SearchSteps     int                      `json:"searchSteps"`
}

type BatchOptimizeRequest struct {
	Requests []OptimizeRequest `json:"requests" binding:"required"`
}

// BatchOptimizeResult is the outcome of one batch entry, in request order
type BatchOptimizeResult struct {
	Success bool              `json:"success"`
	Data    *OptimizeResponse `json:"data,omitempty"`
	Code    string            `json:"code,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func (r *OptimizeRequest) validate() error {
	msl := r.Liquidity
	if msl == nil {
		return errors.New("liquidity is required")
	}
	if !msl.InputAmount.IsPositive() {
		return errors.New("liquidity.inputAmount must be positive")
	}
	if msl.InputToken == msl.OutputToken {
		return errors.New("inputToken and outputToken must differ")
	}
	if r.GasPrice.IsNegative() {
		return errors.New("gasPrice must not be negative")
	}
	if r.RunLimit < 0 {
		return errors.New("runLimit must not be negative")
	}
	if r.MaxFallbackSlippage != nil && r.MaxFallbackSlippage.IsNegative() {
		return errors.New("maxFallbackSlippage must not be negative")
	}
	for _, s := range r.ExcludedSources {
		if !s.IsKnown() {
			return fmt.Errorf("unknown source %q", s)
		}
	}
	return nil
}

func (r *OptimizeRequest) toServiceRequest() *aggregator.OptimizeRequest {
	return &aggregator.OptimizeRequest{
		Liquidity:           r.Liquidity,
		GasPrice:            r.GasPrice,
		RunLimit:            r.RunLimit,
		AllowFallback:       r.AllowFallback,
		MaxFallbackSlippage: r.MaxFallbackSlippage,
		ExcludedSources:     r.ExcludedSources,
		RfqOrders:           r.RfqOrders,
	}
}

func buildOptimizeResponse(resp *aggregator.OptimizeResponse) *OptimizeResponse {
	res := resp.Result
	return &OptimizeResponse{
		ReportID:        resp.Report.ID,
		Side:            resp.Report.Side,
		Orders:          res.OptimizedOrders,
		SourceFlags:     res.SourceFlags,
		Sources:         res.SourceFlags.Sources(),
		AdjustedRate:    res.AdjustedRate,
		ComparisonPrice: res.ComparisonPrice,
		IsTwoHop:        res.IsTwoHop,
		FallbackAdopted: res.FallbackAdopted,
		SearchSteps:     res.SearchSteps,
	}
}

// optimize godoc
// @Summary Optimise a swap
// @Description Builds fills from the supplied liquidity snapshot, searches for the best mix of
// @Description sources after gas penalties, compares it with the best two-hop route and returns
// @Description the resulting orders.
// @Description
// @Description **Amounts** are in base units of the respective token.
// @Description For a sell, `liquidity.inputAmount` is the taker amount; for a buy it is the maker amount.
// @Tags optimize
// @Accept json
// @Produce json
// @Param request body OptimizeRequest true "Liquidity snapshot and options"
// @Success 200 {object} OptimizeResponse "Optimised orders"
// @Failure 400 {object} httputil.Response "Invalid request"
// @Failure 404 {object} httputil.Response "Insufficient liquidity"
// @Failure 500 {object} httputil.Response "Internal error"
// @Router /api/v1/optimize [post]
func (h *OptimizeHandler) optimize(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := req.validate(); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	resp, err := h.aggregatorSvc.Optimize(c.Request.Context(), req.toServiceRequest())
	if err != nil {
		httputil.Abort(c, toHTTPError(err))
		return
	}
	httputil.Success(c, buildOptimizeResponse(resp))
}

// optimizeBatch godoc
// @Summary Optimise several swaps
// @Description Runs up to 32 optimisations concurrently. Results come back in request order;
// @Description a failing entry does not fail the batch.
// @Tags optimize
// @Accept json
// @Produce json
// @Param request body BatchOptimizeRequest true "Optimisation requests"
// @Success 200 {array} BatchOptimizeResult "Per-request results"
// @Failure 400 {object} httputil.Response "Invalid request"
// @Router /api/v1/optimize/batch [post]
func (h *OptimizeHandler) optimizeBatch(c *gin.Context) {
	var req BatchOptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if len(req.Requests) == 0 || len(req.Requests) > maxBatchSize {
		httputil.BadRequest(c, fmt.Sprintf("requests must hold 1 to %d entries", maxBatchSize))
		return
	}

	results := make([]BatchOptimizeResult, len(req.Requests))
	svcReqs := make([]*aggregator.OptimizeRequest, 0, len(req.Requests))
	idx := make([]int, 0, len(req.Requests))
	for i := range req.Requests {
		if err := req.Requests[i].validate(); err != nil {
			results[i] = BatchOptimizeResult{Code: "BAD_REQUEST", Error: err.Error()}
			continue
		}
		svcReqs = append(svcReqs, req.Requests[i].toServiceRequest())
		idx = append(idx, i)
	}

	items, err := h.aggregatorSvc.OptimizeBatch(c.Request.Context(), svcReqs)
	if err != nil {
		log.Warn().Err(err).Int("count", len(svcReqs)).Msg("batch optimisation aborted")
		httputil.Abort(c, toHTTPError(err))
		return
	}

	for j, item := range items {
		i := idx[j]
		if item.Err != nil {
			httpErr := toHTTPError(item.Err)
			results[i] = BatchOptimizeResult{Code: httpErr.Code, Error: httpErr.Message}
			continue
		}
		results[i] = BatchOptimizeResult{Success: true, Data: buildOptimizeResponse(item.Response)}
	}
	httputil.Success(c, results)
}
