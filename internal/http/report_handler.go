package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hxuan190/swap-optimizer/internal/aggregator"
	"github.com/hxuan190/swap-optimizer/internal/http/httputil"
)

const (
	defaultReportLimit = 20
	maxReportLimit     = 200
)

type ReportHandler struct {
	aggregatorSvc *aggregator.Service
}

func NewReportHandler(aggregatorSvc *aggregator.Service) *ReportHandler {
	return &ReportHandler{aggregatorSvc: aggregatorSvc}
}

func (h *ReportHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/:id", h.getReport)
	pub.GET("", h.listReports)
}

func (h *ReportHandler) Root() string {
	return "/reports"
}

// getReport godoc
// @Summary Get a quote report
// @Description Sources considered and delivered for one optimisation.
// @Tags reports
// @Produce json
// @Param id path string true "Report id"
// @Success 200 {object} domain.QuoteReport
// @Failure 404 {object} httputil.Response "Report not found"
// @Router /api/v1/reports/{id} [get]
func (h *ReportHandler) getReport(c *gin.Context) {
	r, err := h.aggregatorSvc.GetReport(c.Param("id"))
	if err != nil {
		httputil.Abort(c, toHTTPError(err))
		return
	}
	httputil.Success(c, r)
}

// listReports godoc
// @Summary List recent quote reports
// @Tags reports
// @Produce json
// @Param limit query int false "Number of reports, newest first" default(20)
// @Success 200 {array} domain.QuoteReport
// @Failure 400 {object} httputil.Response "Invalid limit"
// @Router /api/v1/reports [get]
func (h *ReportHandler) listReports(c *gin.Context) {
	limit := defaultReportLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxReportLimit {
			httputil.BadRequest(c, "limit must be between 1 and "+strconv.Itoa(maxReportLimit))
			return
		}
		limit = n
	}

	reports, err := h.aggregatorSvc.ListReports(limit)
	if err != nil {
		httputil.Abort(c, toHTTPError(err))
		return
	}
	httputil.Success(c, reports)
}
