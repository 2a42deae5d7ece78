package http

import (
	"errors"

	"github.com/hxuan190/swap-optimizer/internal/aggregator"
	"github.com/hxuan190/swap-optimizer/internal/common"
	"github.com/hxuan190/swap-optimizer/internal/services/router"
)

// toHTTPError maps service errors onto API errors. Anything unclassified is
// a defect and surfaces as a 500.
func toHTTPError(err error) *common.HttpError {
	switch {
	case errors.Is(err, aggregator.ErrInvalidRequest):
		return common.HTTPErrorBadRequest(err.Error())
	case router.IsInsufficientLiquidity(err):
		return common.HTTPErrorInsufficientLiquidity("")
	case errors.Is(err, aggregator.ErrReportNotFound):
		return common.HTTPErrorNotFound("report not found")
	default:
		return common.HTTPErrorInternalError("")
	}
}
