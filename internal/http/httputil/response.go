package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hxuan190/swap-optimizer/internal/common"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Error(c *gin.Context, status int, err string) {
	c.JSON(status, Response{
		Success: false,
		Error:   err,
	})
}

// Abort writes err as the response. Anything that is not a *common.HttpError
// is reported as an internal error without leaking its message.
func Abort(c *gin.Context, err error) {
	var httpErr *common.HttpError
	if !errors.As(err, &httpErr) {
		httpErr = common.HTTPErrorInternalError("")
	}
	c.AbortWithStatusJSON(httpErr.StatusCode, Response{
		Success: false,
		Code:    httpErr.Code,
		Error:   httpErr.Message,
	})
}

func BadRequest(c *gin.Context, err string) {
	Abort(c, common.HTTPErrorBadRequest(err))
}

func InternalError(c *gin.Context, err string) {
	Abort(c, common.HTTPErrorInternalError(err))
}

func NotFound(c *gin.Context, err string) {
	Abort(c, common.HTTPErrorNotFound(err))
}
