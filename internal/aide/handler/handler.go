// Package handler provides HTTP handlers for the aide service.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/aide-dev/aide/internal/aide/biz"
)

// SuccessResponse is a standard success response.
type SuccessResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeError maps a business error to an HTTP response. Caller mistakes
// surface with their detail; anything else is logged and returned as a
// generic 500 so internals do not leak.
func writeError(c *gin.Context, err error) {
	if errors.Is(err, biz.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: err.Error()})
		return
	}

	logger.Errorw("request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err,
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: "internal server error"})
}
