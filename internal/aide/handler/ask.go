package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aide-dev/aide/internal/aide/biz"
)

// askTimeout bounds retrieval plus generation for one question.
const askTimeout = 60 * time.Second

// AskHandler handles question answering requests.
type AskHandler struct {
	service *biz.AskService
}

// NewAskHandler creates an AskHandler.
func NewAskHandler(service *biz.AskService) *AskHandler {
	return &AskHandler{service: service}
}

// AskRequest represents a question request.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
	Project  string `json:"project" binding:"required"`
}

// Ask answers a question from the project's documentation.
func (h *AskHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), askTimeout)
	defer cancel()

	result, err := h.service.Ask(ctx, req.Question, req.Project)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "OK", Data: result})
}
