package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aide-dev/aide/internal/aide/biz"
	"github.com/aide-dev/aide/internal/model"
)

// SearchHandler handles semantic search requests.
type SearchHandler struct {
	service *biz.SearchService
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(service *biz.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// SearchRequest represents a search request.
type SearchRequest struct {
	Query   string `json:"query" binding:"required"`
	Project string `json:"project" binding:"required"`
}

// Search runs a semantic query within a project.
func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: err.Error()})
		return
	}

	results, err := h.service.Search(c.Request.Context(), req.Query, req.Project)
	if err != nil {
		writeError(c, err)
		return
	}
	if results == nil {
		results = []model.SearchResult{}
	}

	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "OK", Data: results})
}
