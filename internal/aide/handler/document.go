package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aide-dev/aide/internal/aide/biz"
)

// DocumentHandler handles document upload and download.
type DocumentHandler struct {
	service       *biz.DocumentService
	maxUploadSize int64
}

// NewDocumentHandler creates a DocumentHandler.
func NewDocumentHandler(service *biz.DocumentService, maxUploadSize int64) *DocumentHandler {
	return &DocumentHandler{
		service:       service,
		maxUploadSize: maxUploadSize,
	}
}

// Upload ingests a multipart document upload. Form fields: file, project.
func (h *DocumentHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: "file is required: " + err.Error()})
		return
	}
	project := c.PostForm("project")

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer file.Close()

	result, err := h.service.Upload(c.Request.Context(), fileHeader.Filename, file, project)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "Document ingested successfully", Data: result})
}

// Download streams a stored document as an attachment.
func (h *DocumentHandler) Download(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: "invalid document id"})
		return
	}

	doc, path, err := h.service.Download(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.FileAttachment(path, doc.Name)
}
