package handler

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/runmap-backend-go/internal/service"
	"github.com/jengzang/runmap-backend-go/pkg/response"
)

// ImportHandler records import events
type ImportHandler struct {
	service *service.ImportService
}

// NewImportHandler creates a new import handler
func NewImportHandler(service *service.ImportService) *ImportHandler {
	return &ImportHandler{service: service}
}

type logImportRequest struct {
	Method     string  `json:"method"`
	Count      int     `json:"count"`
	TotalMiles float64 `json:"totalMiles"`
}

// LogImport handles POST /api/v1/imports/log
//
// Storage failures are reported in the body but never fail the request;
// the client fires and forgets.
func (h *ImportHandler) LogImport(c *gin.Context) {
	var req logImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	_, err := h.service.Log(req.Method, req.Count, req.TotalMiles)
	if errors.Is(err, service.ErrInvalidImport) {
		response.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		log.Printf("[ImportHandler] %v", err)
		response.Success(c, gin.H{"ok": false})
		return
	}

	response.Success(c, gin.H{"ok": true})
}

// GetSummary handles GET /api/v1/imports/summary
func (h *ImportHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary()
	if err != nil {
		log.Printf("[ImportHandler] Summary failed: %v", err)
		response.InternalError(c, "Failed to get import summary")
		return
	}
	response.Success(c, summary)
}
