package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/runmap-backend-go/internal/models"
	"github.com/jengzang/runmap-backend-go/internal/service"
	"github.com/jengzang/runmap-backend-go/internal/track"
	"github.com/jengzang/runmap-backend-go/pkg/response"
)

// ActivityHandler handles GPX uploads and collection overviews
type ActivityHandler struct {
	service        *service.ActivityService
	maxUploadBytes int64
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(service *service.ActivityService, maxUploadBytes int64) *ActivityHandler {
	return &ActivityHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// overviewRequest is the body of POST /api/v1/activities/overview
type overviewRequest struct {
	Activities []models.Activity `json:"activities"`
}

// Parse handles POST /api/v1/activities/parse
//
// The multipart form carries one or more "files" and optionally "existing",
// a JSON array of activities already loaded by the client.
func (h *ActivityHandler) Parse(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.PayloadTooLarge(c, "Upload too large")
			return
		}
		response.BadRequest(c, "Invalid multipart form")
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		response.BadRequest(c, "No files uploaded")
		return
	}

	var existing []models.Activity
	if raw := form.Value["existing"]; len(raw) > 0 && raw[0] != "" {
		if err := json.Unmarshal([]byte(raw[0]), &existing); err != nil {
			response.BadRequest(c, "Invalid existing activities")
			return
		}
	}

	files := make([]track.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			log.Printf("[ActivityHandler] Failed to open upload %s: %v", fh.Filename, err)
			response.InternalError(c, "Failed to read upload")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			log.Printf("[ActivityHandler] Failed to read upload %s: %v", fh.Filename, err)
			response.InternalError(c, "Failed to read upload")
			return
		}
		files = append(files, track.File{Name: fh.Filename, Data: data})
	}

	response.Success(c, h.service.ParseFiles(existing, files))
}

// Overview handles POST /api/v1/activities/overview
func (h *ActivityHandler) Overview(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	var req overviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.PayloadTooLarge(c, "Request too large")
			return
		}
		response.BadRequest(c, "Invalid request body")
		return
	}

	response.Success(c, h.service.Overview(req.Activities))
}
