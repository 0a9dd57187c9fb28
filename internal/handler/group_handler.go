package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/runmap-backend-go/internal/models"
	"github.com/jengzang/runmap-backend-go/internal/service"
	"github.com/jengzang/runmap-backend-go/pkg/response"
)

// GroupHandler handles HTTP requests for shared groups
type GroupHandler struct {
	groups     *service.GroupService
	activities *service.ActivityService
	maxBytes   int64
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groups *service.GroupService, activities *service.ActivityService, maxBytes int64) *GroupHandler {
	return &GroupHandler{groups: groups, activities: activities, maxBytes: maxBytes}
}

// SaveGroup handles POST /api/v1/groups
func (h *GroupHandler) SaveGroup(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	var req models.SaveGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.PayloadTooLarge(c, "Group too large")
			return
		}
		response.BadRequest(c, "Invalid JSON")
		return
	}

	saved, err := h.groups.Save(req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidGroup) {
			response.BadRequest(c, err.Error())
			return
		}
		log.Printf("[GroupHandler] Save failed: %v", err)
		response.InternalError(c, "Failed to save group")
		return
	}

	response.Success(c, saved)
}

// GetGroup handles GET /api/v1/groups/:id
func (h *GroupHandler) GetGroup(c *gin.Context) {
	group, ok := h.load(c)
	if !ok {
		return
	}
	response.Success(c, group)
}

// GetGroupOverview handles GET /api/v1/groups/:id/overview
func (h *GroupHandler) GetGroupOverview(c *gin.Context) {
	group, ok := h.load(c)
	if !ok {
		return
	}
	response.Success(c, h.activities.Overview(group.Activities))
}

func (h *GroupHandler) load(c *gin.Context) (*models.Group, bool) {
	group, err := h.groups.Get(c.Param("id"))
	switch {
	case errors.Is(err, service.ErrInvalidGroupID):
		response.BadRequest(c, "Invalid group ID")
		return nil, false
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, "Group not found")
		return nil, false
	case err != nil:
		log.Printf("[GroupHandler] Load %s failed: %v", c.Param("id"), err)
		response.InternalError(c, "Failed to load group")
		return nil, false
	}
	return group, true
}
