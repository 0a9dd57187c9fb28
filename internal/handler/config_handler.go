package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/runmap-backend-go/internal/config"
	"github.com/jengzang/runmap-backend-go/pkg/response"
)

// ConfigHandler serves the browser's map settings
type ConfigHandler struct {
	mapConfig config.MapConfig
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(mapConfig config.MapConfig) *ConfigHandler {
	return &ConfigHandler{mapConfig: mapConfig}
}

// GetConfig handles GET /api/v1/config
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	response.Success(c, gin.H{"map": h.mapConfig})
}
