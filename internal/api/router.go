package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/runmap-backend-go/internal/auth"
	"github.com/jengzang/runmap-backend-go/internal/config"
	"github.com/jengzang/runmap-backend-go/internal/handler"
	"github.com/jengzang/runmap-backend-go/internal/middleware"
	"github.com/jengzang/runmap-backend-go/internal/service"
)

// Deps are the services the HTTP layer is built on
type Deps struct {
	Activities *service.ActivityService
	Groups     *service.GroupService
	Imports    *service.ImportService
	Strava     *service.StravaService
	Sessions   *auth.SessionManager
	Limiter    *middleware.RateLimiter
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORSOrigin))

	limiter := deps.Limiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute, nil)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Runmap API is running",
		})
	})

	activityHandler := handler.NewActivityHandler(deps.Activities, cfg.MaxUploadBytes)
	groupHandler := handler.NewGroupHandler(deps.Groups, deps.Activities, cfg.MaxUploadBytes)
	importHandler := handler.NewImportHandler(deps.Imports)
	configHandler := handler.NewConfigHandler(cfg.Map)

	// API 路由组
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(limiter))
	{
		api.GET("/config", configHandler.GetConfig)

		activities := api.Group("/activities")
		{
			activities.POST("/parse", activityHandler.Parse)
			activities.POST("/overview", activityHandler.Overview)
		}

		groups := api.Group("/groups")
		{
			groups.POST("", groupHandler.SaveGroup)
			groups.GET("/:id", groupHandler.GetGroup)
			groups.GET("/:id/overview", groupHandler.GetGroupOverview)
		}

		imports := api.Group("/imports")
		{
			imports.POST("/log", importHandler.LogImport)
			imports.GET("/summary", importHandler.GetSummary)
		}

		// Strava 导入, only mounted when credentials are configured
		if deps.Strava != nil && deps.Sessions != nil {
			stravaHandler := handler.NewStravaHandler(deps.Strava, deps.Sessions, cfg.SiteURL)
			strava := api.Group("/strava")
			{
				strava.GET("/auth", stravaHandler.Authorize)
				strava.GET("/callback", stravaHandler.Callback)

				authed := strava.Group("/activities", middleware.RequireSession(deps.Sessions))
				authed.GET("", stravaHandler.ListActivities)
				authed.GET("/:id/track", stravaHandler.GetTrack)
				authed.GET("/:id/gpx", stravaHandler.GetGPX)
			}
		}
	}

	return r
}
