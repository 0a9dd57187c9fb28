package handler

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jengzang/runmap-backend-go/internal/auth"
	"github.com/jengzang/runmap-backend-go/internal/middleware"
	"github.com/jengzang/runmap-backend-go/internal/service"
	"github.com/jengzang/runmap-backend-go/internal/strava"
	"github.com/jengzang/runmap-backend-go/pkg/response"
)

const stateCookieMaxAge = 10 * 60

// StravaHandler handles the Strava OAuth flow and activity import
type StravaHandler struct {
	service  *service.StravaService
	sessions *auth.SessionManager
	siteURL  string
}

// NewStravaHandler creates a new Strava handler
func NewStravaHandler(service *service.StravaService, sessions *auth.SessionManager, siteURL string) *StravaHandler {
	return &StravaHandler{service: service, sessions: sessions, siteURL: siteURL}
}

func (h *StravaHandler) redirectURI() string {
	return h.siteURL + "/api/v1/strava/callback"
}

func (h *StravaHandler) secure() bool {
	u, err := url.Parse(h.siteURL)
	return err == nil && u.Scheme == "https"
}

// Authorize handles GET /api/v1/strava/auth
func (h *StravaHandler) Authorize(c *gin.Context) {
	state := uuid.NewString()

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.StateCookie, state, stateCookieMaxAge, "/", "", h.secure(), true)
	c.Redirect(http.StatusFound, h.service.AuthorizeURL(h.redirectURI(), state))
}

// Callback handles GET /api/v1/strava/callback
func (h *StravaHandler) Callback(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.StateCookie, "", -1, "/", "", h.secure(), true)

	if e := c.Query("error"); e != "" {
		h.fail(c, e)
		return
	}

	state, err := c.Cookie(auth.StateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		h.fail(c, "invalid_state")
		return
	}

	code := c.Query("code")
	if code == "" {
		h.fail(c, "missing_code")
		return
	}

	athleteID, err := h.service.Connect(c.Request.Context(), code)
	if err != nil {
		log.Printf("[StravaHandler] Connect failed: %v", err)
		h.fail(c, "token_exchange_failed")
		return
	}

	token, err := h.sessions.Issue(athleteID)
	if err != nil {
		log.Printf("[StravaHandler] Session failed: %v", err)
		h.fail(c, "session_failed")
		return
	}

	c.SetCookie(auth.SessionCookie, token, int(h.sessions.TTL().Seconds()), "/", "", h.secure(), true)
	c.Redirect(http.StatusFound, h.siteURL+"/?strava_connected=1")
}

func (h *StravaHandler) fail(c *gin.Context, reason string) {
	c.Redirect(http.StatusFound, h.siteURL+"/?strava_error="+url.QueryEscape(reason))
}

// ListActivities handles GET /api/v1/strava/activities?page=
func (h *StravaHandler) ListActivities(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		response.BadRequest(c, "Invalid page")
		return
	}

	activities, err := h.service.ListActivities(c.Request.Context(), middleware.AthleteID(c), page)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"activities": activities,
		"page":       page,
	})
}

// GetTrack handles GET /api/v1/strava/activities/:id/track
func (h *StravaHandler) GetTrack(c *gin.Context) {
	id, ok := activityID(c)
	if !ok {
		return
	}

	activity, err := h.service.ImportActivity(c.Request.Context(), middleware.AthleteID(c), id)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	response.Success(c, activity)
}

// GetGPX handles GET /api/v1/strava/activities/:id/gpx
func (h *StravaHandler) GetGPX(c *gin.Context) {
	id, ok := activityID(c)
	if !ok {
		return
	}

	data, err := h.service.ExportGPX(c.Request.Context(), middleware.AthleteID(c), id)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="strava-`+strconv.FormatInt(id, 10)+`.gpx"`)
	c.Data(http.StatusOK, "text/xml; charset=utf-8", data)
}

func activityID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid activity ID")
		return 0, false
	}
	return id, true
}

func (h *StravaHandler) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotConnected):
		response.Unauthorized(c, "Strava account not connected")
	case errors.Is(err, service.ErrNoGPSData):
		response.NotFound(c, "No GPS data for this activity")
	case errors.Is(err, strava.ErrUpstream):
		log.Printf("[StravaHandler] Upstream error: %v", err)
		response.BadGateway(c, "Strava request failed")
	default:
		log.Printf("[StravaHandler] %v", err)
		response.InternalError(c, "Failed to fetch Strava data")
	}
}
