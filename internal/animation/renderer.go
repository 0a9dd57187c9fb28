package animation

import (
	"time"

	"github.com/jengzang/runmap-backend-go/internal/models"
	"github.com/jengzang/runmap-backend-go/internal/spatial"
)

// Padding is the viewport inset in screen pixels
type Padding struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// UniformPadding pads every edge by px
func UniformPadding(px int) Padding {
	return Padding{Top: px, Bottom: px, Left: px, Right: px}
}

// CompletedRoute is one entry of the completed-routes accumulation layer.
// FullWeight false means the route is drawn at reduced opacity.
type CompletedRoute struct {
	Coordinates []spatial.Coordinate
	Activity    *models.Activity
	FullWeight  bool
}

// Renderer is the capability set the sequencer needs from a map renderer.
// Viewport transitions are requests; the sequencer never waits for them.
type Renderer interface {
	SetViewport(box spatial.BoundingBox, padding Padding, transition time.Duration)
	SetActiveRoute(coords []spatial.Coordinate)
	// SetCurrentPoint moves the marker; nil hides it.
	SetCurrentPoint(c *spatial.Coordinate)
	SetCompletedRoutes(entries []CompletedRoute)
}
