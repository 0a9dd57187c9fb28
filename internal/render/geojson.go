// Package render turns sequencer drawing calls into GeoJSON frames.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/jengzang/runmap-backend-go/internal/animation"
	"github.com/jengzang/runmap-backend-go/internal/spatial"
)

// Viewport is the last framing request
type Viewport struct {
	Bounds       spatial.BoundingBox `json:"bounds"`
	Padding      animation.Padding   `json:"padding"`
	TransitionMs int64               `json:"transition_ms"`
}

// Frame is the full drawable state at one moment
type Frame struct {
	Seq          int                        `json:"seq"`
	Viewport     *Viewport                  `json:"viewport,omitempty"`
	Route        *geojson.FeatureCollection `json:"route"`
	CurrentPoint *geojson.FeatureCollection `json:"current_point"`
	Completed    *geojson.FeatureCollection `json:"completed_routes"`
}

// GeoJSONRenderer implements animation.Renderer by keeping the latest layer
// contents and building GeoJSON on demand
type GeoJSONRenderer struct {
	mu        sync.Mutex
	seq       int
	viewport  *Viewport
	route     []spatial.Coordinate
	point     *spatial.Coordinate
	completed []animation.CompletedRoute
}

var _ animation.Renderer = (*GeoJSONRenderer)(nil)

// NewGeoJSONRenderer creates an empty renderer
func NewGeoJSONRenderer() *GeoJSONRenderer {
	return &GeoJSONRenderer{}
}

func (r *GeoJSONRenderer) SetViewport(box spatial.BoundingBox, padding animation.Padding, transition time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.viewport = &Viewport{Bounds: box, Padding: padding, TransitionMs: transition.Milliseconds()}
}

func (r *GeoJSONRenderer) SetActiveRoute(coords []spatial.Coordinate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.route = append(r.route[:0], coords...)
}

func (r *GeoJSONRenderer) SetCurrentPoint(c *spatial.Coordinate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if c == nil {
		r.point = nil
		return
	}
	p := *c
	r.point = &p
}

func (r *GeoJSONRenderer) SetCompletedRoutes(entries []animation.CompletedRoute) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.completed = append(r.completed[:0], entries...)
}

// Frame builds GeoJSON for the current layer contents
func (r *GeoJSONRenderer) Frame() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := Frame{
		Seq:          r.seq,
		Route:        geojson.NewFeatureCollection(),
		CurrentPoint: geojson.NewFeatureCollection(),
		Completed:    geojson.NewFeatureCollection(),
	}
	if r.viewport != nil {
		vp := *r.viewport
		f.Viewport = &vp
	}

	// a single point is not a valid LineString
	if len(r.route) >= 2 {
		f.Route.Append(geojson.NewFeature(spatial.LineString(r.route)))
	}
	if r.point != nil {
		f.CurrentPoint.Append(geojson.NewFeature(r.point.Point()))
	}

	for i, entry := range r.completed {
		if len(entry.Coordinates) < 2 {
			continue
		}
		feature := geojson.NewFeature(spatial.LineString(entry.Coordinates))
		feature.Properties["index"] = i
		feature.Properties["finalView"] = entry.FullWeight
		if entry.Activity != nil {
			d := entry.Activity.Display()
			feature.Properties["name"] = entry.Activity.Name
			feature.Properties["date"] = d.Date
			feature.Properties["distance"] = d.Distance
		}
		f.Completed.Append(feature)
	}
	return f
}

// WriteFrame writes the current frame as one line of JSON
func (r *GeoJSONRenderer) WriteFrame(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(r.Frame()); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}
