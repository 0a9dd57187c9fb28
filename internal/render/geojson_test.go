package render

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/runmap-backend-go/internal/animation"
	"github.com/jengzang/runmap-backend-go/internal/models"
	"github.com/jengzang/runmap-backend-go/internal/spatial"
	"github.com/jengzang/runmap-backend-go/internal/timeutil"
)

var coords = []spatial.Coordinate{{Lon: 1, Lat: 2}, {Lon: 3, Lat: 4}, {Lon: 5, Lat: 6}}

func TestEmptyFrame(t *testing.T) {
	f := NewGeoJSONRenderer().Frame()
	assert.Zero(t, f.Seq)
	assert.Nil(t, f.Viewport)
	assert.Empty(t, f.Route.Features)
	assert.Empty(t, f.CurrentPoint.Features)
	assert.Empty(t, f.Completed.Features)
}

func TestFrameLayers(t *testing.T) {
	r := NewGeoJSONRenderer()
	box, _ := spatial.ComputeBoundingBox(coords)
	activity := &models.Activity{Name: "Morning Run", StartTime: time.Date(2025, 3, 4, 7, 5, 0, 0, time.UTC), DistanceMiles: 3.14159}

	r.SetViewport(box, animation.UniformPadding(50), 2*time.Second)
	r.SetActiveRoute(coords[:2])
	r.SetCurrentPoint(&coords[1])
	r.SetCompletedRoutes([]animation.CompletedRoute{{Coordinates: coords, Activity: activity, FullWeight: true}})

	f := r.Frame()
	assert.Equal(t, 4, f.Seq)
	require.NotNil(t, f.Viewport)
	assert.Equal(t, int64(2000), f.Viewport.TransitionMs)
	assert.Equal(t, box, f.Viewport.Bounds)

	require.Len(t, f.Route.Features, 1)
	assert.Equal(t, orb.LineString{{1, 2}, {3, 4}}, f.Route.Features[0].Geometry)

	require.Len(t, f.CurrentPoint.Features, 1)
	assert.Equal(t, orb.Point{3, 4}, f.CurrentPoint.Features[0].Geometry)

	require.Len(t, f.Completed.Features, 1)
	props := f.Completed.Features[0].Properties
	assert.Equal(t, true, props["finalView"])
	assert.Equal(t, "Morning Run", props["name"])
	assert.Equal(t, "Mar 4, 2025", props["date"])
	assert.Equal(t, "3.14", props["distance"])
}

func TestSinglePointRouteIsOmitted(t *testing.T) {
	r := NewGeoJSONRenderer()
	r.SetActiveRoute(coords[:1])
	r.SetCurrentPoint(&coords[0])
	r.SetCurrentPoint(nil)

	f := r.Frame()
	assert.Empty(t, f.Route.Features)
	assert.Empty(t, f.CurrentPoint.Features)
}

func TestRendererDoesNotAliasInput(t *testing.T) {
	r := NewGeoJSONRenderer()
	in := append([]spatial.Coordinate(nil), coords...)
	r.SetActiveRoute(in)
	in[0] = spatial.Coordinate{Lon: 99, Lat: 99}

	f := r.Frame()
	assert.Equal(t, orb.Point{1, 2}, f.Route.Features[0].Geometry.(orb.LineString)[0])
}

func TestWriteFrame(t *testing.T) {
	r := NewGeoJSONRenderer()
	r.SetActiveRoute(coords)

	var buf bytes.Buffer
	require.NoError(t, r.WriteFrame(&buf))

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "route")
	assert.Contains(t, decoded, "completed_routes")
	assert.Contains(t, string(decoded["route"]), `"LineString"`)
}

func TestDrivenBySequencer(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	cfg := animation.DefaultConfig()
	cfg.TicksPerSecond = 10
	cfg.FixedSeconds = 1
	cfg.ZoomDuration = 0
	cfg.TransitionDuration = 0
	cfg.FinalZoomDuration = 0

	box, _ := spatial.ComputeBoundingBox(coords)
	activity := models.Activity{Name: "a", Coordinates: coords, Bounds: box}

	r := NewGeoJSONRenderer()
	seq := animation.NewSequencer(cfg, clock, r)
	seq.Load([]models.Activity{activity, activity})
	require.NoError(t, seq.Start())

	for i := 0; i < 100 && seq.State().Phase != animation.PhaseComplete; i++ {
		clock.Advance(cfg.TickInterval())
		seq.Tick()
	}
	require.Equal(t, animation.PhaseComplete, seq.State().Phase)

	f := r.Frame()
	assert.Empty(t, f.Route.Features)
	assert.Empty(t, f.CurrentPoint.Features)
	require.Len(t, f.Completed.Features, 2)
	for _, feature := range f.Completed.Features {
		assert.Equal(t, true, feature.Properties["finalView"])
	}
	assert.Equal(t, animation.UniformPadding(50), f.Viewport.Padding)
}
