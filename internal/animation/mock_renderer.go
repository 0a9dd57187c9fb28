package animation

import (
	"sync"
	"time"

	"github.com/jengzang/runmap-backend-go/internal/spatial"
)

// Renderer call names recorded by MockRenderer
const (
	CallSetViewport        = "SetViewport"
	CallSetActiveRoute     = "SetActiveRoute"
	CallSetCurrentPoint    = "SetCurrentPoint"
	CallSetCompletedRoutes = "SetCompletedRoutes"
)

// RenderCall is one recorded renderer invocation
type RenderCall struct {
	Method     string
	Box        spatial.BoundingBox
	Padding    Padding
	Transition time.Duration
	Coords     []spatial.Coordinate
	Point      *spatial.Coordinate
	Completed  []CompletedRoute
}

// MockRenderer records every call for inspection in tests and dry runs
type MockRenderer struct {
	mu    sync.Mutex
	calls []RenderCall
}

// NewMockRenderer creates an empty recorder
func NewMockRenderer() *MockRenderer {
	return &MockRenderer{}
}

func (m *MockRenderer) record(c RenderCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

// SetViewport records a viewport request
func (m *MockRenderer) SetViewport(box spatial.BoundingBox, padding Padding, transition time.Duration) {
	m.record(RenderCall{Method: CallSetViewport, Box: box, Padding: padding, Transition: transition})
}

// SetActiveRoute records the visible route
func (m *MockRenderer) SetActiveRoute(coords []spatial.Coordinate) {
	m.record(RenderCall{Method: CallSetActiveRoute, Coords: append([]spatial.Coordinate(nil), coords...)})
}

// SetCurrentPoint records the marker position
func (m *MockRenderer) SetCurrentPoint(c *spatial.Coordinate) {
	call := RenderCall{Method: CallSetCurrentPoint}
	if c != nil {
		p := *c
		call.Point = &p
	}
	m.record(call)
}

// SetCompletedRoutes records the accumulation layer
func (m *MockRenderer) SetCompletedRoutes(entries []CompletedRoute) {
	m.record(RenderCall{Method: CallSetCompletedRoutes, Completed: append([]CompletedRoute(nil), entries...)})
}

// Calls returns a copy of the recorded calls
func (m *MockRenderer) Calls() []RenderCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RenderCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// Len returns the number of recorded calls
func (m *MockRenderer) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Last returns the most recent call with the given method
func (m *MockRenderer) Last(method string) (RenderCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.calls) - 1; i >= 0; i-- {
		if m.calls[i].Method == method {
			return m.calls[i], true
		}
	}
	return RenderCall{}, false
}
