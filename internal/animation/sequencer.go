// Package animation drives the tick-based route replay state machine.
package animation

import (
	"math"
	"time"

	"github.com/jengzang/runmap-backend-go/internal/collection"
	"github.com/jengzang/runmap-backend-go/internal/models"
	"github.com/jengzang/runmap-backend-go/internal/monitoring"
	"github.com/jengzang/runmap-backend-go/internal/spatial"
	"github.com/jengzang/runmap-backend-go/internal/timeutil"
)

// scheduled is a deferred phase change. It only fires while its generation is current.
type scheduled struct {
	due        time.Time
	generation uint64
	fire       func()
}

// Sequencer replays a list of activities one by one through a Renderer.
// It is not safe for concurrent use; Player serializes access from a run loop.
type Sequencer struct {
	cfg      Config
	clock    timeutil.Clock
	renderer Renderer

	source []models.Activity
	mode   PacingMode

	// per-run snapshot, copied on Start
	run     []models.Activity
	runMode PacingMode

	state      State
	animTicks  int
	totalTicks int

	generation uint64
	pending    *scheduled
	completed  []CompletedRoute

	onUpdate   func(Snapshot)
	onComplete func()
}

// NewSequencer creates an idle sequencer. A nil clock uses the wall clock.
func NewSequencer(cfg Config, clock timeutil.Clock, renderer Renderer) *Sequencer {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Sequencer{
		cfg:      cfg,
		clock:    clock,
		renderer: renderer,
	}
}

// OnUpdate registers the observer called after every tick and signal
func (s *Sequencer) OnUpdate(fn func(Snapshot)) { s.onUpdate = fn }

// OnComplete registers the callback fired when a run reaches Complete
func (s *Sequencer) OnComplete(fn func()) { s.onComplete = fn }

// State returns the current state
func (s *Sequencer) State() State { return s.state }

// Mode returns the pacing mode the next run will use
func (s *Sequencer) Mode() PacingMode { return s.mode }

// Config returns the timing configuration
func (s *Sequencer) Config() Config { return s.cfg }

// Load replaces the activity list used by the next Start. A run already in
// progress keeps its own copy. When idle the overview is redrawn.
func (s *Sequencer) Load(activities []models.Activity) {
	s.source = append([]models.Activity(nil), activities...)
	if s.state.Phase == PhaseIdle {
		s.ShowOverview()
	}
}

// ShowOverview draws every loaded route at full weight and frames them all.
// Ignored during a run.
func (s *Sequencer) ShowOverview() {
	if s.state.Phase.Running() {
		return
	}
	s.completed = s.completed[:0]
	for i := range s.source {
		if len(s.source[i].Coordinates) == 0 {
			continue
		}
		s.completed = append(s.completed, CompletedRoute{
			Coordinates: s.source[i].Coordinates,
			Activity:    &s.source[i],
			FullWeight:  true,
		})
	}
	s.renderer.SetCompletedRoutes(s.completedCopy())
	if box, ok := collection.Bounds(s.source); ok {
		s.renderer.SetViewport(box, s.cfg.OverviewPadding, s.cfg.ZoomDuration)
	}
}

// SetPacingMode changes the mode for the next run. Only honored in Idle or Complete.
func (s *Sequencer) SetPacingMode(mode PacingMode) error {
	if s.state.Phase.Running() {
		return ErrRunInProgress
	}
	s.mode = mode
	return nil
}

// Start begins a run from the first loaded activity
func (s *Sequencer) Start() error {
	if s.state.Phase.Running() {
		return ErrRunInProgress
	}
	if len(s.source) == 0 {
		return ErrNoActivities
	}

	s.run = append([]models.Activity(nil), s.source...)
	s.runMode = s.mode
	s.completed = nil
	s.renderer.SetCompletedRoutes(nil)

	monitoring.Logf("[Sequencer] Starting run: %d activities, %s pacing", len(s.run), s.runMode)
	s.enterZoomIn()
	s.emit()
	return nil
}

// Reset aborts the run and returns to Idle. Routes completed so far stay on the
// map at full weight; nothing else is drawn until the next Start.
func (s *Sequencer) Reset() {
	if s.state.Phase == PhaseIdle {
		return
	}
	s.setPhase(PhaseIdle, 0)
	s.setWeights(true)
	s.renderer.SetCompletedRoutes(s.completedCopy())
	s.renderer.SetActiveRoute(nil)
	s.renderer.SetCurrentPoint(nil)
	s.emit()
}

// Tick advances the state machine by one frame
func (s *Sequencer) Tick() {
	fired := false
	if p := s.pending; p != nil {
		if p.generation != s.generation {
			s.pending = nil
		} else if !s.clock.Now().Before(p.due) {
			s.pending = nil
			p.fire()
			fired = true
		}
	}

	if !fired && s.state.Phase == PhaseAnimate {
		s.advance()
	}
	s.emit()
}

// Snapshot reports the current activity and display progress
func (s *Sequencer) Snapshot() Snapshot {
	snap := Snapshot{State: s.state}
	i := s.state.ActivityIndex
	switch s.state.Phase {
	case PhaseZoomIn:
		snap.Activity = &s.run[i]
	case PhaseAnimate:
		snap.Activity = &s.run[i]
		snap.Progress = s.state.Progress
	case PhaseTransition:
		snap.Activity = &s.run[i+1]
	case PhaseFinalZoomOut:
		snap.Activity = &s.run[i]
		snap.Progress = 1
	}
	return snap
}

func (s *Sequencer) emit() {
	if s.onUpdate != nil {
		s.onUpdate(s.Snapshot())
	}
}

// setPhase moves to a new phase and invalidates any pending transition
func (s *Sequencer) setPhase(p Phase, index int) {
	s.generation++
	s.state = State{Phase: p, ActivityIndex: index}
}

func (s *Sequencer) schedule(d time.Duration, fire func()) {
	s.pending = &scheduled{
		due:        s.clock.Now().Add(d),
		generation: s.generation,
		fire:       fire,
	}
}

func (s *Sequencer) enterZoomIn() {
	s.setPhase(PhaseZoomIn, 0)
	first := s.run[0]
	s.renderer.SetActiveRoute(nil)
	if len(first.Coordinates) > 0 {
		start := first.Coordinates[0]
		s.renderer.SetCurrentPoint(&start)
		s.renderer.SetViewport(first.Bounds, s.cfg.RoutePadding, s.cfg.ZoomDuration)
	} else {
		s.renderer.SetCurrentPoint(nil)
	}
	s.schedule(s.cfg.ZoomDuration, func() { s.enterAnimate(0) })
}

func (s *Sequencer) enterAnimate(i int) {
	s.setPhase(PhaseAnimate, i)
	a := s.run[i]
	if len(a.Coordinates) == 0 {
		monitoring.Logf("[Sequencer] Skipping activity %d (%s): no coordinates", i, a.Name)
		s.finishActivity(i)
		return
	}

	s.animTicks = 0
	s.totalTicks = s.cfg.AnimateTicks(s.runMode, a)
	s.reveal(a.Coordinates, 0)
}

func (s *Sequencer) advance() {
	i := s.state.ActivityIndex
	s.animTicks++
	progress := math.Min(1, float64(s.animTicks)/float64(s.totalTicks))
	s.state.Progress = progress
	s.reveal(s.run[i].Coordinates, progress)
	if progress >= 1 {
		s.finishActivity(i)
	}
}

// reveal draws the prefix up to floor(progress*len) inclusive and puts the
// marker on its last point
func (s *Sequencer) reveal(coords []spatial.Coordinate, progress float64) {
	idx := int(math.Floor(progress * float64(len(coords))))
	if idx >= len(coords) {
		idx = len(coords) - 1
	}
	visible := coords[:idx+1]
	s.renderer.SetActiveRoute(visible)
	marker := visible[len(visible)-1]
	s.renderer.SetCurrentPoint(&marker)
}

func (s *Sequencer) finishActivity(i int) {
	if i < len(s.run)-1 {
		s.enterTransition(i)
		return
	}
	s.enterFinalZoomOut()
}

func (s *Sequencer) enterTransition(i int) {
	s.setPhase(PhaseTransition, i)
	s.appendCompleted(i)
	s.setWeights(false)
	s.renderer.SetCompletedRoutes(s.completedCopy())
	s.renderer.SetActiveRoute(nil)

	next := s.run[i+1]
	if len(next.Coordinates) > 0 {
		start := next.Coordinates[0]
		s.renderer.SetCurrentPoint(&start)
		s.renderer.SetViewport(next.Bounds, s.cfg.RoutePadding, s.cfg.TransitionDuration)
	} else {
		s.renderer.SetCurrentPoint(nil)
	}
	s.schedule(s.cfg.TransitionDuration, func() { s.enterAnimate(i + 1) })
}

func (s *Sequencer) enterFinalZoomOut() {
	last := len(s.run) - 1
	s.setPhase(PhaseFinalZoomOut, last)
	s.state.Progress = 1
	s.appendCompleted(last)
	s.setWeights(true)
	s.renderer.SetCompletedRoutes(s.completedCopy())
	s.renderer.SetActiveRoute(nil)
	s.renderer.SetCurrentPoint(nil)
	if box, ok := collection.Bounds(s.run); ok {
		s.renderer.SetViewport(box, s.cfg.OverviewPadding, s.cfg.FinalZoomDuration)
	}
	s.schedule(s.cfg.FinalZoomDuration, s.enterComplete)
}

func (s *Sequencer) enterComplete() {
	s.setPhase(PhaseComplete, len(s.run)-1)
	s.state.Progress = 1
	s.setWeights(true)
	s.renderer.SetCompletedRoutes(s.completedCopy())
	monitoring.Logf("[Sequencer] Run complete: %d activities", len(s.run))
	if s.onComplete != nil {
		s.onComplete()
	}
}

func (s *Sequencer) appendCompleted(i int) {
	if len(s.run[i].Coordinates) == 0 {
		return
	}
	s.completed = append(s.completed, CompletedRoute{
		Coordinates: s.run[i].Coordinates,
		Activity:    &s.run[i],
	})
}

func (s *Sequencer) setWeights(full bool) {
	for i := range s.completed {
		s.completed[i].FullWeight = full
	}
}

func (s *Sequencer) completedCopy() []CompletedRoute {
	return append([]CompletedRoute(nil), s.completed...)
}
