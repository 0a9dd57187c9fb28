package animation

import (
	"errors"
	"fmt"

	"github.com/jengzang/runmap-backend-go/internal/models"
)

var (
	// ErrNoActivities is returned by Start when nothing is loaded
	ErrNoActivities = errors.New("no activities to animate")
	// ErrRunInProgress is returned when a signal is only honored in Idle or Complete
	ErrRunInProgress = errors.New("animation run in progress")
)

// Phase is a discrete state of the animation state machine
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseZoomIn
	PhaseAnimate
	PhaseTransition
	PhaseFinalZoomOut
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseZoomIn:
		return "zoom-in"
	case PhaseAnimate:
		return "animate"
	case PhaseTransition:
		return "transition"
	case PhaseFinalZoomOut:
		return "final-zoom-out"
	case PhaseComplete:
		return "complete"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Running reports whether the phase belongs to an active run
func (p Phase) Running() bool {
	return p != PhaseIdle && p != PhaseComplete
}

// State is the sequencer's position: phase, activity index and progress in [0, 1]
type State struct {
	Phase         Phase
	ActivityIndex int
	Progress      float64
}

// Snapshot is what observers see after every tick or signal. Activity is nil in
// Idle and Complete. Progress is the value for textual readouts; it is forced to 0
// during ZoomIn and Transition.
type Snapshot struct {
	State    State
	Activity *models.Activity
	Progress float64
}
