package animation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jengzang/runmap-backend-go/internal/models"
)

// PacingMode selects how long an activity's route takes to draw
type PacingMode int

const (
	// PacingFixed gives every activity the same wall time
	PacingFixed PacingMode = iota
	// PacingProportional scales wall time with the activity's recorded duration
	PacingProportional
)

func (m PacingMode) String() string {
	switch m {
	case PacingFixed:
		return "fixed"
	case PacingProportional:
		return "proportional"
	default:
		return fmt.Sprintf("pacing(%d)", int(m))
	}
}

// ParsePacingMode accepts "fixed" or "proportional"
func ParsePacingMode(s string) (PacingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "":
		return PacingFixed, nil
	case "proportional":
		return PacingProportional, nil
	default:
		return PacingFixed, fmt.Errorf("unknown pacing mode %q", s)
	}
}

// Config holds the tunable timing and framing values
type Config struct {
	TicksPerSecond int

	// Fixed mode wall time per activity
	FixedSeconds float64

	// Proportional mode: an activity of ReferenceSeconds draws in BaselineSeconds,
	// scaled by a multiplier clamped to [MinMultiplier, MaxMultiplier].
	BaselineSeconds  float64
	ReferenceSeconds float64
	MinMultiplier    float64
	MaxMultiplier    float64

	ZoomDuration       time.Duration
	TransitionDuration time.Duration
	FinalZoomDuration  time.Duration

	RoutePadding    Padding
	OverviewPadding Padding
}

// DefaultConfig returns the standard pacing and framing
func DefaultConfig() Config {
	return Config{
		TicksPerSecond:     60,
		FixedSeconds:       2,
		BaselineSeconds:    8,
		ReferenceSeconds:   1800,
		MinMultiplier:      0.5,
		MaxMultiplier:      3,
		ZoomDuration:       2 * time.Second,
		TransitionDuration: 2 * time.Second,
		FinalZoomDuration:  2*time.Second + 100*time.Millisecond,
		RoutePadding:       Padding{Top: 100, Bottom: 150, Left: 100, Right: 100},
		OverviewPadding:    UniformPadding(50),
	}
}

// Validate checks the values a run depends on
func (c Config) Validate() error {
	if c.TicksPerSecond <= 0 {
		return fmt.Errorf("ticks per second must be positive, got %d", c.TicksPerSecond)
	}
	if c.FixedSeconds <= 0 || c.BaselineSeconds <= 0 || c.ReferenceSeconds <= 0 {
		return fmt.Errorf("pacing durations must be positive")
	}
	if c.MinMultiplier <= 0 || c.MaxMultiplier < c.MinMultiplier {
		return fmt.Errorf("invalid multiplier range [%g, %g]", c.MinMultiplier, c.MaxMultiplier)
	}
	if c.ZoomDuration < 0 || c.TransitionDuration < 0 || c.FinalZoomDuration < 0 {
		return fmt.Errorf("phase durations must not be negative")
	}
	return nil
}

// TickInterval is the frame period
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TicksPerSecond)
}

// Multiplier is the proportional-mode speed factor. A zero duration counts as
// the reference duration.
func (c Config) Multiplier(a models.Activity) float64 {
	d := a.DurationSeconds
	if d <= 0 {
		d = c.ReferenceSeconds
	}
	return math.Min(c.MaxMultiplier, math.Max(c.MinMultiplier, d/c.ReferenceSeconds))
}

// WallTime is how long the activity's Animate phase lasts
func (c Config) WallTime(mode PacingMode, a models.Activity) time.Duration {
	seconds := c.FixedSeconds
	if mode == PacingProportional {
		seconds = c.BaselineSeconds * c.Multiplier(a)
	}
	return time.Duration(seconds * float64(time.Second))
}

// AnimateTicks is the number of ticks progress takes to go from 0 to 1
func (c Config) AnimateTicks(mode PacingMode, a models.Activity) int {
	n := int(math.Round(c.WallTime(mode, a).Seconds() * float64(c.TicksPerSecond)))
	if n < 1 {
		n = 1
	}
	return n
}
