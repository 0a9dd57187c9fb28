package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/jengzang/runmap-backend-go/internal/spatial"
)

// ErrEmptyActivity is returned when decoding an activity without coordinates
var ErrEmptyActivity = errors.New("activity has no coordinates")

// Activity is one normalized GPS track with derived distance, duration and bounds.
// Activities are created by the track parser and treated as read-only afterwards.
type Activity struct {
	Name            string
	StartTime       time.Time
	DurationSeconds float64
	Coordinates     []spatial.Coordinate
	Bounds          spatial.BoundingBox
	DistanceMiles   float64 // unrounded; rounding is for display only
}

// ActivityDisplay holds the presentation-only strings derived from an activity
type ActivityDisplay struct {
	Date      string // e.g. "Mar 4, 2025"
	TimeOfDay string // e.g. "7:05 AM"
	Duration  string // e.g. "1h 5m" or "42m"
	Distance  string // miles, 2 decimals
}

// Display derives the presentation strings
func (a Activity) Display() ActivityDisplay {
	return ActivityDisplay{
		Date:      a.StartTime.Format("Jan 2, 2006"),
		TimeOfDay: a.StartTime.Format("3:04 PM"),
		Duration:  FormatDuration(a.DurationSeconds),
		Distance:  strconv.FormatFloat(a.DistanceMiles, 'f', 2, 64),
	}
}

// FormatDuration renders seconds as "Xh Ym", or "Ym" below one hour
func FormatDuration(seconds float64) string {
	minutes := seconds / 60
	hours := int(math.Floor(minutes / 60))
	mins := int(math.Floor(math.Mod(minutes, 60)))
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// ActivityJSON is the wire shape used for persistence handoff and API responses
type ActivityJSON struct {
	Name            string               `json:"name"`
	Time            string               `json:"time"`
	Date            string               `json:"date"`
	TimeOfDay       string               `json:"timeOfDay"`
	Duration        string               `json:"duration"`
	DurationSeconds float64              `json:"durationSeconds"`
	Coordinates     []spatial.Coordinate `json:"coordinates"`
	Bounds          *spatial.BoundingBox `json:"bounds,omitempty"`
	Distance        string               `json:"distance"`
}

// ToJSON converts the activity to its wire shape
func (a Activity) ToJSON() ActivityJSON {
	d := a.Display()
	bounds := a.Bounds
	return ActivityJSON{
		Name:            a.Name,
		Time:            a.StartTime.UTC().Format(time.RFC3339Nano),
		Date:            d.Date,
		TimeOfDay:       d.TimeOfDay,
		Duration:        d.Duration,
		DurationSeconds: a.DurationSeconds,
		Coordinates:     a.Coordinates,
		Bounds:          &bounds,
		Distance:        d.Distance,
	}
}

// MarshalJSON implements json.Marshaler
func (a Activity) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.ToJSON())
}

// UnmarshalJSON restores an activity from its wire shape. Bounds and distance are
// recomputed from the coordinates so a round trip keeps the unrounded distance.
func (a *Activity) UnmarshalJSON(data []byte) error {
	var raw ActivityJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode activity: %w", err)
	}

	start, err := time.Parse(time.RFC3339Nano, raw.Time)
	if err != nil {
		return fmt.Errorf("failed to parse activity time %q: %w", raw.Time, err)
	}

	bounds, ok := spatial.ComputeBoundingBox(raw.Coordinates)
	if !ok {
		return fmt.Errorf("activity %q: %w", raw.Name, ErrEmptyActivity)
	}

	*a = Activity{
		Name:            raw.Name,
		StartTime:       start,
		DurationSeconds: raw.DurationSeconds,
		Coordinates:     raw.Coordinates,
		Bounds:          bounds,
		DistanceMiles:   spatial.KmToMiles(spatial.PathLengthKm(raw.Coordinates)),
	}
	return nil
}
