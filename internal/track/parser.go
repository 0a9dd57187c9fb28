package track

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jengzang/runmap-backend-go/internal/models"
	"github.com/jengzang/runmap-backend-go/internal/spatial"
	"github.com/jengzang/runmap-backend-go/internal/timeutil"
)

// ErrParseFailure marks input that produced no activity
var ErrParseFailure = errors.New("parse failure")

var (
	ErrNoTracks      = fmt.Errorf("%w: no tracks found", ErrParseFailure)
	ErrNoValidPoints = fmt.Errorf("%w: no valid points in first track", ErrParseFailure)
)

// Parser turns decoded track data into activities
type Parser struct {
	clock timeutil.Clock
}

// NewParser creates a parser. A nil clock uses the wall clock.
func NewParser(clock timeutil.Clock) *Parser {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Parser{clock: clock}
}

// Parse builds an activity from the first track of raw. Later tracks are ignored.
// Points missing a finite longitude or latitude are dropped silently.
func (p *Parser) Parse(raw models.RawTrackData, fallbackName string) (*models.Activity, error) {
	if len(raw.Tracks) == 0 {
		return nil, ErrNoTracks
	}

	trk := raw.Tracks[0]
	now := p.clock.Now()

	points := validPoints(trk.Points, now)
	if len(points) == 0 {
		return nil, ErrNoValidPoints
	}

	coords := make([]spatial.Coordinate, len(points))
	for i, pt := range points {
		coords[i] = spatial.Coordinate{Lon: pt.Lon, Lat: pt.Lat}
	}

	// Always defined: coords is non-empty here
	bounds, _ := spatial.ComputeBoundingBox(coords)

	start := points[0].Time
	end := points[len(points)-1].Time
	duration := end.Sub(start).Seconds()
	if len(points) < 2 || duration < 0 {
		duration = 0
	}

	name := strings.TrimSpace(trk.Name)
	if name == "" {
		name = fallbackName
	}

	return &models.Activity{
		Name:            name,
		StartTime:       start,
		DurationSeconds: duration,
		Coordinates:     coords,
		Bounds:          bounds,
		DistanceMiles:   spatial.KmToMiles(spatial.PathLengthKm(coords)),
	}, nil
}

// validPoints filters raw candidates and applies defaults: elevation 0, time now
func validPoints(raw []models.RawPoint, now time.Time) []models.TrackPoint {
	points := make([]models.TrackPoint, 0, len(raw))
	for _, rp := range raw {
		if !finite(rp.Lon) || !finite(rp.Lat) {
			continue
		}

		pt := models.TrackPoint{Lon: *rp.Lon, Lat: *rp.Lat, Time: now}
		if rp.Ele != nil && finite(rp.Ele) {
			pt.Elevation = *rp.Ele
		}
		if rp.Time != nil && !rp.Time.IsZero() {
			pt.Time = *rp.Time
		}
		points = append(points, pt)
	}
	return points
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
