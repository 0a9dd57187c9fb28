package collection

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a collection in aggregate
type Summary struct {
	Count                 int     `json:"count"`
	TotalMiles            float64 `json:"total_miles"`
	TotalDurationSeconds  float64 `json:"total_duration_seconds"`
	MeanMiles             float64 `json:"mean_miles"`
	StdDevMiles           float64 `json:"stddev_miles"`
	LongestMiles          float64 `json:"longest_miles"`
	MedianDurationSeconds float64 `json:"median_duration_seconds"`
	FirstStart            string  `json:"first_start,omitempty"`
	LastStart             string  `json:"last_start,omitempty"`
}

// Summarize computes aggregate figures. An empty collection yields a zero Summary.
func Summarize(c Collection) Summary {
	if len(c) == 0 {
		return Summary{}
	}

	miles := make([]float64, len(c))
	durations := make([]float64, len(c))
	for i, a := range c {
		miles[i] = a.DistanceMiles
		durations[i] = a.DurationSeconds
	}

	s := Summary{
		Count:                len(c),
		TotalMiles:           floats.Sum(miles),
		TotalDurationSeconds: floats.Sum(durations),
		LongestMiles:         floats.Max(miles),
	}
	if len(c) > 1 {
		s.MeanMiles, s.StdDevMiles = stat.MeanStdDev(miles, nil)
	} else {
		s.MeanMiles = miles[0]
	}

	sort.Float64s(durations)
	s.MedianDurationSeconds = stat.Quantile(0.5, stat.Empirical, durations, nil)

	first, last := c[0].StartTime, c[0].StartTime
	for _, a := range c[1:] {
		if a.StartTime.Before(first) {
			first = a.StartTime
		}
		if a.StartTime.After(last) {
			last = a.StartTime
		}
	}
	s.FirstStart = first.UTC().Format(time.RFC3339)
	s.LastStart = last.UTC().Format(time.RFC3339)
	return s
}
