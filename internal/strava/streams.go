package strava

import (
	"time"

	"github.com/tidwall/gjson"

	"github.com/jengzang/runmap-backend-go/internal/models"
)

// Streams holds the parallel per-sample arrays of an activity
type Streams struct {
	LatLng   [][2]float64 // [lat, lng]
	Time     []float64    // seconds since start
	Altitude []float64    // meters
}

// ParseStreams reads a key_by_type streams payload
func ParseStreams(body []byte) Streams {
	res := gjson.ParseBytes(body)

	var s Streams
	res.Get("latlng.data").ForEach(func(_, v gjson.Result) bool {
		pair := v.Array()
		if len(pair) == 2 {
			s.LatLng = append(s.LatLng, [2]float64{pair[0].Float(), pair[1].Float()})
		}
		return true
	})
	for _, v := range res.Get("time.data").Array() {
		s.Time = append(s.Time, v.Float())
	}
	for _, v := range res.Get("altitude.data").Array() {
		s.Altitude = append(s.Altitude, v.Float())
	}
	return s
}

// Empty reports whether the activity has no GPS samples
func (s Streams) Empty() bool { return len(s.LatLng) == 0 }

// RawTrack converts the streams to one raw track. Sample times are offsets
// from start; a sample without a time offset gets start itself.
func (s Streams) RawTrack(name string, start time.Time) models.RawTrackData {
	rt := models.RawTrack{Name: name, Points: make([]models.RawPoint, 0, len(s.LatLng))}
	for i, ll := range s.LatLng {
		lat, lon := ll[0], ll[1]
		offset := 0.0
		if i < len(s.Time) {
			offset = s.Time[i]
		}
		ts := start.Add(time.Duration(offset * float64(time.Second))).UTC()

		p := models.RawPoint{Lat: &lat, Lon: &lon, Time: &ts}
		if i < len(s.Altitude) {
			ele := s.Altitude[i]
			p.Ele = &ele
		}
		rt.Points = append(rt.Points, p)
	}
	return models.RawTrackData{Tracks: []models.RawTrack{rt}}
}
