package track

import (
	"errors"
	"log"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/runmap-backend-go/internal/models"
	"github.com/jengzang/runmap-backend-go/internal/monitoring"
	"github.com/jengzang/runmap-backend-go/internal/spatial"
	"github.com/jengzang/runmap-backend-go/internal/timeutil"
)

var parseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func f(v float64) *float64 { return &v }

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func newTestParser() *Parser {
	return NewParser(timeutil.NewMockClock(parseTime))
}

func TestParseDropsPointsMissingLatitude(t *testing.T) {
	raw := models.RawTrackData{Tracks: []models.RawTrack{{
		Name: "Morning Run",
		Points: []models.RawPoint{
			{Lon: f(7.000), Lat: f(46.000), Time: ts("2025-01-01T10:00:00Z")},
			{Lon: f(7.001)},
			{Lon: f(7.002), Lat: f(46.002), Time: ts("2025-01-01T10:01:00Z")},
			{Lon: f(7.003), Ele: f(1000)},
			{Lon: f(7.004), Lat: f(46.004), Time: ts("2025-01-01T10:02:00Z")},
		},
	}}}

	activity, err := newTestParser().Parse(raw, "fallback.gpx")
	require.NoError(t, err)
	require.Len(t, activity.Coordinates, 3)

	want := spatial.HaversineDistanceKm(activity.Coordinates[0], activity.Coordinates[1]) +
		spatial.HaversineDistanceKm(activity.Coordinates[1], activity.Coordinates[2])
	assert.InDelta(t, want*0.621371, activity.DistanceMiles, 1e-12)
	assert.Equal(t, "Morning Run", activity.Name)
	assert.Equal(t, 120.0, activity.DurationSeconds)
	assert.Equal(t, *ts("2025-01-01T10:00:00Z"), activity.StartTime)
}

func TestParseZeroValidPointsFails(t *testing.T) {
	raw := models.RawTrackData{Tracks: []models.RawTrack{{
		Points: []models.RawPoint{
			{Lon: f(1)},
			{Lat: f(2)},
			{Lon: f(math.NaN()), Lat: f(2)},
			{Lon: f(1), Lat: f(math.Inf(-1))},
		},
	}}}

	activity, err := newTestParser().Parse(raw, "bad.gpx")
	assert.Nil(t, activity)
	assert.ErrorIs(t, err, ErrNoValidPoints)
	assert.ErrorIs(t, err, ErrParseFailure)
}

func TestParseNoTracksFails(t *testing.T) {
	activity, err := newTestParser().Parse(models.RawTrackData{}, "empty.gpx")
	assert.Nil(t, activity)
	assert.True(t, errors.Is(err, ErrNoTracks))
	assert.True(t, errors.Is(err, ErrParseFailure))
}

func TestParseUsesOnlyFirstTrack(t *testing.T) {
	raw := models.RawTrackData{Tracks: []models.RawTrack{
		{Name: "first", Points: []models.RawPoint{{Lon: f(1), Lat: f(1)}}},
		{Name: "second", Points: []models.RawPoint{{Lon: f(2), Lat: f(2)}, {Lon: f(3), Lat: f(3)}}},
	}}

	activity, err := newTestParser().Parse(raw, "x.gpx")
	require.NoError(t, err)
	assert.Equal(t, "first", activity.Name)
	assert.Equal(t, []spatial.Coordinate{{Lon: 1, Lat: 1}}, activity.Coordinates)

	// A first track without valid points fails even when a later track has some.
	raw.Tracks[0].Points = nil
	_, err = newTestParser().Parse(raw, "x.gpx")
	assert.ErrorIs(t, err, ErrNoValidPoints)
}

func TestParseNameFallback(t *testing.T) {
	raw := models.RawTrackData{Tracks: []models.RawTrack{{
		Name:   "   ",
		Points: []models.RawPoint{{Lon: f(1), Lat: f(1)}},
	}}}

	activity, err := newTestParser().Parse(raw, "ride.gpx")
	require.NoError(t, err)
	assert.Equal(t, "ride.gpx", activity.Name)
}

func TestParseTimelessTrack(t *testing.T) {
	raw := models.RawTrackData{Tracks: []models.RawTrack{{
		Points: []models.RawPoint{
			{Lon: f(1), Lat: f(1)},
			{Lon: f(1.01), Lat: f(1.01)},
		},
	}}}

	activity, err := newTestParser().Parse(raw, "t.gpx")
	require.NoError(t, err)
	assert.Equal(t, parseTime, activity.StartTime)
	assert.Zero(t, activity.DurationSeconds)
}

func TestParseSinglePoint(t *testing.T) {
	raw := models.RawTrackData{Tracks: []models.RawTrack{{
		Points: []models.RawPoint{{Lon: f(5), Lat: f(6), Time: ts("2024-03-03T08:00:00Z")}},
	}}}

	activity, err := newTestParser().Parse(raw, "one.gpx")
	require.NoError(t, err)
	assert.Zero(t, activity.DurationSeconds)
	assert.Zero(t, activity.DistanceMiles)
	assert.Equal(t, spatial.BoundingBox{SW: spatial.Coordinate{Lon: 5, Lat: 6}, NE: spatial.Coordinate{Lon: 5, Lat: 6}}, activity.Bounds)
}

const twoTrackGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
	<trk>
		<name>Lunch Ride</name>
		<trkseg>
			<trkpt lat="46.0" lon="7.0">
				<ele>1000</ele>
				<time>2025-01-01T10:00:00Z</time>
			</trkpt>
			<trkpt lat="46.001" lon="7.001">
				<time>2025-01-01T10:00:30Z</time>
			</trkpt>
		</trkseg>
		<trkseg>
			<trkpt lat="46.002" lon="7.002">
				<ele>1010</ele>
				<time>2025-01-01T10:01:00Z</time>
			</trkpt>
		</trkseg>
	</trk>
	<trk>
		<name>Ignored</name>
		<trkseg>
			<trkpt lat="10" lon="10"></trkpt>
		</trkseg>
	</trk>
</gpx>`

func TestDecodeGPX(t *testing.T) {
	data, err := DecodeGPX(strings.NewReader(twoTrackGPX))
	require.NoError(t, err)
	require.Len(t, data.Tracks, 2)

	first := data.Tracks[0]
	assert.Equal(t, "Lunch Ride", first.Name)
	require.Len(t, first.Points, 3, "segments are flattened")
	assert.Equal(t, 46.0, *first.Points[0].Lat)
	assert.Equal(t, 7.0, *first.Points[0].Lon)
	require.NotNil(t, first.Points[0].Ele)
	assert.Equal(t, 1000.0, *first.Points[0].Ele)
	assert.Nil(t, first.Points[1].Ele)
	require.NotNil(t, first.Points[2].Time)
	assert.Equal(t, *ts("2025-01-01T10:01:00Z"), first.Points[2].Time.UTC())

	assert.Nil(t, data.Tracks[1].Points[0].Time)
}

func TestDecodeGPXInvalid(t *testing.T) {
	_, err := DecodeGPX(strings.NewReader("this is not xml"))
	assert.Error(t, err)
}

func TestParseBatchContinuesPastFailures(t *testing.T) {
	monitoring.SetLogger(nil)
	defer monitoring.SetLogger(log.Printf)

	noTracks := `<?xml version="1.0"?><gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1"></gpx>`

	result := newTestParser().ParseBatch([]File{
		{Name: "broken.gpx", Data: []byte("<gpx")},
		{Name: "ride.gpx", Data: []byte(twoTrackGPX)},
		{Name: "empty.gpx", Data: []byte(noTracks)},
	})

	require.Len(t, result.Activities, 1)
	assert.Equal(t, "Lunch Ride", result.Activities[0].Name)
	assert.Equal(t, 60.0, result.Activities[0].DurationSeconds)

	require.Len(t, result.Failures, 2)
	assert.Equal(t, "broken.gpx", result.Failures[0].Name)
	assert.Equal(t, "empty.gpx", result.Failures[1].Name)
}
