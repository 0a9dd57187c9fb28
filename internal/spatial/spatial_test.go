package spatial

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineDistanceKm(t *testing.T) {
	samples := []Coordinate{
		{Lon: 0, Lat: 0},
		{Lon: -122.4194, Lat: 37.7749},
		{Lon: 139.6917, Lat: 35.6895},
		{Lon: 179.9, Lat: -45.1},
		{Lon: 7.0, Lat: 46.0},
	}

	for _, a := range samples {
		assert.Zero(t, HaversineDistanceKm(a, a), "distance to self for %v", a)
		for _, b := range samples {
			ab := HaversineDistanceKm(a, b)
			ba := HaversineDistanceKm(b, a)
			assert.GreaterOrEqual(t, ab, 0.0)
			assert.InDelta(t, ab, ba, 1e-9, "symmetry for %v / %v", a, b)
		}
	}
}

func TestHaversineDistanceKmKnownRoute(t *testing.T) {
	// San Francisco to Los Angeles is roughly 559 km along the great circle.
	sf := Coordinate{Lon: -122.4194, Lat: 37.7749}
	la := Coordinate{Lon: -118.2437, Lat: 34.0522}

	d := HaversineDistanceKm(sf, la)
	if d < 550 || d > 570 {
		t.Fatalf("unexpected distance: %v", d)
	}

	// One degree of latitude on a 6371 km sphere.
	oneDeg := HaversineDistanceKm(Coordinate{Lat: 0}, Coordinate{Lat: 1})
	assert.InDelta(t, EarthRadiusKm*math.Pi/180, oneDeg, 1e-9)
}

func TestPathLengthKm(t *testing.T) {
	assert.Zero(t, PathLengthKm(nil))
	assert.Zero(t, PathLengthKm([]Coordinate{{Lon: 1, Lat: 1}}))

	coords := []Coordinate{{Lat: 0}, {Lat: 1}, {Lat: 2}}
	want := HaversineDistanceKm(coords[0], coords[1]) + HaversineDistanceKm(coords[1], coords[2])
	assert.InDelta(t, want, PathLengthKm(coords), 1e-9)
}

func TestKmToMiles(t *testing.T) {
	assert.InDelta(t, 0.621371, KmToMiles(1), 1e-12)
	assert.InDelta(t, 6.21371, KmToMiles(10), 1e-12)
}

func TestComputeBoundingBox(t *testing.T) {
	_, ok := ComputeBoundingBox(nil)
	assert.False(t, ok, "empty input must not produce a box")

	c := Coordinate{Lon: 7.5, Lat: 46.2}
	box, ok := ComputeBoundingBox([]Coordinate{c})
	require.True(t, ok)
	assert.Equal(t, BoundingBox{SW: c, NE: c}, box)

	box, ok = ComputeBoundingBox([]Coordinate{
		{Lon: 7.0, Lat: 46.5},
		{Lon: 6.5, Lat: 46.9},
		{Lon: 7.2, Lat: 46.1},
	})
	require.True(t, ok)
	assert.Equal(t, Coordinate{Lon: 6.5, Lat: 46.1}, box.SW)
	assert.Equal(t, Coordinate{Lon: 7.2, Lat: 46.9}, box.NE)
}

func TestUnionBounds(t *testing.T) {
	_, ok := UnionBounds()
	assert.False(t, ok)

	a := BoundingBox{SW: Coordinate{Lon: 0, Lat: 0}, NE: Coordinate{Lon: 1, Lat: 1}}
	b := BoundingBox{SW: Coordinate{Lon: -2, Lat: 0.5}, NE: Coordinate{Lon: 0.5, Lat: 3}}

	u, ok := UnionBounds(a, b)
	require.True(t, ok)
	assert.Equal(t, Coordinate{Lon: -2, Lat: 0}, u.SW)
	assert.Equal(t, Coordinate{Lon: 1, Lat: 3}, u.NE)
}

func TestCoordinateJSON(t *testing.T) {
	data, err := json.Marshal(Coordinate{Lon: -74.5, Lat: 40})
	require.NoError(t, err)
	assert.JSONEq(t, `[-74.5, 40]`, string(data))

	var c Coordinate
	require.NoError(t, json.Unmarshal([]byte(`[1.25, 2.5]`), &c))
	assert.Equal(t, Coordinate{Lon: 1.25, Lat: 2.5}, c)

	assert.Error(t, json.Unmarshal([]byte(`[1]`), &c))
}

func TestCoordinateIsFinite(t *testing.T) {
	assert.True(t, Coordinate{Lon: 1, Lat: 2}.IsFinite())
	assert.False(t, Coordinate{Lon: math.NaN(), Lat: 2}.IsFinite())
	assert.False(t, Coordinate{Lon: 1, Lat: math.Inf(1)}.IsFinite())
}
