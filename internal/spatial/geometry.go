package spatial

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Coordinate is a WGS84 position in degrees. It encodes to JSON as [lon, lat].
type Coordinate struct {
	Lon float64
	Lat float64
}

// Point converts the coordinate to an orb point.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// IsFinite reports whether both components are finite numbers.
func (c Coordinate) IsFinite() bool {
	return !math.IsNaN(c.Lon) && !math.IsInf(c.Lon, 0) &&
		!math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0)
}

// MarshalJSON encodes the coordinate as a [lon, lat] pair.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lon, c.Lat})
}

// UnmarshalJSON decodes a [lon, lat] pair.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("failed to decode coordinate: %w", err)
	}
	if len(pair) < 2 {
		return fmt.Errorf("coordinate needs 2 values, got %d", len(pair))
	}
	c.Lon, c.Lat = pair[0], pair[1]
	return nil
}

// LineString converts a coordinate sequence to an orb line string.
func LineString(coords []Coordinate) orb.LineString {
	ls := make(orb.LineString, len(coords))
	for i, c := range coords {
		ls[i] = c.Point()
	}
	return ls
}

// BoundingBox is the minimal axis-aligned rectangle covering a set of coordinates.
type BoundingBox struct {
	SW Coordinate `json:"sw"`
	NE Coordinate `json:"ne"`
}

// Bound converts the box to an orb bound.
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{Min: b.SW.Point(), Max: b.NE.Point()}
}

// BoundingBoxFromBound converts an orb bound back to a bounding box.
func BoundingBoxFromBound(b orb.Bound) BoundingBox {
	return BoundingBox{
		SW: Coordinate{Lon: b.Min.Lon(), Lat: b.Min.Lat()},
		NE: Coordinate{Lon: b.Max.Lon(), Lat: b.Max.Lat()},
	}
}

// ComputeBoundingBox calculates the component-wise min/max over coords.
// The second return value is false when coords is empty.
func ComputeBoundingBox(coords []Coordinate) (BoundingBox, bool) {
	if len(coords) == 0 {
		return BoundingBox{}, false
	}

	box := BoundingBox{SW: coords[0], NE: coords[0]}
	for _, c := range coords[1:] {
		if c.Lon < box.SW.Lon {
			box.SW.Lon = c.Lon
		}
		if c.Lat < box.SW.Lat {
			box.SW.Lat = c.Lat
		}
		if c.Lon > box.NE.Lon {
			box.NE.Lon = c.Lon
		}
		if c.Lat > box.NE.Lat {
			box.NE.Lat = c.Lat
		}
	}

	return box, true
}

// UnionBounds returns the smallest box covering all boxes.
// The second return value is false when no boxes are given.
func UnionBounds(boxes ...BoundingBox) (BoundingBox, bool) {
	if len(boxes) == 0 {
		return BoundingBox{}, false
	}

	bound := boxes[0].Bound()
	for _, b := range boxes[1:] {
		bound = bound.Union(b.Bound())
	}
	return BoundingBoxFromBound(bound), true
}
