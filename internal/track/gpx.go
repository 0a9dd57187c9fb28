package track

import (
	"fmt"
	"io"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/jengzang/runmap-backend-go/internal/models"
)

// DecodeGPX reads GPX XML from r. All segments of a track are flattened into the
// track's point list in document order.
func DecodeGPX(r io.Reader) (models.RawTrackData, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return models.RawTrackData{}, fmt.Errorf("failed to read GPX: %w", err)
	}

	g, err := gpx.ParseBytes(buf)
	if err != nil {
		return models.RawTrackData{}, fmt.Errorf("failed to parse GPX: %w", err)
	}

	data := models.RawTrackData{Tracks: make([]models.RawTrack, 0, len(g.Tracks))}
	for _, t := range g.Tracks {
		rt := models.RawTrack{Name: t.Name}
		for _, s := range t.Segments {
			for _, p := range s.Points {
				rt.Points = append(rt.Points, rawPoint(p))
			}
		}
		data.Tracks = append(data.Tracks, rt)
	}

	return data, nil
}

func rawPoint(p gpx.GPXPoint) models.RawPoint {
	lon, lat := p.Longitude, p.Latitude
	rp := models.RawPoint{Lon: &lon, Lat: &lat}
	if p.Elevation.NotNull() {
		ele := p.Elevation.Value()
		rp.Ele = &ele
	}
	if !p.Timestamp.IsZero() {
		ts := p.Timestamp
		rp.Time = &ts
	}
	return rp
}
