package track

import (
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/jengzang/runmap-backend-go/internal/models"
)

// EncodeGPX renders raw tracks as GPX 1.1. Points missing a coordinate are
// dropped since GPX cannot express them; each track becomes one segment.
func EncodeGPX(data models.RawTrackData) ([]byte, error) {
	g := &gpx.GPX{Creator: "runmap"}
	for _, rt := range data.Tracks {
		seg := gpx.GPXTrackSegment{}
		for _, rp := range rt.Points {
			if rp.Lat == nil || rp.Lon == nil {
				continue
			}
			var p gpx.GPXPoint
			p.Latitude = *rp.Lat
			p.Longitude = *rp.Lon
			if rp.Ele != nil {
				p.Elevation.SetValue(*rp.Ele)
			}
			if rp.Time != nil {
				p.Timestamp = rp.Time.UTC()
			}
			seg.Points = append(seg.Points, p)
		}
		g.Tracks = append(g.Tracks, gpx.GPXTrack{
			Name:     rt.Name,
			Segments: []gpx.GPXTrackSegment{seg},
		})
	}

	out, err := g.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return nil, fmt.Errorf("failed to encode GPX: %w", err)
	}
	return out, nil
}
