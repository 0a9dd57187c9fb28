package models

import "time"

// RawPoint is one decoded track-point candidate. Any field may be absent;
// the track parser decides which points are usable.
type RawPoint struct {
	Lon  *float64   `json:"lon,omitempty"`
	Lat  *float64   `json:"lat,omitempty"`
	Ele  *float64   `json:"ele,omitempty"`  // meters
	Time *time.Time `json:"time,omitempty"` // absolute instant
}

// RawTrack is one decoded track with its points in recorded order
type RawTrack struct {
	Name   string     `json:"name,omitempty"`
	Points []RawPoint `json:"points"`
}

// RawTrackData is the decoded form of one uploaded or imported file
type RawTrackData struct {
	Tracks []RawTrack `json:"tracks"`
}

// TrackPoint is a validated track point with defaults applied
type TrackPoint struct {
	Lon       float64   `json:"lon"`
	Lat       float64   `json:"lat"`
	Elevation float64   `json:"ele"`
	Time      time.Time `json:"time"`
}
