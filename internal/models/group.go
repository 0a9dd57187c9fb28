package models

// Group is a named, persisted collection of activities behind a short ID
type Group struct {
	ID         string     `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	Activities []Activity `json:"activities" db:"activities"`
	CreatedAt  string     `json:"created_at" db:"created_at"`
}

// SaveGroupRequest is the body of POST /api/v1/groups
type SaveGroupRequest struct {
	Name       string     `json:"name"`
	Activities []Activity `json:"activities"`
}

// SaveGroupResponse is returned after a group is stored
type SaveGroupResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Import methods
const (
	ImportMethodGPX    = "gpx"
	ImportMethodStrava = "strava"
)

// ImportLog records one import event for usage statistics
type ImportLog struct {
	ID         int64   `json:"id,omitempty" db:"id"`
	Method     string  `json:"method" db:"method"`
	Count      int     `json:"count" db:"count"`
	TotalMiles float64 `json:"total_miles" db:"total_miles"`
	CreatedAt  string  `json:"created_at,omitempty" db:"created_at"`
}

// ImportSummary aggregates import logs of one method
type ImportSummary struct {
	Method     string  `json:"method"`
	Imports    int64   `json:"imports"`
	Activities int64   `json:"activities"`
	TotalMiles float64 `json:"total_miles"`
}
