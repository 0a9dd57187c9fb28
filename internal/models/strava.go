package models

// StravaToken holds the OAuth credentials of one athlete
type StravaToken struct {
	AthleteID    int64  `json:"athlete_id" db:"athlete_id"`
	AccessToken  string `json:"-" db:"access_token"`
	RefreshToken string `json:"-" db:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at" db:"expires_at"` // Unix timestamp in seconds
	AthleteJSON  string `json:"-" db:"athlete_json"`
}

// StravaActivitySummary is the trimmed listing entry returned to clients
type StravaActivitySummary struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	StartDate   string  `json:"start_date"`
	Distance    float64 `json:"distance"`     // meters
	ElapsedTime int64   `json:"elapsed_time"` // seconds
}
