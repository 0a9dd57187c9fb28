package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/runmap-backend-go/internal/models"
)

// StravaTokenRepository handles database operations for Strava OAuth tokens
type StravaTokenRepository struct {
	db *sql.DB
}

// NewStravaTokenRepository creates a new token repository
func NewStravaTokenRepository(db *sql.DB) *StravaTokenRepository {
	return &StravaTokenRepository{db: db}
}

// Upsert inserts or replaces the token row of an athlete
func (r *StravaTokenRepository) Upsert(t *models.StravaToken) error {
	athlete := t.AthleteJSON
	if athlete == "" {
		athlete = "{}"
	}
	_, err := r.db.Exec(`
		INSERT INTO strava_tokens (athlete_id, access_token, refresh_token, expires_at, athlete_json, updated_at)
		VALUES (?, ?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT(athlete_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			athlete_json = excluded.athlete_json,
			updated_at = excluded.updated_at`,
		t.AthleteID, t.AccessToken, t.RefreshToken, t.ExpiresAt, athlete,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert strava token: %w", err)
	}
	return nil
}

// UpdateTokens stores refreshed credentials, keeping the athlete profile
func (r *StravaTokenRepository) UpdateTokens(athleteID int64, accessToken, refreshToken string, expiresAt int64) error {
	_, err := r.db.Exec(`
		UPDATE strava_tokens
		SET access_token = ?, refresh_token = ?, expires_at = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE athlete_id = ?`,
		accessToken, refreshToken, expiresAt, athleteID,
	)
	if err != nil {
		return fmt.Errorf("failed to update strava token: %w", err)
	}
	return nil
}

// GetByAthleteID returns the token row, or nil when the athlete never connected
func (r *StravaTokenRepository) GetByAthleteID(athleteID int64) (*models.StravaToken, error) {
	var t models.StravaToken
	err := r.db.QueryRow(`
		SELECT athlete_id, access_token, refresh_token, expires_at, athlete_json
		FROM strava_tokens WHERE athlete_id = ?`, athleteID,
	).Scan(&t.AthleteID, &t.AccessToken, &t.RefreshToken, &t.ExpiresAt, &t.AthleteJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get strava token: %w", err)
	}
	return &t, nil
}
