package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jengzang/runmap-backend-go/internal/models"
	"github.com/jengzang/runmap-backend-go/internal/repository"
	"github.com/jengzang/runmap-backend-go/internal/strava"
	"github.com/jengzang/runmap-backend-go/internal/timeutil"
	"github.com/jengzang/runmap-backend-go/internal/track"
)

const (
	// tokens with less than this left are refreshed before use
	tokenRefreshMargin = 5 * time.Minute
	stravaPerPage      = 50
	defaultStravaName  = "Strava Run"
)

var (
	// ErrNotConnected is returned when the athlete has no stored token
	ErrNotConnected = errors.New("strava account not connected")
	// ErrNoGPSData is returned for an activity without a latlng stream
	ErrNoGPSData = errors.New("no GPS data for this activity")
)

// activity types recorded without a route
var routelessTypes = map[string]bool{
	"WeightTraining": true,
	"Yoga":           true,
	"Workout":        true,
	"Swim":           true,
}

// StravaService imports activities from a connected Strava account
type StravaService struct {
	client *strava.Client
	tokens *repository.StravaTokenRepository
	parser *track.Parser
	clock  timeutil.Clock
}

// NewStravaService creates a new Strava service
func NewStravaService(client *strava.Client, tokens *repository.StravaTokenRepository, parser *track.Parser, clock timeutil.Clock) *StravaService {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &StravaService{client: client, tokens: tokens, parser: parser, clock: clock}
}

// AuthorizeURL is where the browser starts the OAuth flow
func (s *StravaService) AuthorizeURL(redirectURI, state string) string {
	return s.client.AuthorizeURL(redirectURI, state)
}

// Connect exchanges an authorization code and stores the athlete's tokens
func (s *StravaService) Connect(ctx context.Context, code string) (int64, error) {
	tr, err := s.client.ExchangeCode(ctx, code)
	if err != nil {
		return 0, fmt.Errorf("failed to exchange strava code: %w", err)
	}

	athleteID := tr.AthleteID()
	if athleteID == 0 {
		return 0, fmt.Errorf("strava token response has no athlete id")
	}

	athlete := string(tr.Athlete)
	err = s.tokens.Upsert(&models.StravaToken{
		AthleteID:    athleteID,
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    tr.ExpiresAt,
		AthleteJSON:  athlete,
	})
	if err != nil {
		return 0, err
	}

	log.Printf("[Strava] Connected athlete %d", athleteID)
	return athleteID, nil
}

// AccessToken returns a token valid for at least five more minutes,
// refreshing it first when needed
func (s *StravaService) AccessToken(ctx context.Context, athleteID int64) (string, error) {
	tok, err := s.tokens.GetByAthleteID(athleteID)
	if err != nil {
		return "", err
	}
	if tok == nil {
		return "", ErrNotConnected
	}

	if time.Unix(tok.ExpiresAt, 0).Sub(s.clock.Now()) > tokenRefreshMargin {
		return tok.AccessToken, nil
	}

	tr, err := s.client.Refresh(ctx, tok.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh strava token: %w", err)
	}
	if err := s.tokens.UpdateTokens(athleteID, tr.AccessToken, tr.RefreshToken, tr.ExpiresAt); err != nil {
		return "", err
	}

	log.Printf("[Strava] Refreshed token for athlete %d", athleteID)
	return tr.AccessToken, nil
}

// ListActivities returns one page of activities that have a GPS route
func (s *StravaService) ListActivities(ctx context.Context, athleteID int64, page int) ([]models.StravaActivitySummary, error) {
	if page < 1 {
		page = 1
	}

	token, err := s.AccessToken(ctx, athleteID)
	if err != nil {
		return nil, err
	}

	all, err := s.client.ListActivities(ctx, token, page, stravaPerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch strava activities: %w", err)
	}

	routed := make([]models.StravaActivitySummary, 0, len(all))
	for _, a := range all {
		if routelessTypes[a.Type] {
			continue
		}
		routed = append(routed, a)
	}
	return routed, nil
}

// RawTrack downloads an activity's streams as a raw track. The name and start
// come from the activity metadata; without it they default to "Strava Run" and now.
func (s *StravaService) RawTrack(ctx context.Context, athleteID, activityID int64) (models.RawTrackData, string, error) {
	token, err := s.AccessToken(ctx, athleteID)
	if err != nil {
		return models.RawTrackData{}, "", err
	}

	streams, err := s.client.GetStreams(ctx, token, activityID)
	if err != nil {
		return models.RawTrackData{}, "", fmt.Errorf("failed to fetch strava streams: %w", err)
	}
	if streams.Empty() {
		return models.RawTrackData{}, "", ErrNoGPSData
	}

	name := defaultStravaName
	start := s.clock.Now()
	meta, err := s.client.GetActivity(ctx, token, activityID)
	if err != nil {
		log.Printf("[Strava] Metadata for activity %d unavailable: %v", activityID, err)
	} else {
		if meta.Name != "" {
			name = meta.Name
		}
		if t, perr := time.Parse(time.RFC3339, meta.StartDate); perr == nil {
			start = t
		}
	}

	return streams.RawTrack(name, start), name, nil
}

// ImportActivity downloads and parses one activity
func (s *StravaService) ImportActivity(ctx context.Context, athleteID, activityID int64) (*models.Activity, error) {
	raw, name, err := s.RawTrack(ctx, athleteID, activityID)
	if err != nil {
		return nil, err
	}
	return s.parser.Parse(raw, name)
}

// ExportGPX downloads one activity as a GPX document
func (s *StravaService) ExportGPX(ctx context.Context, athleteID, activityID int64) ([]byte, error) {
	raw, _, err := s.RawTrack(ctx, athleteID, activityID)
	if err != nil {
		return nil, err
	}
	return track.EncodeGPX(raw)
}
