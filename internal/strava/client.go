// Package strava is a minimal client for the Strava OAuth and activity APIs.
package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jengzang/runmap-backend-go/internal/models"
)

// DefaultBaseURL is the production Strava host
const DefaultBaseURL = "https://www.strava.com"

// ErrUpstream wraps every non-2xx answer from Strava
var ErrUpstream = errors.New("strava request failed")

// StatusError reports the HTTP status of a failed call
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: strava returned status %d", e.Op, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrUpstream }

// Config holds the application credentials
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
}

// Client talks to the Strava API
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	http         *http.Client
}

// NewClient creates a client. Empty BaseURL means production.
func NewClient(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:      base,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		http:         hc,
	}
}

// TokenResponse is the body of a successful token exchange or refresh
type TokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresAt    int64           `json:"expires_at"`
	Athlete      json.RawMessage `json:"athlete,omitempty"`
}

// AthleteID extracts the athlete's ID from the embedded profile
func (t *TokenResponse) AthleteID() int64 {
	return gjson.GetBytes(t.Athlete, "id").Int()
}

// AuthorizeURL is where the browser is sent to grant access
func (c *Client) AuthorizeURL(redirectURI, state string) string {
	q := url.Values{
		"client_id":       {c.clientID},
		"redirect_uri":    {redirectURI},
		"response_type":   {"code"},
		"approval_prompt": {"auto"},
		"scope":           {"activity:read_all"},
		"state":           {state},
	}
	return c.baseURL + "/oauth/authorize?" + q.Encode()
}

// ExchangeCode trades an authorization code for tokens
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	return c.token(ctx, "exchange code", url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
	})
}

// Refresh obtains a new access token
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	return c.token(ctx, "refresh token", url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	})
}

func (c *Client) token(ctx context.Context, op string, form url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(op, req)
	if err != nil {
		return nil, err
	}

	var tr TokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return &tr, nil
}

type activityJSON struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	StartDate   string  `json:"start_date"`
	Distance    float64 `json:"distance"`
	ElapsedTime int64   `json:"elapsed_time"`
}

func (a activityJSON) summary() models.StravaActivitySummary {
	name := a.Name
	if name == "" {
		name = "Untitled"
	}
	return models.StravaActivitySummary{
		ID:          a.ID,
		Name:        name,
		Type:        a.Type,
		StartDate:   a.StartDate,
		Distance:    a.Distance,
		ElapsedTime: a.ElapsedTime,
	}
}

// ListActivities returns one page of the athlete's activities, newest first
func (c *Client) ListActivities(ctx context.Context, accessToken string, page, perPage int) ([]models.StravaActivitySummary, error) {
	q := url.Values{"page": {strconv.Itoa(page)}, "per_page": {strconv.Itoa(perPage)}}
	body, err := c.get(ctx, "list activities", accessToken, "/api/v3/athlete/activities?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var raw []activityJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode activity list: %w", err)
	}

	out := make([]models.StravaActivitySummary, 0, len(raw))
	for _, a := range raw {
		out = append(out, a.summary())
	}
	return out, nil
}

// GetActivity returns the metadata of one activity
func (c *Client) GetActivity(ctx context.Context, accessToken string, id int64) (*models.StravaActivitySummary, error) {
	body, err := c.get(ctx, "get activity", accessToken, "/api/v3/activities/"+strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}

	var raw activityJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode activity: %w", err)
	}
	s := raw.summary()
	return &s, nil
}

// GetStreams returns the GPS, time and altitude streams of one activity
func (c *Client) GetStreams(ctx context.Context, accessToken string, id int64) (*Streams, error) {
	path := "/api/v3/activities/" + strconv.FormatInt(id, 10) + "/streams?keys=latlng,time,altitude&key_by_type=true"
	body, err := c.get(ctx, "get streams", accessToken, path)
	if err != nil {
		return nil, err
	}
	s := ParseStreams(body)
	return &s, nil
}

func (c *Client) get(ctx context.Context, op, accessToken, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	return c.do(op, req)
}

func (c *Client) do(op string, req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode}
	}
	return body, nil
}
