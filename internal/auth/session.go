// Package auth issues and verifies the signed session cookie that links a
// browser to a connected Strava athlete.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jengzang/runmap-backend-go/internal/timeutil"
)

// SessionCookie is the cookie carrying the session token
const SessionCookie = "runmap_session"

// StateCookie carries the OAuth state between authorize and callback
const StateCookie = "runmap_oauth_state"

// ErrInvalidSession is returned for a missing, expired or tampered token
var ErrInvalidSession = errors.New("invalid session")

// Claims identifies the athlete a session belongs to
type Claims struct {
	AthleteID int64 `json:"athlete_id"`
	jwt.RegisteredClaims
}

// SessionManager signs session tokens with HMAC-SHA256
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	clock  timeutil.Clock
}

// NewSessionManager creates a manager. A nil clock uses the wall clock.
func NewSessionManager(secret string, ttl time.Duration, clock timeutil.Clock) *SessionManager {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &SessionManager{secret: []byte(secret), ttl: ttl, clock: clock}
}

// TTL is the session lifetime
func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Issue signs a token for athleteID
func (m *SessionManager) Issue(athleteID int64) (string, error) {
	now := m.clock.Now()
	claims := Claims{
		AthleteID: athleteID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(athleteID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

// Parse verifies token and returns the athlete ID it was issued for
func (m *SessionManager) Parse(token string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.clock.Now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.AthleteID == 0 {
		return 0, ErrInvalidSession
	}
	return claims.AthleteID, nil
}
