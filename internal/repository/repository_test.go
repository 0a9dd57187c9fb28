package repository

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/runmap-backend-go/internal/database"
	"github.com/jengzang/runmap-backend-go/internal/models"
	"github.com/jengzang/runmap-backend-go/internal/spatial"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "repo.db")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestGroupRepository(t *testing.T) {
	repo := NewGroupRepository(openTestDB(t))

	g, err := repo.GetByID("000000000000")
	require.NoError(t, err)
	assert.Nil(t, g)

	coords := []spatial.Coordinate{{Lon: 1, Lat: 2}, {Lon: 1.001, Lat: 2.001}}
	box, _ := spatial.ComputeBoundingBox(coords)
	a := models.Activity{
		Name:            "Run",
		StartTime:       time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
		DurationSeconds: 1234,
		Coordinates:     coords,
		Bounds:          box,
		DistanceMiles:   spatial.KmToMiles(spatial.PathLengthKm(coords)),
	}
	require.NoError(t, repo.Create(&models.Group{ID: "abcdef012345", Name: "g", Activities: []models.Activity{a}, CreatedAt: "2025-01-01T00:00:00Z"}))

	g, err = repo.GetByID("abcdef012345")
	require.NoError(t, err)
	require.NotNil(t, g)
	require.Len(t, g.Activities, 1)
	assert.Equal(t, a.Name, g.Activities[0].Name)
	assert.True(t, a.StartTime.Equal(g.Activities[0].StartTime))
	assert.Equal(t, a.DurationSeconds, g.Activities[0].DurationSeconds)
	assert.Equal(t, a.Coordinates, g.Activities[0].Coordinates)
	assert.InDelta(t, a.DistanceMiles, g.Activities[0].DistanceMiles, 1e-12)

	// duplicate id
	err = repo.Create(&models.Group{ID: "abcdef012345", Name: "h", Activities: []models.Activity{a}, CreatedAt: "x"})
	assert.ErrorIs(t, err, ErrGroupIDTaken)
}

func TestStravaTokenRepository(t *testing.T) {
	repo := NewStravaTokenRepository(openTestDB(t))

	tok, err := repo.GetByAthleteID(1)
	require.NoError(t, err)
	assert.Nil(t, tok)

	require.NoError(t, repo.Upsert(&models.StravaToken{AthleteID: 1, AccessToken: "a", RefreshToken: "r", ExpiresAt: 10}))
	require.NoError(t, repo.UpdateTokens(1, "b", "s", 20))

	tok, err = repo.GetByAthleteID(1)
	require.NoError(t, err)
	assert.Equal(t, "b", tok.AccessToken)
	assert.Equal(t, "s", tok.RefreshToken)
	assert.Equal(t, int64(20), tok.ExpiresAt)
	assert.Equal(t, "{}", tok.AthleteJSON)
}

func TestImportLogRepository(t *testing.T) {
	repo := NewImportLogRepository(openTestDB(t))

	summary, err := repo.Summary()
	require.NoError(t, err)
	assert.Empty(t, summary)

	entry := &models.ImportLog{Method: "gpx", Count: 2, TotalMiles: 3.5, CreatedAt: "2025-01-01T00:00:00Z"}
	require.NoError(t, repo.Insert(entry))
	assert.Equal(t, int64(1), entry.ID)
}
