package service

import (
	"database/sql"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jengzang/runmap-backend-go/internal/database"
	"github.com/jengzang/runmap-backend-go/internal/models"
	"github.com/jengzang/runmap-backend-go/internal/monitoring"
	"github.com/jengzang/runmap-backend-go/internal/spatial"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "runmap.db")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func muteLogs(t *testing.T) {
	t.Helper()
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(log.Printf) })
}

func testActivity(name string, start time.Time, lon float64) models.Activity {
	coords := []spatial.Coordinate{{Lon: lon, Lat: 45}, {Lon: lon + 0.01, Lat: 45.01}}
	box, _ := spatial.ComputeBoundingBox(coords)
	return models.Activity{
		Name:            name,
		StartTime:       start,
		DurationSeconds: 900,
		Coordinates:     coords,
		Bounds:          box,
		DistanceMiles:   spatial.KmToMiles(spatial.PathLengthKm(coords)),
	}
}
