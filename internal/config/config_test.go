package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jengzang/runmap-backend-go/internal/animation"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_PATH", "SITE_URL", "MAX_UPLOAD_BYTES", "MAP_DEFAULT_CENTER", "ANIM_TICKS_PER_SECOND", "ANIM_PACING"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "./data/runmap.db", cfg.DBPath)
	assert.Equal(t, int64(8*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, [2]float64{-98.5795, 39.8283}, cfg.Map.DefaultCenter)
	assert.Equal(t, animation.DefaultConfig(), cfg.Animation())
	assert.Equal(t, animation.PacingFixed, cfg.PacingMode())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("SITE_URL", "https://runmap.example/")
	t.Setenv("MAP_DEFAULT_CENTER", "2.35, 48.85")
	t.Setenv("MAP_DEFAULT_ZOOM", "11.5")
	t.Setenv("ANIM_TICKS_PER_SECOND", "30")
	t.Setenv("ANIM_ZOOM_MS", "1000")
	t.Setenv("ANIM_PACING", "proportional")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, "https://runmap.example", cfg.SiteURL)
	assert.Equal(t, [2]float64{2.35, 48.85}, cfg.Map.DefaultCenter)
	assert.Equal(t, 11.5, cfg.Map.DefaultZoom)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, animation.PacingProportional, cfg.PacingMode())

	anim := cfg.Animation()
	assert.Equal(t, 30, anim.TicksPerSecond)
	assert.Equal(t, time.Second, anim.ZoomDuration)
	assert.Equal(t, 1100*time.Millisecond, anim.FinalZoomDuration)
}

func TestAnimationFallsBackOnInvalid(t *testing.T) {
	t.Setenv("ANIM_TICKS_PER_SECOND", "0")
	assert.Equal(t, animation.DefaultConfig(), Load().Animation())
}
