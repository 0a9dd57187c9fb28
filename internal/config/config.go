package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/runmap-backend-go/internal/animation"
)

// MapConfig is handed to the browser map renderer
type MapConfig struct {
	AccessToken   string     `json:"accessToken"`
	Style         string     `json:"style"`
	DefaultCenter [2]float64 `json:"defaultCenter"` // [lon, lat]
	DefaultZoom   float64    `json:"defaultZoom"`
}

// StravaConfig holds the Strava application credentials
type StravaConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
}

// AnimationConfig holds the replay tuning read from the environment
type AnimationConfig struct {
	TicksPerSecond  int
	FixedSeconds    float64
	BaselineSeconds float64
	ZoomMs          int
	Pacing          string
}

// Config 应用配置
type Config struct {
	Port               string
	DBPath             string
	JWTSecret          string
	SiteURL            string
	CORSOrigin         string
	SessionTTL         time.Duration
	MaxUploadBytes     int64
	RateLimitPerMinute int
	Strava             StravaConfig
	Map                MapConfig
	Anim               AnimationConfig
}

// Load 加载配置
func Load() *Config {
	defaults := animation.DefaultConfig()

	return &Config{
		Port:               getEnv("PORT", ":8080"),
		DBPath:             getEnv("DB_PATH", "./data/runmap.db"),
		JWTSecret:          getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		SiteURL:            strings.TrimRight(getEnv("SITE_URL", "http://localhost:8080"), "/"),
		CORSOrigin:         getEnv("CORS_ORIGIN", "*"),
		SessionTTL:         time.Duration(getEnvInt("SESSION_TTL_HOURS", 24*30)) * time.Hour,
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_BYTES", 8*1024*1024)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		Strava: StravaConfig{
			ClientID:     os.Getenv("STRAVA_CLIENT_ID"),
			ClientSecret: os.Getenv("STRAVA_CLIENT_SECRET"),
			BaseURL:      os.Getenv("STRAVA_BASE_URL"),
		},
		Map: MapConfig{
			AccessToken:   os.Getenv("MAP_ACCESS_TOKEN"),
			Style:         getEnv("MAP_STYLE", "mapbox://styles/mapbox/dark-v11"),
			DefaultCenter: getEnvCenter("MAP_DEFAULT_CENTER", [2]float64{-98.5795, 39.8283}),
			DefaultZoom:   getEnvFloat("MAP_DEFAULT_ZOOM", 3),
		},
		Anim: AnimationConfig{
			TicksPerSecond:  getEnvInt("ANIM_TICKS_PER_SECOND", defaults.TicksPerSecond),
			FixedSeconds:    getEnvFloat("ANIM_FIXED_SECONDS", defaults.FixedSeconds),
			BaselineSeconds: getEnvFloat("ANIM_BASELINE_SECONDS", defaults.BaselineSeconds),
			ZoomMs:          getEnvInt("ANIM_ZOOM_MS", int(defaults.ZoomDuration/time.Millisecond)),
			Pacing:          getEnv("ANIM_PACING", "fixed"),
		},
	}
}

// Animation converts the tuning values into a sequencer configuration.
// Invalid values fall back to the defaults.
func (c *Config) Animation() animation.Config {
	cfg := animation.DefaultConfig()
	cfg.TicksPerSecond = c.Anim.TicksPerSecond
	cfg.FixedSeconds = c.Anim.FixedSeconds
	cfg.BaselineSeconds = c.Anim.BaselineSeconds
	zoom := time.Duration(c.Anim.ZoomMs) * time.Millisecond
	cfg.ZoomDuration = zoom
	cfg.TransitionDuration = zoom
	cfg.FinalZoomDuration = zoom + 100*time.Millisecond

	if err := cfg.Validate(); err != nil {
		log.Printf("[Config] Invalid animation settings, using defaults: %v", err)
		return animation.DefaultConfig()
	}
	return cfg
}

// PacingMode parses the configured default pacing
func (c *Config) PacingMode() animation.PacingMode {
	mode, err := animation.ParsePacingMode(c.Anim.Pacing)
	if err != nil {
		log.Printf("[Config] %v, using fixed pacing", err)
	}
	return mode
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[Config] Ignoring %s=%q: %v", key, v, err)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[Config] Ignoring %s=%q: %v", key, v, err)
		return fallback
	}
	return f
}

// getEnvCenter reads "lon,lat"
func getEnvCenter(key string, fallback [2]float64) [2]float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	if len(parts) != 2 {
		log.Printf("[Config] Ignoring %s=%q: want lon,lat", key, v)
		return fallback
	}
	lon, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		log.Printf("[Config] Ignoring %s=%q: want lon,lat", key, v)
		return fallback
	}
	return [2]float64{lon, lat}
}
