package main

import (
	"database/sql"
	"flag"
	"log"
	"time"

	"github.com/jengzang/runmap-backend-go/internal/api"
	"github.com/jengzang/runmap-backend-go/internal/auth"
	"github.com/jengzang/runmap-backend-go/internal/config"
	"github.com/jengzang/runmap-backend-go/internal/database"
	"github.com/jengzang/runmap-backend-go/internal/middleware"
	"github.com/jengzang/runmap-backend-go/internal/repository"
	"github.com/jengzang/runmap-backend-go/internal/service"
	"github.com/jengzang/runmap-backend-go/internal/strava"
	"github.com/jengzang/runmap-backend-go/internal/timeutil"
	"github.com/jengzang/runmap-backend-go/internal/track"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a schema command (down, version) and exit")
	flag.Parse()

	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	dbConfig := database.Config{
		Path: cfg.DBPath,
	}
	if err := database.Init(dbConfig); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()
	db := database.GetDB()

	if *migrateCmd != "" {
		runMigrate(db, *migrateCmd)
		return
	}

	clock := timeutil.RealClock{}
	parser := track.NewParser(clock)

	deps := api.Deps{
		Activities: service.NewActivityService(parser, cfg.Animation(), clock),
		Groups:     service.NewGroupService(repository.NewGroupRepository(db), clock),
		Imports:    service.NewImportService(repository.NewImportLogRepository(db), clock),
		Limiter:    middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute, clock),
	}

	if cfg.Strava.ClientID != "" && cfg.Strava.ClientSecret != "" {
		client := strava.NewClient(strava.Config{
			BaseURL:      cfg.Strava.BaseURL,
			ClientID:     cfg.Strava.ClientID,
			ClientSecret: cfg.Strava.ClientSecret,
		})
		deps.Strava = service.NewStravaService(client, repository.NewStravaTokenRepository(db), parser, clock)
		deps.Sessions = auth.NewSessionManager(cfg.JWTSecret, cfg.SessionTTL, clock)
	} else {
		log.Printf("[Server] STRAVA_CLIENT_ID not set, Strava import disabled")
	}

	stop := make(chan struct{})
	defer close(stop)
	go deps.Limiter.Cleanup(stop)

	// 初始化路由
	router := api.SetupRouter(cfg, deps)

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func runMigrate(db *sql.DB, cmd string) {
	switch cmd {
	case "down":
		if err := database.MigrateDown(db); err != nil {
			log.Fatal("Migration failed:", err)
		}
		log.Printf("[Server] All migrations rolled back")
	case "version":
		version, dirty, err := database.MigrateVersion(db)
		if err != nil {
			log.Fatal("Failed to read schema version:", err)
		}
		log.Printf("[Server] Schema version %d (dirty=%v)", version, dirty)
	default:
		log.Fatalf("Unknown migrate command %q", cmd)
	}
}
