// main.go
package main

import (
	"context"
	"log"
	"time"

	"venue-booking/cmd"
	"venue-booking/internal/data/cache"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/data/repository/memstore"
	"venue-booking/internal/usecase"
	"venue-booking/internal/wire"
	"venue-booking/pkg/database"
	"venue-booking/pkg/storage"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("db_driver", config.Database.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	ctx := context.Background()

	// Initialize all repositories
	var repos *repository.Repository
	switch config.Database.Driver {
	case "memory":
		logger.Warn("Using in-memory store, data is lost on restart")
		repos = memstore.New()
	default:
		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		logger.Info("Database connected successfully")
		repos = repository.NewRepository(db, logger)
	}

	// Availability cache, optional
	var availability cache.AvailabilityCache = cache.Nop{}
	rdb, err := database.InitRedis(ctx, config.Redis)
	switch {
	case err != nil:
		logger.Warn("Redis unavailable, availability cache disabled", zap.Error(err))
	case rdb != nil:
		defer rdb.Close()
		ttl := time.Duration(config.Redis.AvailabilityTTLSec) * time.Second
		availability = cache.New(rdb, ttl, logger)
		logger.Info("Redis connected", zap.String("addr", config.Redis.Addr), zap.Duration("ttl", ttl))
	}

	images := storage.NewImageStore(config.Upload.Dir, config.Upload.MaxSizeMB, logger)

	// Wire all dependencies
	app := wire.Wiring(usecase.Deps{
		Repo:   repos,
		Config: config,
		Cache:  availability,
		Images: images,
		Clock:  utils.SystemClock,
		Log:    logger,
	})

	if err := app.Service.Auth.EnsureSuperAdmin(ctx); err != nil {
		logger.Fatal("Failed to seed superadmin", zap.Error(err))
	}
	if err := repos.Session.CleanExpiredSessions(ctx); err != nil {
		logger.Warn("Failed to clean expired sessions", zap.Error(err))
	}

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
	}
}
