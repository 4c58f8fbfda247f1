package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alboran/server/config"
	"alboran/server/internal/api"
	"alboran/server/internal/database"
	"alboran/server/internal/generator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithError(err).Warnf("Unknown log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	city := config.GetCityByName(cfg.City)
	if city == nil {
		logger.Fatalf("Unsupported city %q, supported: %v", cfg.City, config.GetCityNames())
	}
	if cfg.DistrictsFile != "" {
		logger.Infof("Loading district table from %s", cfg.DistrictsFile)
		if err := config.LoadDistrictFile(city, cfg.DistrictsFile); err != nil {
			logger.WithError(err).Fatal("Failed to load district table")
		}
	}

	// A malformed district table is fatal here, before anything is served
	gen, err := generator.NewGenerator(*city, generator.WithSize(cfg.Dataset.Size))
	if err != nil {
		logger.WithError(err).Fatal("Invalid generator configuration")
	}
	cache := generator.NewCache(gen, logger)

	db, err := database.NewDatabase(cfg.Database.DSN, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Warm the session dataset so the first page load does not pay for it
	ds := cache.Get(cfg.Dataset.Seed)
	if err := db.LoadDataset(ds.Seed(), ds.Records(), cfg.Database.BatchSize); err != nil {
		logger.WithError(err).Fatal("Failed to load session dataset")
	}

	handler := api.NewHandler(db, cache, logger, api.Options{
		DefaultSeed: cfg.Dataset.Seed,
		SampleSize:  cfg.Dataset.MarkerSampleSize,
		BatchSize:   cfg.Database.BatchSize,
	})

	if level < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.RequestLogger(logger))
	router.Use(corsMiddleware(cfg.CORSOrigins))
	api.SetupRoutes(router, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	return cors.New(corsConfig)
}
