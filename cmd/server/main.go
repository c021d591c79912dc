// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bayidash/backend-go/internal/api"
	"github.com/bayidash/backend-go/internal/cache"
	"github.com/bayidash/backend-go/internal/config"
	"github.com/bayidash/backend-go/internal/ingest"
	"github.com/bayidash/backend-go/internal/repository/postgres"
	"github.com/bayidash/backend-go/internal/service"
	"github.com/bayidash/backend-go/internal/storage"
	"github.com/bayidash/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.EnsureSchema(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to apply schema")
	}

	statsCache, err := cache.NewStatsCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("stats cache unavailable, continuing without")
		statsCache = cache.NewNoopStatsCache()
	}

	var archive storage.Archive = storage.NoopArchive{}
	if cfg.Archive.Enabled {
		minioArchive, err := storage.NewMinioArchive(cfg.Archive)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("failed to initialize workbook archive")
		}
		if err := minioArchive.EnsureBucket(ctx); err != nil {
			logger.Log.Fatal().Err(err).Msg("failed to prepare archive bucket")
		}
		archive = minioArchive
	}

	ingestRepo := postgres.NewIngestRepository(db)
	dealerRepo := postgres.NewDealerRepository(db)
	orch := ingest.NewOrchestrator(ingestRepo)

	services := &api.Services{
		DealerService: service.NewDealerService(dealerRepo, statsCache),
		IngestService: service.NewIngestService(orch, dealerRepo, archive, statsCache),
	}

	router := api.NewRouter(services, cfg)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Log.Info().Msg("server exiting")
}
