// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bayidash/backend-go/internal/api/handlers"
	"github.com/bayidash/backend-go/internal/api/middleware"
	"github.com/bayidash/backend-go/internal/config"
	"github.com/bayidash/backend-go/internal/service"
)

type Services struct {
	DealerService *service.DealerService
	IngestService *service.IngestService
}

func NewRouter(services *Services, cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(cfg.Server.AllowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	authHandler := handlers.NewAuthHandler(cfg.Auth)

	apiGroup := router.Group("/api")
	apiGroup.POST("/login", authHandler.Login)

	protected := apiGroup.Group("")
	protected.Use(middleware.Auth(cfg.Auth.Token))

	if services.IngestService != nil {
		ingestHandler := handlers.NewIngestHandler(services.IngestService, cfg.App.UploadDir)
		protected.POST("/upload", ingestHandler.Upload)
		protected.GET("/ingest/runs/:id", ingestHandler.RunStatus)
	}

	if services.DealerService != nil {
		dealerHandler := handlers.NewDealerHandler(services.DealerService)
		protected.GET("/dashboard/stats", dealerHandler.Stats)
		protected.GET("/ozet", dealerHandler.Summary)
		protected.GET("/faturalar/:no", dealerHandler.InvoiceDetail)

		dealerGroup := protected.Group("/bayiler")
		{
			dealerGroup.GET("", dealerHandler.Search)
			dealerGroup.GET("/:code", dealerHandler.Profile)
			dealerGroup.GET("/:code/faturalar", dealerHandler.Invoices)
			dealerGroup.GET("/:code/tahsilatlar", dealerHandler.Collections)
			dealerGroup.GET("/:code/rut", dealerHandler.Routes)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
