package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lorawan-transform-service/internal/config"
	"lorawan-transform-service/internal/delivery/http/handler"
	"lorawan-transform-service/internal/infrastructure/database/postgres"
	"lorawan-transform-service/internal/ingestion"
	"lorawan-transform-service/internal/middleware"
)

func SetupRoutes(cfg *config.Config, db *postgres.DB, ingestService *ingestion.Service) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	uplinkRepository := postgres.NewUplinkRepository(db)
	deviceRepository := postgres.NewDeviceRepository(db)
	enrichmentRepository := postgres.NewEnrichmentRepository(db)

	ingestHandler := handler.NewIngestHandler(ingestService)
	deviceHandler := handler.NewDeviceHandler(deviceRepository)
	uplinkHandler := handler.NewUplinkHandler(uplinkRepository, enrichmentRepository)

	v1 := router.Group("/api/v1")
	{
		ingestHandler.RegisterRoutes(v1)
		deviceHandler.RegisterRoutes(v1)
		uplinkHandler.RegisterRoutes(v1)
	}

	return router
}
