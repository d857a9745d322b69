package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"time"

	"inmoscan/internal/config"
	"inmoscan/internal/controllers"
	"inmoscan/internal/db"
	"inmoscan/internal/ingest"
	"inmoscan/internal/middleware"
	"inmoscan/internal/pkg/catastro"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SetupRouter initializes all services, controllers, and API routes
func SetupRouter(store db.AuctionStore, enricher catastro.Enricher, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	auctionController := controllers.AuctionController{
		Store:          store,
		Pipeline:       ingest.NewPipeline(store, enricher, log),
		MaxUploadBytes: cfg.MaxUploadMB << 20,
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadMB << 20
	router.Use(
		middleware.RequestID(log),
		middleware.Logger(log),
		middleware.Recovery(log),
		cors.New(corsConfig(cfg.AllowedOrigins)),
	)

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	api := router.Group("/api")
	{
		api.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "Api, go out if you're not from development"})
		})

		query := api.Group("/query")
		{
			// GET /api/query/data
			// Returns the whole subastas table
			query.GET("/data", auctionController.GetData)

			// POST /api/query/insert
			// Replaces subastas with the enriched rows of the uploaded file
			query.POST("/insert", auctionController.Insert)
		}
	}

	serveFrontend(router, cfg.StaticDir, log)

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// serveFrontend mounts dir at /static and its index.html at /. A missing
// directory disables both.
func serveFrontend(router *gin.Engine, dir string, log zerolog.Logger) {
	if dir == "" {
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Info().Str("dir", dir).Msg("static directory not found, frontend disabled")
		return
	}

	router.Static("/static", dir)

	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err == nil {
		router.StaticFile("/", index)
	}
}
