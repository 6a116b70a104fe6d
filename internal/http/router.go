package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/palatelog/palatelog-backend/internal/http/handlers"
	httpMW "github.com/palatelog/palatelog-backend/internal/http/middleware"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler     *httpH.HealthHandler
	RestaurantHandler *httpH.RestaurantHandler
	CuratorHandler    *httpH.CuratorHandler
	SyncHandler       *httpH.SyncHandler
	TranscribeHandler *httpH.TranscribeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestID())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Restaurants
		if cfg.RestaurantHandler != nil {
			api.GET("/restaurants", cfg.RestaurantHandler.List)
			api.POST("/restaurants", cfg.RestaurantHandler.Create)
			api.GET("/restaurants/:id", cfg.RestaurantHandler.Get)
			api.PUT("/restaurants/:id", cfg.RestaurantHandler.Update)
			api.DELETE("/restaurants/:id", cfg.RestaurantHandler.Remove)
		}

		// Curators
		if cfg.CuratorHandler != nil {
			api.GET("/curators", cfg.CuratorHandler.List)
		}

		// Sync
		if cfg.SyncHandler != nil {
			api.POST("/sync", cfg.SyncHandler.Trigger)
			api.GET("/sync/status", cfg.SyncHandler.Status)
			api.GET("/sync/runs", cfg.SyncHandler.ListRuns)
			api.GET("/sync/conflicts", cfg.SyncHandler.ListConflicts)
			api.POST("/sync/conflicts/:id/resolve", cfg.SyncHandler.ResolveConflict)
		}

		// Transcription
		if cfg.TranscribeHandler != nil {
			api.POST("/transcribe", cfg.TranscribeHandler.Transcribe)
			if cfg.RestaurantHandler != nil {
				api.POST("/restaurants/:id/transcription", cfg.TranscribeHandler.AttachToRestaurant)
			}
		}
	}

	return r
}
