package app

import (
	httpx "github.com/palatelog/palatelog-backend/internal/http"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, h Handlers) *httpx.Server {
	log.Info("Wiring router...")
	return httpx.NewServer(httpx.RouterConfig{
		Log:               log,
		HealthHandler:     h.Health,
		RestaurantHandler: h.Restaurant,
		CuratorHandler:    h.Curator,
		SyncHandler:       h.Sync,
		TranscribeHandler: h.Transcribe,
	})
}
