package app

import (
	httpH "github.com/palatelog/palatelog-backend/internal/http/handlers"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Restaurant *httpH.RestaurantHandler
	Curator    *httpH.CuratorHandler
	Sync       *httpH.SyncHandler
	Transcribe *httpH.TranscribeHandler
}

func wireHandlers(log *logger.Logger, svcs Services) Handlers {
	log.Info("Wiring handlers...")
	h := Handlers{
		Health:     httpH.NewHealthHandler(),
		Restaurant: httpH.NewRestaurantHandler(log, svcs.Restaurant),
		Curator:    httpH.NewCuratorHandler(log, svcs.Curator),
	}
	if svcs.Sync != nil {
		h.Sync = httpH.NewSyncHandler(log, svcs.Sync)
	}
	if svcs.Transcription != nil {
		h.Transcribe = httpH.NewTranscribeHandler(log, svcs.Transcription)
	}
	return h
}
