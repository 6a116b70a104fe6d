package app

import (
	"gorm.io/gorm"

	"github.com/palatelog/palatelog-backend/internal/clients/gcp"
	"github.com/palatelog/palatelog-backend/internal/clients/remote"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
	"github.com/palatelog/palatelog-backend/internal/services"
	"github.com/palatelog/palatelog-backend/internal/store"
	syncengine "github.com/palatelog/palatelog-backend/internal/sync"
)

type Services struct {
	Restaurant    services.RestaurantService
	Curator       services.CuratorService
	Sync          services.SyncService
	Transcription services.TranscriptionService

	Store  store.Store
	Speech gcp.Speech
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) (Services, error) {
	log.Info("Wiring services...")

	st := store.New(db, log, r.Curator, r.Concept, r.Restaurant, r.RestaurantConcept, r.RestaurantLocation, r.SyncState)

	svcs := Services{
		Restaurant: services.NewRestaurantService(db, log, r.Curator, r.Concept, r.Restaurant, r.RestaurantConcept, r.RestaurantLocation),
		Curator:    services.NewCuratorService(db, log, r.Curator, r.Restaurant),
		Store:      st,
	}

	if cfg.SyncBaseURL != "" {
		client := remote.NewClient(cfg.SyncBaseURL, log)
		converter := syncengine.NewConverter(log)
		uploader := syncengine.NewBatchUploader(client, log).
			WithBatchSize(cfg.SyncBatchSize).
			WithTimings(cfg.SyncAttemptTimeout, 0, 0)
		engine := syncengine.NewEngine(
			st,
			syncengine.NewExporter(converter, log),
			uploader,
			syncengine.NewImporter(client, converter, st, log),
			syncengine.NewResolver(st, log),
			svcs.Curator,
			log,
		)
		svcs.Sync = services.NewSyncService(db, log, engine, r.SyncRun, r.ConflictLog)
	} else {
		log.Warn("SYNC_BASE_URL not set, sync endpoints disabled")
	}

	if cfg.TranscriptionEnabled {
		speech, err := gcp.NewSpeech(log)
		if err != nil {
			return Services{}, err
		}
		svcs.Speech = speech
		svcs.Transcription = services.NewTranscriptionService(db, log, speech, r.Restaurant)
	} else {
		log.Info("Transcription disabled")
	}

	return svcs, nil
}
