package app

import (
	"time"

	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
	"github.com/palatelog/palatelog-backend/internal/utils"
)

type Config struct {
	ListenAddr string

	// SyncBaseURL is the remote collection endpoint; empty disables the
	// sync surface entirely (pure offline mode).
	SyncBaseURL string

	SyncBatchSize      int
	SyncAttemptTimeout time.Duration

	// TranscriptionEnabled gates the GCP speech client; without creds the
	// transcribe endpoints stay off.
	TranscriptionEnabled bool
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		ListenAddr:           utils.GetEnv("LISTEN_ADDR", ":8080", log),
		SyncBaseURL:          utils.GetEnv("SYNC_BASE_URL", "", log),
		SyncBatchSize:        utils.GetEnvAsInt("SYNC_BATCH_SIZE", 15, log),
		SyncAttemptTimeout:   utils.GetEnvAsDuration("SYNC_ATTEMPT_TIMEOUT", 60*time.Second, log),
		TranscriptionEnabled: utils.GetEnv("TRANSCRIPTION_ENABLED", "false", log) == "true",
	}
}
