package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/palatelog/palatelog-backend/internal/clients/gcp"
	"github.com/palatelog/palatelog-backend/internal/data/repos"
	pkgerrors "github.com/palatelog/palatelog-backend/internal/pkg/errors"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

type TranscriptionService interface {
	// Transcribe turns a recorded voice note into text.
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)

	// AttachToRestaurant transcribes the note and stores the text on the
	// restaurant, touching its timestamp so the change syncs.
	AttachToRestaurant(ctx context.Context, restaurantID int64, audio []byte, mimeType string) (string, error)
}

type transcriptionService struct {
	db  *gorm.DB
	log *logger.Logger

	speech      gcp.Speech
	restaurants repos.RestaurantRepo
}

func NewTranscriptionService(db *gorm.DB, baseLog *logger.Logger, speech gcp.Speech, restaurants repos.RestaurantRepo) TranscriptionService {
	return &transcriptionService{
		db:          db,
		log:         baseLog.With("service", "TranscriptionService"),
		speech:      speech,
		restaurants: restaurants,
	}
}

func (ts *transcriptionService) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if ts.speech == nil {
		return "", fmt.Errorf("transcription is not configured")
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: empty audio payload", pkgerrors.ErrInvalidArgument)
	}

	result, err := ts.speech.TranscribeAudioBytes(ctx, audio, mimeType, gcp.SpeechConfig{
		EnableAutomaticPunctuation: true,
	})
	if err != nil {
		return "", err
	}
	ts.log.Info("Transcribed voice note", "bytes", len(audio), "chars", len(result.PrimaryText))
	return result.PrimaryText, nil
}

func (ts *transcriptionService) AttachToRestaurant(ctx context.Context, restaurantID int64, audio []byte, mimeType string) (string, error) {
	text, err := ts.Transcribe(ctx, audio, mimeType)
	if err != nil {
		return "", err
	}

	err = ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ts.restaurants.GetByID(ctx, tx, restaurantID)
		if err != nil {
			return err
		}
		if existing == nil {
			return pkgerrors.ErrNotFound
		}
		return ts.restaurants.UpdateFields(ctx, tx, restaurantID, map[string]interface{}{
			"transcription": text,
			"timestamp":     time.Now().UTC(),
		})
	})
	if err != nil {
		return "", err
	}
	return text, nil
}
