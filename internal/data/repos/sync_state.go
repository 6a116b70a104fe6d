package repos

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/palatelog/palatelog-backend/internal/domain"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

const syncStateRowID = 1

type SyncStateRepo interface {
	Get(ctx context.Context, tx *gorm.DB) (*domain.SyncState, error)
	SetLastSync(ctx context.Context, tx *gorm.DB, at time.Time) error
}

type syncStateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSyncStateRepo(db *gorm.DB, baseLog *logger.Logger) SyncStateRepo {
	return &syncStateRepo{db: db, log: baseLog.With("repo", "SyncStateRepo")}
}

// Get returns the singleton sync-state row, creating it on first use.
func (sr *syncStateRepo) Get(ctx context.Context, tx *gorm.DB) (*domain.SyncState, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var state domain.SyncState
	err := transaction.WithContext(ctx).
		Where("id = ?", syncStateRowID).
		First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		state = domain.SyncState{ID: syncStateRowID}
		if err := transaction.WithContext(ctx).Create(&state).Error; err != nil {
			return nil, err
		}
		return &state, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (sr *syncStateRepo) SetLastSync(ctx context.Context, tx *gorm.DB, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if _, err := sr.Get(ctx, transaction); err != nil {
		return err
	}
	return transaction.WithContext(ctx).
		Model(&domain.SyncState{}).
		Where("id = ?", syncStateRowID).
		Update("last_sync_at", at).Error
}
