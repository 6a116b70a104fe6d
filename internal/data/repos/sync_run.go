package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palatelog/palatelog-backend/internal/domain"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

type SyncRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *domain.SyncRun) error
	Save(ctx context.Context, tx *gorm.DB, run *domain.SyncRun) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.SyncRun, error)
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*domain.SyncRun, error)
}

type syncRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSyncRunRepo(db *gorm.DB, baseLog *logger.Logger) SyncRunRepo {
	return &syncRunRepo{db: db, log: baseLog.With("repo", "SyncRunRepo")}
}

func (sr *syncRunRepo) Create(ctx context.Context, tx *gorm.DB, run *domain.SyncRun) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).Create(run).Error
}

func (sr *syncRunRepo) Save(ctx context.Context, tx *gorm.DB, run *domain.SyncRun) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).Save(run).Error
}

func (sr *syncRunRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.SyncRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var run domain.SyncRun
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (sr *syncRunRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*domain.SyncRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if limit <= 0 {
		limit = 20
	}
	var runs []*domain.SyncRun
	if err := transaction.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
