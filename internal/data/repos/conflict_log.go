package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/palatelog/palatelog-backend/internal/domain"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

type ConflictLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, logs []*domain.ConflictLog) ([]*domain.ConflictLog, error)
	ListUnresolved(ctx context.Context, tx *gorm.DB) ([]*domain.ConflictLog, error)
	MarkResolved(ctx context.Context, tx *gorm.DB, id int64) error
}

type conflictLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConflictLogRepo(db *gorm.DB, baseLog *logger.Logger) ConflictLogRepo {
	return &conflictLogRepo{db: db, log: baseLog.With("repo", "ConflictLogRepo")}
}

func (cr *conflictLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*domain.ConflictLog) ([]*domain.ConflictLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(logs) == 0 {
		return []*domain.ConflictLog{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (cr *conflictLogRepo) ListUnresolved(ctx context.Context, tx *gorm.DB) ([]*domain.ConflictLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*domain.ConflictLog
	if err := transaction.WithContext(ctx).
		Where("resolved = ?", false).
		Order("detected_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *conflictLogRepo) MarkResolved(ctx context.Context, tx *gorm.DB, id int64) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.ConflictLog{}).
		Where("id = ?", id).
		Update("resolved", true).Error
}
