package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/palatelog/palatelog-backend/internal/domain"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

type CuratorRepo interface {
	Create(ctx context.Context, tx *gorm.DB, curators []*domain.Curator) ([]*domain.Curator, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*domain.Curator, error)
	GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*domain.Curator, error)
	List(ctx context.Context, tx *gorm.DB) ([]*domain.Curator, error)
	UpdateLastActive(ctx context.Context, tx *gorm.DB, id int64, lastActive time.Time) error
}

type curatorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCuratorRepo(db *gorm.DB, baseLog *logger.Logger) CuratorRepo {
	return &curatorRepo{db: db, log: baseLog.With("repo", "CuratorRepo")}
}

func (cr *curatorRepo) Create(ctx context.Context, tx *gorm.DB, curators []*domain.Curator) ([]*domain.Curator, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(curators) == 0 {
		return []*domain.Curator{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&curators).Error; err != nil {
		return nil, err
	}
	return curators, nil
}

func (cr *curatorRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*domain.Curator, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*domain.Curator
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *curatorRepo) GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*domain.Curator, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*domain.Curator
	if len(names) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("name IN ?", names).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *curatorRepo) List(ctx context.Context, tx *gorm.DB) ([]*domain.Curator, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*domain.Curator
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *curatorRepo) UpdateLastActive(ctx context.Context, tx *gorm.DB, id int64, lastActive time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.Curator{}).
		Where("id = ?", id).
		Update("last_active", lastActive).Error
}
