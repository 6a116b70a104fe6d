package repos

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/palatelog/palatelog-backend/internal/domain"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

type ConceptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, concepts []*domain.Concept) ([]*domain.Concept, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*domain.Concept, error)
	GetByKey(ctx context.Context, tx *gorm.DB, category, value string) (*domain.Concept, error)
	List(ctx context.Context, tx *gorm.DB) ([]*domain.Concept, error)
	FindOrCreate(ctx context.Context, tx *gorm.DB, category, value string) (*domain.Concept, error)
}

type conceptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConceptRepo(db *gorm.DB, baseLog *logger.Logger) ConceptRepo {
	return &conceptRepo{db: db, log: baseLog.With("repo", "ConceptRepo")}
}

func (cr *conceptRepo) Create(ctx context.Context, tx *gorm.DB, concepts []*domain.Concept) ([]*domain.Concept, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(concepts) == 0 {
		return []*domain.Concept{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&concepts).Error; err != nil {
		return nil, err
	}
	return concepts, nil
}

func (cr *conceptRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*domain.Concept, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*domain.Concept
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

// GetByKey looks a concept up by its exact (category, value) pair. Returns
// nil without error when no such concept exists.
func (cr *conceptRepo) GetByKey(ctx context.Context, tx *gorm.DB, category, value string) (*domain.Concept, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result domain.Concept
	err := transaction.WithContext(ctx).
		Where("category = ? AND value = ?", category, value).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *conceptRepo) List(ctx context.Context, tx *gorm.DB) ([]*domain.Concept, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*domain.Concept
	if err := transaction.WithContext(ctx).
		Order("category ASC, value ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *conceptRepo) FindOrCreate(ctx context.Context, tx *gorm.DB, category, value string) (*domain.Concept, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	existing, err := cr.GetByKey(ctx, transaction, category, value)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	created := &domain.Concept{
		Category:  category,
		Value:     value,
		Timestamp: time.Now().UTC(),
	}
	if err := transaction.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}
