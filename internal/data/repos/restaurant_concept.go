package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/palatelog/palatelog-backend/internal/domain"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

type RestaurantConceptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, links []*domain.RestaurantConcept) ([]*domain.RestaurantConcept, error)
	GetByRestaurantIDs(ctx context.Context, tx *gorm.DB, restaurantIDs []int64) ([]*domain.RestaurantConcept, error)
	Exists(ctx context.Context, tx *gorm.DB, restaurantID, conceptID int64) (bool, error)
	List(ctx context.Context, tx *gorm.DB) ([]*domain.RestaurantConcept, error)
	DeleteByRestaurantID(ctx context.Context, tx *gorm.DB, restaurantID int64) error
}

type restaurantConceptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRestaurantConceptRepo(db *gorm.DB, baseLog *logger.Logger) RestaurantConceptRepo {
	return &restaurantConceptRepo{db: db, log: baseLog.With("repo", "RestaurantConceptRepo")}
}

func (rr *restaurantConceptRepo) Create(ctx context.Context, tx *gorm.DB, links []*domain.RestaurantConcept) ([]*domain.RestaurantConcept, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(links) == 0 {
		return []*domain.RestaurantConcept{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (rr *restaurantConceptRepo) GetByRestaurantIDs(ctx context.Context, tx *gorm.DB, restaurantIDs []int64) ([]*domain.RestaurantConcept, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*domain.RestaurantConcept
	if len(restaurantIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("restaurant_id IN ?", restaurantIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *restaurantConceptRepo) Exists(ctx context.Context, tx *gorm.DB, restaurantID, conceptID int64) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.RestaurantConcept{}).
		Where("restaurant_id = ? AND concept_id = ?", restaurantID, conceptID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (rr *restaurantConceptRepo) List(ctx context.Context, tx *gorm.DB) ([]*domain.RestaurantConcept, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*domain.RestaurantConcept
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *restaurantConceptRepo) DeleteByRestaurantID(ctx context.Context, tx *gorm.DB, restaurantID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Delete(&domain.RestaurantConcept{}).Error
}
