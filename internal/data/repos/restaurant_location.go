package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/palatelog/palatelog-backend/internal/domain"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

type RestaurantLocationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, locations []*domain.RestaurantLocation) ([]*domain.RestaurantLocation, error)
	GetByRestaurantID(ctx context.Context, tx *gorm.DB, restaurantID int64) (*domain.RestaurantLocation, error)
	GetByRestaurantIDs(ctx context.Context, tx *gorm.DB, restaurantIDs []int64) ([]*domain.RestaurantLocation, error)
	List(ctx context.Context, tx *gorm.DB) ([]*domain.RestaurantLocation, error)
	DeleteByRestaurantID(ctx context.Context, tx *gorm.DB, restaurantID int64) error
}

type restaurantLocationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRestaurantLocationRepo(db *gorm.DB, baseLog *logger.Logger) RestaurantLocationRepo {
	return &restaurantLocationRepo{db: db, log: baseLog.With("repo", "RestaurantLocationRepo")}
}

func (rr *restaurantLocationRepo) Create(ctx context.Context, tx *gorm.DB, locations []*domain.RestaurantLocation) ([]*domain.RestaurantLocation, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(locations) == 0 {
		return []*domain.RestaurantLocation{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

func (rr *restaurantLocationRepo) GetByRestaurantID(ctx context.Context, tx *gorm.DB, restaurantID int64) (*domain.RestaurantLocation, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var result domain.RestaurantLocation
	err := transaction.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *restaurantLocationRepo) GetByRestaurantIDs(ctx context.Context, tx *gorm.DB, restaurantIDs []int64) ([]*domain.RestaurantLocation, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*domain.RestaurantLocation
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

func (rr *restaurantLocationRepo) List(ctx context.Context, tx *gorm.DB) ([]*domain.RestaurantLocation, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*domain.RestaurantLocation
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *restaurantLocationRepo) DeleteByRestaurantID(ctx context.Context, tx *gorm.DB, restaurantID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Delete(&domain.RestaurantLocation{}).Error
}
