package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/palatelog/palatelog-backend/internal/domain"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

type RestaurantRepo interface {
	Create(ctx context.Context, tx *gorm.DB, restaurants []*domain.Restaurant) ([]*domain.Restaurant, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*domain.Restaurant, error)
	GetByServerID(ctx context.Context, tx *gorm.DB, serverID string) (*domain.Restaurant, error)
	List(ctx context.Context, tx *gorm.DB, includeArchived bool) ([]*domain.Restaurant, error)
	ListLocalOnly(ctx context.Context, tx *gorm.DB) ([]*domain.Restaurant, error)
	ListRemoteOrigin(ctx context.Context, tx *gorm.DB) ([]*domain.Restaurant, error)
	Save(ctx context.Context, tx *gorm.DB, restaurant *domain.Restaurant) error
	UpdateFields(ctx context.Context, tx *gorm.DB, id int64, fields map[string]interface{}) error
	MarkMissingAsLocal(ctx context.Context, tx *gorm.DB, presentServerIDs []string) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id int64) error
}

type restaurantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRestaurantRepo(db *gorm.DB, baseLog *logger.Logger) RestaurantRepo {
	return &restaurantRepo{db: db, log: baseLog.With("repo", "RestaurantRepo")}
}

func (rr *restaurantRepo) Create(ctx context.Context, tx *gorm.DB, restaurants []*domain.Restaurant) ([]*domain.Restaurant, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(restaurants) == 0 {
		return []*domain.Restaurant{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (rr *restaurantRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*domain.Restaurant, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var result domain.Restaurant
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *restaurantRepo) GetByServerID(ctx context.Context, tx *gorm.DB, serverID string) (*domain.Restaurant, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var result domain.Restaurant
	err := transaction.WithContext(ctx).
		Where("server_id = ?", serverID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *restaurantRepo) List(ctx context.Context, tx *gorm.DB, includeArchived bool) ([]*domain.Restaurant, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	q := transaction.WithContext(ctx).Order("timestamp DESC")
	if !includeArchived {
		q = q.Where("archived = ?", false)
	}
	var results []*domain.Restaurant
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *restaurantRepo) ListLocalOnly(ctx context.Context, tx *gorm.DB) ([]*domain.Restaurant, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*domain.Restaurant
	if err := transaction.WithContext(ctx).
		Where("origin = ? AND server_id IS NULL", domain.OriginLocal).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *restaurantRepo) ListRemoteOrigin(ctx context.Context, tx *gorm.DB) ([]*domain.Restaurant, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*domain.Restaurant
	if err := transaction.WithContext(ctx).
		Where("source = ? AND server_id IS NOT NULL", domain.SourceRemote).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *restaurantRepo) Save(ctx context.Context, tx *gorm.DB, restaurant *domain.Restaurant) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).Save(restaurant).Error
}

func (rr *restaurantRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id int64, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.Restaurant{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// MarkMissingAsLocal demotes every synced restaurant whose server id is
// absent from presentServerIDs: origin and source flip back to local and
// the stale server id is cleared, so the row reads as never pushed.
// Returns the number of demoted rows.
func (rr *restaurantRepo) MarkMissingAsLocal(ctx context.Context, tx *gorm.DB, presentServerIDs []string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	q := transaction.WithContext(ctx).
		Model(&domain.Restaurant{}).
		Where("server_id IS NOT NULL")
	if len(presentServerIDs) > 0 {
		q = q.Where("server_id NOT IN ?", presentServerIDs)
	}
	res := q.Updates(map[string]interface{}{
		"origin":    domain.OriginLocal,
		"source":    domain.SourceLocal,
		"server_id": nil,
	})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (rr *restaurantRepo) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Restaurant{}).Error
}
