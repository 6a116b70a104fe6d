package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/palatelog/palatelog-backend/internal/data/repos"
	"github.com/palatelog/palatelog-backend/internal/domain"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

type CuratorService interface {
	List(ctx context.Context) ([]*domain.Curator, error)

	// RefreshActivity recomputes each curator's LastActive from the
	// timestamps of their restaurants and returns how many rows changed.
	RefreshActivity(ctx context.Context) (int, error)
}

type curatorService struct {
	db  *gorm.DB
	log *logger.Logger

	curators    repos.CuratorRepo
	restaurants repos.RestaurantRepo
}

func NewCuratorService(db *gorm.DB, baseLog *logger.Logger, curators repos.CuratorRepo, restaurants repos.RestaurantRepo) CuratorService {
	return &curatorService{
		db:          db,
		log:         baseLog.With("service", "CuratorService"),
		curators:    curators,
		restaurants: restaurants,
	}
}

func (cs *curatorService) List(ctx context.Context) ([]*domain.Curator, error) {
	return cs.curators.List(ctx, nil)
}

func (cs *curatorService) RefreshActivity(ctx context.Context) (int, error) {
	updated := 0
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		curators, err := cs.curators.List(ctx, tx)
		if err != nil {
			return fmt.Errorf("list curators: %w", err)
		}
		restaurants, err := cs.restaurants.List(ctx, tx, true)
		if err != nil {
			return fmt.Errorf("list restaurants: %w", err)
		}

		latest := make(map[int64]int, len(curators))
		for i, r := range restaurants {
			idx, ok := latest[r.CuratorID]
			if !ok || r.Timestamp.After(restaurants[idx].Timestamp) {
				latest[r.CuratorID] = i
			}
		}

		for _, c := range curators {
			idx, ok := latest[c.ID]
			if !ok {
				continue
			}
			ts := restaurants[idx].Timestamp
			if ts.IsZero() || ts.Equal(c.LastActive) {
				continue
			}
			if err := cs.curators.UpdateLastActive(ctx, tx, c.ID, ts); err != nil {
				return fmt.Errorf("update curator %d: %w", c.ID, err)
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if updated > 0 {
		cs.log.Info("Refreshed curator activity", "updated", updated)
	}
	return updated, nil
}
