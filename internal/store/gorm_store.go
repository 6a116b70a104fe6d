package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/palatelog/palatelog-backend/internal/data/repos"
	"github.com/palatelog/palatelog-backend/internal/domain"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

type gormStore struct {
	db  *gorm.DB
	log *logger.Logger

	curators    repos.CuratorRepo
	concepts    repos.ConceptRepo
	restaurants repos.RestaurantRepo
	links       repos.RestaurantConceptRepo
	locations   repos.RestaurantLocationRepo
	state       repos.SyncStateRepo
}

func New(
	db *gorm.DB,
	baseLog *logger.Logger,
	curators repos.CuratorRepo,
	concepts repos.ConceptRepo,
	restaurants repos.RestaurantRepo,
	links repos.RestaurantConceptRepo,
	locations repos.RestaurantLocationRepo,
	state repos.SyncStateRepo,
) Store {
	return &gormStore{
		db:          db,
		log:         baseLog.With("service", "Store"),
		curators:    curators,
		concepts:    concepts,
		restaurants: restaurants,
		links:       links,
		locations:   locations,
		state:       state,
	}
}

func (s *gormStore) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	curators, err := s.curators.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot curators: %w", err)
	}
	concepts, err := s.concepts.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot concepts: %w", err)
	}
	restaurants, err := s.restaurants.List(ctx, nil, true)
	if err != nil {
		return nil, fmt.Errorf("snapshot restaurants: %w", err)
	}
	links, err := s.links.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot concept links: %w", err)
	}
	locations, err := s.locations.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot locations: %w", err)
	}
	return &domain.Snapshot{
		Curators:            curators,
		Concepts:            concepts,
		Restaurants:         restaurants,
		RestaurantConcepts:  links,
		RestaurantLocations: locations,
	}, nil
}

// Import commits a converted batch. Synthetic negative ids are remapped to
// store-assigned ids; restaurants carrying a server id are upserted so a
// repeated full pull stays idempotent.
func (s *gormStore) Import(ctx context.Context, batch *domain.ImportBatch) error {
	if batch == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		curatorIDs := make(map[int64]int64, len(batch.Curators))
		for _, c := range batch.Curators {
			if c.ID > 0 {
				curatorIDs[c.ID] = c.ID
				continue
			}
			existing, err := s.curators.GetByNames(ctx, tx, []string{c.Name})
			if err != nil {
				return fmt.Errorf("import curator %q: %w", c.Name, err)
			}
			var resolved *domain.Curator
			for _, cand := range existing {
				if cand.Name == c.Name {
					resolved = cand
					break
				}
			}
			if resolved == nil {
				created, err := s.curators.Create(ctx, tx, []*domain.Curator{{
					Name:       c.Name,
					LastActive: c.LastActive,
				}})
				if err != nil {
					return fmt.Errorf("import curator %q: %w", c.Name, err)
				}
				resolved = created[0]
			}
			curatorIDs[c.ID] = resolved.ID
		}

		conceptIDs := make(map[int64]int64, len(batch.Concepts))
		for _, c := range batch.Concepts {
			if c.ID > 0 {
				conceptIDs[c.ID] = c.ID
				continue
			}
			resolved, err := s.concepts.FindOrCreate(ctx, tx, c.Category, c.Value)
			if err != nil {
				return fmt.Errorf("import concept %s/%s: %w", c.Category, c.Value, err)
			}
			conceptIDs[c.ID] = resolved.ID
		}

		restaurantIDs := make(map[int64]int64, len(batch.Restaurants))
		for _, r := range batch.Restaurants {
			curatorID := r.CuratorID
			if mapped, ok := curatorIDs[curatorID]; ok {
				curatorID = mapped
			}

			if r.ServerID != nil {
				existing, err := s.restaurants.GetByServerID(ctx, tx, *r.ServerID)
				if err != nil {
					return fmt.Errorf("import restaurant %q: %w", r.Name, err)
				}
				if existing != nil {
					err := s.restaurants.UpdateFields(ctx, tx, existing.ID, map[string]interface{}{
						"name":                 r.Name,
						"curator_id":           curatorID,
						"timestamp":            r.Timestamp,
						"description":          r.Description,
						"transcription":        r.Transcription,
						"source":               r.Source,
						"origin":               r.Origin,
						"shared_restaurant_id": r.SharedRestaurantID,
						"original_curator_id":  r.OriginalCuratorID,
					})
					if err != nil {
						return fmt.Errorf("import restaurant %q: %w", r.Name, err)
					}
					restaurantIDs[r.ID] = existing.ID
					continue
				}
			}

			created, err := s.restaurants.Create(ctx, tx, []*domain.Restaurant{{
				Name:               r.Name,
				CuratorID:          curatorID,
				Timestamp:          r.Timestamp,
				Description:        r.Description,
				Transcription:      r.Transcription,
				ServerID:           r.ServerID,
				Source:             r.Source,
				Origin:             r.Origin,
				SharedRestaurantID: r.SharedRestaurantID,
				OriginalCuratorID:  r.OriginalCuratorID,
			}})
			if err != nil {
				return fmt.Errorf("import restaurant %q: %w", r.Name, err)
			}
			restaurantIDs[r.ID] = created[0].ID
		}

		for _, link := range batch.RestaurantConcepts {
			restaurantID := link.RestaurantID
			if mapped, ok := restaurantIDs[restaurantID]; ok {
				restaurantID = mapped
			}
			conceptID := link.ConceptID
			if mapped, ok := conceptIDs[conceptID]; ok {
				conceptID = mapped
			}
			exists, err := s.links.Exists(ctx, tx, restaurantID, conceptID)
			if err != nil {
				return fmt.Errorf("import concept link: %w", err)
			}
			if exists {
				continue
			}
			if _, err := s.links.Create(ctx, tx, []*domain.RestaurantConcept{{
				RestaurantID: restaurantID,
				ConceptID:    conceptID,
			}}); err != nil {
				return fmt.Errorf("import concept link: %w", err)
			}
		}

		for _, loc := range batch.RestaurantLocations {
			restaurantID := loc.RestaurantID
			if mapped, ok := restaurantIDs[restaurantID]; ok {
				restaurantID = mapped
			}
			if err := s.locations.DeleteByRestaurantID(ctx, tx, restaurantID); err != nil {
				return fmt.Errorf("import location: %w", err)
			}
			if _, err := s.locations.Create(ctx, tx, []*domain.RestaurantLocation{{
				RestaurantID: restaurantID,
				Latitude:     loc.Latitude,
				Longitude:    loc.Longitude,
				Address:      loc.Address,
			}}); err != nil {
				return fmt.Errorf("import location: %w", err)
			}
		}

		return nil
	})
}

func (s *gormStore) LastSyncTime(ctx context.Context) (*time.Time, error) {
	state, err := s.state.Get(ctx, nil)
	if err != nil {
		return nil, err
	}
	return state.LastSyncAt, nil
}

func (s *gormStore) UpdateLastSyncTime(ctx context.Context, at time.Time) error {
	return s.state.SetLastSync(ctx, nil, at)
}

func (s *gormStore) MarkMissingRestaurantsAsLocal(ctx context.Context, presentServerIDs []string) (int, error) {
	n, err := s.restaurants.MarkMissingAsLocal(ctx, nil, presentServerIDs)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *gormStore) ListLocalOnly(ctx context.Context) ([]*domain.Restaurant, error) {
	return s.restaurants.ListLocalOnly(ctx, nil)
}

func (s *gormStore) ListRemoteOrigin(ctx context.Context) ([]*domain.Restaurant, error) {
	return s.restaurants.ListRemoteOrigin(ctx, nil)
}

func (s *gormStore) GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error) {
	return s.restaurants.GetByID(ctx, nil, id)
}

func (s *gormStore) SaveRestaurant(ctx context.Context, r *domain.Restaurant) error {
	return s.restaurants.Save(ctx, nil, r)
}

func (s *gormStore) DeleteRestaurant(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.links.DeleteByRestaurantID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.locations.DeleteByRestaurantID(ctx, tx, id); err != nil {
			return err
		}
		return s.restaurants.Delete(ctx, tx, id)
	})
}

func (s *gormStore) ConceptKeysFor(ctx context.Context, restaurantID int64) ([]domain.ConceptKey, error) {
	links, err := s.links.GetByRestaurantIDs(ctx, nil, []int64{restaurantID})
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.ConceptID)
	}
	concepts, err := s.concepts.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}
	keys := make([]domain.ConceptKey, 0, len(concepts))
	for _, c := range concepts {
		keys = append(keys, c.Key())
	}
	return keys, nil
}

func (s *gormStore) LocationFor(ctx context.Context, restaurantID int64) (*domain.RestaurantLocation, error) {
	return s.locations.GetByRestaurantID(ctx, nil, restaurantID)
}

func (s *gormStore) SaveConcept(ctx context.Context, category, value string) (int64, error) {
	c, err := s.concepts.FindOrCreate(ctx, nil, category, value)
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (s *gormStore) LinkConcept(ctx context.Context, restaurantID, conceptID int64) (bool, error) {
	exists, err := s.links.Exists(ctx, nil, restaurantID, conceptID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if _, err := s.links.Create(ctx, nil, []*domain.RestaurantConcept{{
		RestaurantID: restaurantID,
		ConceptID:    conceptID,
	}}); err != nil {
		return false, err
	}
	return true, nil
}

// AdoptServerIdentity removes the redundant mirror row first so the unique
// server-id index never sees two owners.
func (s *gormStore) AdoptServerIdentity(ctx context.Context, localID int64, mirror *domain.Restaurant) error {
	if mirror == nil || mirror.ServerID == nil {
		return fmt.Errorf("mirror restaurant has no server id")
	}
	serverID := *mirror.ServerID
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.links.DeleteByRestaurantID(ctx, tx, mirror.ID); err != nil {
			return err
		}
		if err := s.locations.DeleteByRestaurantID(ctx, tx, mirror.ID); err != nil {
			return err
		}
		if err := s.restaurants.Delete(ctx, tx, mirror.ID); err != nil {
			return err
		}
		return s.restaurants.UpdateFields(ctx, tx, localID, map[string]interface{}{
			"server_id": serverID,
			"source":    domain.SourceRemote,
			"origin":    domain.OriginSynced,
		})
	})
}
