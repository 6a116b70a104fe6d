package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/palatelog/palatelog-backend/internal/data/repos"
	"github.com/palatelog/palatelog-backend/internal/domain"
	pkgerrors "github.com/palatelog/palatelog-backend/internal/pkg/errors"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

type ConceptInput struct {
	Category string `json:"category"`
	Value    string `json:"value"`
}

type LocationInput struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

type RestaurantInput struct {
	Name          string         `json:"name"`
	CuratorName   string         `json:"curator_name"`
	Description   string         `json:"description,omitempty"`
	Transcription string         `json:"transcription,omitempty"`
	Concepts      []ConceptInput `json:"concepts,omitempty"`
	Location      *LocationInput `json:"location,omitempty"`
}

// RestaurantDetail is a restaurant with its related rows resolved.
type RestaurantDetail struct {
	Restaurant *domain.Restaurant         `json:"restaurant"`
	Curator    *domain.Curator            `json:"curator,omitempty"`
	Concepts   []*domain.Concept          `json:"concepts"`
	Location   *domain.RestaurantLocation `json:"location,omitempty"`
}

type RestaurantService interface {
	Create(ctx context.Context, input RestaurantInput) (*RestaurantDetail, error)
	Get(ctx context.Context, id int64) (*RestaurantDetail, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Restaurant, error)
	Update(ctx context.Context, id int64, input RestaurantInput) (*RestaurantDetail, error)

	// Remove archives a synced restaurant and hard-deletes a local-only
	// one. Deleting a synced row outright would just resurrect it on the
	// next pull.
	Remove(ctx context.Context, id int64) error
}

type restaurantService struct {
	db  *gorm.DB
	log *logger.Logger

	curators    repos.CuratorRepo
	concepts    repos.ConceptRepo
	restaurants repos.RestaurantRepo
	links       repos.RestaurantConceptRepo
	locations   repos.RestaurantLocationRepo
}

func NewRestaurantService(
	db *gorm.DB,
	baseLog *logger.Logger,
	curators repos.CuratorRepo,
	concepts repos.ConceptRepo,
	restaurants repos.RestaurantRepo,
	links repos.RestaurantConceptRepo,
	locations repos.RestaurantLocationRepo,
) RestaurantService {
	return &restaurantService{
		db:          db,
		log:         baseLog.With("service", "RestaurantService"),
		curators:    curators,
		concepts:    concepts,
		restaurants: restaurants,
		links:       links,
		locations:   locations,
	}
}

func (rs *restaurantService) Create(ctx context.Context, input RestaurantInput) (*RestaurantDetail, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: restaurant name is required", pkgerrors.ErrInvalidArgument)
	}

	var created *domain.Restaurant
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		curator, err := rs.resolveCurator(ctx, tx, input.CuratorName)
		if err != nil {
			return err
		}

		rows, err := rs.restaurants.Create(ctx, tx, []*domain.Restaurant{{
			Name:          strings.TrimSpace(input.Name),
			CuratorID:     curator.ID,
			Timestamp:     time.Now().UTC(),
			Description:   input.Description,
			Transcription: input.Transcription,
			Source:        domain.SourceLocal,
			Origin:        domain.OriginLocal,
		}})
		if err != nil {
			return fmt.Errorf("create restaurant: %w", err)
		}
		created = rows[0]

		if err := rs.applyConcepts(ctx, tx, created.ID, input.Concepts); err != nil {
			return err
		}
		return rs.applyLocation(ctx, tx, created.ID, input.Location)
	})
	if err != nil {
		return nil, err
	}
	return rs.Get(ctx, created.ID)
}

func (rs *restaurantService) Get(ctx context.Context, id int64) (*RestaurantDetail, error) {
	r, err := rs.restaurants.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, pkgerrors.ErrNotFound
	}

	detail := &RestaurantDetail{Restaurant: r, Concepts: []*domain.Concept{}}

	curators, err := rs.curators.GetByIDs(ctx, nil, []int64{r.CuratorID})
	if err != nil {
		return nil, err
	}
	if len(curators) > 0 {
		detail.Curator = curators[0]
	}

	links, err := rs.links.GetByRestaurantIDs(ctx, nil, []int64{id})
	if err != nil {
		return nil, err
	}
	conceptIDs := make([]int64, 0, len(links))
	for _, l := range links {
		conceptIDs = append(conceptIDs, l.ConceptID)
	}
	concepts, err := rs.concepts.GetByIDs(ctx, nil, conceptIDs)
	if err != nil {
		return nil, err
	}
	detail.Concepts = concepts

	loc, err := rs.locations.GetByRestaurantID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	detail.Location = loc
	return detail, nil
}

func (rs *restaurantService) List(ctx context.Context, includeArchived bool) ([]*domain.Restaurant, error) {
	return rs.restaurants.List(ctx, nil, includeArchived)
}

func (rs *restaurantService) Update(ctx context.Context, id int64, input RestaurantInput) (*RestaurantDetail, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: restaurant name is required", pkgerrors.ErrInvalidArgument)
	}

	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := rs.restaurants.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return pkgerrors.ErrNotFound
		}

		curator, err := rs.resolveCurator(ctx, tx, input.CuratorName)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := rs.restaurants.UpdateFields(ctx, tx, id, map[string]interface{}{
			"name":          strings.TrimSpace(input.Name),
			"curator_id":    curator.ID,
			"description":   input.Description,
			"transcription": input.Transcription,
			"timestamp":     now,
		}); err != nil {
			return fmt.Errorf("update restaurant: %w", err)
		}
		if err := rs.curators.UpdateLastActive(ctx, tx, curator.ID, now); err != nil {
			return fmt.Errorf("touch curator: %w", err)
		}

		if err := rs.links.DeleteByRestaurantID(ctx, tx, id); err != nil {
			return err
		}
		if err := rs.applyConcepts(ctx, tx, id, input.Concepts); err != nil {
			return err
		}
		return rs.applyLocation(ctx, tx, id, input.Location)
	})
	if err != nil {
		return nil, err
	}
	return rs.Get(ctx, id)
}

func (rs *restaurantService) Remove(ctx context.Context, id int64) error {
	return rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := rs.restaurants.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return pkgerrors.ErrNotFound
		}

		if existing.ServerID != nil {
			rs.log.Info("Archiving synced restaurant", "restaurant_id", id, "server_id", *existing.ServerID)
			return rs.restaurants.UpdateFields(ctx, tx, id, map[string]interface{}{
				"archived": true,
			})
		}

		rs.log.Info("Deleting local-only restaurant", "restaurant_id", id)
		if err := rs.links.DeleteByRestaurantID(ctx, tx, id); err != nil {
			return err
		}
		if err := rs.locations.DeleteByRestaurantID(ctx, tx, id); err != nil {
			return err
		}
		return rs.restaurants.Delete(ctx, tx, id)
	})
}

func (rs *restaurantService) resolveCurator(ctx context.Context, tx *gorm.DB, name string) (*domain.Curator, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Unknown Curator"
	}
	existing, err := rs.curators.GetByNames(ctx, tx, []string{name})
	if err != nil {
		return nil, fmt.Errorf("resolve curator %q: %w", name, err)
	}
	for _, c := range existing {
		if c.Name == name {
			return c, nil
		}
	}
	created, err := rs.curators.Create(ctx, tx, []*domain.Curator{{
		Name:       name,
		LastActive: time.Now().UTC(),
	}})
	if err != nil {
		return nil, fmt.Errorf("create curator %q: %w", name, err)
	}
	return created[0], nil
}

func (rs *restaurantService) applyConcepts(ctx context.Context, tx *gorm.DB, restaurantID int64, inputs []ConceptInput) error {
	seen := make(map[ConceptInput]struct{}, len(inputs))
	for _, in := range inputs {
		if strings.TrimSpace(in.Category) == "" || strings.TrimSpace(in.Value) == "" {
			continue
		}
		if _, dup := seen[in]; dup {
			continue
		}
		seen[in] = struct{}{}

		concept, err := rs.concepts.FindOrCreate(ctx, tx, in.Category, in.Value)
		if err != nil {
			return fmt.Errorf("concept %s/%s: %w", in.Category, in.Value, err)
		}
		exists, err := rs.links.Exists(ctx, tx, restaurantID, concept.ID)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := rs.links.Create(ctx, tx, []*domain.RestaurantConcept{{
			RestaurantID: restaurantID,
			ConceptID:    concept.ID,
		}}); err != nil {
			return err
		}
	}
	return nil
}

func (rs *restaurantService) applyLocation(ctx context.Context, tx *gorm.DB, restaurantID int64, input *LocationInput) error {
	if err := rs.locations.DeleteByRestaurantID(ctx, tx, restaurantID); err != nil {
		return err
	}
	if input == nil {
		return nil
	}
	_, err := rs.locations.Create(ctx, tx, []*domain.RestaurantLocation{{
		RestaurantID: restaurantID,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		Address:      input.Address,
	}})
	return err
}
