package store

import (
	"context"
	"time"

	"github.com/palatelog/palatelog-backend/internal/domain"
)

// Store is the storage port the sync layer is written against. It is
// injected into every sync component; nothing reaches for a process-wide
// singleton.
type Store interface {
	// Snapshot reads the full local dataset.
	Snapshot(ctx context.Context) (*domain.Snapshot, error)

	// Import commits a converted remote batch in one transaction,
	// replacing synthetic negative ids with store-assigned ones.
	// Restaurants are upserted by server id; curators are resolved by
	// exact name and concepts by (category, value) against existing rows.
	Import(ctx context.Context, batch *domain.ImportBatch) error

	LastSyncTime(ctx context.Context) (*time.Time, error)
	UpdateLastSyncTime(ctx context.Context, at time.Time) error

	// MarkMissingRestaurantsAsLocal demotes synced restaurants whose
	// server id is absent from presentServerIDs and returns how many.
	MarkMissingRestaurantsAsLocal(ctx context.Context, presentServerIDs []string) (int, error)

	ListLocalOnly(ctx context.Context) ([]*domain.Restaurant, error)
	ListRemoteOrigin(ctx context.Context) ([]*domain.Restaurant, error)

	GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error)
	SaveRestaurant(ctx context.Context, r *domain.Restaurant) error
	DeleteRestaurant(ctx context.Context, id int64) error

	// ConceptKeysFor returns the concept identity set of a restaurant.
	ConceptKeysFor(ctx context.Context, restaurantID int64) ([]domain.ConceptKey, error)
	LocationFor(ctx context.Context, restaurantID int64) (*domain.RestaurantLocation, error)

	// SaveConcept finds or creates a concept and returns its id.
	SaveConcept(ctx context.Context, category, value string) (int64, error)

	// LinkConcept attaches a concept to a restaurant unless the link row
	// already exists. Reports whether a new link was written.
	LinkConcept(ctx context.Context, restaurantID, conceptID int64) (bool, error)

	// AdoptServerIdentity resolves an identical local/mirror pair: the
	// local row takes over the mirror's server identity and the now
	// redundant mirror row (with its links and location) is removed.
	AdoptServerIdentity(ctx context.Context, localID int64, mirror *domain.Restaurant) error
}
