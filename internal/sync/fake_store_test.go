package sync

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/palatelog/palatelog-backend/internal/domain"
)

// fakeStore is an in-memory Store for exercising the sync components
// without a database. Only the behavior the sync layer depends on is
// modeled.
type fakeStore struct {
	mu sync.Mutex

	nextID      int64
	restaurants map[int64]*domain.Restaurant
	curators    map[int64]*domain.Curator
	conceptIDs  map[domain.ConceptKey]int64
	conceptKeys map[int64]domain.ConceptKey
	links       map[int64]map[int64]struct{}
	locations   map[int64]*domain.RestaurantLocation
	lastSync    *time.Time

	importedBatches []*domain.ImportBatch

	snapshotErr error
	importErr   error
	listErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:      1,
		restaurants: make(map[int64]*domain.Restaurant),
		curators:    make(map[int64]*domain.Curator),
		conceptIDs:  make(map[domain.ConceptKey]int64),
		conceptKeys: make(map[int64]domain.ConceptKey),
		links:       make(map[int64]map[int64]struct{}),
		locations:   make(map[int64]*domain.RestaurantLocation),
	}
}

func (f *fakeStore) alloc() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeStore) addRestaurant(r *domain.Restaurant) *domain.Restaurant {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == 0 {
		r.ID = f.alloc()
	} else if r.ID >= f.nextID {
		f.nextID = r.ID + 1
	}
	f.restaurants[r.ID] = r
	return r
}

func (f *fakeStore) addConcept(restaurantID int64, key domain.ConceptKey) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.conceptIDs[key]
	if !ok {
		id = f.alloc()
		f.conceptIDs[key] = id
		f.conceptKeys[id] = key
	}
	if f.links[restaurantID] == nil {
		f.links[restaurantID] = make(map[int64]struct{})
	}
	f.links[restaurantID][id] = struct{}{}
}

func (f *fakeStore) setLocation(restaurantID int64, lat, lon float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locations[restaurantID] = &domain.RestaurantLocation{
		RestaurantID: restaurantID,
		Latitude:     lat,
		Longitude:    lon,
	}
}

func (f *fakeStore) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	snap := &domain.Snapshot{
		Curators:            []*domain.Curator{},
		Concepts:            []*domain.Concept{},
		Restaurants:         []*domain.Restaurant{},
		RestaurantConcepts:  []*domain.RestaurantConcept{},
		RestaurantLocations: []*domain.RestaurantLocation{},
	}
	for _, c := range f.curators {
		snap.Curators = append(snap.Curators, c)
	}
	for id, key := range f.conceptKeys {
		snap.Concepts = append(snap.Concepts, &domain.Concept{ID: id, Category: key.Category, Value: key.Value})
	}
	for _, r := range sortedRestaurants(f.restaurants) {
		snap.Restaurants = append(snap.Restaurants, r)
	}
	for rid, set := range f.links {
		for cid := range set {
			snap.RestaurantConcepts = append(snap.RestaurantConcepts, &domain.RestaurantConcept{RestaurantID: rid, ConceptID: cid})
		}
	}
	for _, loc := range f.locations {
		snap.RestaurantLocations = append(snap.RestaurantLocations, loc)
	}
	return snap, nil
}

func (f *fakeStore) Import(ctx context.Context, batch *domain.ImportBatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.importErr != nil {
		return f.importErr
	}
	f.importedBatches = append(f.importedBatches, batch)
	for _, r := range batch.Restaurants {
		if r.ServerID != nil {
			if existing := f.findByServerIDLocked(*r.ServerID); existing != nil {
				existing.Name = r.Name
				existing.Description = r.Description
				existing.Transcription = r.Transcription
				existing.Timestamp = r.Timestamp
				continue
			}
		}
		copied := *r
		copied.ID = f.alloc()
		f.restaurants[copied.ID] = &copied
	}
	return nil
}

func (f *fakeStore) findByServerIDLocked(serverID string) *domain.Restaurant {
	for _, r := range f.restaurants {
		if r.ServerID != nil && *r.ServerID == serverID {
			return r
		}
	}
	return nil
}

func (f *fakeStore) LastSyncTime(ctx context.Context) (*time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSync, nil
}

func (f *fakeStore) UpdateLastSyncTime(ctx context.Context, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSync = &at
	return nil
}

func (f *fakeStore) MarkMissingRestaurantsAsLocal(ctx context.Context, presentServerIDs []string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	present := make(map[string]struct{}, len(presentServerIDs))
	for _, id := range presentServerIDs {
		present[id] = struct{}{}
	}
	demoted := 0
	for _, r := range f.restaurants {
		if r.ServerID == nil {
			continue
		}
		if _, ok := present[*r.ServerID]; ok {
			continue
		}
		r.ServerID = nil
		r.Source = domain.SourceLocal
		r.Origin = domain.OriginLocal
		demoted++
	}
	return demoted, nil
}

func (f *fakeStore) ListLocalOnly(ctx context.Context) ([]*domain.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Restaurant
	for _, r := range sortedRestaurants(f.restaurants) {
		if r.LocalOnly() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ListRemoteOrigin(ctx context.Context) ([]*domain.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Restaurant
	for _, r := range sortedRestaurants(f.restaurants) {
		if r.RemoteOrigin() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.restaurants[id]
	if !ok {
		return nil, fmt.Errorf("restaurant %d not found", id)
	}
	return r, nil
}

func (f *fakeStore) SaveRestaurant(ctx context.Context, r *domain.Restaurant) error {
	f.addRestaurant(r)
	return nil
}

func (f *fakeStore) DeleteRestaurant(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.restaurants, id)
	delete(f.links, id)
	delete(f.locations, id)
	return nil
}

func (f *fakeStore) ConceptKeysFor(ctx context.Context, restaurantID int64) ([]domain.ConceptKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []domain.ConceptKey
	for cid := range f.links[restaurantID] {
		keys = append(keys, f.conceptKeys[cid])
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Category != keys[j].Category {
			return keys[i].Category < keys[j].Category
		}
		return keys[i].Value < keys[j].Value
	})
	return keys, nil
}

func (f *fakeStore) LocationFor(ctx context.Context, restaurantID int64) (*domain.RestaurantLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.locations[restaurantID], nil
}

func (f *fakeStore) SaveConcept(ctx context.Context, category, value string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := domain.ConceptKey{Category: category, Value: value}
	id, ok := f.conceptIDs[key]
	if !ok {
		id = f.alloc()
		f.conceptIDs[key] = id
		f.conceptKeys[id] = key
	}
	return id, nil
}

func (f *fakeStore) LinkConcept(ctx context.Context, restaurantID, conceptID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.links[restaurantID] == nil {
		f.links[restaurantID] = make(map[int64]struct{})
	}
	if _, ok := f.links[restaurantID][conceptID]; ok {
		return false, nil
	}
	f.links[restaurantID][conceptID] = struct{}{}
	return true, nil
}

func (f *fakeStore) AdoptServerIdentity(ctx context.Context, localID int64, mirror *domain.Restaurant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	local, ok := f.restaurants[localID]
	if !ok {
		return fmt.Errorf("restaurant %d not found", localID)
	}
	delete(f.restaurants, mirror.ID)
	delete(f.links, mirror.ID)
	delete(f.locations, mirror.ID)
	local.ServerID = mirror.ServerID
	local.Source = domain.SourceRemote
	local.Origin = domain.OriginSynced
	return nil
}

func sortedRestaurants(m map[int64]*domain.Restaurant) []*domain.Restaurant {
	out := make([]*domain.Restaurant, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
