package store

import (
	"context"
	"testing"
	"time"

	"github.com/palatelog/palatelog-backend/internal/data/repos"
	"github.com/palatelog/palatelog-backend/internal/data/repos/testutil"
	"github.com/palatelog/palatelog-backend/internal/domain"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return New(
		db,
		log,
		repos.NewCuratorRepo(db, log),
		repos.NewConceptRepo(db, log),
		repos.NewRestaurantRepo(db, log),
		repos.NewRestaurantConceptRepo(db, log),
		repos.NewRestaurantLocationRepo(db, log),
		repos.NewSyncStateRepo(db, log),
	)
}

func sampleBatch(serverID string) *domain.ImportBatch {
	return &domain.ImportBatch{
		Curators: []*domain.Curator{
			{ID: -1, Name: "Dana", LastActive: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		},
		Concepts: []*domain.Concept{
			{ID: -3, Category: "Cuisine", Value: "Italian"},
		},
		Restaurants: []*domain.Restaurant{{
			ID:          -2,
			Name:        "Imported Trattoria",
			CuratorID:   -1,
			Timestamp:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			Description: "from the server",
			ServerID:    &serverID,
			Source:      domain.SourceRemote,
			Origin:      domain.OriginSynced,
		}},
		RestaurantConcepts: []*domain.RestaurantConcept{
			{RestaurantID: -2, ConceptID: -3},
		},
		RestaurantLocations: []*domain.RestaurantLocation{
			{RestaurantID: -2, Latitude: 41.9, Longitude: 12.5, Address: "Rome"},
		},
	}
}

func TestImportRemapsSyntheticIDs(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.Import(ctx, sampleBatch("srv-1")); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	snap, err := st.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if len(snap.Restaurants) != 1 {
		t.Fatalf("expected 1 restaurant, got %d", len(snap.Restaurants))
	}
	r := snap.Restaurants[0]
	if r.ID <= 0 {
		t.Errorf("synthetic id must be replaced, got %d", r.ID)
	}
	if r.CuratorID <= 0 {
		t.Errorf("curator id must be remapped, got %d", r.CuratorID)
	}
	if r.ServerID == nil || *r.ServerID != "srv-1" {
		t.Errorf("server id lost: %+v", r.ServerID)
	}

	keys, err := st.ConceptKeysFor(ctx, r.ID)
	if err != nil {
		t.Fatalf("concept keys: %v", err)
	}
	if len(keys) != 1 || keys[0].Value != "Italian" {
		t.Errorf("concept link not remapped: %v", keys)
	}

	loc, err := st.LocationFor(ctx, r.ID)
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	if loc == nil || loc.Address != "Rome" {
		t.Errorf("location not remapped: %+v", loc)
	}
}

func TestImportIsIdempotentByServerID(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.Import(ctx, sampleBatch("srv-1")); err != nil {
		t.Fatalf("first import failed: %v", err)
	}

	second := sampleBatch("srv-1")
	second.Restaurants[0].Description = "updated on the server"
	if err := st.Import(ctx, second); err != nil {
		t.Fatalf("second import failed: %v", err)
	}

	snap, err := st.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if len(snap.Restaurants) != 1 {
		t.Fatalf("re-import must upsert, got %d rows", len(snap.Restaurants))
	}
	if snap.Restaurants[0].Description != "updated on the server" {
		t.Errorf("re-import did not refresh fields: %q", snap.Restaurants[0].Description)
	}
	if len(snap.Curators) != 1 {
		t.Errorf("curator duplicated on re-import: %d rows", len(snap.Curators))
	}
	if len(snap.Concepts) != 1 {
		t.Errorf("concept duplicated on re-import: %d rows", len(snap.Concepts))
	}
	if len(snap.RestaurantConcepts) != 1 {
		t.Errorf("concept link duplicated on re-import: %d rows", len(snap.RestaurantConcepts))
	}
}

func TestMarkMissingRestaurantsAsLocal(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.Import(ctx, sampleBatch("srv-keep")); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if err := st.Import(ctx, sampleBatch("srv-gone")); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	demoted, err := st.MarkMissingRestaurantsAsLocal(ctx, []string{"srv-keep"})
	if err != nil {
		t.Fatalf("demotion failed: %v", err)
	}
	if demoted != 1 {
		t.Fatalf("expected 1 demotion, got %d", demoted)
	}

	remote, err := st.ListRemoteOrigin(ctx)
	if err != nil {
		t.Fatalf("list remote-origin: %v", err)
	}
	if len(remote) != 1 || *remote[0].ServerID != "srv-keep" {
		t.Errorf("wrong row survived as remote: %+v", remote)
	}

	local, err := st.ListLocalOnly(ctx)
	if err != nil {
		t.Fatalf("list local-only: %v", err)
	}
	if len(local) != 1 || local[0].Name != "Imported Trattoria" {
		t.Errorf("demoted row should now be local-only: %+v", local)
	}
}

func TestAdoptServerIdentity(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	local := &domain.Restaurant{
		Name:   "Cafe Lumiere",
		Source: domain.SourceLocal,
		Origin: domain.OriginLocal,
	}
	if err := st.SaveRestaurant(ctx, local); err != nil {
		t.Fatalf("save local: %v", err)
	}

	if err := st.Import(ctx, sampleBatch("srv-7")); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	remote, err := st.ListRemoteOrigin(ctx)
	if err != nil || len(remote) != 1 {
		t.Fatalf("expected one remote row, got %v (%v)", remote, err)
	}
	mirror := remote[0]

	if err := st.AdoptServerIdentity(ctx, local.ID, mirror); err != nil {
		t.Fatalf("adopt failed: %v", err)
	}

	adopted, err := st.GetRestaurant(ctx, local.ID)
	if err != nil {
		t.Fatalf("get adopted: %v", err)
	}
	if adopted.ServerID == nil || *adopted.ServerID != "srv-7" {
		t.Errorf("server id not transferred: %+v", adopted.ServerID)
	}
	if adopted.Source != domain.SourceRemote || adopted.Origin != domain.OriginSynced {
		t.Errorf("adopted row got source=%s origin=%s", adopted.Source, adopted.Origin)
	}

	snap, err := st.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Restaurants) != 1 {
		t.Errorf("mirror row should be gone, got %d rows", len(snap.Restaurants))
	}
	if loc, _ := st.LocationFor(ctx, mirror.ID); loc != nil {
		t.Errorf("mirror location should be gone: %+v", loc)
	}
}

func TestLastSyncTimeRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	got, err := st.LastSyncTime(ctx)
	if err != nil {
		t.Fatalf("read last sync: %v", err)
	}
	if got != nil {
		t.Fatalf("fresh store should have no last-sync time, got %v", got)
	}

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := st.UpdateLastSyncTime(ctx, at); err != nil {
		t.Fatalf("update last sync: %v", err)
	}
	got, err = st.LastSyncTime(ctx)
	if err != nil {
		t.Fatalf("re-read last sync: %v", err)
	}
	if got == nil || !got.Equal(at) {
		t.Errorf("last sync = %v, want %v", got, at)
	}
}
