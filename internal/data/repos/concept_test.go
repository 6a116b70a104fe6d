package repos

import (
	"context"
	"testing"

	"github.com/palatelog/palatelog-backend/internal/data/repos/testutil"
)

func TestConceptRepoFindOrCreate(t *testing.T) {
	db := testutil.DB(t)
	repo := NewConceptRepo(db, testutil.Logger(t))
	ctx := context.Background()

	first, err := repo.FindOrCreate(ctx, nil, "Cuisine", "Italian")
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	again, err := repo.FindOrCreate(ctx, nil, "Cuisine", "Italian")
	if err != nil {
		t.Fatalf("FindOrCreate (again): %v", err)
	}
	if first.ID != again.ID {
		t.Fatalf("FindOrCreate should dedup exact pairs: %d vs %d", first.ID, again.ID)
	}

	// Case matters: "italian" is a different concept than "Italian".
	other, err := repo.FindOrCreate(ctx, nil, "Cuisine", "italian")
	if err != nil {
		t.Fatalf("FindOrCreate (case variant): %v", err)
	}
	if other.ID == first.ID {
		t.Fatalf("concept identity must be case-sensitive")
	}

	missing, err := repo.GetByKey(ctx, nil, "Mood", "Cozy")
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByKey: expected nil for absent concept, got %+v", missing)
	}
}
