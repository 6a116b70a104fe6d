package store

import (
	"testing"

	"github.com/palatelog/palatelog-backend/internal/domain"
)

func keys(pairs ...[2]string) []domain.ConceptKey {
	out := make([]domain.ConceptKey, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, domain.ConceptKey{Category: p[0], Value: p[1]})
	}
	return out
}

func loc(lat, lon float64) *domain.RestaurantLocation {
	return &domain.RestaurantLocation{Latitude: lat, Longitude: lon}
}

func TestCompareRestaurantsIdentical(t *testing.T) {
	a := &domain.Restaurant{Name: "Cafe Lumiere", Description: "small plates"}
	b := &domain.Restaurant{Name: "CAFE  LUMIERE", Description: "Small Plates"}
	ctx := CompareContext{Concepts: keys([2]string{"Mood", "Quiet"})}

	cmp := CompareRestaurants(a, b, ctx, ctx)
	if !cmp.IsDuplicate {
		t.Fatalf("expected duplicate, got %+v", cmp)
	}
	if cmp.Strategy != StrategyUseServer || cmp.ConflictType != ConflictTypeIdentical {
		t.Errorf("identical pair classified as %s/%s", cmp.ConflictType, cmp.Strategy)
	}
}

func TestCompareRestaurantsConceptMismatch(t *testing.T) {
	a := &domain.Restaurant{Name: "Cafe X"}
	b := &domain.Restaurant{Name: "Cafe X"}
	actx := CompareContext{Concepts: keys([2]string{"Cuisine", "Italian"})}
	bctx := CompareContext{Concepts: keys([2]string{"Cuisine", "Italian"}, [2]string{"Mood", "Cozy"})}

	cmp := CompareRestaurants(a, b, actx, bctx)
	if !cmp.IsDuplicate || cmp.Strategy != StrategyMergeConcepts {
		t.Fatalf("expected merge-concepts, got %+v", cmp)
	}
}

func TestCompareRestaurantsConceptKeysAreCaseSensitive(t *testing.T) {
	a := &domain.Restaurant{Name: "Cafe X"}
	b := &domain.Restaurant{Name: "Cafe X"}
	actx := CompareContext{Concepts: keys([2]string{"Cuisine", "italian"})}
	bctx := CompareContext{Concepts: keys([2]string{"Cuisine", "Italian"})}

	cmp := CompareRestaurants(a, b, actx, bctx)
	if cmp.Strategy != StrategyMergeConcepts {
		t.Fatalf("differently-cased concept values are distinct, got %+v", cmp)
	}
}

func TestCompareRestaurantsCoreFieldMismatch(t *testing.T) {
	a := &domain.Restaurant{Name: "Divided Diner", Description: "best burgers"}
	b := &domain.Restaurant{Name: "Divided Diner", Description: "closed mondays"}

	cmp := CompareRestaurants(a, b, CompareContext{}, CompareContext{})
	if !cmp.IsDuplicate || cmp.Strategy != StrategyManual {
		t.Fatalf("expected manual resolution, got %+v", cmp)
	}
	if cmp.ConflictType != ConflictTypeCoreFields {
		t.Errorf("conflict type = %q", cmp.ConflictType)
	}
	if cmp.Details["local_description"] != "best burgers" {
		t.Errorf("details should carry both descriptions: %v", cmp.Details)
	}
}

func TestCompareRestaurantsCoreFieldsBeatConcepts(t *testing.T) {
	// When both core fields and concepts differ, the pair needs a human;
	// merging concepts would paper over the real disagreement.
	a := &domain.Restaurant{Name: "Cafe X", Description: "one thing"}
	b := &domain.Restaurant{Name: "Cafe X", Description: "another thing"}
	actx := CompareContext{Concepts: keys([2]string{"Cuisine", "Italian"})}
	bctx := CompareContext{Concepts: keys([2]string{"Mood", "Cozy"})}

	cmp := CompareRestaurants(a, b, actx, bctx)
	if cmp.Strategy != StrategyManual {
		t.Fatalf("expected manual, got %+v", cmp)
	}
}

func TestCompareRestaurantsNameMismatch(t *testing.T) {
	a := &domain.Restaurant{Name: "Noodle Bar"}
	b := &domain.Restaurant{Name: "Taqueria"}

	cmp := CompareRestaurants(a, b, CompareContext{}, CompareContext{})
	if cmp.IsDuplicate {
		t.Fatalf("different names must not match, got %+v", cmp)
	}
	if cmp.Strategy != StrategyUseLocal || cmp.ConflictType != ConflictTypeNotDuplicate {
		t.Errorf("not-duplicate pair classified as %s/%s", cmp.ConflictType, cmp.Strategy)
	}
}

func TestCompareRestaurantsGeoProximity(t *testing.T) {
	a := &domain.Restaurant{Name: "Corner Cafe"}
	b := &domain.Restaurant{Name: "Corner Cafe"}

	// Roughly 100m apart in latitude.
	near := CompareRestaurants(a, b,
		CompareContext{Location: loc(52.5200, 13.4050)},
		CompareContext{Location: loc(52.5209, 13.4050)},
	)
	if !near.IsDuplicate {
		t.Errorf("locations ~100m apart should still match, got %+v", near)
	}

	// Berlin vs Munich.
	far := CompareRestaurants(a, b,
		CompareContext{Location: loc(52.5200, 13.4050)},
		CompareContext{Location: loc(48.1370, 11.5750)},
	)
	if far.IsDuplicate {
		t.Errorf("distant locations must not match, got %+v", far)
	}
}

func TestCompareRestaurantsOneSidedLocationDoesNotBlock(t *testing.T) {
	a := &domain.Restaurant{Name: "Corner Cafe"}
	b := &domain.Restaurant{Name: "Corner Cafe"}

	cmp := CompareRestaurants(a, b,
		CompareContext{Location: loc(52.52, 13.405)},
		CompareContext{},
	)
	if !cmp.IsDuplicate {
		t.Fatalf("a location on only one side must not block identity, got %+v", cmp)
	}
}
