package store

import (
	"math"

	"github.com/palatelog/palatelog-backend/internal/domain"
	"github.com/palatelog/palatelog-backend/internal/normalization"
)

// MergeStrategy is the action a comparison recommends.
type MergeStrategy string

const (
	StrategyUseServer     MergeStrategy = "use-server"
	StrategyMergeConcepts MergeStrategy = "merge-concepts"
	StrategyManual        MergeStrategy = "manual"
	StrategyUseLocal      MergeStrategy = "use-local"
)

const (
	ConflictTypeIdentical    = "identical"
	ConflictTypeConcepts     = "concept-mismatch"
	ConflictTypeCoreFields   = "core-field-mismatch"
	ConflictTypeNotDuplicate = "not-duplicate"
)

// geoProximityMeters is how close two located restaurants must be to count
// as the same place.
const geoProximityMeters = 150.0

// CompareContext carries the related rows a bare Restaurant does not hold.
type CompareContext struct {
	Concepts []domain.ConceptKey
	Location *domain.RestaurantLocation
}

// Comparison classifies a restaurant pair and names the merge strategy.
// Exactly one strategy applies to any pair.
type Comparison struct {
	IsDuplicate  bool
	ConflictType string
	Strategy     MergeStrategy
	Details      map[string]string
}

// CompareRestaurants decides whether a and b describe the same restaurant
// and, if so, how to merge them:
//
//   - same identity, same concepts, same core fields  -> use-server
//   - same identity, differing concept sets           -> merge-concepts
//   - same identity, differing core fields            -> manual
//   - different identity                              -> use-local (no-op)
//
// Identity is normalized-name equality; when both sides carry a location
// the two must also be within geoProximityMeters. A location on only one
// side does not block identity.
func CompareRestaurants(a, b *domain.Restaurant, actx, bctx CompareContext) Comparison {
	if normalization.Name(a.Name) != normalization.Name(b.Name) {
		return notDuplicate("name mismatch")
	}
	if actx.Location != nil && bctx.Location != nil {
		dist := haversineMeters(
			actx.Location.Latitude, actx.Location.Longitude,
			bctx.Location.Latitude, bctx.Location.Longitude,
		)
		if dist > geoProximityMeters {
			return notDuplicate("same name but distant locations")
		}
	}

	coreMatch := normalization.Field(a.Description) == normalization.Field(b.Description) &&
		normalization.Field(a.Transcription) == normalization.Field(b.Transcription)
	if !coreMatch {
		return Comparison{
			IsDuplicate:  true,
			ConflictType: ConflictTypeCoreFields,
			Strategy:     StrategyManual,
			Details: map[string]string{
				"local_description":  a.Description,
				"remote_description": b.Description,
			},
		}
	}

	if !sameConceptSet(actx.Concepts, bctx.Concepts) {
		return Comparison{
			IsDuplicate:  true,
			ConflictType: ConflictTypeConcepts,
			Strategy:     StrategyMergeConcepts,
		}
	}

	return Comparison{
		IsDuplicate:  true,
		ConflictType: ConflictTypeIdentical,
		Strategy:     StrategyUseServer,
	}
}

func notDuplicate(reason string) Comparison {
	return Comparison{
		IsDuplicate:  false,
		ConflictType: ConflictTypeNotDuplicate,
		Strategy:     StrategyUseLocal,
		Details:      map[string]string{"reason": reason},
	}
}

func sameConceptSet(a, b []domain.ConceptKey) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[domain.ConceptKey]struct{}, len(a))
	for _, k := range a {
		set[k] = struct{}{}
	}
	for _, k := range b {
		if _, ok := set[k]; !ok {
			return false
		}
	}
	return true
}

const earthRadiusMeters = 6371000.0

func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
