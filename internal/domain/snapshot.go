package domain

// Snapshot is a full read of the local store, the unit the sync layer
// converts and filters. Slices may be empty, never nil after a store read.
type Snapshot struct {
	Curators            []*Curator
	Concepts            []*Concept
	Restaurants         []*Restaurant
	RestaurantConcepts  []*RestaurantConcept
	RestaurantLocations []*RestaurantLocation
}

// ImportBatch is the local-format output of converting a remote collection.
// Entities created during conversion carry synthetic negative ids, strictly
// decreasing from -1 within one conversion pass; the store replaces them
// with real ids on commit.
type ImportBatch struct {
	Curators            []*Curator
	Concepts            []*Concept
	Restaurants         []*Restaurant
	RestaurantConcepts  []*RestaurantConcept
	RestaurantLocations []*RestaurantLocation
}
