package sync

import (
	"math"
	"strings"
	"time"

	"github.com/palatelog/palatelog-backend/internal/domain"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

// Converter maps between the local normalized schema and the remote wire
// format in both directions.
type Converter struct {
	log *logger.Logger
}

func NewConverter(baseLog *logger.Logger) *Converter {
	return &Converter{log: baseLog.With("component", "Converter")}
}

// ToRemote shapes every restaurant in the snapshot for the wire. Lookup
// indices are built once per call, so the pass stays linear in the
// snapshot size. Optional fields are attached only when they carry data.
func (c *Converter) ToRemote(snap *domain.Snapshot) []RemoteRestaurant {
	if snap == nil {
		return []RemoteRestaurant{}
	}

	curatorsByID := make(map[int64]*domain.Curator, len(snap.Curators))
	for _, cur := range snap.Curators {
		curatorsByID[cur.ID] = cur
	}
	conceptsByID := make(map[int64]*domain.Concept, len(snap.Concepts))
	for _, con := range snap.Concepts {
		conceptsByID[con.ID] = con
	}
	conceptsByRestaurant := make(map[int64][]*domain.Concept)
	for _, link := range snap.RestaurantConcepts {
		if con, ok := conceptsByID[link.ConceptID]; ok {
			conceptsByRestaurant[link.RestaurantID] = append(conceptsByRestaurant[link.RestaurantID], con)
		}
	}
	locationByRestaurant := make(map[int64]*domain.RestaurantLocation, len(snap.RestaurantLocations))
	for _, loc := range snap.RestaurantLocations {
		locationByRestaurant[loc.RestaurantID] = loc
	}

	out := make([]RemoteRestaurant, 0, len(snap.Restaurants))
	for _, r := range snap.Restaurants {
		curatorName := "Unknown Curator"
		if cur, ok := curatorsByID[r.CuratorID]; ok && strings.TrimSpace(cur.Name) != "" {
			curatorName = cur.Name
		}

		wire := RemoteRestaurant{
			Name:    r.Name,
			Curator: RemoteCurator{Name: curatorName},
		}
		wire.Timestamp = FormatWireTimestamp(r.Timestamp)
		if strings.TrimSpace(r.Description) != "" {
			wire.Description = r.Description
		}
		if strings.TrimSpace(r.Transcription) != "" {
			wire.Transcription = r.Transcription
		}
		if r.SharedRestaurantID != nil && strings.TrimSpace(*r.SharedRestaurantID) != "" {
			wire.SharedRestaurantID = *r.SharedRestaurantID
		}
		if r.OriginalCuratorID != nil && strings.TrimSpace(*r.OriginalCuratorID) != "" {
			wire.OriginalCuratorID = *r.OriginalCuratorID
		}

		for _, con := range conceptsByRestaurant[r.ID] {
			if strings.TrimSpace(con.Category) == "" || strings.TrimSpace(con.Value) == "" {
				continue
			}
			wire.Concepts = append(wire.Concepts, RemoteConcept{
				Category: con.Category,
				Value:    con.Value,
			})
		}

		if loc, ok := locationByRestaurant[r.ID]; ok && finite(loc.Latitude) && finite(loc.Longitude) {
			wireLoc := &RemoteLocation{Latitude: loc.Latitude, Longitude: loc.Longitude}
			if strings.TrimSpace(loc.Address) != "" {
				wireLoc.Address = loc.Address
			}
			wire.Location = wireLoc
		}

		out = append(out, wire)
	}
	return out
}

// ToLocal converts a remote collection into an import batch. Entities
// created here get synthetic negative ids, strictly decreasing from -1
// within this pass; the store assigns real ids on commit. Records without
// a name are skipped, never fatal; the skipped count is returned for
// partial-success reporting.
func (c *Converter) ToLocal(remote []RemoteRestaurant) (*domain.ImportBatch, int) {
	batch := &domain.ImportBatch{}
	skipped := 0

	nextID := int64(-1)
	alloc := func() int64 {
		id := nextID
		nextID--
		return id
	}

	curatorsByName := make(map[string]*domain.Curator)
	conceptsByKey := make(map[domain.ConceptKey]*domain.Concept)

	for _, rr := range remote {
		if strings.TrimSpace(rr.Name) == "" {
			c.log.Warn("Skipping remote restaurant without a name", "server_id", rr.ID)
			skipped++
			continue
		}

		timestamp := ParseWireTimestamp(rr.Timestamp)

		curatorName := rr.Curator.Name
		if strings.TrimSpace(curatorName) == "" {
			curatorName = "Unknown Curator"
		}
		curator, ok := curatorsByName[curatorName]
		if !ok {
			curator = &domain.Curator{ID: alloc(), Name: curatorName, LastActive: timestamp}
			curatorsByName[curatorName] = curator
			batch.Curators = append(batch.Curators, curator)
		} else if timestamp.After(curator.LastActive) {
			curator.LastActive = timestamp
		}

		restaurant := &domain.Restaurant{
			ID:            alloc(),
			Name:          rr.Name,
			CuratorID:     curator.ID,
			Timestamp:     timestamp,
			Description:   rr.Description,
			Transcription: rr.Transcription,
		}
		if rr.ID != "" {
			serverID := rr.ID
			restaurant.ServerID = &serverID
			restaurant.Source = domain.SourceRemote
			restaurant.Origin = domain.OriginSynced
		} else {
			// A record the server cannot identify is kept, but as local
			// data; the source invariant requires a server id for remote.
			restaurant.Source = domain.SourceLocal
			restaurant.Origin = domain.OriginLocal
		}
		if rr.SharedRestaurantID != "" {
			shared := rr.SharedRestaurantID
			restaurant.SharedRestaurantID = &shared
		}
		if rr.OriginalCuratorID != "" {
			orig := rr.OriginalCuratorID
			restaurant.OriginalCuratorID = &orig
		}
		batch.Restaurants = append(batch.Restaurants, restaurant)

		seen := make(map[domain.ConceptKey]struct{}, len(rr.Concepts))
		for _, rc := range rr.Concepts {
			if strings.TrimSpace(rc.Category) == "" || strings.TrimSpace(rc.Value) == "" {
				continue
			}
			key := domain.ConceptKey{Category: rc.Category, Value: rc.Value}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			concept, ok := conceptsByKey[key]
			if !ok {
				concept = &domain.Concept{
					ID:        alloc(),
					Category:  rc.Category,
					Value:     rc.Value,
					Timestamp: time.Now().UTC(),
				}
				conceptsByKey[key] = concept
				batch.Concepts = append(batch.Concepts, concept)
			}
			batch.RestaurantConcepts = append(batch.RestaurantConcepts, &domain.RestaurantConcept{
				RestaurantID: restaurant.ID,
				ConceptID:    concept.ID,
			})
		}

		if rr.Location != nil && finite(rr.Location.Latitude) && finite(rr.Location.Longitude) {
			batch.RestaurantLocations = append(batch.RestaurantLocations, &domain.RestaurantLocation{
				RestaurantID: restaurant.ID,
				Latitude:     rr.Location.Latitude,
				Longitude:    rr.Location.Longitude,
				Address:      rr.Location.Address,
			})
		}
	}

	return batch, skipped
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
