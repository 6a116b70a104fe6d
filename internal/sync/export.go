package sync

import (
	"time"

	"github.com/palatelog/palatelog-backend/internal/domain"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

// Exporter selects the restaurants changed since the last sync and shapes
// them for upload.
type Exporter struct {
	converter *Converter
	log       *logger.Logger
}

func NewExporter(converter *Converter, baseLog *logger.Logger) *Exporter {
	return &Exporter{
		converter: converter,
		log:       baseLog.With("component", "Exporter"),
	}
}

// PrepareForExport filters the snapshot down to restaurants modified after
// lastSync and delegates shaping to the converter. An empty result means
// the store is already in sync, not an error. A nil lastSync, or a
// restaurant with no usable timestamp, fails open: everything is exported
// rather than silently dropped.
func (e *Exporter) PrepareForExport(snap *domain.Snapshot, lastSync *time.Time) []RemoteRestaurant {
	if snap == nil {
		return []RemoteRestaurant{}
	}

	filtered := make([]*domain.Restaurant, 0, len(snap.Restaurants))
	for _, r := range snap.Restaurants {
		if shouldExport(r, lastSync) {
			filtered = append(filtered, r)
		}
	}
	e.log.Debug("Prepared export set", "candidates", len(snap.Restaurants), "selected", len(filtered))

	subset := &domain.Snapshot{
		Curators:            snap.Curators,
		Concepts:            snap.Concepts,
		Restaurants:         filtered,
		RestaurantConcepts:  snap.RestaurantConcepts,
		RestaurantLocations: snap.RestaurantLocations,
	}
	return e.converter.ToRemote(subset)
}

func shouldExport(r *domain.Restaurant, lastSync *time.Time) bool {
	if lastSync == nil {
		return true
	}
	if r.Timestamp.IsZero() {
		return true
	}
	return r.Timestamp.After(*lastSync)
}
