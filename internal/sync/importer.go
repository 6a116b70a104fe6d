package sync

import (
	"context"
	"fmt"

	pkgerrors "github.com/palatelog/palatelog-backend/internal/pkg/errors"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
	"github.com/palatelog/palatelog-backend/internal/store"
)

// FetchClient pulls the full remote collection. Implemented by the remote
// HTTP client.
type FetchClient interface {
	FetchRestaurants(ctx context.Context) ([]RemoteRestaurant, error)
}

// ImportReport summarizes one pull from the server.
type ImportReport struct {
	Fetched int
	Skipped int
	Demoted int
}

// Importer pulls the remote collection, converts it to local format, and
// commits it through the store.
type Importer struct {
	client    FetchClient
	converter *Converter
	store     store.Store
	log       *logger.Logger
}

func NewImporter(client FetchClient, converter *Converter, st store.Store, baseLog *logger.Logger) *Importer {
	return &Importer{
		client:    client,
		converter: converter,
		store:     st,
		log:       baseLog.With("component", "Importer"),
	}
}

// ImportFromRemote fetches everything the server has in one request, fails
// fast on an empty or missing collection, imports the converted batch, and
// then demotes local rows whose server id no longer exists remotely. The
// demotion preserves the data as if newly local; nothing is deleted.
func (im *Importer) ImportFromRemote(ctx context.Context) (ImportReport, error) {
	report := ImportReport{}

	remote, err := im.client.FetchRestaurants(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch remote restaurants: %w", err)
	}
	if len(remote) == 0 {
		im.log.Warn("Remote collection is empty, nothing to import")
		return report, pkgerrors.ErrNoRemoteData
	}
	report.Fetched = len(remote)

	batch, skipped := im.converter.ToLocal(remote)
	report.Skipped = skipped
	if skipped > 0 {
		im.log.Warn("Some remote records were malformed and skipped", "skipped", skipped, "fetched", len(remote))
	}

	if err := im.store.Import(ctx, batch); err != nil {
		return report, fmt.Errorf("import converted batch: %w", err)
	}

	presentServerIDs := make([]string, 0, len(remote))
	for _, rr := range remote {
		if rr.ID != "" {
			presentServerIDs = append(presentServerIDs, rr.ID)
		}
	}
	demoted, err := im.store.MarkMissingRestaurantsAsLocal(ctx, presentServerIDs)
	if err != nil {
		return report, fmt.Errorf("reconcile missing restaurants: %w", err)
	}
	report.Demoted = demoted
	if demoted > 0 {
		im.log.Info("Demoted restaurants missing from server", "count", demoted)
	}

	return report, nil
}
