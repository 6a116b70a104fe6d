package sync

import (
	"context"
	"encoding/json"
	"time"

	"github.com/palatelog/palatelog-backend/internal/domain"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
	"github.com/palatelog/palatelog-backend/internal/store"
)

// Resolution is the outcome of one reconcile pass.
type Resolution struct {
	UseServer      int
	Merged         int
	MergedConcepts int
	Conflicts      []*domain.ConflictLog
}

// Resolver compares local-only restaurants against remote-origin ones and
// applies one of four strategies per classified pair.
type Resolver struct {
	store store.Store
	log   *logger.Logger
}

func NewResolver(st store.Store, baseLog *logger.Logger) *Resolver {
	return &Resolver{store: st, log: baseLog.With("component", "Resolver")}
}

// Resolve walks every (local, remote) pair. Comparison is pairwise and the
// collections are expected to be small; the related rows for each side are
// fetched once up front. The first classified match for a local restaurant
// is acted on and ends its scan; a pair classified not-duplicate leaves
// the local row untouched. Per-pair failures are logged and skipped so one
// bad row cannot abort the pass.
func (r *Resolver) Resolve(ctx context.Context, localOnly, remoteOrigin []*domain.Restaurant) (*Resolution, error) {
	res := &Resolution{}
	if len(localOnly) == 0 || len(remoteOrigin) == 0 {
		return res, nil
	}

	remoteCtxs := make(map[int64]store.CompareContext, len(remoteOrigin))
	for _, remote := range remoteOrigin {
		cctx, err := r.compareContext(ctx, remote.ID)
		if err != nil {
			return res, err
		}
		remoteCtxs[remote.ID] = cctx
	}

	for _, local := range localOnly {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		localCtx, err := r.compareContext(ctx, local.ID)
		if err != nil {
			r.log.Warn("Skipping local restaurant, related rows unreadable", "restaurant_id", local.ID, "error", err)
			continue
		}

		for _, remote := range remoteOrigin {
			cmp := store.CompareRestaurants(local, remote, localCtx, remoteCtxs[remote.ID])
			if !cmp.IsDuplicate {
				continue
			}

			switch cmp.Strategy {
			case store.StrategyUseServer:
				if err := r.store.AdoptServerIdentity(ctx, local.ID, remote); err != nil {
					r.log.Warn("Failed to adopt server identity", "restaurant_id", local.ID, "error", err)
					continue
				}
				res.UseServer++

			case store.StrategyMergeConcepts:
				added, err := r.mergeConcepts(ctx, local.ID, localCtx.Concepts, remoteCtxs[remote.ID].Concepts)
				if err != nil {
					r.log.Warn("Failed to merge concepts", "restaurant_id", local.ID, "error", err)
					continue
				}
				res.Merged++
				res.MergedConcepts += added

			case store.StrategyManual:
				details, _ := json.Marshal(cmp.Details)
				res.Conflicts = append(res.Conflicts, &domain.ConflictLog{
					LocalRestaurantID:  local.ID,
					RemoteRestaurantID: remote.ID,
					ConflictType:       cmp.ConflictType,
					Details:            details,
					DetectedAt:         time.Now().UTC(),
				})
				r.log.Info("Conflict queued for manual resolution",
					"local_id", local.ID, "remote_id", remote.ID, "type", cmp.ConflictType)
			}
			break
		}
	}

	return res, nil
}

// mergeConcepts writes the union of both concept sets onto the local
// restaurant. Links that already exist are left alone.
func (r *Resolver) mergeConcepts(ctx context.Context, localID int64, localKeys, remoteKeys []domain.ConceptKey) (int, error) {
	have := make(map[domain.ConceptKey]struct{}, len(localKeys))
	for _, k := range localKeys {
		have[k] = struct{}{}
	}

	added := 0
	for _, k := range remoteKeys {
		if _, ok := have[k]; ok {
			continue
		}
		conceptID, err := r.store.SaveConcept(ctx, k.Category, k.Value)
		if err != nil {
			return added, err
		}
		linked, err := r.store.LinkConcept(ctx, localID, conceptID)
		if err != nil {
			return added, err
		}
		if linked {
			added++
		}
	}
	return added, nil
}

func (r *Resolver) compareContext(ctx context.Context, restaurantID int64) (store.CompareContext, error) {
	keys, err := r.store.ConceptKeysFor(ctx, restaurantID)
	if err != nil {
		return store.CompareContext{}, err
	}
	loc, err := r.store.LocationFor(ctx, restaurantID)
	if err != nil {
		return store.CompareContext{}, err
	}
	return store.CompareContext{Concepts: keys, Location: loc}, nil
}
