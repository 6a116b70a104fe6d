package sync

import (
	"testing"
	"time"

	"github.com/palatelog/palatelog-backend/internal/data/repos/testutil"
	"github.com/palatelog/palatelog-backend/internal/domain"
)

func newTestExporter(t *testing.T) *Exporter {
	t.Helper()
	log := testutil.Logger(t)
	return NewExporter(NewConverter(log), log)
}

func exportSnapshot(restaurants ...*domain.Restaurant) *domain.Snapshot {
	return &domain.Snapshot{
		Curators:    []*domain.Curator{{ID: 1, Name: "Dana"}},
		Restaurants: restaurants,
	}
}

func TestPrepareForExportNilLastSyncExportsEverything(t *testing.T) {
	exp := newTestExporter(t)

	snap := exportSnapshot(
		&domain.Restaurant{ID: 1, Name: "Old", CuratorID: 1, Timestamp: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		&domain.Restaurant{ID: 2, Name: "New", CuratorID: 1, Timestamp: time.Now()},
	)
	out := exp.PrepareForExport(snap, nil)
	if len(out) != 2 {
		t.Fatalf("first sync must export everything, got %d of 2", len(out))
	}
}

func TestPrepareForExportFiltersByLastSync(t *testing.T) {
	exp := newTestExporter(t)

	lastSync := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := exportSnapshot(
		&domain.Restaurant{ID: 1, Name: "Stale", CuratorID: 1, Timestamp: time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)},
		&domain.Restaurant{ID: 2, Name: "Boundary", CuratorID: 1, Timestamp: lastSync},
		&domain.Restaurant{ID: 3, Name: "Fresh", CuratorID: 1, Timestamp: time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC)},
	)
	out := exp.PrepareForExport(snap, &lastSync)
	if len(out) != 1 {
		t.Fatalf("expected only the record after lastSync, got %d", len(out))
	}
	if out[0].Name != "Fresh" {
		t.Errorf("wrong record selected: %q", out[0].Name)
	}
}

func TestPrepareForExportZeroTimestampFailsOpen(t *testing.T) {
	exp := newTestExporter(t)

	lastSync := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := exportSnapshot(
		&domain.Restaurant{ID: 1, Name: "No Timestamp", CuratorID: 1},
	)
	out := exp.PrepareForExport(snap, &lastSync)
	if len(out) != 1 {
		t.Fatalf("a record with no usable timestamp must still be exported, got %d", len(out))
	}
}

func TestPrepareForExportEmptyResultIsNotAnError(t *testing.T) {
	exp := newTestExporter(t)

	lastSync := time.Now()
	snap := exportSnapshot(
		&domain.Restaurant{ID: 1, Name: "Synced", CuratorID: 1, Timestamp: lastSync.Add(-time.Hour)},
	)
	out := exp.PrepareForExport(snap, &lastSync)
	if len(out) != 0 {
		t.Fatalf("expected empty export set, got %d", len(out))
	}
	if out == nil {
		t.Fatalf("export set should be empty, not nil")
	}
}
