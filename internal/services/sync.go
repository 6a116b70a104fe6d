package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/palatelog/palatelog-backend/internal/data/repos"
	"github.com/palatelog/palatelog-backend/internal/domain"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
	syncengine "github.com/palatelog/palatelog-backend/internal/sync"
)

// SyncStatus is the externally visible state of the sync subsystem.
type SyncStatus struct {
	Syncing bool            `json:"syncing"`
	LastRun *domain.SyncRun `json:"last_run,omitempty"`
}

type SyncService interface {
	// Sync runs the full pipeline and persists the run record. A call
	// while another sync is in flight returns ErrSyncInProgress.
	Sync(ctx context.Context) (*domain.SyncRun, error)

	Status(ctx context.Context) (*SyncStatus, error)
	ListRuns(ctx context.Context, limit int) ([]*domain.SyncRun, error)
	ListConflicts(ctx context.Context) ([]*domain.ConflictLog, error)
	ResolveConflict(ctx context.Context, id int64) error
}

type syncService struct {
	db  *gorm.DB
	log *logger.Logger

	engine    *syncengine.Engine
	runs      repos.SyncRunRepo
	conflicts repos.ConflictLogRepo
}

func NewSyncService(
	db *gorm.DB,
	baseLog *logger.Logger,
	engine *syncengine.Engine,
	runs repos.SyncRunRepo,
	conflicts repos.ConflictLogRepo,
) SyncService {
	return &syncService{
		db:        db,
		log:       baseLog.With("service", "SyncService"),
		engine:    engine,
		runs:      runs,
		conflicts: conflicts,
	}
}

func (ss *syncService) Sync(ctx context.Context) (*domain.SyncRun, error) {
	run := &domain.SyncRun{
		ID:        uuid.New(),
		Status:    domain.SyncRunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := ss.runs.Create(ctx, nil, run); err != nil {
		return nil, fmt.Errorf("create sync run: %w", err)
	}

	report, err := ss.engine.SyncWithServer(ctx)
	if err != nil {
		// The guard rejected the call or the context died; no report to
		// record beyond the failure itself.
		finished := time.Now().UTC()
		run.Status = domain.SyncRunStatusDegraded
		run.FinishedAt = &finished
		run.StageErrors, _ = json.Marshal([]string{err.Error()})
		if saveErr := ss.runs.Save(ctx, nil, run); saveErr != nil {
			ss.log.Error("Failed to save aborted sync run", "sync_run_id", run.ID, "error", saveErr)
		}
		return nil, err
	}

	finished := time.Now().UTC()
	run.FinishedAt = &finished
	run.Uploaded = report.Uploaded
	run.UploadFailed = report.UploadFailed
	run.Imported = report.Fetched - report.Skipped
	run.Demoted = report.Demoted
	run.Merged = report.Merged
	run.Conflicts = len(report.Conflicts)

	if report.Degraded() {
		run.Status = domain.SyncRunStatusDegraded
		run.StageErrors, _ = json.Marshal(report.Errors)
	} else {
		run.Status = domain.SyncRunStatusCompleted
	}

	if len(report.Conflicts) > 0 {
		for _, c := range report.Conflicts {
			c.SyncRunID = run.ID
		}
		if _, err := ss.conflicts.Create(ctx, nil, report.Conflicts); err != nil {
			ss.log.Error("Failed to persist conflict logs", "sync_run_id", run.ID, "error", err)
		}
	}

	if err := ss.runs.Save(ctx, nil, run); err != nil {
		return nil, fmt.Errorf("save sync run: %w", err)
	}
	return run, nil
}

func (ss *syncService) Status(ctx context.Context) (*SyncStatus, error) {
	status := &SyncStatus{Syncing: ss.engine.Running()}
	recent, err := ss.runs.ListRecent(ctx, nil, 1)
	if err != nil {
		return nil, err
	}
	if len(recent) > 0 {
		status.LastRun = recent[0]
	}
	return status, nil
}

func (ss *syncService) ListRuns(ctx context.Context, limit int) ([]*domain.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	return ss.runs.ListRecent(ctx, nil, limit)
}

func (ss *syncService) ListConflicts(ctx context.Context) ([]*domain.ConflictLog, error) {
	return ss.conflicts.ListUnresolved(ctx, nil)
}

func (ss *syncService) ResolveConflict(ctx context.Context, id int64) error {
	return ss.conflicts.MarkResolved(ctx, nil, id)
}
