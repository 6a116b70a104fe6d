package sync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/palatelog/palatelog-backend/internal/domain"
	pkgerrors "github.com/palatelog/palatelog-backend/internal/pkg/errors"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
	"github.com/palatelog/palatelog-backend/internal/store"
)

// CuratorRefresher recomputes curator activity after a sync; the final
// pipeline stage.
type CuratorRefresher interface {
	RefreshActivity(ctx context.Context) (int, error)
}

// StageError records a stage that failed without stopping the pipeline.
type StageError struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Report is the user-facing outcome of one full sync.
type Report struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	Uploaded     int `json:"uploaded"`
	UploadFailed int `json:"upload_failed"`

	Fetched int `json:"fetched"`
	Skipped int `json:"skipped"`
	Demoted int `json:"demoted"`

	UseServer int                   `json:"use_server"`
	Merged    int                   `json:"merged"`
	Conflicts []*domain.ConflictLog `json:"-"`

	CuratorsRefreshed int `json:"curators_refreshed"`

	Errors []StageError `json:"errors,omitempty"`
}

// Degraded reports whether any stage failed.
func (r *Report) Degraded() bool { return len(r.Errors) > 0 }

// Engine orchestrates the four-stage sync pipeline:
//
//	Upload -> Download -> Reconcile -> CuratorRefresh
//
// Stages run strictly in order and are individually fallible; a failed
// stage is recorded and the pipeline moves on, so a partial sync still
// leaves the store valid. The engine serializes whole-sync invocations
// itself: a second caller gets ErrSyncInProgress instead of a racing run.
type Engine struct {
	store    store.Store
	exporter *Exporter
	uploader *BatchUploader
	importer *Importer
	resolver *Resolver
	curators CuratorRefresher
	log      *logger.Logger

	running atomic.Bool

	mu         sync.Mutex
	lastReport *Report
}

func NewEngine(
	st store.Store,
	exporter *Exporter,
	uploader *BatchUploader,
	importer *Importer,
	resolver *Resolver,
	curators CuratorRefresher,
	baseLog *logger.Logger,
) *Engine {
	return &Engine{
		store:    st,
		exporter: exporter,
		uploader: uploader,
		importer: importer,
		resolver: resolver,
		curators: curators,
		log:      baseLog.With("component", "SyncEngine"),
	}
}

// Running reports whether a sync is currently in flight.
func (e *Engine) Running() bool { return e.running.Load() }

// LastReport returns the most recent completed report, or nil.
func (e *Engine) LastReport() *Report {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastReport
}

// SyncWithServer runs the full pipeline and returns its report. The only
// error returned directly is ErrSyncInProgress or a cancelled context;
// stage failures land in the report instead.
func (e *Engine) SyncWithServer(ctx context.Context) (*Report, error) {
	if !e.running.CompareAndSwap(false, true) {
		return nil, pkgerrors.ErrSyncInProgress
	}
	defer e.running.Store(false)

	report := &Report{StartedAt: time.Now()}
	defer func() {
		report.Duration = time.Since(report.StartedAt)
		e.mu.Lock()
		e.lastReport = report
		e.mu.Unlock()
		e.log.Info("Sync finished",
			"duration", report.Duration,
			"uploaded", report.Uploaded,
			"upload_failed", report.UploadFailed,
			"fetched", report.Fetched,
			"demoted", report.Demoted,
			"use_server", report.UseServer,
			"merged", report.Merged,
			"conflicts", len(report.Conflicts),
			"stage_errors", len(report.Errors),
		)
	}()

	e.stageUpload(ctx, report)
	e.stageDownload(ctx, report)
	e.stageReconcile(ctx, report)
	e.stageCuratorRefresh(ctx, report)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (e *Engine) stageUpload(ctx context.Context, report *Report) {
	snap, err := e.store.Snapshot(ctx)
	if err != nil {
		e.failStage(report, "upload", err)
		return
	}
	lastSync, err := e.store.LastSyncTime(ctx)
	if err != nil {
		e.failStage(report, "upload", err)
		return
	}

	outgoing := e.exporter.PrepareForExport(snap, lastSync)
	if len(outgoing) == 0 {
		e.log.Info("Nothing to upload, already in sync")
		return
	}

	result := e.uploader.Upload(ctx, outgoing)
	report.Uploaded = result.SuccessCount
	report.UploadFailed = result.FailedCount

	if result.SuccessCount > 0 {
		if err := e.store.UpdateLastSyncTime(ctx, time.Now().UTC()); err != nil {
			e.failStage(report, "upload", err)
		}
	}
	if result.FailedCount > 0 {
		e.log.Warn("Some batches failed to upload", "failed", result.FailedCount, "uploaded", result.SuccessCount)
	}
}

func (e *Engine) stageDownload(ctx context.Context, report *Report) {
	imp, err := e.importer.ImportFromRemote(ctx)
	report.Fetched = imp.Fetched
	report.Skipped = imp.Skipped
	report.Demoted = imp.Demoted
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNoRemoteData) {
			e.log.Warn("Server returned no restaurants, skipping import")
		}
		e.failStage(report, "download", err)
	}
}

func (e *Engine) stageReconcile(ctx context.Context, report *Report) {
	localOnly, err := e.store.ListLocalOnly(ctx)
	if err != nil {
		e.failStage(report, "reconcile", err)
		return
	}
	remoteOrigin, err := e.store.ListRemoteOrigin(ctx)
	if err != nil {
		e.failStage(report, "reconcile", err)
		return
	}

	res, err := e.resolver.Resolve(ctx, localOnly, remoteOrigin)
	if res != nil {
		report.UseServer = res.UseServer
		report.Merged = res.Merged
		report.Conflicts = res.Conflicts
	}
	if err != nil {
		e.failStage(report, "reconcile", err)
	}
}

func (e *Engine) stageCuratorRefresh(ctx context.Context, report *Report) {
	if e.curators == nil {
		return
	}
	n, err := e.curators.RefreshActivity(ctx)
	if err != nil {
		e.failStage(report, "curator-refresh", err)
		return
	}
	report.CuratorsRefreshed = n
}

func (e *Engine) failStage(report *Report, stage string, err error) {
	e.log.Error("Sync stage failed", "stage", stage, "error", err)
	report.Errors = append(report.Errors, StageError{Stage: stage, Message: err.Error()})
}
