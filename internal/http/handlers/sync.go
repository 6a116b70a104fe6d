package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/palatelog/palatelog-backend/internal/http/response"
	pkgerrors "github.com/palatelog/palatelog-backend/internal/pkg/errors"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
	"github.com/palatelog/palatelog-backend/internal/services"
)

type SyncHandler struct {
	log  *logger.Logger
	sync services.SyncService
}

func NewSyncHandler(log *logger.Logger, sync services.SyncService) *SyncHandler {
	return &SyncHandler{
		log:  log.With("handler", "SyncHandler"),
		sync: sync,
	}
}

// POST /api/sync
func (h *SyncHandler) Trigger(c *gin.Context) {
	run, err := h.sync.Sync(c.Request.Context())
	if err != nil {
		if errors.Is(err, pkgerrors.ErrSyncInProgress) {
			response.RespondError(c, http.StatusConflict, "sync_in_progress", err)
			return
		}
		h.log.Error("Sync failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "sync_failed", err)
		return
	}
	response.RespondOK(c, run)
}

// GET /api/sync/status
func (h *SyncHandler) Status(c *gin.Context) {
	status, err := h.sync.Status(c.Request.Context())
	if err != nil {
		h.log.Error("Status failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "sync_status_failed", err)
		return
	}
	response.RespondOK(c, status)
}

// GET /api/sync/runs
func (h *SyncHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := h.sync.ListRuns(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("ListRuns failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "list_sync_runs_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"runs": runs})
}

// GET /api/sync/conflicts
func (h *SyncHandler) ListConflicts(c *gin.Context) {
	conflicts, err := h.sync.ListConflicts(c.Request.Context())
	if err != nil {
		h.log.Error("ListConflicts failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "list_conflicts_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"conflicts": conflicts})
}

// POST /api/sync/conflicts/:id/resolve
func (h *SyncHandler) ResolveConflict(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_conflict_id", err)
		return
	}
	if err := h.sync.ResolveConflict(c.Request.Context(), id); err != nil {
		h.log.Error("ResolveConflict failed", "error", err, "conflict_id", id)
		response.RespondError(c, http.StatusInternalServerError, "resolve_conflict_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"resolved": true})
}
