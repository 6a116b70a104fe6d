package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/palatelog/palatelog-backend/internal/http/response"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
	"github.com/palatelog/palatelog-backend/internal/services"
)

type CuratorHandler struct {
	log      *logger.Logger
	curators services.CuratorService
}

func NewCuratorHandler(log *logger.Logger, curators services.CuratorService) *CuratorHandler {
	return &CuratorHandler{
		log:      log.With("handler", "CuratorHandler"),
		curators: curators,
	}
}

// GET /api/curators
func (h *CuratorHandler) List(c *gin.Context) {
	rows, err := h.curators.List(c.Request.Context())
	if err != nil {
		h.log.Error("List failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "list_curators_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"curators": rows})
}
