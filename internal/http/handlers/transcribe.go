package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/palatelog/palatelog-backend/internal/http/response"
	pkgerrors "github.com/palatelog/palatelog-backend/internal/pkg/errors"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
	"github.com/palatelog/palatelog-backend/internal/services"
)

// maxAudioBytes bounds voice-note uploads; notes are short dictations.
const maxAudioBytes = 10 << 20

type TranscribeHandler struct {
	log           *logger.Logger
	transcription services.TranscriptionService
}

func NewTranscribeHandler(log *logger.Logger, transcription services.TranscriptionService) *TranscribeHandler {
	return &TranscribeHandler{
		log:           log.With("handler", "TranscribeHandler"),
		transcription: transcription,
	}
}

// POST /api/transcribe
func (h *TranscribeHandler) Transcribe(c *gin.Context) {
	audio, mimeType, ok := h.readAudio(c)
	if !ok {
		return
	}
	text, err := h.transcription.Transcribe(c.Request.Context(), audio, mimeType)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidArgument) {
			response.RespondError(c, http.StatusBadRequest, "invalid_audio", err)
			return
		}
		h.log.Error("Transcribe failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "transcription_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"transcription": text})
}

// POST /api/restaurants/:id/transcription
func (h *TranscribeHandler) AttachToRestaurant(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_restaurant_id", err)
		return
	}
	audio, mimeType, ok := h.readAudio(c)
	if !ok {
		return
	}
	text, err := h.transcription.AttachToRestaurant(c.Request.Context(), id, audio, mimeType)
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrNotFound):
			response.RespondError(c, http.StatusNotFound, "restaurant_not_found", err)
		case errors.Is(err, pkgerrors.ErrInvalidArgument):
			response.RespondError(c, http.StatusBadRequest, "invalid_audio", err)
		default:
			h.log.Error("AttachToRestaurant failed", "error", err, "restaurant_id", id)
			response.RespondError(c, http.StatusInternalServerError, "transcription_failed", err)
		}
		return
	}
	response.RespondOK(c, gin.H{"transcription": text})
}

func (h *TranscribeHandler) readAudio(c *gin.Context) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_audio_file", err)
		return nil, "", false
	}
	defer file.Close()

	if header.Size > maxAudioBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "audio_too_large", nil)
		return nil, "", false
	}

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "read_audio_failed", err)
		return nil, "", false
	}
	return audio, header.Header.Get("Content-Type"), true
}
