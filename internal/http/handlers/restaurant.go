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

type RestaurantHandler struct {
	log         *logger.Logger
	restaurants services.RestaurantService
}

func NewRestaurantHandler(log *logger.Logger, restaurants services.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{
		log:         log.With("handler", "RestaurantHandler"),
		restaurants: restaurants,
	}
}

// GET /api/restaurants
func (h *RestaurantHandler) List(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"
	rows, err := h.restaurants.List(c.Request.Context(), includeArchived)
	if err != nil {
		h.log.Error("List failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "list_restaurants_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"restaurants": rows})
}

// GET /api/restaurants/:id
func (h *RestaurantHandler) Get(c *gin.Context) {
	id, ok := restaurantID(c)
	if !ok {
		return
	}
	detail, err := h.restaurants.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			response.RespondError(c, http.StatusNotFound, "restaurant_not_found", err)
			return
		}
		h.log.Error("Get failed", "error", err, "restaurant_id", id)
		response.RespondError(c, http.StatusInternalServerError, "load_restaurant_failed", err)
		return
	}
	response.RespondOK(c, detail)
}

// POST /api/restaurants
func (h *RestaurantHandler) Create(c *gin.Context) {
	var input services.RestaurantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	detail, err := h.restaurants.Create(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidArgument) {
			response.RespondError(c, http.StatusBadRequest, "invalid_restaurant", err)
			return
		}
		h.log.Error("Create failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "create_restaurant_failed", err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// PUT /api/restaurants/:id
func (h *RestaurantHandler) Update(c *gin.Context) {
	id, ok := restaurantID(c)
	if !ok {
		return
	}
	var input services.RestaurantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	detail, err := h.restaurants.Update(c.Request.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrNotFound):
			response.RespondError(c, http.StatusNotFound, "restaurant_not_found", err)
		case errors.Is(err, pkgerrors.ErrInvalidArgument):
			response.RespondError(c, http.StatusBadRequest, "invalid_restaurant", err)
		default:
			h.log.Error("Update failed", "error", err, "restaurant_id", id)
			response.RespondError(c, http.StatusInternalServerError, "update_restaurant_failed", err)
		}
		return
	}
	response.RespondOK(c, detail)
}

// DELETE /api/restaurants/:id
func (h *RestaurantHandler) Remove(c *gin.Context) {
	id, ok := restaurantID(c)
	if !ok {
		return
	}
	if err := h.restaurants.Remove(c.Request.Context(), id); err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			response.RespondError(c, http.StatusNotFound, "restaurant_not_found", err)
			return
		}
		h.log.Error("Remove failed", "error", err, "restaurant_id", id)
		response.RespondError(c, http.StatusInternalServerError, "remove_restaurant_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func restaurantID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_restaurant_id", err)
		return 0, false
	}
	return id, true
}
