package handlers

import (
	"net/http"
	"strings"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
)

type createHotelRequest struct {
	Name               string  `json:"name"`
	City               string  `json:"city"`
	Address            string  `json:"address"`
	DistanceFromCenter float64 `json:"distanceFromCenter"`
}

type rateHotelRequest struct {
	Mark *int `json:"mark"`
}

// ListHotels handles GET /api/hotels
func (h *Handler) ListHotels(w http.ResponseWriter, r *http.Request) {
	filter, err := parseHotelFilter(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	hotels, err := h.reservations.FilterHotels(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if hotels == nil {
		hotels = []models.Hotel{}
	}
	respondJSON(w, http.StatusOK, hotels)
}

// CreateHotel handles POST /api/hotels
func (h *Handler) CreateHotel(w http.ResponseWriter, r *http.Request) {
	var req createHotelRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "Hotel name is required")
		return
	}
	if strings.TrimSpace(req.City) == "" {
		respondError(w, http.StatusBadRequest, "City is required")
		return
	}
	if req.DistanceFromCenter < 0 {
		respondError(w, http.StatusBadRequest, "Distance from center cannot be negative")
		return
	}

	hotel, err := h.reservations.CreateHotel(r.Context(), &models.Hotel{
		Name:               req.Name,
		City:               req.City,
		Address:            req.Address,
		DistanceFromCenter: req.DistanceFromCenter,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, hotel)
}

// GetHotel handles GET /api/hotels/{id}
func (h *Handler) GetHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid hotel ID")
		return
	}

	hotel, err := h.reservations.GetHotel(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, hotel)
}

// UpdateHotel handles PATCH /api/hotels/{id}
func (h *Handler) UpdateHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid hotel ID")
		return
	}

	var patch models.HotelPatch
	if err := decode(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		respondError(w, http.StatusBadRequest, "Hotel name cannot be empty")
		return
	}
	if patch.DistanceFromCenter != nil && *patch.DistanceFromCenter < 0 {
		respondError(w, http.StatusBadRequest, "Distance from center cannot be negative")
		return
	}

	hotel, err := h.reservations.UpdateHotel(r.Context(), id, patch)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, hotel)
}

// DeleteHotel handles DELETE /api/hotels/{id}
func (h *Handler) DeleteHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid hotel ID")
		return
	}

	if err := h.reservations.DeleteHotel(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RateHotel handles POST /api/hotels/{id}/rating
func (h *Handler) RateHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid hotel ID")
		return
	}

	var req rateHotelRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Mark == nil {
		respondError(w, http.StatusBadRequest, "Mark is required")
		return
	}

	hotel, err := h.reservations.UpdateHotelRating(r.Context(), id, *req.Mark)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, hotel)
}

// HotelFeed handles GET /api/hotels/{id}/ws
func (h *Handler) HotelFeed(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "Live updates are disabled")
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid hotel ID")
		return
	}
	if _, err := h.reservations.GetHotel(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.hub.ServeHotel(w, r, id)
}
