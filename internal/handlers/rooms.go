package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
)

type createRoomRequest struct {
	HotelID     string  `json:"hotelId"`
	Description string  `json:"description"`
	MaxPeople   int     `json:"maxPeople"`
	Price       float64 `json:"price"`
}

// ListRooms handles GET /api/rooms
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRoomFilter(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rooms, err := h.reservations.FilterRooms(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	respondJSON(w, http.StatusOK, rooms)
}

// CreateRoom handles POST /api/rooms
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	hotelID, err := uuid.Parse(req.HotelID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Valid hotel ID is required")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		respondError(w, http.StatusBadRequest, "Room description is required")
		return
	}
	if req.MaxPeople <= 0 {
		respondError(w, http.StatusBadRequest, "Max people must be positive")
		return
	}
	if req.Price < 0 {
		respondError(w, http.StatusBadRequest, "Price cannot be negative")
		return
	}

	room, err := h.reservations.CreateRoom(r.Context(), &models.Room{
		HotelID:     hotelID,
		Description: req.Description,
		MaxPeople:   req.MaxPeople,
		Price:       req.Price,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, room)
}

// GetRoom handles GET /api/rooms/{id}
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid room ID")
		return
	}

	room, err := h.reservations.GetRoom(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, room)
}

// UpdateRoom handles PATCH /api/rooms/{id}
func (h *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid room ID")
		return
	}

	var patch models.RoomPatch
	if err := decode(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if patch.MaxPeople != nil && *patch.MaxPeople <= 0 {
		respondError(w, http.StatusBadRequest, "Max people must be positive")
		return
	}
	if patch.Price != nil && *patch.Price < 0 {
		respondError(w, http.StatusBadRequest, "Price cannot be negative")
		return
	}

	room, err := h.reservations.UpdateRoom(r.Context(), id, patch)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, room)
}

// DeleteRoom handles DELETE /api/rooms/{id}
func (h *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid room ID")
		return
	}

	if err := h.reservations.DeleteRoom(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
