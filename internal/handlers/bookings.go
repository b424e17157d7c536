package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/daterange"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
)

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type createBookingRequest struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// CreateUser handles POST /api/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "User name is required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "Valid email is required")
		return
	}

	user, err := h.reservations.CreateUser(r.Context(), &models.User{Name: req.Name, Email: req.Email})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// GetUser handles GET /api/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.reservations.GetUser(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// ListUserBookings handles GET /api/users/{id}/bookings
func (h *Handler) ListUserBookings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	bookings, err := h.reservations.ListUserBookings(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	respondJSON(w, http.StatusOK, bookings)
}

// CreateBooking handles POST /api/bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Valid room ID is required")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Valid user ID is required")
		return
	}
	from, err := daterange.ParseDate(req.From)
	if err != nil {
		respondError(w, http.StatusBadRequest, "From must be a YYYY-MM-DD date")
		return
	}
	to, err := daterange.ParseDate(req.To)
	if err != nil {
		respondError(w, http.StatusBadRequest, "To must be a YYYY-MM-DD date")
		return
	}

	// ordering is checked by the service so that it maps to ErrInvalidRange
	booking, err := h.reservations.CreateBooking(r.Context(), roomID, userID, daterange.DateRange{From: from, To: to})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, booking)
}

// GetBooking handles GET /api/bookings/{id}
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	booking, err := h.reservations.GetBooking(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, booking)
}
