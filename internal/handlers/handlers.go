package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/service"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/websocket"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Handler contains HTTP handlers for the API
type Handler struct {
	reservations service.ReservationService
	hub          *websocket.Hub
	logger       service.Logger
}

// NewHandler creates a new Handler instance. hub may be nil, in which case
// the hotel feed endpoint answers 503.
func NewHandler(reservations service.ReservationService, hub *websocket.Hub, logger service.Logger) *Handler {
	return &Handler{
		reservations: reservations,
		hub:          hub,
		logger:       logger,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service error onto its HTTP status. Unknown
// errors are logged and answered with a generic 500.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidRange),
		errors.Is(err, models.ErrInvalidMark),
		errors.Is(err, models.ErrInvalidFilter):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrDateConflict):
		respondError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// pathID parses the {id} route variable
func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}
