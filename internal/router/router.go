package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/handlers"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(h *handlers.Handler) *mux.Router {
	r := mux.NewRouter()

	// CORS middleware
	r.Use(corsMiddleware)

	// API routes
	api := r.PathPrefix("/api").Subrouter()

	// Hotels
	api.HandleFunc("/hotels", h.ListHotels).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/hotels", h.CreateHotel).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/hotels/{id}", h.GetHotel).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/hotels/{id}", h.UpdateHotel).Methods(http.MethodPatch, http.MethodOptions)
	api.HandleFunc("/hotels/{id}", h.DeleteHotel).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/hotels/{id}/rating", h.RateHotel).Methods(http.MethodPost, http.MethodOptions)

	// Rooms
	api.HandleFunc("/rooms", h.ListRooms).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/rooms", h.CreateRoom).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/rooms/{id}", h.GetRoom).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/rooms/{id}", h.UpdateRoom).Methods(http.MethodPatch, http.MethodOptions)
	api.HandleFunc("/rooms/{id}", h.DeleteRoom).Methods(http.MethodDelete, http.MethodOptions)

	// Users and bookings
	api.HandleFunc("/users", h.CreateUser).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/users/{id}", h.GetUser).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/users/{id}/bookings", h.ListUserBookings).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/bookings/{id}", h.GetBooking).Methods(http.MethodGet, http.MethodOptions)

	// WebSocket for live availability and rating updates
	api.HandleFunc("/hotels/{id}/ws", h.HotelFeed)

	// Health check
	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
