package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/handlers"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/service/mocks"
)

func newRouter() (*mocks.MockReservationService, http.Handler) {
	mockService := new(mocks.MockReservationService)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return mockService, SetupRouter(handlers.NewHandler(mockService, nil, logger))
}

func TestHealthCheck(t *testing.T) {
	_, r := newRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	mockService, r := newRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/bookings", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRoutes(t *testing.T) {
	mockService, r := newRouter()
	id := uuid.New()
	mockService.On("GetRoom", mock.Anything, id).Return(&models.Room{ID: id}, nil)
	mockService.On("GetUser", mock.Anything, id).Return(nil, models.ErrUserNotFound)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/"+id.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/rooms/"+id.String(), nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
