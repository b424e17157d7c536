package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/query"
)

// ReadStore answers filter queries. Results are ordered by ID; a nil page
// returns every match.
type ReadStore interface {
	FindHotels(ctx context.Context, p query.Predicate[models.Hotel], page *models.Page) ([]models.Hotel, error)
	FindRooms(ctx context.Context, p query.Predicate[models.Room], page *models.Page) ([]models.Room, error)
}

type HotelStore interface {
	CreateHotel(ctx context.Context, h *models.Hotel) error
	GetHotel(ctx context.Context, id uuid.UUID) (*models.Hotel, error)
	UpdateHotel(ctx context.Context, h *models.Hotel) error
	DeleteHotel(ctx context.Context, id uuid.UUID) error
	// UpdateHotelRating loads the hotel under a row lock, runs apply on it
	// and persists the result in the same transaction.
	UpdateHotelRating(ctx context.Context, id uuid.UUID, apply func(*models.Hotel) error) (*models.Hotel, error)
}

type RoomStore interface {
	CreateRoom(ctx context.Context, r *models.Room) error
	GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error)
	UpdateRoom(ctx context.Context, r *models.Room) error
	DeleteRoom(ctx context.Context, id uuid.UUID) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// BookingTx is the view of the store inside a booking transaction.
type BookingTx interface {
	// LockRoom loads the room with its unavailable ranges and holds it
	// against concurrent bookings until the transaction ends.
	LockRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	// InsertBooking persists the booking together with its unavailable range.
	InsertBooking(ctx context.Context, b *models.Booking) error
}

type BookingStore interface {
	// WithinBookingTx runs fn in a transaction that commits only when fn
	// returns nil.
	WithinBookingTx(ctx context.Context, fn func(tx BookingTx) error) error
	GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID) ([]models.Booking, error)
}

// Store is everything the reservation service persists to.
type Store interface {
	ReadStore
	HotelStore
	RoomStore
	UserStore
	BookingStore
}

// EventPublisher receives events after the change they describe has been committed.
type EventPublisher interface {
	Publish(ctx context.Context, event models.AnalyticsEvent) error
}

// Logger is satisfied by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
