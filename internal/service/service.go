package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/daterange"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/lock"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/rating"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/search"
)

// ReservationService defines the reservation service interface
type ReservationService interface {
	FilterHotels(ctx context.Context, f models.HotelFilter) ([]models.Hotel, error)
	FilterRooms(ctx context.Context, f models.RoomFilter) ([]models.Room, error)
	CreateBooking(ctx context.Context, roomID, userID uuid.UUID, dates daterange.DateRange) (*models.Booking, error)
	UpdateHotelRating(ctx context.Context, hotelID uuid.UUID, mark int) (*models.Hotel, error)

	CreateHotel(ctx context.Context, h *models.Hotel) (*models.Hotel, error)
	GetHotel(ctx context.Context, id uuid.UUID) (*models.Hotel, error)
	UpdateHotel(ctx context.Context, id uuid.UUID, patch models.HotelPatch) (*models.Hotel, error)
	DeleteHotel(ctx context.Context, id uuid.UUID) error

	CreateRoom(ctx context.Context, r *models.Room) (*models.Room, error)
	GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error)
	UpdateRoom(ctx context.Context, id uuid.UUID, patch models.RoomPatch) (*models.Room, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error

	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)

	GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID) ([]models.Booking, error)
}

type reservationService struct {
	store     Store
	reader    ReadStore
	locker    lock.Locker
	publisher EventPublisher
	bounds    rating.Bounds
	logger    Logger
	now       func() time.Time
}

// Option configures the reservation service
type Option func(*reservationService)

// WithLocker replaces the in-process room lock, e.g. with a Redis lock
// shared by several server instances.
func WithLocker(l lock.Locker) Option {
	return func(s *reservationService) { s.locker = l }
}

// WithReadStore routes hotel and room filtering to a separate store such as a read replica.
func WithReadStore(r ReadStore) Option {
	return func(s *reservationService) { s.reader = r }
}

func WithPublisher(p EventPublisher) Option {
	return func(s *reservationService) { s.publisher = p }
}

func WithRatingBounds(b rating.Bounds) Option {
	return func(s *reservationService) { s.bounds = b }
}

func WithLogger(l Logger) Option {
	return func(s *reservationService) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *reservationService) { s.now = now }
}

// NewReservationService creates a new ReservationService
func NewReservationService(store Store, opts ...Option) ReservationService {
	s := &reservationService{
		store:  store,
		reader: store,
		locker: lock.NewLocal(),
		bounds: rating.DefaultBounds,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *reservationService) FilterHotels(ctx context.Context, f models.HotelFilter) ([]models.Hotel, error) {
	if f.Page != nil {
		if err := f.Page.Validate(); err != nil {
			return nil, err
		}
	}
	return s.reader.FindHotels(ctx, search.Hotels(f), f.Page)
}

func (s *reservationService) FilterRooms(ctx context.Context, f models.RoomFilter) ([]models.Room, error) {
	if f.Page != nil {
		if err := f.Page.Validate(); err != nil {
			return nil, err
		}
	}
	p, err := search.Rooms(f)
	if err != nil {
		return nil, err
	}
	return s.reader.FindRooms(ctx, p, f.Page)
}

func (s *reservationService) UpdateHotelRating(ctx context.Context, hotelID uuid.UUID, mark int) (*models.Hotel, error) {
	if err := s.bounds.Validate(mark); err != nil {
		return nil, err
	}

	hotel, err := s.store.UpdateHotelRating(ctx, hotelID, func(h *models.Hotel) error {
		rating.Fold(h, mark)
		h.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("hotel rated", "hotel_id", hotelID, "mark", mark, "rating", hotel.Rating, "ratings", hotel.NumberOfRatings)
	s.publish(ctx, models.HotelRatedEvent(*hotel, mark))
	return hotel, nil
}

func (s *reservationService) CreateHotel(ctx context.Context, h *models.Hotel) (*models.Hotel, error) {
	hotel := *h
	if hotel.ID == uuid.Nil {
		hotel.ID = uuid.New()
	}
	hotel.Rating = 0
	hotel.NumberOfRatings = 0
	hotel.CreatedAt = s.now().UTC()
	hotel.UpdatedAt = hotel.CreatedAt

	if err := s.store.CreateHotel(ctx, &hotel); err != nil {
		return nil, err
	}
	return &hotel, nil
}

func (s *reservationService) GetHotel(ctx context.Context, id uuid.UUID) (*models.Hotel, error) {
	return s.store.GetHotel(ctx, id)
}

func (s *reservationService) UpdateHotel(ctx context.Context, id uuid.UUID, patch models.HotelPatch) (*models.Hotel, error) {
	hotel, err := s.store.GetHotel(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return hotel, nil
	}

	patch.ApplyTo(hotel)
	hotel.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateHotel(ctx, hotel); err != nil {
		return nil, err
	}
	return hotel, nil
}

func (s *reservationService) DeleteHotel(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteHotel(ctx, id)
}

func (s *reservationService) CreateRoom(ctx context.Context, r *models.Room) (*models.Room, error) {
	if _, err := s.store.GetHotel(ctx, r.HotelID); err != nil {
		return nil, err
	}

	room := *r
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	room.UnavailableRanges = nil
	room.CreatedAt = s.now().UTC()
	room.UpdatedAt = room.CreatedAt

	if err := s.store.CreateRoom(ctx, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *reservationService) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	return s.store.GetRoom(ctx, id)
}

func (s *reservationService) UpdateRoom(ctx context.Context, id uuid.UUID, patch models.RoomPatch) (*models.Room, error) {
	room, err := s.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return room, nil
	}

	patch.ApplyTo(room)
	room.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *reservationService) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteRoom(ctx, id)
}

func (s *reservationService) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	user := *u
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = s.now().UTC()

	if err := s.store.CreateUser(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *reservationService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *reservationService) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return s.store.GetBooking(ctx, id)
}

func (s *reservationService) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListUserBookings(ctx, userID)
}

// publish hands an event to the publisher. The change is already committed,
// so a failure is logged and never returned to the caller.
func (s *reservationService) publish(ctx context.Context, event models.AnalyticsEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("failed to publish event",
			"kind", event.Kind,
			"subject_id", event.SubjectID,
			"error", err,
		)
	}
}
