// Package memstore keeps hotels, rooms, users and bookings in process memory.
// It backs STORE=memory deployments and the service tests.
package memstore

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/lock"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/query"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/service"
)

var _ service.Store = (*Store)(nil)

type Store struct {
	mu       sync.RWMutex
	hotels   map[uuid.UUID]models.Hotel
	rooms    map[uuid.UUID]models.Room
	users    map[uuid.UUID]models.User
	bookings map[uuid.UUID]models.Booking

	roomLocks *lock.Local
}

func New() *Store {
	return &Store{
		hotels:    make(map[uuid.UUID]models.Hotel),
		rooms:     make(map[uuid.UUID]models.Room),
		users:     make(map[uuid.UUID]models.User),
		bookings:  make(map[uuid.UUID]models.Booking),
		roomLocks: lock.NewLocal(),
	}
}

func byID[T any](id func(T) uuid.UUID) func(a, b T) int {
	return func(a, b T) int {
		ia, ib := id(a), id(b)
		return bytes.Compare(ia[:], ib[:])
	}
}

func paginate[T any](items []T, page *models.Page) []T {
	if page == nil {
		return items
	}
	if page.Validate() != nil {
		return []T{}
	}
	offset := page.Offset()
	if offset >= len(items) {
		return []T{}
	}
	return items[offset : offset+min(page.Size, len(items)-offset)]
}

func (s *Store) FindHotels(_ context.Context, p query.Predicate[models.Hotel], page *models.Page) ([]models.Hotel, error) {
	s.mu.RLock()
	hotels := make([]models.Hotel, 0, len(s.hotels))
	for _, h := range s.hotels {
		hotels = append(hotels, h)
	}
	s.mu.RUnlock()

	slices.SortFunc(hotels, byID(func(h models.Hotel) uuid.UUID { return h.ID }))
	return paginate(query.Filter(hotels, p), page), nil
}

func (s *Store) FindRooms(_ context.Context, p query.Predicate[models.Room], page *models.Page) ([]models.Room, error) {
	s.mu.RLock()
	rooms := make([]models.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r.Clone())
	}
	s.mu.RUnlock()

	slices.SortFunc(rooms, byID(func(r models.Room) uuid.UUID { return r.ID }))
	return paginate(query.Filter(rooms, p), page), nil
}

func (s *Store) CreateHotel(_ context.Context, h *models.Hotel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hotels[h.ID] = *h
	return nil
}

func (s *Store) GetHotel(_ context.Context, id uuid.UUID) (*models.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.hotels[id]
	if !ok {
		return nil, models.ErrHotelNotFound
	}
	return &h, nil
}

func (s *Store) UpdateHotel(_ context.Context, h *models.Hotel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.hotels[h.ID]
	if !ok {
		return models.ErrHotelNotFound
	}
	updated := *h
	updated.Rating = current.Rating
	updated.NumberOfRatings = current.NumberOfRatings
	updated.CreatedAt = current.CreatedAt
	s.hotels[h.ID] = updated
	return nil
}

// DeleteHotel removes the hotel with its rooms and their bookings.
func (s *Store) DeleteHotel(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hotels[id]; !ok {
		return models.ErrHotelNotFound
	}
	delete(s.hotels, id)
	for roomID, r := range s.rooms {
		if r.HotelID == id {
			s.deleteRoomLocked(roomID)
		}
	}
	return nil
}

func (s *Store) UpdateHotelRating(_ context.Context, id uuid.UUID, apply func(*models.Hotel) error) (*models.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.hotels[id]
	if !ok {
		return nil, models.ErrHotelNotFound
	}
	if err := apply(&h); err != nil {
		return nil, err
	}
	s.hotels[id] = h
	return &h, nil
}

func (s *Store) CreateRoom(_ context.Context, r *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hotels[r.HotelID]; !ok {
		return models.ErrHotelNotFound
	}
	s.rooms[r.ID] = r.Clone()
	return nil
}

func (s *Store) GetRoom(_ context.Context, id uuid.UUID) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[id]
	if !ok {
		return nil, models.ErrRoomNotFound
	}
	c := r.Clone()
	return &c, nil
}

// UpdateRoom replaces the room's own fields. Unavailable ranges only change
// through bookings and are kept as stored.
func (s *Store) UpdateRoom(_ context.Context, r *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.rooms[r.ID]
	if !ok {
		return models.ErrRoomNotFound
	}
	updated := *r
	updated.HotelID = current.HotelID
	updated.UnavailableRanges = current.UnavailableRanges
	updated.CreatedAt = current.CreatedAt
	s.rooms[r.ID] = updated
	return nil
}

func (s *Store) DeleteRoom(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[id]; !ok {
		return models.ErrRoomNotFound
	}
	s.deleteRoomLocked(id)
	return nil
}

func (s *Store) deleteRoomLocked(id uuid.UUID) {
	delete(s.rooms, id)
	for bookingID, b := range s.bookings {
		if b.RoomID == id {
			delete(s.bookings, bookingID)
		}
	}
}

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &u, nil
}

func (s *Store) GetBooking(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, models.ErrBookingNotFound
	}
	return &b, nil
}

// ListUserBookings returns the user's bookings, oldest first.
func (s *Store) ListUserBookings(_ context.Context, userID uuid.UUID) ([]models.Booking, error) {
	s.mu.RLock()
	out := make([]models.Booking, 0)
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b models.Booking) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})
	return out, nil
}
