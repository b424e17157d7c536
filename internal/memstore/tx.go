package memstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/service"
)

// bookingTx stages bookings until commit. Rooms it has locked stay locked
// until the transaction ends, whatever its outcome.
type bookingTx struct {
	store   *Store
	unlocks []func()
	staged  []models.Booking
}

func (s *Store) WithinBookingTx(ctx context.Context, fn func(tx service.BookingTx) error) error {
	tx := &bookingTx{store: s}
	defer tx.release()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit()
}

func (tx *bookingTx) LockRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	unlock, err := tx.store.roomLocks.Lock(ctx, roomID.String())
	if err != nil {
		return nil, err
	}
	tx.unlocks = append(tx.unlocks, unlock)

	return tx.store.GetRoom(ctx, roomID)
}

func (tx *bookingTx) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return tx.store.GetUser(ctx, userID)
}

func (tx *bookingTx) InsertBooking(_ context.Context, b *models.Booking) error {
	tx.staged = append(tx.staged, *b)
	return nil
}

func (tx *bookingTx) commit() error {
	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range tx.staged {
		if _, ok := s.rooms[b.RoomID]; !ok {
			return models.ErrRoomNotFound
		}
	}
	for _, b := range tx.staged {
		room := s.rooms[b.RoomID].Clone()
		room.UnavailableRanges = append(room.UnavailableRanges, b.UnavailableRange())
		s.rooms[b.RoomID] = room
		s.bookings[b.ID] = b
	}
	return nil
}

func (tx *bookingTx) release() {
	for i := len(tx.unlocks) - 1; i >= 0; i-- {
		tx.unlocks[i]()
	}
}
