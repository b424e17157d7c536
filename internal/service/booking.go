package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/daterange"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
)

func roomLockKey(roomID uuid.UUID) string {
	return "room:" + roomID.String()
}

// CreateBooking reserves roomID for userID over dates. Failures are checked
// in a fixed order: an inverted range, then a missing room, then a conflict
// with an existing unavailable range, then a missing user. Bookings of the
// same room are serialized by the room lock and by the store's row lock, so
// two overlapping requests can never both succeed.
func (s *reservationService) CreateBooking(ctx context.Context, roomID, userID uuid.UUID, dates daterange.DateRange) (*models.Booking, error) {
	stay, err := daterange.New(dates.From, dates.To)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, roomLockKey(roomID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock room %s: %w", roomID, err)
	}

	var booking *models.Booking
	err = s.store.WithinBookingTx(ctx, func(tx BookingTx) error {
		room, err := tx.LockRoom(ctx, roomID)
		if err != nil {
			return err
		}

		if daterange.OverlapsAny(stay, room.UnavailableDates()) {
			return fmt.Errorf("%w: room %s for %s", models.ErrDateConflict, roomID, stay)
		}

		if _, err := tx.GetUser(ctx, userID); err != nil {
			return err
		}

		b := &models.Booking{
			ID:        uuid.New(),
			RoomID:    room.ID,
			HotelID:   room.HotelID,
			UserID:    userID,
			Dates:     stay,
			CreatedAt: s.now().UTC(),
		}
		if err := tx.InsertBooking(ctx, b); err != nil {
			return err
		}
		booking = b
		return nil
	})
	unlock()
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		"booking_id", booking.ID,
		"room_id", booking.RoomID,
		"user_id", booking.UserID,
		"dates", booking.Dates.String(),
	)
	s.publish(ctx, models.BookingCreatedEvent(*booking))
	return booking, nil
}
