package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/daterange"
)

// Booking represents a user's reservation of a room for a span of dates
type Booking struct {
	ID        uuid.UUID           `json:"id"`
	RoomID    uuid.UUID           `json:"roomId"`
	HotelID   uuid.UUID           `json:"hotelId"`
	UserID    uuid.UUID           `json:"userId"`
	Dates     daterange.DateRange `json:"dates"`
	CreatedAt time.Time           `json:"createdAt"`
}

// UnavailableRange returns the range record that is persisted with the booking
func (b Booking) UnavailableRange() UnavailableRange {
	return UnavailableRange{
		ID:        uuid.New(),
		RoomID:    b.RoomID,
		BookingID: b.ID,
		Dates:     b.Dates,
	}
}

// User represents a guest who can hold bookings
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
