package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/daterange"
)

// Room represents a bookable room of a hotel
type Room struct {
	ID                uuid.UUID          `json:"id"`
	HotelID           uuid.UUID          `json:"hotelId"`
	Description       string             `json:"description"`
	MaxPeople         int                `json:"maxPeople"`
	Price             float64            `json:"price"`
	UnavailableRanges []UnavailableRange `json:"unavailableRanges"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// UnavailableRange marks a room as reserved for a span of dates. It is only
// ever created together with the booking that reserved it.
type UnavailableRange struct {
	ID        uuid.UUID           `json:"id"`
	RoomID    uuid.UUID           `json:"roomId"`
	BookingID uuid.UUID           `json:"bookingId"`
	Dates     daterange.DateRange `json:"dates"`
}

// UnavailableDates returns the date ranges the room is reserved for
func (r Room) UnavailableDates() []daterange.DateRange {
	out := make([]daterange.DateRange, 0, len(r.UnavailableRanges))
	for _, u := range r.UnavailableRanges {
		out = append(out, u.Dates)
	}
	return out
}

// Clone returns a copy that shares no slice with r
func (r Room) Clone() Room {
	c := r
	c.UnavailableRanges = append([]UnavailableRange(nil), r.UnavailableRanges...)
	return c
}

// RoomPatch carries the fields of a partial room update. Nil fields are left untouched.
type RoomPatch struct {
	Description *string  `json:"description,omitempty"`
	MaxPeople   *int     `json:"maxPeople,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

// ApplyTo copies the present fields onto r
func (p RoomPatch) ApplyTo(r *Room) {
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.MaxPeople != nil {
		r.MaxPeople = *p.MaxPeople
	}
	if p.Price != nil {
		r.Price = *p.Price
	}
}

// IsEmpty reports whether the patch changes nothing
func (p RoomPatch) IsEmpty() bool {
	return p.Description == nil && p.MaxPeople == nil && p.Price == nil
}
