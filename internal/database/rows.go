package database

import (
	"time"

	"github.com/google/uuid"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/daterange"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
)

// roomRow and rangeRow are the sqlx scan targets of the read replica.
type roomRow struct {
	ID          uuid.UUID `db:"id"`
	HotelID     uuid.UUID `db:"hotel_id"`
	Description string    `db:"description"`
	MaxPeople   int       `db:"max_people"`
	Price       float64   `db:"price"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r roomRow) model() models.Room {
	return models.Room{
		ID:          r.ID,
		HotelID:     r.HotelID,
		Description: r.Description,
		MaxPeople:   r.MaxPeople,
		Price:       r.Price,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type rangeRow struct {
	ID        uuid.UUID `db:"id"`
	RoomID    uuid.UUID `db:"room_id"`
	BookingID uuid.UUID `db:"booking_id"`
	DateFrom  time.Time `db:"date_from"`
	DateTo    time.Time `db:"date_to"`
}

func (r rangeRow) model() models.UnavailableRange {
	return models.UnavailableRange{
		ID:        r.ID,
		RoomID:    r.RoomID,
		BookingID: r.BookingID,
		Dates:     daterange.DateRange{From: daterange.Day(r.DateFrom), To: daterange.Day(r.DateTo)},
	}
}
