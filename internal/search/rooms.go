package search

import (
	"github.com/google/uuid"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/query"
)

type roomPredicate = query.Predicate[models.Room]

func roomID(r models.Room) uuid.UUID       { return r.ID }
func roomHotelID(r models.Room) uuid.UUID  { return r.HotelID }
func roomDescription(r models.Room) string { return r.Description }
func roomMaxPeople(r models.Room) int      { return r.MaxPeople }
func roomPrice(r models.Room) float64      { return r.Price }

// Rooms builds the conjunction of one clause per present field of f. The
// availability clause is only added when both stay endpoints are present;
// an inverted stay window is reported as models.ErrInvalidRange.
func Rooms(f models.RoomFilter) (roomPredicate, error) {
	stay, hasStay, err := f.Stay()
	if err != nil {
		return query.Identity[models.Room](), err
	}

	availability := query.Identity[models.Room]()
	if hasStay {
		availability = Available(stay)
	}

	return query.And(
		query.OptionalSet(f.IDs, func(ids []uuid.UUID) roomPredicate {
			return query.In(ColRoomID, roomID, ids)
		}),
		query.Optional(f.Description, func(v string) roomPredicate {
			return query.Eq(ColRoomDescription, roomDescription, v)
		}),
		query.Between(ColRoomPrice, roomPrice, f.MinPrice, f.MaxPrice),
		query.Optional(f.MaxPeople, func(v int) roomPredicate {
			return query.Lte(ColRoomMaxPeople, roomMaxPeople, v)
		}),
		query.Optional(f.HotelID, func(v uuid.UUID) roomPredicate {
			return query.Eq(ColRoomHotelID, roomHotelID, v)
		}),
		availability,
	), nil
}
