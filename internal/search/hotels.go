package search

import (
	"github.com/google/uuid"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/query"
)

type hotelPredicate = query.Predicate[models.Hotel]

func hotelID(h models.Hotel) uuid.UUID        { return h.ID }
func hotelName(h models.Hotel) string         { return h.Name }
func hotelCity(h models.Hotel) string         { return h.City }
func hotelAddress(h models.Hotel) string      { return h.Address }
func hotelDistance(h models.Hotel) float64    { return h.DistanceFromCenter }
func hotelRating(h models.Hotel) float64      { return h.Rating }
func hotelNumberOfRatings(h models.Hotel) int { return h.NumberOfRatings }

// Hotels builds the conjunction of one clause per present field of f.
func Hotels(f models.HotelFilter) hotelPredicate {
	return query.And(
		query.OptionalSet(f.IDs, func(ids []uuid.UUID) hotelPredicate {
			return query.In(ColHotelID, hotelID, ids)
		}),
		query.Optional(f.Name, func(v string) hotelPredicate {
			return query.Eq(ColHotelName, hotelName, v)
		}),
		query.Optional(f.City, func(v string) hotelPredicate {
			return query.Eq(ColHotelCity, hotelCity, v)
		}),
		query.Optional(f.Address, func(v string) hotelPredicate {
			return query.Eq(ColHotelAddress, hotelAddress, v)
		}),
		query.Optional(f.MaxDistanceFromCenter, func(v float64) hotelPredicate {
			return query.Lte(ColHotelDistanceFromCenter, hotelDistance, v)
		}),
		query.Optional(f.MinRating, func(v float64) hotelPredicate {
			return query.Gte(ColHotelRating, hotelRating, v)
		}),
		query.Optional(f.MinNumberOfRatings, func(v int) hotelPredicate {
			return query.Gte(ColHotelNumberOfRatings, hotelNumberOfRatings, v)
		}),
	)
}
