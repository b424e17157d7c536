// Package search turns hotel and room filters into query predicates.
package search

// Tables and the aliases the SELECT builders use for them. Predicate columns
// are alias-qualified so that correlated subqueries can refer to the outer row.
const (
	TableHotels            = "hotels"
	TableRooms             = "rooms"
	TableUnavailableRanges = "unavailable_ranges"

	AliasHotel = "h"
	AliasRoom  = "r"
	AliasRange = "u"
)

const (
	ColHotelID                 = AliasHotel + ".id"
	ColHotelName               = AliasHotel + ".name"
	ColHotelCity               = AliasHotel + ".city"
	ColHotelAddress            = AliasHotel + ".address"
	ColHotelDistanceFromCenter = AliasHotel + ".distance_from_center"
	ColHotelRating             = AliasHotel + ".rating"
	ColHotelNumberOfRatings    = AliasHotel + ".number_of_ratings"

	ColRoomID          = AliasRoom + ".id"
	ColRoomHotelID     = AliasRoom + ".hotel_id"
	ColRoomDescription = AliasRoom + ".description"
	ColRoomMaxPeople   = AliasRoom + ".max_people"
	ColRoomPrice       = AliasRoom + ".price"

	ColRangeRoomID   = AliasRange + ".room_id"
	ColRangeDateFrom = AliasRange + ".date_from"
	ColRangeDateTo   = AliasRange + ".date_to"
)
