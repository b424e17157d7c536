package search

import (
	"github.com/doug-martin/goqu/v9"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/daterange"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/query"
)

// IsAvailable reports whether none of the room's unavailable ranges overlaps stay.
func IsAvailable(room models.Room, stay daterange.DateRange) bool {
	return !daterange.OverlapsAny(stay, room.UnavailableDates())
}

// Available returns the room clause excluding every room with an unavailable
// range overlapping stay. The SQL form is a correlated NOT EXISTS over
// unavailable_ranges using the same overlap rule as daterange.Overlaps:
// u.date_from <= stay.To AND stay.From <= u.date_to.
func Available(stay daterange.DateRange) query.Predicate[models.Room] {
	from := daterange.Day(stay.From)
	to := daterange.Day(stay.To)

	overlapping := goqu.Dialect(query.Dialect).
		From(goqu.T(TableUnavailableRanges).As(AliasRange)).
		Select(goqu.L("1")).
		Where(
			goqu.I(ColRangeRoomID).Eq(goqu.I(ColRoomID)),
			goqu.I(ColRangeDateFrom).Lte(to),
			goqu.I(ColRangeDateTo).Gte(from),
		)

	return query.New(func(r models.Room) bool {
		return IsAvailable(r, stay)
	}, goqu.L("NOT EXISTS ?", overlapping))
}
