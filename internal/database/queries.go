package database

import (
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/query"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/search"
)

var ErrBuildingQuery = errors.New("failed to build query")

var hotelColumns = []any{
	goqu.I(search.ColHotelID),
	goqu.I(search.ColHotelName),
	goqu.I(search.ColHotelCity),
	goqu.I(search.ColHotelAddress),
	goqu.I(search.ColHotelDistanceFromCenter),
	goqu.I(search.ColHotelRating),
	goqu.I(search.ColHotelNumberOfRatings),
	goqu.I(search.AliasHotel + ".created_at"),
	goqu.I(search.AliasHotel + ".updated_at"),
}

var roomColumns = []any{
	goqu.I(search.ColRoomID),
	goqu.I(search.ColRoomHotelID),
	goqu.I(search.ColRoomDescription),
	goqu.I(search.ColRoomMaxPeople),
	goqu.I(search.ColRoomPrice),
	goqu.I(search.AliasRoom + ".created_at"),
	goqu.I(search.AliasRoom + ".updated_at"),
}

// paginate applies LIMIT/OFFSET. Pages failing Validate would wrap to a
// negative offset, so they are rejected here.
func paginate(ds *goqu.SelectDataset, page *models.Page) (*goqu.SelectDataset, error) {
	if page == nil {
		return ds, nil
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return ds.Limit(uint(page.Size)).Offset(uint(page.Offset())), nil
}

func build(ds *goqu.SelectDataset) (string, []any, error) {
	sql, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return "", nil, errors.Join(ErrBuildingQuery, err)
	}
	return sql, args, nil
}

// hotelsQuery selects the hotels matching p ordered by id.
func hotelsQuery(p query.Predicate[models.Hotel], page *models.Page) (string, []any, error) {
	ds := goqu.Dialect(query.Dialect).
		From(goqu.T(search.TableHotels).As(search.AliasHotel)).
		Select(hotelColumns...).
		Order(goqu.I(search.ColHotelID).Asc())

	ds, err := paginate(query.Where(ds, p), page)
	if err != nil {
		return "", nil, err
	}
	return build(ds)
}

// roomsQuery selects the rooms matching p ordered by id, without their
// unavailable ranges.
func roomsQuery(p query.Predicate[models.Room], page *models.Page) (string, []any, error) {
	ds := goqu.Dialect(query.Dialect).
		From(goqu.T(search.TableRooms).As(search.AliasRoom)).
		Select(roomColumns...).
		Order(goqu.I(search.ColRoomID).Asc())

	ds, err := paginate(query.Where(ds, p), page)
	if err != nil {
		return "", nil, err
	}
	return build(ds)
}

// rangesQuery selects the unavailable ranges of the given rooms.
func rangesQuery(roomIDs []uuid.UUID) (string, []any, error) {
	ids := make([]string, 0, len(roomIDs))
	for _, id := range roomIDs {
		ids = append(ids, id.String())
	}
	ds := goqu.Dialect(query.Dialect).
		From(search.TableUnavailableRanges).
		Select("id", "room_id", "booking_id", "date_from", "date_to").
		Where(goqu.C("room_id").In(ids)).
		Order(goqu.C("date_from").Asc(), goqu.C("id").Asc())

	return build(ds)
}

// attachRanges sets the unavailable ranges on the rooms they belong to.
func attachRanges(rooms []models.Room, ranges []models.UnavailableRange) {
	index := make(map[uuid.UUID]int, len(rooms))
	for i, r := range rooms {
		index[r.ID] = i
	}
	for _, u := range ranges {
		if i, ok := index[u.RoomID]; ok {
			rooms[i].UnavailableRanges = append(rooms[i].UnavailableRanges, u)
		}
	}
}

func roomIDs(rooms []models.Room) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	return ids
}
