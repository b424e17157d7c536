package database

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/daterange"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/query"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/search"
)

func TestHotelsQuery(t *testing.T) {
	city := "Paris"
	minRating := 4.0

	t.Run("identity selects every hotel", func(t *testing.T) {
		sql, args, err := hotelsQuery(query.Identity[models.Hotel](), nil)
		require.NoError(t, err)
		assert.Equal(t, `SELECT "h"."id", "h"."name", "h"."city", "h"."address", "h"."distance_from_center", "h"."rating", "h"."number_of_ratings", "h"."created_at", "h"."updated_at" FROM "hotels" AS "h" ORDER BY "h"."id" ASC`, sql)
		assert.Empty(t, args)
	})

	t.Run("filter and page", func(t *testing.T) {
		p := search.Hotels(models.HotelFilter{City: &city, MinRating: &minRating})
		sql, args, err := hotelsQuery(p, &models.Page{Size: 10, Number: 2})
		require.NoError(t, err)
		assert.Contains(t, sql, `WHERE (("h"."city" = $1) AND ("h"."rating" >= $2))`)
		assert.Contains(t, sql, `ORDER BY "h"."id" ASC LIMIT $3 OFFSET $4`)
		require.Len(t, args, 4)
		assert.Equal(t, []any{"Paris", 4.0}, args[:2])
		assert.EqualValues(t, 10, args[2])
		assert.EqualValues(t, 20, args[3])
	})
}

func TestQueries_RejectOverflowingPage(t *testing.T) {
	page := &models.Page{Size: 1 << 62, Number: 2}

	_, _, err := hotelsQuery(query.Identity[models.Hotel](), page)
	assert.ErrorIs(t, err, models.ErrInvalidFilter)

	_, _, err = roomsQuery(query.Identity[models.Room](), page)
	assert.ErrorIs(t, err, models.ErrInvalidFilter)
}

func TestRoomsQuery(t *testing.T) {
	from := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	maxPrice := 200.0

	p, err := search.Rooms(models.RoomFilter{MaxPrice: &maxPrice, From: &from, To: &to})
	require.NoError(t, err)

	sql, args, err := roomsQuery(p, nil)
	require.NoError(t, err)
	assert.Contains(t, sql, `FROM "rooms" AS "r"`)
	assert.Contains(t, sql, `"r"."price" <= $1`)
	assert.Contains(t, sql, `NOT EXISTS (SELECT 1 FROM "unavailable_ranges" AS "u"`)
	assert.Contains(t, sql, `ORDER BY "r"."id" ASC`)
	assert.NotContains(t, sql, "LIMIT")
	assert.Equal(t, []any{200.0, to, from}, args)
}

func TestRangesQuery(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	sql, args, err := rangesQuery([]uuid.UUID{a, b})
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id", "room_id", "booking_id", "date_from", "date_to" FROM "unavailable_ranges" WHERE ("room_id" IN ($1, $2)) ORDER BY "date_from" ASC, "id" ASC`, sql)
	assert.Equal(t, []any{a.String(), b.String()}, args)
}

func TestAttachRanges(t *testing.T) {
	r1 := models.Room{ID: uuid.New()}
	r2 := models.Room{ID: uuid.New()}
	rooms := []models.Room{r1, r2}

	jan := daterange.DateRange{From: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), To: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}
	feb := daterange.DateRange{From: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)}
	attachRanges(rooms, []models.UnavailableRange{
		{ID: uuid.New(), RoomID: r1.ID, Dates: jan},
		{ID: uuid.New(), RoomID: uuid.New(), Dates: jan},
		{ID: uuid.New(), RoomID: r1.ID, Dates: feb},
	})

	assert.Equal(t, []daterange.DateRange{jan, feb}, rooms[0].UnavailableDates())
	assert.Empty(t, rooms[1].UnavailableRanges)
}

func TestRangeRowModelNormalizesDates(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	row := rangeRow{
		ID:       uuid.New(),
		RoomID:   uuid.New(),
		DateFrom: time.Date(2024, 1, 10, 0, 0, 0, 0, loc),
		DateTo:   time.Date(2024, 1, 15, 0, 0, 0, 0, loc),
	}

	u := row.model()
	assert.Equal(t, "2024-01-10..2024-01-15", u.Dates.String())
	assert.Equal(t, time.UTC, u.Dates.From.Location())
}
