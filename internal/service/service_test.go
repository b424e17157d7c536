package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/daterange"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/memstore"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/rating"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/service"
)

// spyStore counts the calls that reach the store
type spyStore struct {
	*memstore.Store
	mu      sync.Mutex
	txCalls int
	ratings int
}

func (s *spyStore) WithinBookingTx(ctx context.Context, fn func(tx service.BookingTx) error) error {
	s.mu.Lock()
	s.txCalls++
	s.mu.Unlock()
	return s.Store.WithinBookingTx(ctx, fn)
}

func (s *spyStore) UpdateHotelRating(ctx context.Context, id uuid.UUID, apply func(*models.Hotel) error) (*models.Hotel, error) {
	s.mu.Lock()
	s.ratings++
	s.mu.Unlock()
	return s.Store.UpdateHotelRating(ctx, id, apply)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.AnalyticsEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e models.AnalyticsEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

type fixture struct {
	svc       service.ReservationService
	store     *spyStore
	publisher *recordingPublisher
	hotel     *models.Hotel
	room      *models.Room
	user      *models.User
}

func newFixture(t *testing.T, opts ...service.Option) *fixture {
	t.Helper()
	ctx := context.Background()
	store := &spyStore{Store: memstore.New()}
	publisher := &recordingPublisher{}

	opts = append([]service.Option{service.WithPublisher(publisher)}, opts...)
	svc := service.NewReservationService(store, opts...)

	hotel, err := svc.CreateHotel(ctx, &models.Hotel{Name: "Grand", City: "Vienna", Address: "Ring 1", DistanceFromCenter: 0.3})
	require.NoError(t, err)
	room, err := svc.CreateRoom(ctx, &models.Room{HotelID: hotel.ID, Description: "Double", MaxPeople: 2, Price: 150})
	require.NoError(t, err)
	user, err := svc.CreateUser(ctx, &models.User{Name: "Grace", Email: "grace@example.com"})
	require.NoError(t, err)

	return &fixture{svc: svc, store: store, publisher: publisher, hotel: hotel, room: room, user: user}
}

func dates(t *testing.T, from, to string) daterange.DateRange {
	t.Helper()
	d, err := daterange.Parse(from, to)
	require.NoError(t, err)
	return d
}

func day(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := daterange.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func TestCreateBooking_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		existing [][2]string
		request  [2]string
		wantErr  error
	}{
		{
			name:    "free room",
			request: [2]string{"2024-01-10", "2024-01-15"},
		},
		{
			name:     "overlap inside existing stay",
			existing: [][2]string{{"2024-01-10", "2024-01-15"}},
			request:  [2]string{"2024-01-12", "2024-01-20"},
			wantErr:  models.ErrDateConflict,
		},
		{
			name:     "touching the last day conflicts",
			existing: [][2]string{{"2024-01-10", "2024-01-15"}},
			request:  [2]string{"2024-01-15", "2024-01-18"},
			wantErr:  models.ErrDateConflict,
		},
		{
			name:     "touching the first day conflicts",
			existing: [][2]string{{"2024-01-10", "2024-01-15"}},
			request:  [2]string{"2024-01-05", "2024-01-10"},
			wantErr:  models.ErrDateConflict,
		},
		{
			name:     "disjoint stay in february",
			existing: [][2]string{{"2024-01-10", "2024-01-15"}},
			request:  [2]string{"2024-02-01", "2024-02-05"},
		},
		{
			name:     "gap between two bookings",
			existing: [][2]string{{"2024-01-01", "2024-01-09"}, {"2024-01-16", "2024-01-20"}},
			request:  [2]string{"2024-01-10", "2024-01-15"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			for _, e := range tt.existing {
				_, err := f.svc.CreateBooking(ctx, f.room.ID, f.user.ID, dates(t, e[0], e[1]))
				require.NoError(t, err)
			}

			booking, err := f.svc.CreateBooking(ctx, f.room.ID, f.user.ID, dates(t, tt.request[0], tt.request[1]))
			room, getErr := f.svc.GetRoom(ctx, f.room.ID)
			require.NoError(t, getErr)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, booking)
				assert.Len(t, room.UnavailableRanges, len(tt.existing))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, f.room.ID, booking.RoomID)
			assert.Equal(t, f.hotel.ID, booking.HotelID)
			assert.Equal(t, f.user.ID, booking.UserID)
			assert.Equal(t, dates(t, tt.request[0], tt.request[1]), booking.Dates)
			require.Len(t, room.UnavailableRanges, len(tt.existing)+1)

			stored, err := f.svc.GetBooking(ctx, booking.ID)
			require.NoError(t, err)
			assert.Equal(t, booking.Dates, stored.Dates)
		})
	}
}

func TestCreateBooking_InvalidRangeTouchesNoStore(t *testing.T) {
	f := newFixture(t)

	inverted := daterange.DateRange{From: *day(t, "2024-01-15"), To: *day(t, "2024-01-10")}
	_, err := f.svc.CreateBooking(context.Background(), uuid.New(), uuid.New(), inverted)

	assert.ErrorIs(t, err, models.ErrInvalidRange)
	assert.Zero(t, f.store.txCalls)
}

func TestCreateBooking_Precedence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.CreateBooking(ctx, f.room.ID, f.user.ID, dates(t, "2024-01-10", "2024-01-15"))
	require.NoError(t, err)

	missingUser := uuid.New()
	inverted := daterange.DateRange{From: *day(t, "2024-01-15"), To: *day(t, "2024-01-10")}

	tests := []struct {
		name    string
		roomID  uuid.UUID
		userID  uuid.UUID
		dates   daterange.DateRange
		wantErr error
	}{
		{"invalid range beats missing room", uuid.New(), missingUser, inverted, models.ErrInvalidRange},
		{"missing room beats missing user", uuid.New(), missingUser, dates(t, "2024-01-12", "2024-01-13"), models.ErrRoomNotFound},
		{"conflict beats missing user", f.room.ID, missingUser, dates(t, "2024-01-12", "2024-01-13"), models.ErrDateConflict},
		{"missing user on a free range", f.room.ID, missingUser, dates(t, "2024-03-01", "2024-03-02"), models.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateBooking(ctx, tt.roomID, tt.userID, tt.dates)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	room, err := f.svc.GetRoom(ctx, f.room.ID)
	require.NoError(t, err)
	assert.Len(t, room.UnavailableRanges, 1)
}

func TestCreateBooking_ConcurrentOverlappingRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// every window contains 2024-05-10
			from := time.Date(2024, 5, 1+i%8, 0, 0, 0, 0, time.UTC)
			to := time.Date(2024, 5, 10+i%5, 0, 0, 0, 0, time.UTC)
			_, err := f.svc.CreateBooking(ctx, f.room.ID, f.user.ID, daterange.DateRange{From: from, To: to})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, models.ErrDateConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)

	room, err := f.svc.GetRoom(ctx, f.room.ID)
	require.NoError(t, err)
	assert.Len(t, room.UnavailableRanges, 1)
}

func TestCreateBooking_DifferentRoomsDoNotConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other, err := f.svc.CreateRoom(ctx, &models.Room{HotelID: f.hotel.ID, Description: "Single", MaxPeople: 1, Price: 90})
	require.NoError(t, err)

	stay := dates(t, "2024-01-10", "2024-01-15")
	_, err = f.svc.CreateBooking(ctx, f.room.ID, f.user.ID, stay)
	require.NoError(t, err)
	_, err = f.svc.CreateBooking(ctx, other.ID, f.user.ID, stay)
	require.NoError(t, err)
}

func TestCreateBooking_PublishesAfterCommit(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("temporal unavailable")

	booking, err := f.svc.CreateBooking(context.Background(), f.room.ID, f.user.ID, dates(t, "2024-01-10", "2024-01-15"))
	require.NoError(t, err)

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, models.EventBookingCreated, event.Kind)
	assert.Equal(t, booking.ID, event.SubjectID)
	assert.Equal(t, "2024-01-10", event.From)
	assert.Equal(t, "2024-01-15", event.To)
}

func TestFilterRooms_StayWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.CreateBooking(ctx, f.room.ID, f.user.ID, dates(t, "2024-01-10", "2024-01-15"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter models.RoomFilter
		want   int
	}{
		{"overlapping window excludes the room", models.RoomFilter{From: day(t, "2024-01-12"), To: day(t, "2024-01-20")}, 0},
		{"disjoint window includes the room", models.RoomFilter{From: day(t, "2024-02-01"), To: day(t, "2024-02-05")}, 1},
		{"single endpoint ignores availability", models.RoomFilter{From: day(t, "2024-01-12")}, 1},
		{"empty filter returns everything", models.RoomFilter{}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms, err := f.svc.FilterRooms(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, rooms, tt.want)
		})
	}

	_, err = f.svc.FilterRooms(ctx, models.RoomFilter{From: day(t, "2024-01-20"), To: day(t, "2024-01-12")})
	assert.ErrorIs(t, err, models.ErrInvalidRange)
}

func TestFilterHotels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.CreateHotel(ctx, &models.Hotel{Name: "Sacher", City: "Vienna", DistanceFromCenter: 0.1})
	require.NoError(t, err)
	_, err = f.svc.CreateHotel(ctx, &models.Hotel{Name: "Savoy", City: "London", DistanceFromCenter: 1.5})
	require.NoError(t, err)

	all, err := f.svc.FilterHotels(ctx, models.HotelFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	vienna := "Vienna"
	got, err := f.svc.FilterHotels(ctx, models.HotelFilter{City: &vienna})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	maxDistance := 0.2
	got, err = f.svc.FilterHotels(ctx, models.HotelFilter{City: &vienna, MaxDistanceFromCenter: &maxDistance})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Sacher", got[0].Name)

	got, err = f.svc.FilterHotels(ctx, models.HotelFilter{Page: &models.Page{Size: 2, Number: 1}})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = f.svc.FilterHotels(ctx, models.HotelFilter{Page: &models.Page{Size: 0}})
	assert.ErrorIs(t, err, models.ErrInvalidFilter)
}

func TestFilter_OverflowingPageIsInvalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	huge := &models.Page{Size: 1 << 62, Number: 2}

	assert.NotPanics(t, func() {
		_, err := f.svc.FilterHotels(ctx, models.HotelFilter{Page: huge})
		assert.ErrorIs(t, err, models.ErrInvalidFilter)

		_, err = f.svc.FilterRooms(ctx, models.RoomFilter{Page: huge})
		assert.ErrorIs(t, err, models.ErrInvalidFilter)
	})
}

func TestUpdateHotelRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 9; i++ {
		_, err := f.svc.UpdateHotelRating(ctx, f.hotel.ID, 4)
		require.NoError(t, err)
	}
	hotel, err := f.svc.UpdateHotelRating(ctx, f.hotel.ID, 5)
	require.NoError(t, err)
	assert.InDelta(t, 4.1, hotel.Rating, 1e-9)
	assert.Equal(t, 10, hotel.NumberOfRatings)

	require.Len(t, f.publisher.events, 10)
	last := f.publisher.events[9]
	assert.Equal(t, models.EventHotelRated, last.Kind)
	assert.Equal(t, 5, last.Mark)
	assert.NotEqual(t, f.publisher.events[8].SubjectID, last.SubjectID)
}

func TestUpdateHotelRating_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateHotelRating(ctx, f.hotel.ID, 6)
	assert.ErrorIs(t, err, models.ErrInvalidMark)
	_, err = f.svc.UpdateHotelRating(ctx, f.hotel.ID, 0)
	assert.ErrorIs(t, err, models.ErrInvalidMark)
	assert.Zero(t, f.store.ratings)

	_, err = f.svc.UpdateHotelRating(ctx, uuid.New(), 3)
	assert.ErrorIs(t, err, models.ErrHotelNotFound)
}

func TestUpdateHotelRating_CustomBounds(t *testing.T) {
	f := newFixture(t, service.WithRatingBounds(rating.Bounds{Min: 0, Max: 10}))

	hotel, err := f.svc.UpdateHotelRating(context.Background(), f.hotel.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10.0, hotel.Rating)
}

func TestHotelAndRoomCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	name := "Grand Vienna"
	hotel, err := f.svc.UpdateHotel(ctx, f.hotel.ID, models.HotelPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Grand Vienna", hotel.Name)
	assert.Equal(t, "Vienna", hotel.City)

	price := 175.0
	room, err := f.svc.UpdateRoom(ctx, f.room.ID, models.RoomPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 175.0, room.Price)
	assert.Equal(t, "Double", room.Description)

	_, err = f.svc.CreateRoom(ctx, &models.Room{HotelID: uuid.New(), Description: "Orphan"})
	assert.ErrorIs(t, err, models.ErrHotelNotFound)

	require.NoError(t, f.svc.DeleteRoom(ctx, f.room.ID))
	_, err = f.svc.GetRoom(ctx, f.room.ID)
	assert.ErrorIs(t, err, models.ErrRoomNotFound)

	require.NoError(t, f.svc.DeleteHotel(ctx, f.hotel.ID))
	_, err = f.svc.GetHotel(ctx, f.hotel.ID)
	assert.ErrorIs(t, err, models.ErrHotelNotFound)
}

func TestListUserBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateBooking(ctx, f.room.ID, f.user.ID, dates(t, "2024-01-10", "2024-01-15"))
	require.NoError(t, err)
	_, err = f.svc.CreateBooking(ctx, f.room.ID, f.user.ID, dates(t, "2024-02-01", "2024-02-05"))
	require.NoError(t, err)

	bookings, err := f.svc.ListUserBookings(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, bookings, 2)

	_, err = f.svc.ListUserBookings(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
