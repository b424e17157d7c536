package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/daterange"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/query"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/service"
)

const foreignKeyViolation = "23503"

var _ service.Store = (*Repository)(nil)

// querier is satisfied by both the pool and a transaction
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository handles all database operations
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// --- Hotel Operations ---

const selectHotelSQL = `
	SELECT id, name, city, address, distance_from_center, rating, number_of_ratings,
	       created_at, updated_at
	FROM hotels
	WHERE id = $1
`

func scanHotel(row pgx.Row) (*models.Hotel, error) {
	var h models.Hotel
	err := row.Scan(
		&h.ID, &h.Name, &h.City, &h.Address, &h.DistanceFromCenter,
		&h.Rating, &h.NumberOfRatings, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// FindHotels returns the hotels matching p ordered by id
func (r *Repository) FindHotels(ctx context.Context, p query.Predicate[models.Hotel], page *models.Page) ([]models.Hotel, error) {
	sql, args, err := hotelsQuery(p, page)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query hotels: %w", err)
	}
	defer rows.Close()

	hotels := make([]models.Hotel, 0)
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hotel: %w", err)
		}
		hotels = append(hotels, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read hotels: %w", err)
	}

	return hotels, nil
}

// CreateHotel inserts a new hotel
func (r *Repository) CreateHotel(ctx context.Context, h *models.Hotel) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO hotels (id, name, city, address, distance_from_center, rating, number_of_ratings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, h.ID, h.Name, h.City, h.Address, h.DistanceFromCenter, h.Rating, h.NumberOfRatings, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create hotel: %w", err)
	}
	return nil
}

// GetHotel returns a hotel by ID
func (r *Repository) GetHotel(ctx context.Context, id uuid.UUID) (*models.Hotel, error) {
	h, err := scanHotel(r.pool.QueryRow(ctx, selectHotelSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrHotelNotFound
		}
		return nil, fmt.Errorf("failed to get hotel: %w", err)
	}
	return h, nil
}

// UpdateHotel writes the hotel's descriptive fields. The rating aggregate is
// owned by UpdateHotelRating.
func (r *Repository) UpdateHotel(ctx context.Context, h *models.Hotel) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE hotels
		SET name = $2, city = $3, address = $4, distance_from_center = $5, updated_at = $6
		WHERE id = $1
	`, h.ID, h.Name, h.City, h.Address, h.DistanceFromCenter, h.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update hotel: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrHotelNotFound
	}
	return nil
}

// DeleteHotel removes a hotel; rooms, bookings and ranges follow by cascade
func (r *Repository) DeleteHotel(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM hotels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete hotel: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrHotelNotFound
	}
	return nil
}

// UpdateHotelRating applies a rating change to the row locked FOR UPDATE, so
// concurrent marks for the same hotel are folded one after another.
func (r *Repository) UpdateHotelRating(ctx context.Context, id uuid.UUID, apply func(*models.Hotel) error) (*models.Hotel, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	h, err := scanHotel(tx.QueryRow(ctx, selectHotelSQL+" FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrHotelNotFound
		}
		return nil, fmt.Errorf("failed to lock hotel: %w", err)
	}

	if err := apply(h); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE hotels
		SET rating = $2, number_of_ratings = $3, updated_at = $4
		WHERE id = $1
	`, h.ID, h.Rating, h.NumberOfRatings, h.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update hotel rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit hotel rating: %w", err)
	}
	return h, nil
}

// --- Room Operations ---

const selectRoomSQL = `
	SELECT id, hotel_id, description, max_people, price, created_at, updated_at
	FROM rooms
	WHERE id = $1
`

func scanRoom(row pgx.Row) (*models.Room, error) {
	var rm models.Room
	err := row.Scan(
		&rm.ID, &rm.HotelID, &rm.Description, &rm.MaxPeople, &rm.Price,
		&rm.CreatedAt, &rm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

// FindRooms returns the rooms matching p ordered by id, with their
// unavailable ranges
func (r *Repository) FindRooms(ctx context.Context, p query.Predicate[models.Room], page *models.Page) ([]models.Room, error) {
	sql, args, err := roomsQuery(p, page)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]models.Room, 0)
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, *rm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rooms: %w", err)
	}

	if err := loadRanges(ctx, r.pool, rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func loadRanges(ctx context.Context, q querier, rooms []models.Room) error {
	if len(rooms) == 0 {
		return nil
	}

	sql, args, err := rangesQuery(roomIDs(rooms))
	if err != nil {
		return err
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to query unavailable ranges: %w", err)
	}
	defer rows.Close()

	var ranges []models.UnavailableRange
	for rows.Next() {
		var u models.UnavailableRange
		if err := rows.Scan(&u.ID, &u.RoomID, &u.BookingID, &u.Dates.From, &u.Dates.To); err != nil {
			return fmt.Errorf("failed to scan unavailable range: %w", err)
		}
		u.Dates = daterange.DateRange{From: daterange.Day(u.Dates.From), To: daterange.Day(u.Dates.To)}
		ranges = append(ranges, u)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read unavailable ranges: %w", err)
	}

	attachRanges(rooms, ranges)
	return nil
}

func getRoom(ctx context.Context, q querier, sql string, id uuid.UUID) (*models.Room, error) {
	rm, err := scanRoom(q.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	rooms := []models.Room{*rm}
	if err := loadRanges(ctx, q, rooms); err != nil {
		return nil, err
	}
	return &rooms[0], nil
}

// CreateRoom inserts a new room of an existing hotel
func (r *Repository) CreateRoom(ctx context.Context, rm *models.Room) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO rooms (id, hotel_id, description, max_people, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rm.ID, rm.HotelID, rm.Description, rm.MaxPeople, rm.Price, rm.CreatedAt, rm.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return models.ErrHotelNotFound
		}
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// GetRoom returns a room by ID with its unavailable ranges
func (r *Repository) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	return getRoom(ctx, r.pool, selectRoomSQL, id)
}

// UpdateRoom writes the room's own fields
func (r *Repository) UpdateRoom(ctx context.Context, rm *models.Room) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE rooms
		SET description = $2, max_people = $3, price = $4, updated_at = $5
		WHERE id = $1
	`, rm.ID, rm.Description, rm.MaxPeople, rm.Price, rm.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrRoomNotFound
	}
	return nil
}

// DeleteRoom removes a room with its bookings and ranges
func (r *Repository) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrRoomNotFound
	}
	return nil
}

// --- User Operations ---

// CreateUser inserts a new user
func (r *Repository) CreateUser(ctx context.Context, u *models.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, created_at)
		VALUES ($1, $2, $3, $4)
	`, u.ID, u.Name, u.Email, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func getUser(ctx context.Context, q querier, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := q.QueryRow(ctx, `
		SELECT id, name, email, created_at FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// GetUser returns a user by ID
func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return getUser(ctx, r.pool, id)
}

// --- Booking Operations ---

const selectBookingColumns = `
	SELECT id, room_id, hotel_id, user_id, date_from, date_to, created_at
	FROM bookings
`

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	if err := row.Scan(&b.ID, &b.RoomID, &b.HotelID, &b.UserID, &b.Dates.From, &b.Dates.To, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.Dates = daterange.DateRange{From: daterange.Day(b.Dates.From), To: daterange.Day(b.Dates.To)}
	return &b, nil
}

// GetBooking returns a booking by ID
func (r *Repository) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, selectBookingColumns+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// ListUserBookings returns the user's bookings, oldest first
func (r *Repository) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	rows, err := r.pool.Query(ctx, selectBookingColumns+" WHERE user_id = $1 ORDER BY created_at, id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}

	return bookings, nil
}

// bookingTx runs the booking guard's reads and writes in one transaction
type bookingTx struct {
	tx pgx.Tx
}

// WithinBookingTx runs fn in a transaction committed only when fn succeeds
func (r *Repository) WithinBookingTx(ctx context.Context, fn func(tx service.BookingTx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&bookingTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

// LockRoom locks the room row FOR UPDATE, so a concurrent booking of the same
// room waits here until this transaction ends and then sees its range.
func (b *bookingTx) LockRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	return getRoom(ctx, b.tx, selectRoomSQL+" FOR UPDATE", roomID)
}

func (b *bookingTx) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return getUser(ctx, b.tx, userID)
}

// InsertBooking writes the booking and its unavailable range
func (b *bookingTx) InsertBooking(ctx context.Context, bk *models.Booking) error {
	_, err := b.tx.Exec(ctx, `
		INSERT INTO bookings (id, room_id, hotel_id, user_id, date_from, date_to, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, bk.ID, bk.RoomID, bk.HotelID, bk.UserID, bk.Dates.From, bk.Dates.To, bk.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	u := bk.UnavailableRange()
	_, err = b.tx.Exec(ctx, `
		INSERT INTO unavailable_ranges (id, room_id, booking_id, date_from, date_to)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.RoomID, u.BookingID, u.Dates.From, u.Dates.To)
	if err != nil {
		return fmt.Errorf("failed to insert unavailable range: %w", err)
	}

	return nil
}
