package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/query"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/service"
)

var _ service.ReadStore = (*Reader)(nil)

// Reader answers hotel and room filters from a read replica. It renders the
// same statements as Repository and only differs in the driver.
type Reader struct {
	db *sqlx.DB
}

func NewReader(db *sqlx.DB) *Reader {
	return &Reader{db: db}
}

// OpenReader connects to the replica at dsn and verifies the connection.
func OpenReader(ctx context.Context, dsn string) (*Reader, error) {
	const (
		maxOpenConnections = 50
		maxIdleConnections = 10
		maxConnLifetime    = time.Hour
		maxConnIdleTime    = 5 * time.Minute
	)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open read database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConnections)
	db.SetMaxIdleConns(maxIdleConnections)
	db.SetConnMaxLifetime(maxConnLifetime)
	db.SetConnMaxIdleTime(maxConnIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping read database: %w", err)
	}
	return NewReader(db), nil
}

func (r *Reader) Close() error {
	return r.db.Close()
}

func (r *Reader) FindHotels(ctx context.Context, p query.Predicate[models.Hotel], page *models.Page) ([]models.Hotel, error) {
	sql, args, err := hotelsQuery(p, page)
	if err != nil {
		return nil, err
	}

	hotels := make([]models.Hotel, 0)
	if err := r.db.SelectContext(ctx, &hotels, sql, args...); err != nil {
		return nil, fmt.Errorf("failed to query hotels: %w", err)
	}
	return hotels, nil
}

func (r *Reader) FindRooms(ctx context.Context, p query.Predicate[models.Room], page *models.Page) ([]models.Room, error) {
	sql, args, err := roomsQuery(p, page)
	if err != nil {
		return nil, err
	}

	var roomRows []roomRow
	if err := r.db.SelectContext(ctx, &roomRows, sql, args...); err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	rooms := make([]models.Room, 0, len(roomRows))
	for _, row := range roomRows {
		rooms = append(rooms, row.model())
	}
	if len(rooms) == 0 {
		return rooms, nil
	}

	sql, args, err = rangesQuery(roomIDs(rooms))
	if err != nil {
		return nil, err
	}
	var rangeRows []rangeRow
	if err := r.db.SelectContext(ctx, &rangeRows, sql, args...); err != nil {
		return nil, fmt.Errorf("failed to query unavailable ranges: %w", err)
	}
	ranges := make([]models.UnavailableRange, 0, len(rangeRows))
	for _, row := range rangeRows {
		ranges = append(ranges, row.model())
	}

	attachRanges(rooms, ranges)
	return rooms, nil
}
