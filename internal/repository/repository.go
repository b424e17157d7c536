// Package repository persists analytics for the Temporal worker.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HotelStats is the per-hotel aggregate rebuilt from recorded events
type HotelStats struct {
	HotelID      uuid.UUID `json:"hotelId"`
	Bookings     int       `json:"bookings"`
	BookedNights int       `json:"bookedNights"`
	Ratings      int       `json:"ratings"`
	LastRating   float64   `json:"lastRating"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Repository handles database operations for the worker
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RecordEvent stores an analytics event once per workflow ID. It reports
// false when the event had already been recorded by an earlier attempt.
func (r *Repository) RecordEvent(ctx context.Context, event models.AnalyticsEvent) (bool, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return false, fmt.Errorf("failed to marshal event: %w", err)
	}

	result, err := r.pool.Exec(ctx, `
		INSERT INTO analytics_events (workflow_id, kind, subject_id, hotel_id, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (workflow_id) DO NOTHING
	`, event.WorkflowID(), string(event.Kind), event.SubjectID, event.HotelID, payload, event.OccurredAt)
	if err != nil {
		return false, fmt.Errorf("failed to record event: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// RefreshHotelStats recomputes the hotel's aggregate from its recorded events
func (r *Repository) RefreshHotelStats(ctx context.Context, hotelID uuid.UUID) (*HotelStats, error) {
	stats := HotelStats{HotelID: hotelID}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO hotel_stats (hotel_id, bookings, booked_nights, ratings, last_rating, updated_at)
		SELECT $1,
		       COUNT(*) FILTER (WHERE kind = $2),
		       COALESCE(SUM((payload->>'to')::date - (payload->>'from')::date) FILTER (WHERE kind = $2), 0),
		       COUNT(*) FILTER (WHERE kind = $3),
		       COALESCE((
		           SELECT (payload->>'rating')::double precision
		           FROM analytics_events
		           WHERE hotel_id = $1 AND kind = $3
		           ORDER BY occurred_at DESC
		           LIMIT 1
		       ), 0),
		       NOW()
		FROM analytics_events
		WHERE hotel_id = $1
		ON CONFLICT (hotel_id) DO UPDATE
		SET bookings = EXCLUDED.bookings,
		    booked_nights = EXCLUDED.booked_nights,
		    ratings = EXCLUDED.ratings,
		    last_rating = EXCLUDED.last_rating,
		    updated_at = EXCLUDED.updated_at
		RETURNING bookings, booked_nights, ratings, last_rating, updated_at
	`, hotelID, string(models.EventBookingCreated), string(models.EventHotelRated)).Scan(
		&stats.Bookings, &stats.BookedNights, &stats.Ratings, &stats.LastRating, &stats.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh hotel stats: %w", err)
	}

	return &stats, nil
}
