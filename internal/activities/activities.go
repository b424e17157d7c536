package activities

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/repository"
)

// Activity names registered with the worker
const (
	RecordAnalyticsEventName = models.RecordAnalyticsEventName
	RefreshHotelStatsName    = "RefreshHotelStats"
)

// Recorder is the analytics storage the activities write to
type Recorder interface {
	RecordEvent(ctx context.Context, event models.AnalyticsEvent) (bool, error)
	RefreshHotelStats(ctx context.Context, hotelID uuid.UUID) (*repository.HotelStats, error)
}

// Activities holds the analytics activities and their dependencies
type Activities struct {
	recorder Recorder
}

// NewActivities creates the analytics activities
func NewActivities(recorder Recorder) *Activities {
	return &Activities{recorder: recorder}
}

// RecordAnalyticsEvent stores a published event. Retried attempts of the same
// workflow are absorbed by the recorder, so the result reports whether this
// attempt was the one that stored it.
func (a *Activities) RecordAnalyticsEvent(ctx context.Context, event models.AnalyticsEvent) (bool, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Recording analytics event", "kind", event.Kind, "subjectId", event.SubjectID)

	switch event.Kind {
	case models.EventBookingCreated, models.EventHotelRated:
	default:
		return false, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("unknown event kind %q", event.Kind), "UnknownEventKind", nil)
	}
	if event.HotelID == uuid.Nil {
		return false, temporal.NewNonRetryableApplicationError("event has no hotel", "MissingHotel", nil)
	}

	recorded, err := a.recorder.RecordEvent(ctx, event)
	if err != nil {
		return false, err
	}
	if !recorded {
		logger.Info("Analytics event already recorded", "workflowId", event.WorkflowID())
	}
	return recorded, nil
}

// RefreshHotelStats rebuilds the hotel's aggregate after a new event
func (a *Activities) RefreshHotelStats(ctx context.Context, hotelID uuid.UUID) (*repository.HotelStats, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Refreshing hotel stats", "hotelId", hotelID)

	stats, err := a.recorder.RefreshHotelStats(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	logger.Info("Hotel stats refreshed", "hotelId", hotelID, "bookings", stats.Bookings, "ratings", stats.Ratings)
	return stats, nil
}
