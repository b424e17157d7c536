package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/activities"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/repository"
)

const (
	// ActivityTimeout bounds a single attempt of an analytics activity
	ActivityTimeout = 30 * time.Second
	// MaxActivityAttempts is how often a failing activity is tried
	MaxActivityAttempts = 5
)

// AnalyticsResult is the result of the analytics workflow
type AnalyticsResult struct {
	Recorded bool                   `json:"recorded"`
	Stats    *repository.HotelStats `json:"stats,omitempty"`
}

// AnalyticsWorkflow records a committed reservation event and refreshes the
// hotel's aggregate. A duplicate event leaves the aggregate untouched.
func AnalyticsWorkflow(ctx workflow.Context, event models.AnalyticsEvent) (*AnalyticsResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Analytics workflow started", "kind", event.Kind, "hotelId", event.HotelID)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: ActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    MaxActivityAttempts,
		},
	})

	result := &AnalyticsResult{}
	if err := workflow.ExecuteActivity(ctx, activities.RecordAnalyticsEventName, event).Get(ctx, &result.Recorded); err != nil {
		logger.Error("Failed to record analytics event", "error", err)
		return nil, err
	}
	if !result.Recorded {
		return result, nil
	}

	var stats repository.HotelStats
	if err := workflow.ExecuteActivity(ctx, activities.RefreshHotelStatsName, event.HotelID).Get(ctx, &stats); err != nil {
		logger.Error("Failed to refresh hotel stats", "error", err)
		return nil, err
	}
	result.Stats = &stats

	logger.Info("Analytics workflow completed", "hotelId", event.HotelID, "bookings", stats.Bookings, "ratings", stats.Ratings)
	return result, nil
}
