// Package notify delivers committed reservation events to the analytics
// workflow and to live subscribers.
package notify

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/client"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/service"
)

const DefaultTaskQueue = "hotel-analytics-queue"

var (
	_ service.EventPublisher = (*Temporal)(nil)
	_ service.EventPublisher = Multi(nil)
)

// Temporal starts one AnalyticsWorkflow per event. The workflow ID is derived
// from the event, so publishing the same event twice starts one workflow.
type Temporal struct {
	client    client.Client
	taskQueue string
}

func NewTemporal(c client.Client, taskQueue string) *Temporal {
	if taskQueue == "" {
		taskQueue = DefaultTaskQueue
	}
	return &Temporal{client: c, taskQueue: taskQueue}
}

func (t *Temporal) Publish(ctx context.Context, event models.AnalyticsEvent) error {
	options := client.StartWorkflowOptions{
		ID:        event.WorkflowID(),
		TaskQueue: t.taskQueue,
	}

	if _, err := t.client.ExecuteWorkflow(ctx, options, models.AnalyticsWorkflowName, event); err != nil {
		return fmt.Errorf("failed to start analytics workflow %s: %w", options.ID, err)
	}
	return nil
}

// Multi publishes to every publisher and joins their errors.
type Multi []service.EventPublisher

func (m Multi) Publish(ctx context.Context, event models.AnalyticsEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
