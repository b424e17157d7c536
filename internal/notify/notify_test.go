package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
)

func event() models.AnalyticsEvent {
	b := models.Booking{ID: uuid.New(), RoomID: uuid.New(), HotelID: uuid.New(), UserID: uuid.New(), CreatedAt: time.Now()}
	b.Dates.From = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	b.Dates.To = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	return models.BookingCreatedEvent(b)
}

func TestTemporal_Publish(t *testing.T) {
	c := &mocks.Client{}
	e := event()

	c.On("ExecuteWorkflow",
		mock.Anything,
		mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
			return o.ID == "analytics-booking_created-"+e.SubjectID.String() && o.TaskQueue == "test-queue"
		}),
		models.AnalyticsWorkflowName,
		e,
	).Return(&mocks.WorkflowRun{}, nil)

	require.NoError(t, NewTemporal(c, "test-queue").Publish(context.Background(), e))
	c.AssertExpectations(t)
}

func TestTemporal_PublishError(t *testing.T) {
	c := &mocks.Client{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("frontend unavailable"))

	err := NewTemporal(c, "").Publish(context.Background(), event())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frontend unavailable")
}

func TestNewTemporal_DefaultQueue(t *testing.T) {
	assert.Equal(t, DefaultTaskQueue, NewTemporal(&mocks.Client{}, "").taskQueue)
}

type publisherFunc func(ctx context.Context, e models.AnalyticsEvent) error

func (f publisherFunc) Publish(ctx context.Context, e models.AnalyticsEvent) error { return f(ctx, e) }

func TestMulti_PublishesToAllAndJoinsErrors(t *testing.T) {
	errA := errors.New("a failed")
	errC := errors.New("c failed")
	var calls []string

	m := Multi{
		publisherFunc(func(context.Context, models.AnalyticsEvent) error { calls = append(calls, "a"); return errA }),
		publisherFunc(func(context.Context, models.AnalyticsEvent) error { calls = append(calls, "b"); return nil }),
		publisherFunc(func(context.Context, models.AnalyticsEvent) error { calls = append(calls, "c"); return errC }),
	}

	err := m.Publish(context.Background(), event())
	assert.Equal(t, []string{"a", "b", "c"}, calls)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errC)

	assert.NoError(t, Multi{}.Publish(context.Background(), event()))
}
