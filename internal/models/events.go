package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// EventKind names an analytics event published after a committed change
type EventKind string

const (
	EventBookingCreated EventKind = "booking_created"
	EventHotelRated     EventKind = "hotel_rated"
)

// Workflow and activity names shared by the API server and the worker
const (
	AnalyticsWorkflowName    = "AnalyticsWorkflow"
	RecordAnalyticsEventName = "RecordAnalyticsEvent"
)

// AnalyticsEvent is the input of the analytics workflow
type AnalyticsEvent struct {
	Kind       EventKind `json:"kind"`
	SubjectID  uuid.UUID `json:"subjectId"`
	HotelID    uuid.UUID `json:"hotelId"`
	RoomID     uuid.UUID `json:"roomId,omitempty"`
	UserID     uuid.UUID `json:"userId,omitempty"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
	Mark       int       `json:"mark,omitempty"`
	Rating     float64   `json:"rating,omitempty"`
	Ratings    int       `json:"ratings,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// WorkflowID returns a deterministic workflow ID so that a re-published event
// does not start a second workflow
func (e AnalyticsEvent) WorkflowID() string {
	return "analytics-" + string(e.Kind) + "-" + e.SubjectID.String()
}

// BookingCreatedEvent builds the analytics event of a committed booking
func BookingCreatedEvent(b Booking) AnalyticsEvent {
	return AnalyticsEvent{
		Kind:       EventBookingCreated,
		SubjectID:  b.ID,
		HotelID:    b.HotelID,
		RoomID:     b.RoomID,
		UserID:     b.UserID,
		From:       b.Dates.From.Format("2006-01-02"),
		To:         b.Dates.To.Format("2006-01-02"),
		OccurredAt: b.CreatedAt,
	}
}

// HotelRatedEvent builds the analytics event of an applied rating mark.
// The subject is the hotel's rating count, which is unique per mark.
func HotelRatedEvent(h Hotel, mark int) AnalyticsEvent {
	return AnalyticsEvent{
		Kind:       EventHotelRated,
		SubjectID:  uuid.NewSHA1(h.ID, []byte(strconv.Itoa(h.NumberOfRatings))),
		HotelID:    h.ID,
		Mark:       mark,
		Rating:     h.Rating,
		Ratings:    h.NumberOfRatings,
		OccurredAt: h.UpdatedAt,
	}
}
