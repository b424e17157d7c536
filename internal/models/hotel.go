package models

import (
	"time"

	"github.com/google/uuid"
)

// Hotel represents a hotel with its running rating aggregate
type Hotel struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	City               string    `json:"city" db:"city"`
	Address            string    `json:"address" db:"address"`
	DistanceFromCenter float64   `json:"distanceFromCenter" db:"distance_from_center"`
	Rating             float64   `json:"rating" db:"rating"`
	NumberOfRatings    int       `json:"numberOfRatings" db:"number_of_ratings"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`
}

// HotelPatch carries the fields of a partial hotel update. Nil fields are left untouched.
// Rating fields are only changed through the rating aggregator.
type HotelPatch struct {
	Name               *string  `json:"name,omitempty"`
	City               *string  `json:"city,omitempty"`
	Address            *string  `json:"address,omitempty"`
	DistanceFromCenter *float64 `json:"distanceFromCenter,omitempty"`
}

// ApplyTo copies the present fields onto h
func (p HotelPatch) ApplyTo(h *Hotel) {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.City != nil {
		h.City = *p.City
	}
	if p.Address != nil {
		h.Address = *p.Address
	}
	if p.DistanceFromCenter != nil {
		h.DistanceFromCenter = *p.DistanceFromCenter
	}
}

// IsEmpty reports whether the patch changes nothing
func (p HotelPatch) IsEmpty() bool {
	return p.Name == nil && p.City == nil && p.Address == nil && p.DistanceFromCenter == nil
}
