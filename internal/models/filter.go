package models

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/daterange"
)

// Page selects a window of a result set. Number is zero-based.
type Page struct {
	Size   int `json:"size"`
	Number int `json:"number"`
}

// Offset returns the number of rows preceding the page
func (p Page) Offset() int {
	return p.Size * p.Number
}

// Validate rejects non-positive sizes, negative page numbers and pages whose
// offset does not fit in an int.
func (p Page) Validate() error {
	if p.Size <= 0 || p.Number < 0 {
		return ErrInvalidFilter
	}
	if p.Number > math.MaxInt/p.Size {
		return ErrInvalidFilter
	}
	return nil
}

// HotelFilter holds the optional criteria of a hotel search.
// An all-absent filter matches every hotel.
type HotelFilter struct {
	IDs                   []uuid.UUID
	Name                  *string
	City                  *string
	Address               *string
	MaxDistanceFromCenter *float64
	MinRating             *float64
	MinNumberOfRatings    *int
	Page                  *Page
}

// RoomFilter holds the optional criteria of a room search.
// An all-absent filter matches every room.
type RoomFilter struct {
	IDs         []uuid.UUID
	Description *string
	MinPrice    *float64
	MaxPrice    *float64
	MaxPeople   *int
	From        *time.Time
	To          *time.Time
	HotelID     *uuid.UUID
	Page        *Page
}

// Stay returns the requested stay window when both endpoints are present.
// A single endpoint yields ok == false and no availability constraint.
func (f RoomFilter) Stay() (stay daterange.DateRange, ok bool, err error) {
	if f.From == nil || f.To == nil {
		return daterange.DateRange{}, false, nil
	}
	stay, err = daterange.New(*f.From, *f.To)
	if err != nil {
		return daterange.DateRange{}, false, err
	}
	return stay, true, nil
}
