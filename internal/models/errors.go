package models

import (
	"errors"
	"fmt"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/daterange"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrHotelNotFound   = fmt.Errorf("hotel %w", ErrNotFound)
	ErrRoomNotFound    = fmt.Errorf("room %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrBookingNotFound = fmt.Errorf("booking %w", ErrNotFound)

	ErrInvalidRange  = daterange.ErrInvalidRange
	ErrDateConflict  = errors.New("room is not available for the requested dates")
	ErrInvalidMark   = errors.New("rating mark out of accepted bounds")
	ErrInvalidFilter = errors.New("invalid filter")
)
