// Package rating folds individual guest marks into a hotel's running average.
package rating

import (
	"fmt"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
)

// Bounds is the inclusive range of accepted marks.
type Bounds struct {
	Min int
	Max int
}

// DefaultBounds accepts marks from 1 to 5.
var DefaultBounds = Bounds{Min: 1, Max: 5}

// Validate reports models.ErrInvalidMark when mark lies outside b.
func (b Bounds) Validate(mark int) error {
	if mark < b.Min || mark > b.Max {
		return fmt.Errorf("%w: %d is outside [%d, %d]", models.ErrInvalidMark, mark, b.Min, b.Max)
	}
	return nil
}

// Check rejects bounds that cannot hold any mark.
func (b Bounds) Check() error {
	if b.Min > b.Max {
		return fmt.Errorf("rating bounds [%d, %d] are empty", b.Min, b.Max)
	}
	return nil
}

// Fold adds mark to h's arithmetic mean and increments the rating count.
// The first mark of an unrated hotel becomes its rating.
func Fold(h *models.Hotel, mark int) {
	count := float64(h.NumberOfRatings)
	h.Rating = (h.Rating*count + float64(mark)) / (count + 1)
	h.NumberOfRatings++
}
