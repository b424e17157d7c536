package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/daterange"
	"github.com/cx-tal-miterani/hotel-reservation-system/internal/models"
)

// query reads optional filter parameters, remembering the first parse failure.
type query struct {
	values url.Values
	err    error
}

func (q *query) fail(key string, err error) {
	if q.err == nil {
		q.err = fmt.Errorf("%w: %s: %v", models.ErrInvalidFilter, key, err)
	}
}

func (q *query) text(key string) *string {
	if !q.values.Has(key) {
		return nil
	}
	v := q.values.Get(key)
	return &v
}

func (q *query) float(key string) *float64 {
	if !q.values.Has(key) {
		return nil
	}
	v, err := strconv.ParseFloat(q.values.Get(key), 64)
	if err != nil {
		q.fail(key, err)
		return nil
	}
	return &v
}

func (q *query) integer(key string) *int {
	if !q.values.Has(key) {
		return nil
	}
	v, err := strconv.Atoi(q.values.Get(key))
	if err != nil {
		q.fail(key, err)
		return nil
	}
	return &v
}

func (q *query) date(key string) *time.Time {
	if !q.values.Has(key) {
		return nil
	}
	v, err := daterange.ParseDate(q.values.Get(key))
	if err != nil {
		q.fail(key, err)
		return nil
	}
	return &v
}

func (q *query) id(key string) *uuid.UUID {
	if !q.values.Has(key) {
		return nil
	}
	v, err := uuid.Parse(q.values.Get(key))
	if err != nil {
		q.fail(key, err)
		return nil
	}
	return &v
}

// ids accepts both ?ids=a,b and ?ids=a&ids=b
func (q *query) ids(key string) []uuid.UUID {
	var out []uuid.UUID
	for _, raw := range q.values[key] {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			id, err := uuid.Parse(s)
			if err != nil {
				q.fail(key, err)
				return nil
			}
			out = append(out, id)
		}
	}
	return out
}

// page requires pageSize and pageNumber together
func (q *query) page() *models.Page {
	size, number := q.integer("pageSize"), q.integer("pageNumber")
	if q.err != nil {
		return nil
	}
	switch {
	case size == nil && number == nil:
		return nil
	case size == nil || number == nil:
		q.err = fmt.Errorf("%w: pageSize and pageNumber must be given together", models.ErrInvalidFilter)
		return nil
	}
	p := &models.Page{Size: *size, Number: *number}
	if err := p.Validate(); err != nil {
		q.err = fmt.Errorf("%w: pageSize must be positive and pageNumber non-negative", models.ErrInvalidFilter)
		return nil
	}
	return p
}

func parseHotelFilter(values url.Values) (models.HotelFilter, error) {
	q := &query{values: values}
	f := models.HotelFilter{
		IDs:                   q.ids("ids"),
		Name:                  q.text("name"),
		City:                  q.text("city"),
		Address:               q.text("address"),
		MaxDistanceFromCenter: q.float("maxDistance"),
		MinRating:             q.float("minRating"),
		MinNumberOfRatings:    q.integer("minRatings"),
	}
	f.Page = q.page()
	return f, q.err
}

func parseRoomFilter(values url.Values) (models.RoomFilter, error) {
	q := &query{values: values}
	f := models.RoomFilter{
		IDs:         q.ids("ids"),
		Description: q.text("description"),
		MinPrice:    q.float("minPrice"),
		MaxPrice:    q.float("maxPrice"),
		MaxPeople:   q.integer("maxPeople"),
		From:        q.date("from"),
		To:          q.date("to"),
		HotelID:     q.id("hotelId"),
	}
	f.Page = q.page()
	return f, q.err
}
