package models

import (
	"errors"
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

var (
	ErrPastEvent           = errors.New("cannot book a past event")
	ErrNotEnoughSeats      = errors.New("not enough seats available")
	ErrInvalidSeats        = errors.New("seats must be between 1 and 4")
	ErrInvalidCapacity     = errors.New("max seats must be at least 1")
	ErrCapacityBelowBooked = errors.New("max seats below booked seats")
)

type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   string    `json:"event_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"image_url"`
	MaxSeats    int       `json:"max_seats"`
	BookedSeats int       `json:"booked_seats"`
	Tags        string    `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventPatch carries a partial update. Nil fields are left untouched.
type EventPatch struct {
	Title       *string
	Description *string
	EventDate   *string
	StartTime   *string
	EndTime     *string
	Location    *string
	ImageURL    *string
	MaxSeats    *int
	Tags        *string
}

func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.EventDate == nil &&
		p.StartTime == nil && p.EndTime == nil && p.Location == nil &&
		p.ImageURL == nil && p.MaxSeats == nil && p.Tags == nil
}

// CapacityError reports an attempt to shrink an event below its booked seats.
type CapacityError struct {
	MaxSeats    int
	BookedSeats int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("maxSeats (%d) cannot be less than currently booked (%d)", e.MaxSeats, e.BookedSeats)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityBelowBooked
}

// StartsAt combines the event date and start time in loc.
// An event without a start time starts at midnight.
func (e *Event) StartsAt(loc *time.Location) (time.Time, error) {
	clock := e.StartTime
	if clock == "" {
		clock = "00:00:00"
	}

	return time.ParseInLocation(DateLayout+" "+TimeLayout, e.EventDate+" "+clock, loc)
}

func (e *Event) AvailableSeats() int {
	if e.BookedSeats >= e.MaxSeats {
		return 0
	}

	return e.MaxSeats - e.BookedSeats
}

// CanBook checks whether seats can be reserved on the event at now.
func (e *Event) CanBook(seats int, now time.Time) error {
	if seats < MinSeatsPerBooking || seats > MaxSeatsPerBooking {
		return ErrInvalidSeats
	}

	start, err := e.StartsAt(now.Location())
	if err != nil {
		return fmt.Errorf("invalid event start: %w", err)
	}

	if !start.After(now) {
		return ErrPastEvent
	}

	if e.BookedSeats+seats > e.MaxSeats {
		return ErrNotEnoughSeats
	}

	return nil
}

func (e *Event) ValidateCapacity(maxSeats int) error {
	if maxSeats < 1 {
		return ErrInvalidCapacity
	}

	if maxSeats < e.BookedSeats {
		return &CapacityError{MaxSeats: maxSeats, BookedSeats: e.BookedSeats}
	}

	return nil
}

// Apply copies the non-nil fields of p onto e.
func (e *Event) Apply(p EventPatch) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.EventDate != nil {
		e.EventDate = *p.EventDate
	}
	if p.StartTime != nil {
		e.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		e.EndTime = *p.EndTime
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.ImageURL != nil {
		e.ImageURL = *p.ImageURL
	}
	if p.MaxSeats != nil {
		e.MaxSeats = *p.MaxSeats
	}
	if p.Tags != nil {
		e.Tags = *p.Tags
	}
}

type EventFilter struct {
	// Upcoming is nil for no filter, true for events starting after now,
	// false for events that already started.
	Upcoming *bool
	Search   string
	Page     int
	Limit    int
}

func (f EventFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}

	return (f.Page - 1) * f.Limit
}

type EventPage struct {
	Events     []Event `json:"events"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
}

func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}

	return (total + limit - 1) / limit
}
