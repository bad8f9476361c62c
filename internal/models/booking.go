package models

import "time"

const (
	MinSeatsPerBooking = 1
	MaxSeatsPerBooking = 4
)

type Booking struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	EventID   int64     `json:"event_id"`
	Seats     int       `json:"seats"`
	CreatedAt time.Time `json:"created_at"`
	Event     *Event    `json:"event,omitempty"`
}
