package storage

import "errors"

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("email already used")
	ErrBookingForbidden = errors.New("you can only cancel your own bookings")
	ErrEmptyUpdate      = errors.New("update payload cannot be empty")
)
