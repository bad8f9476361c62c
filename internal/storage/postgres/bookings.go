package postgres

import (
	"context"
	"database/sql"
	"errors"
	"eventBooking/internal/models"
	"eventBooking/internal/storage"
	"fmt"
)

// CreateBooking reserves seats on an event. The seat check and the counter
// increment share one transaction holding the event row lock, so concurrent
// bookings of the same event are serialized.
func (s *Storage) CreateBooking(ctx context.Context, userID, eventID int64, seats int) (*models.Booking, error) {
	const op = "storage.postgres.CreateBooking"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	var userExists bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&userExists)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to check user: %w", op, err)
	}

	if !userExists {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	event, err := lockEvent(ctx, tx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = event.CanBook(seats, s.now()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE events
		SET booked_seats = booked_seats + $1, updated_at = NOW()
		WHERE id = $2`, seats, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to reserve seats: %w", op, err)
	}

	booking := models.Booking{
		UserID:  userID,
		EventID: eventID,
		Seats:   seats,
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO bookings (user_id, event_id, seats)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`, userID, eventID, seats).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create booking: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: failed to commit: %w", op, err)
	}

	return &booking, nil
}

// CancelBooking releases the seats of a booking owned by userID and deletes it.
// Unknown bookings are reported the same way as foreign ones.
func (s *Storage) CancelBooking(ctx context.Context, bookingID, userID int64) error {
	const op = "storage.postgres.CancelBooking"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	var (
		ownerID, eventID int64
		seats            int
	)

	err = tx.QueryRowContext(ctx, `
		SELECT user_id, event_id, seats
		FROM bookings
		WHERE id = $1
		FOR UPDATE`, bookingID).Scan(&ownerID, &eventID, &seats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, storage.ErrBookingForbidden)
		}
		return fmt.Errorf("%s: failed to get booking: %w", op, err)
	}

	if ownerID != userID {
		return fmt.Errorf("%s: %w", op, storage.ErrBookingForbidden)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE events
		SET booked_seats = GREATEST(booked_seats - $1, 0), updated_at = NOW()
		WHERE id = $2`, seats, eventID)
	if err != nil {
		return fmt.Errorf("%s: failed to release seats: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, bookingID)
	if err != nil {
		return fmt.Errorf("%s: failed to delete booking: %w", op, err)
	}

	return tx.Commit()
}

func (s *Storage) GetUserBookings(ctx context.Context, userID int64) ([]models.Booking, error) {
	const op = "storage.postgres.GetUserBookings"

	query := `
		SELECT b.id, b.user_id, b.event_id, b.seats, b.created_at, ` + eventColumns + `
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.id DESC`

	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get bookings: %w", op, err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		var (
			booking models.Booking
			event   models.Event
		)

		err = rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.EventID,
			&booking.Seats,
			&booking.CreatedAt,
			&event.ID,
			&event.Title,
			&event.Description,
			&event.EventDate,
			&event.StartTime,
			&event.EndTime,
			&event.Location,
			&event.ImageURL,
			&event.MaxSeats,
			&event.BookedSeats,
			&event.Tags,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan booking: %w", op, err)
		}

		booking.Event = &event
		bookings = append(bookings, booking)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: error iterating bookings: %w", op, err)
	}

	return bookings, nil
}

// ReconcileBookedSeats repairs events whose booked_seats counter disagrees with
// the sum of their bookings. Each candidate is re-checked under its row lock,
// the same lock CreateBooking takes, so in-flight bookings are never undone.
func (s *Storage) ReconcileBookedSeats(ctx context.Context) (int64, error) {
	const op = "storage.postgres.ReconcileBookedSeats"

	rows, err := s.DB.QueryContext(ctx, `
		SELECT e.id
		FROM events e
		LEFT JOIN bookings b ON b.event_id = e.id
		GROUP BY e.id
		HAVING e.booked_seats <> COALESCE(SUM(b.seats), 0)`)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to find drifted events: %w", op, err)
	}

	var ids []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("%s: failed to scan event id: %w", op, err)
		}
		ids = append(ids, id)
	}
	rows.Close()

	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("%s: error iterating events: %w", op, err)
	}

	var repaired int64
	for _, id := range ids {
		fixed, err := s.reconcileEvent(ctx, id)
		if err != nil {
			return repaired, fmt.Errorf("%s: event %d: %w", op, id, err)
		}
		if fixed {
			repaired++
		}
	}

	return repaired, nil
}

func (s *Storage) reconcileEvent(ctx context.Context, id int64) (bool, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var booked int
	err = tx.QueryRowContext(ctx, `SELECT booked_seats FROM events WHERE id = $1 FOR UPDATE`, id).Scan(&booked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to lock event: %w", err)
	}

	var actual int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(SUM(seats), 0) FROM bookings WHERE event_id = $1`, id).Scan(&actual)
	if err != nil {
		return false, fmt.Errorf("failed to sum seats: %w", err)
	}

	if actual == booked {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `UPDATE events SET booked_seats = $1, updated_at = NOW() WHERE id = $2`, actual, id)
	if err != nil {
		return false, fmt.Errorf("failed to update booked seats: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit: %w", err)
	}

	return true, nil
}
