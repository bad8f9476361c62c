package postgres

import (
	"context"
	"database/sql"
	"errors"
	"eventBooking/internal/models"
	"eventBooking/internal/storage"
	"fmt"
	"strings"
)

func (s *Storage) CreateEvent(ctx context.Context, event models.Event) (*models.Event, error) {
	const op = "storage.postgres.CreateEvent"

	query := `
		INSERT INTO events AS e (title, description, event_date, start_time, end_time,
			location, image_url, max_seats, tags)
		VALUES ($1, $2, $3::date, NULLIF($4, '')::time, NULLIF($5, '')::time, $6, $7, $8, $9)
		RETURNING ` + eventColumns

	var created models.Event
	err := scanEvent(s.DB.QueryRowContext(ctx, query,
		event.Title,
		event.Description,
		event.EventDate,
		event.StartTime,
		event.EndTime,
		event.Location,
		event.ImageURL,
		event.MaxSeats,
		event.Tags,
	), &created)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create event: %w", op, err)
	}

	return &created, nil
}

func (s *Storage) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	const op = "storage.postgres.GetEvent"

	query := `SELECT ` + eventColumns + `
		FROM events e
		WHERE e.id = $1`

	var event models.Event
	err := scanEvent(s.DB.QueryRowContext(ctx, query, id), &event)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
		}
		return nil, fmt.Errorf("%s: failed to get event: %w", op, err)
	}

	return &event, nil
}

func (s *Storage) ListEvents(ctx context.Context, filter models.EventFilter) (*models.EventPage, error) {
	const op = "storage.postgres.ListEvents"

	var (
		conds []string
		args  []any
	)

	if filter.Upcoming != nil {
		now := s.now()
		args = append(args, now.Format(models.DateLayout), now.Format(models.TimeLayout))
		d, t := len(args)-1, len(args)

		if *filter.Upcoming {
			conds = append(conds, fmt.Sprintf(
				"(e.event_date > $%d OR (e.event_date = $%d AND COALESCE(e.start_time, '00:00:00') > $%d))", d, d, t))
		} else {
			conds = append(conds, fmt.Sprintf(
				"(e.event_date < $%d OR (e.event_date = $%d AND COALESCE(e.start_time, '00:00:00') <= $%d))", d, d, t))
		}
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(e.title ILIKE $%d OR e.location ILIKE $%d OR e.tags ILIKE $%d)", n, n, n))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	page := &models.EventPage{
		Events: []models.Event{},
		Page:   filter.Page,
	}

	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events e`+where, args...).Scan(&page.Total)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count events: %w", op, err)
	}

	page.TotalPages = models.TotalPages(page.Total, filter.Limit)

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`SELECT %s FROM events e%s
		ORDER BY e.event_date DESC, e.start_time DESC NULLS LAST, e.id DESC
		LIMIT $%d OFFSET $%d`, eventColumns, where, len(args)-1, len(args))

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get events: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var event models.Event
		if err = scanEvent(rows, &event); err != nil {
			return nil, fmt.Errorf("%s: failed to scan event: %w", op, err)
		}
		page.Events = append(page.Events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: error iterating events: %w", op, err)
	}

	return page, nil
}

// UpdateEvent applies patch under a row lock so the capacity check sees the
// current booked seats.
func (s *Storage) UpdateEvent(ctx context.Context, id int64, patch models.EventPatch) (*models.Event, error) {
	const op = "storage.postgres.UpdateEvent"

	if patch.Empty() {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEmptyUpdate)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	event, err := lockEvent(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if patch.MaxSeats != nil {
		if err = event.ValidateCapacity(*patch.MaxSeats); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	event.Apply(patch)

	query := `
		UPDATE events AS e
		SET title = $2, description = $3, event_date = $4::date,
			start_time = NULLIF($5, '')::time, end_time = NULLIF($6, '')::time,
			location = $7, image_url = $8, max_seats = $9, tags = $10, updated_at = NOW()
		WHERE e.id = $1
		RETURNING ` + eventColumns

	var updated models.Event
	err = scanEvent(tx.QueryRowContext(ctx, query,
		id,
		event.Title,
		event.Description,
		event.EventDate,
		event.StartTime,
		event.EndTime,
		event.Location,
		event.ImageURL,
		event.MaxSeats,
		event.Tags,
	), &updated)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update event: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: failed to commit: %w", op, err)
	}

	return &updated, nil
}

// DeleteEvent removes the event; its bookings go with it through ON DELETE CASCADE.
func (s *Storage) DeleteEvent(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteEvent"

	result, err := s.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: failed to delete event: %w", op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}

	return nil
}

func lockEvent(ctx context.Context, tx *sql.Tx, id int64) (*models.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events e
		WHERE e.id = $1
		FOR UPDATE`

	var event models.Event
	err := scanEvent(tx.QueryRowContext(ctx, query, id), &event)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to lock event: %w", err)
	}

	return &event, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
