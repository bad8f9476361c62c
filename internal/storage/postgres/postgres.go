package postgres

import (
	"database/sql"
	"embed"
	"errors"
	"eventBooking/internal/config"
	"eventBooking/internal/models"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// eventColumns selects an event row aliased as e.
const eventColumns = `e.id, e.title, e.description,
		to_char(e.event_date, 'YYYY-MM-DD'),
		COALESCE(to_char(e.start_time, 'HH24:MI:SS'), ''),
		COALESCE(to_char(e.end_time, 'HH24:MI:SS'), ''),
		e.location, e.image_url, e.max_seats, e.booked_seats, e.tags,
		e.created_at, e.updated_at`

type Storage struct {
	DB *sql.DB

	loc   *time.Location
	clock func() time.Time
}

func InitDB(dbCfg *config.Database, loc *time.Location) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.DBName,
		dbCfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if dbCfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(dbCfg.MaxOpenConns)
		db.SetMaxIdleConns(dbCfg.MaxOpenConns)
	}

	return New(db, loc), nil
}

// New wraps an open connection pool. Event start times are interpreted in loc.
func New(db *sql.DB, loc *time.Location) *Storage {
	if loc == nil {
		loc = time.Local
	}

	return &Storage{
		DB:    db,
		loc:   loc,
		clock: time.Now,
	}
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func (s *Storage) now() time.Time {
	return s.clock().In(s.loc)
}

// Migrate applies the embedded schema migrations using a dedicated connection.
func Migrate(dbCfg *config.Database) error {
	const op = "storage.postgres.Migrate"

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("%s: failed to open migrations: %w", op, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrationURL(dbCfg))
	if err != nil {
		return fmt.Errorf("%s: failed to init migrator: %w", op, err)
	}
	defer m.Close()

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: failed to apply migrations: %w", op, err)
	}

	return nil
}

func migrationURL(dbCfg *config.Database) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(dbCfg.User, dbCfg.Password),
		Host:     dbCfg.Host + ":" + strconv.Itoa(dbCfg.Port),
		Path:     "/" + dbCfg.DBName,
		RawQuery: url.Values{"sslmode": {dbCfg.SSLMode}}.Encode(),
	}

	return u.String()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner, event *models.Event) error {
	return row.Scan(
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
}
