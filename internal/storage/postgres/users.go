package postgres

import (
	"context"
	"database/sql"
	"errors"
	"eventBooking/internal/models"
	"eventBooking/internal/storage"
	"fmt"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

func (s *Storage) CreateUser(ctx context.Context, name, email, passwordHash, role string) (*models.User, error) {
	const op = "storage.postgres.CreateUser"

	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}

	err := s.DB.QueryRowContext(ctx, query, name, email, passwordHash, role).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return nil, fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgres.GetUserByEmail"

	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE email = $1`

	var user models.User
	err := s.DB.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	return &user, nil
}
