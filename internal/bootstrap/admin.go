package bootstrap

import (
	"context"
	"errors"
	"eventBooking/internal/config"
	"eventBooking/internal/lib/password"
	"eventBooking/internal/models"
	"eventBooking/internal/storage"
	"fmt"
	"log/slog"
	"strings"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=UserCreator
type UserCreator interface {
	CreateUser(ctx context.Context, name, email, passwordHash, role string) (*models.User, error)
}

// EnsureAdmin creates the configured admin account unless it already exists.
// It does nothing when no admin email is configured.
func EnsureAdmin(ctx context.Context, log *slog.Logger, users UserCreator, cfg config.Admin) error {
	const op = "bootstrap.EnsureAdmin"

	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	if email == "" {
		log.Debug("admin bootstrap skipped: no email configured")
		return nil
	}

	if cfg.Password == "" {
		return fmt.Errorf("%s: admin password is not set", op)
	}

	hash, err := password.Hash(cfg.Password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	user, err := users.CreateUser(ctx, cfg.Name, email, hash, models.RoleAdmin)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Info("admin account already exists", slog.String("email", email))
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("admin account created", slog.String("email", email), slog.Int64("id", user.ID))

	return nil
}
