package login

import (
	"context"
	"errors"
	"eventBooking/internal/lib/api/response"
	"eventBooking/internal/lib/jwt"
	"eventBooking/internal/lib/logger/sl"
	"eventBooking/internal/lib/password"
	"eventBooking/internal/models"
	"eventBooking/internal/storage"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

const invalidCredentials = "invalid email or password"

type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Response struct {
	response.Response
	AccessToken string `json:"access_token,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=UserProvider
type UserProvider interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

func New(log *slog.Logger, userProvider UserProvider, secret string, tokenTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.login.New"

		log := log.With(slog.String("op", op))

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		log = log.With(slog.String("email", req.Email))

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		user, err := userProvider.GetUserByEmail(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				log.Info("unknown email")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(invalidCredentials))
				return
			}

			log.Error("failed to get user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to login"))
			return
		}

		ok, err := password.Verify(user.PasswordHash, req.Password)
		if err != nil {
			log.Error("failed to verify password", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to login"))
			return
		}

		if !ok {
			log.Info("wrong password")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error(invalidCredentials))
			return
		}

		token, err := jwt.NewToken(user, secret, tokenTTL)
		if err != nil {
			log.Error("failed to issue token", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to login"))
			return
		}

		log.Info("user logged in", slog.Int64("user_id", user.ID))

		render.JSON(w, r, Response{
			Response:    response.OK(),
			AccessToken: token,
		})
	}
}
