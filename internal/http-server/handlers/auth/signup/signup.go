package signup

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

type Request struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type Response struct {
	response.Response
	AccessToken string `json:"access_token,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=UserCreator
type UserCreator interface {
	CreateUser(ctx context.Context, name, email, passwordHash, role string) (*models.User, error)
}

func New(log *slog.Logger, userCreator UserCreator, secret string, tokenTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.signup.New"

		log := log.With(slog.String("op", op))

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		req.Name = strings.TrimSpace(req.Name)
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

		hash, err := password.Hash(req.Password)
		if err != nil {
			log.Error("failed to hash password", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create user"))
			return
		}

		user, err := userCreator.CreateUser(r.Context(), req.Name, req.Email, hash, models.RoleUser)
		if err != nil {
			if errors.Is(err, storage.ErrUserExists) {
				log.Info("email already used")
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error(storage.ErrUserExists.Error()))
				return
			}

			log.Error("failed to create user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create user"))
			return
		}

		token, err := jwt.NewToken(user, secret, tokenTTL)
		if err != nil {
			log.Error("failed to issue token", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create user"))
			return
		}

		log.Info("user registered", slog.Int64("user_id", user.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response:    response.OK(),
			AccessToken: token,
		})
	}
}
