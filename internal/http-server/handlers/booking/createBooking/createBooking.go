package createBooking

import (
	"context"
	"errors"
	"eventBooking/internal/http-server/middleware/mwauth"
	"eventBooking/internal/lib/api/response"
	"eventBooking/internal/lib/logger/sl"
	"eventBooking/internal/metrics"
	"eventBooking/internal/models"
	"eventBooking/internal/storage"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

const successMessage = "Booking created successfully"

type BookingRequest struct {
	EventID int64 `json:"event_id" validate:"required,min=1"`
	Seats   int   `json:"seats" validate:"required,min=1,max=4"`
}

type BookingResponse struct {
	response.Response
	Message   string `json:"message,omitempty"`
	BookingID int64  `json:"booking_id,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingCreator
type BookingCreator interface {
	CreateBooking(ctx context.Context, userID, eventID int64, seats int) (*models.Booking, error)
}

func New(log *slog.Logger, bookingCreator BookingCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.createBooking.New"

		log := log.With(slog.String("op", op))

		userID, ok := mwauth.UserIDFromContext(r.Context())
		if !ok {
			log.Error("user id missing from context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}

		var req BookingRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		log = log.With(
			slog.Int64("user_id", userID),
			slog.Int64("event_id", req.EventID),
			slog.Int("seats", req.Seats),
		)

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		booking, err := bookingCreator.CreateBooking(r.Context(), userID, req.EventID, req.Seats)
		if err != nil {
			bookingError(log, w, r, err)
			return
		}

		metrics.BookingCreated(booking.Seats)
		log.Info("event booked successfully", slog.Int64("booking_id", booking.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, BookingResponse{
			Response:  response.OK(),
			Message:   successMessage,
			BookingID: booking.ID,
		})
	}
}

func bookingError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrEventNotFound):
		metrics.BookingRejected(metrics.RejectNotFound)
		log.Info("event not found")
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("event not found"))
	case errors.Is(err, storage.ErrUserNotFound):
		metrics.BookingRejected(metrics.RejectNotFound)
		log.Info("user not found")
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
	case errors.Is(err, models.ErrPastEvent):
		metrics.BookingRejected(metrics.RejectPastEvent)
		log.Info("past event")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(models.ErrPastEvent.Error()))
	case errors.Is(err, models.ErrNotEnoughSeats):
		metrics.BookingRejected(metrics.RejectNotEnoughSeats)
		log.Info("not enough seats")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(models.ErrNotEnoughSeats.Error()))
	case errors.Is(err, models.ErrInvalidSeats):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(models.ErrInvalidSeats.Error()))
	default:
		log.Error("failed to book event", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to book event"))
	}
}
