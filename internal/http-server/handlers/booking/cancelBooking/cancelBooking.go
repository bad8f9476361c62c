package cancelBooking

import (
	"context"
	"errors"
	"eventBooking/internal/http-server/middleware/mwauth"
	"eventBooking/internal/lib/api/response"
	"eventBooking/internal/lib/logger/sl"
	"eventBooking/internal/metrics"
	"eventBooking/internal/storage"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingCanceller
type BookingCanceller interface {
	CancelBooking(ctx context.Context, bookingID, userID int64) error
}

func New(log *slog.Logger, bookingCanceller BookingCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.cancelBooking.New"

		log := log.With(slog.String("op", op))

		userID, ok := mwauth.UserIDFromContext(r.Context())
		if !ok {
			log.Error("user id missing from context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}

		bookingIDStr := chi.URLParam(r, "id")
		if bookingIDStr == "" {
			log.Error("booking id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("booking id is required"))
			return
		}

		bookingID, err := strconv.ParseInt(bookingIDStr, 10, 64)
		if err != nil {
			log.Error("invalid booking id format", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid booking id format"))
			return
		}

		log = log.With(slog.Int64("booking_id", bookingID), slog.Int64("user_id", userID))

		err = bookingCanceller.CancelBooking(r.Context(), bookingID, userID)
		if err != nil {
			if errors.Is(err, storage.ErrBookingForbidden) {
				log.Warn("cancel rejected")
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(storage.ErrBookingForbidden.Error()))
				return
			}

			log.Error("failed to cancel booking", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to cancel booking"))
			return
		}

		metrics.BookingCancelled()
		log.Info("booking cancelled")

		render.JSON(w, r, response.OK())
	}
}
