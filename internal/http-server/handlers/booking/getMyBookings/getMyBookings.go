package getMyBookings

import (
	"context"
	"eventBooking/internal/http-server/middleware/mwauth"
	"eventBooking/internal/lib/api/response"
	"eventBooking/internal/lib/logger/sl"
	"eventBooking/internal/models"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type BookingsResponse struct {
	response.Response
	Bookings []models.Booking `json:"bookings"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingsGetter
type BookingsGetter interface {
	GetUserBookings(ctx context.Context, userID int64) ([]models.Booking, error)
}

func New(log *slog.Logger, bookingsGetter BookingsGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.getMyBookings.New"

		log := log.With(slog.String("op", op))

		userID, ok := mwauth.UserIDFromContext(r.Context())
		if !ok {
			log.Error("user id missing from context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}

		bookings, err := bookingsGetter.GetUserBookings(r.Context(), userID)
		if err != nil {
			log.Error("failed to get bookings", sl.Err(err), slog.Int64("user_id", userID))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get bookings"))
			return
		}

		log.Info("bookings retrieved", slog.Int64("user_id", userID), slog.Int("count", len(bookings)))

		if bookings == nil {
			bookings = []models.Booking{}
		}

		render.JSON(w, r, BookingsResponse{
			Response: response.OK(),
			Bookings: bookings,
		})
	}
}
