package health

import (
	"context"
	"eventBooking/internal/lib/api/response"
	"eventBooking/internal/lib/logger/sl"
	redisstore "eventBooking/internal/storage/redis"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 2 * time.Second

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Pinger
type Pinger interface {
	PingContext(ctx context.Context) error
}

// New reports whether the database and, when configured, Redis are reachable.
// cache may be nil.
func New(log *slog.Logger, db Pinger, cache redis.Cmdable) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.health.New"

		log := log.With(slog.String("op", op))

		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			log.Error("database is unreachable", sl.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("database is unavailable"))
			return
		}

		if cache != nil {
			if err := redisstore.HealthCheck(ctx, cache); err != nil {
				log.Error("redis is unreachable", sl.Err(err))
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.Error("redis is unavailable"))
				return
			}
		}

		render.JSON(w, r, response.OK())
	}
}
