package mwratelimit

import (
	"eventBooking/internal/lib/api/response"
	"eventBooking/internal/lib/logger/sl"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// New allows at most limit requests per client IP within window, counted in
// Redis. Redis failures let the request through.
func New(log *slog.Logger, client redis.Cmdable, scope string, limit int, window time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log := log.With(
			slog.String("component", "middleware/ratelimit"),
			slog.String("scope", scope),
		)

		log.Info("rate limit middleware enabled", slog.Int("limit", limit), slog.String("window", window.String()))

		fn := func(w http.ResponseWriter, r *http.Request) {
			key := keyPrefix + scope + ":" + clientIP(r)

			count, err := client.Incr(r.Context(), key).Result()
			if err != nil {
				log.Error("failed to count request", sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if count == 1 {
				if err = client.Expire(r.Context(), key, window).Err(); err != nil {
					log.Error("failed to set window expiry", sl.Err(err))
				}
			}

			if count > int64(limit) {
				log.Warn("rate limit exceeded", slog.String("key", key), slog.Int64("count", count))
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
