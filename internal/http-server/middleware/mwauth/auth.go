package mwauth

import (
	"context"
	"eventBooking/internal/lib/api/response"
	"eventBooking/internal/lib/jwt"
	"eventBooking/internal/lib/logger/sl"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
)

type ctxKey struct{}

// New rejects requests without a valid bearer token and stores the token
// claims in the request context.
func New(log *slog.Logger, secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log := log.With(slog.String("component", "middleware/auth"))

		fn := func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing bearer token"))
				return
			}

			claims, err := jwt.ParseToken(strings.TrimSpace(token), secret)
			if err != nil {
				log.Info("rejected token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		}

		return http.HandlerFunc(fn)
	}
}

// RequireAdmin must run after New.
func RequireAdmin(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("missing bearer token"))
			return
		}

		if !claims.IsAdmin() {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("admin access required"))
			return
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

func WithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

func ClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(*jwt.Claims)
	return claims, ok
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}

	id, err := claims.UserID()
	if err != nil {
		return 0, false
	}

	return id, true
}
