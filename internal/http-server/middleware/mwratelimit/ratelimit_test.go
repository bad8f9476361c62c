package mwratelimit

import (
	"errors"
	"eventBooking/internal/lib/logger/handlers/slogdiscard"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

const key = "ratelimit:auth:192.0.2.1"

func serve(t *testing.T, handler http.Handler) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("First request opens window", func(t *testing.T) {
		t.Parallel()

		db, mock := redismock.NewClientMock()
		mock.ExpectIncr(key).SetVal(1)
		mock.ExpectExpire(key, time.Minute).SetVal(true)

		rr := serve(t, New(logger, db, "auth", 2, time.Minute)(next))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Within limit", func(t *testing.T) {
		t.Parallel()

		db, mock := redismock.NewClientMock()
		mock.ExpectIncr(key).SetVal(2)

		rr := serve(t, New(logger, db, "auth", 2, time.Minute)(next))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Over limit", func(t *testing.T) {
		t.Parallel()

		db, mock := redismock.NewClientMock()
		mock.ExpectIncr(key).SetVal(3)

		rr := serve(t, New(logger, db, "auth", 2, time.Minute)(next))

		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.Equal(t, "60", rr.Header().Get("Retry-After"))
		assert.JSONEq(t, `{"status":"Error","error":"too many requests, try again later"}`, rr.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Redis down fails open", func(t *testing.T) {
		t.Parallel()

		db, mock := redismock.NewClientMock()
		mock.ExpectIncr(key).SetErr(errors.New("connection refused"))

		rr := serve(t, New(logger, db, "auth", 2, time.Minute)(next))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
