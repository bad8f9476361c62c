package health

import (
	"errors"
	"eventBooking/internal/http-server/handlers/health/mocks"
	"eventBooking/internal/lib/logger/handlers/slogdiscard"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	t.Run("Database only", func(t *testing.T) {
		t.Parallel()

		db := mocks.NewPinger(t)
		db.On("PingContext", mock.Anything).Return(nil)

		rr := httptest.NewRecorder()
		New(logger, db, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"OK"}`, rr.Body.String())
	})

	t.Run("Database down", func(t *testing.T) {
		t.Parallel()

		db := mocks.NewPinger(t)
		db.On("PingContext", mock.Anything).Return(errors.New("connection refused"))

		rr := httptest.NewRecorder()
		New(logger, db, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.JSONEq(t, `{"status":"Error","error":"database is unavailable"}`, rr.Body.String())
	})

	t.Run("Redis healthy", func(t *testing.T) {
		t.Parallel()

		db := mocks.NewPinger(t)
		db.On("PingContext", mock.Anything).Return(nil)

		cache, redisMock := redismock.NewClientMock()
		redisMock.ExpectPing().SetVal("PONG")

		rr := httptest.NewRecorder()
		New(logger, db, cache).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("Redis down", func(t *testing.T) {
		t.Parallel()

		db := mocks.NewPinger(t)
		db.On("PingContext", mock.Anything).Return(nil)

		cache, redisMock := redismock.NewClientMock()
		redisMock.ExpectPing().SetErr(errors.New("i/o timeout"))

		rr := httptest.NewRecorder()
		New(logger, db, cache).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.JSONEq(t, `{"status":"Error","error":"redis is unavailable"}`, rr.Body.String())
	})
}
