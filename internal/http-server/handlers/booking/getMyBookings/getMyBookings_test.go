package getMyBookings

import (
	"context"
	"encoding/json"
	"errors"
	"eventBooking/internal/http-server/handlers/booking/getMyBookings/mocks"
	"eventBooking/internal/http-server/middleware/mwauth"
	"eventBooking/internal/lib/jwt"
	"eventBooking/internal/lib/logger/handlers/slogdiscard"
	"eventBooking/internal/models"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func withUser(ctx context.Context, userID string) context.Context {
	return mwauth.WithClaims(ctx, &jwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{Subject: userID},
	})
}

func TestGetMyBookingsHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	now := time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC)

	testBookings := []models.Booking{
		{
			ID: 2, UserID: 5, EventID: 1, Seats: 3, CreatedAt: now,
			Event: &models.Event{ID: 1, Title: "Go Meetup", EventDate: "2030-06-01"},
		},
		{
			ID: 1, UserID: 5, EventID: 4, Seats: 1, CreatedAt: now.Add(-time.Hour),
			Event: &models.Event{ID: 4, Title: "Jazz Night", EventDate: "2030-07-01"},
		},
	}

	testCases := []struct {
		name           string
		anonymous      bool
		mockSetup      func(m *mocks.BookingsGetter)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name: "Success",
			mockSetup: func(m *mocks.BookingsGetter) {
				m.On("GetUserBookings", mock.Anything, int64(5)).Return(testBookings, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				var resp BookingsResponse
				require.NoError(t, json.Unmarshal([]byte(body), &resp))

				assert.Equal(t, "OK", resp.Status)
				require.Len(t, resp.Bookings, 2)
				assert.Equal(t, int64(2), resp.Bookings[0].ID)
				require.NotNil(t, resp.Bookings[0].Event)
				assert.Equal(t, "Go Meetup", resp.Bookings[0].Event.Title)
			},
		},
		{
			name: "No bookings",
			mockSetup: func(m *mocks.BookingsGetter) {
				m.On("GetUserBookings", mock.Anything, int64(5)).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","bookings":[]}`,
		},
		{
			name:           "Anonymous request",
			anonymous:      true,
			mockSetup:      func(m *mocks.BookingsGetter) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name: "Internal error",
			mockSetup: func(m *mocks.BookingsGetter) {
				m.On("GetUserBookings", mock.Anything, int64(5)).Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to get bookings"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			getter := mocks.NewBookingsGetter(t)
			tc.mockSetup(getter)

			req, err := http.NewRequest(http.MethodGet, "/bookings/me", nil)
			require.NoError(t, err)

			if !tc.anonymous {
				req = req.WithContext(withUser(req.Context(), "5"))
			}

			rr := httptest.NewRecorder()
			New(logger, getter).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}
