package getAllEvents

import (
	"encoding/json"
	"errors"
	"eventBooking/internal/http-server/handlers/event/getAllEvents/mocks"
	"eventBooking/internal/lib/logger/handlers/slogdiscard"
	"eventBooking/internal/models"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestGetAllEventsHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testEvents := []models.Event{
		{ID: 2, Title: "Jazz Night", EventDate: "2030-06-02", StartTime: "20:00:00", MaxSeats: 50, BookedSeats: 10},
		{ID: 1, Title: "Go Meetup", EventDate: "2030-06-01", StartTime: "18:00:00", MaxSeats: 30},
	}

	testCases := []struct {
		name           string
		query          string
		mockSetup      func(m *mocks.EventsLister)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:  "Success with defaults",
			query: "",
			mockSetup: func(m *mocks.EventsLister) {
				m.On("ListEvents", mock.Anything, models.EventFilter{Page: 1, Limit: 5}).
					Return(&models.EventPage{Events: testEvents, Total: 2, Page: 1, TotalPages: 1}, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				var resp EventsResponse
				require.NoError(t, json.Unmarshal([]byte(body), &resp))

				assert.Equal(t, "OK", resp.Status)
				assert.Len(t, resp.Events, 2)
				assert.Equal(t, "Jazz Night", resp.Events[0].Title)
				assert.Equal(t, 2, resp.Total)
				assert.Equal(t, 1, resp.Page)
				assert.Equal(t, 1, resp.TotalPages)
			},
		},
		{
			name:  "Empty list",
			query: "?upcoming=true&search=rock&page=3&limit=10",
			mockSetup: func(m *mocks.EventsLister) {
				m.On("ListEvents", mock.Anything, models.EventFilter{
					Upcoming: boolPtr(true),
					Search:   "rock",
					Page:     3,
					Limit:    10,
				}).Return(&models.EventPage{Events: []models.Event{}, Total: 4, Page: 3, TotalPages: 1}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","events":[],"total":4,"page":3,"total_pages":1}`,
		},
		{
			name:  "Internal server error",
			query: "",
			mockSetup: func(m *mocks.EventsLister) {
				m.On("ListEvents", mock.Anything, mock.Anything).Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to get events"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockLister := mocks.NewEventsLister(t)
			tc.mockSetup(mockLister)

			handler := New(logger, mockLister)

			req, err := http.NewRequest(http.MethodGet, "/events"+tc.query, nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		query    string
		expected models.EventFilter
	}{
		{
			name:     "Defaults",
			query:    "",
			expected: models.EventFilter{Page: 1, Limit: 5},
		},
		{
			name:     "Past events",
			query:    "upcoming=false",
			expected: models.EventFilter{Upcoming: boolPtr(false), Page: 1, Limit: 5},
		},
		{
			name:     "Unknown upcoming value is ignored",
			query:    "upcoming=yes",
			expected: models.EventFilter{Page: 1, Limit: 5},
		},
		{
			name:     "Malformed paging falls back",
			query:    "page=abc&limit=-3",
			expected: models.EventFilter{Page: 1, Limit: 5},
		},
		{
			name:     "Limit is capped",
			query:    "page=2&limit=1000",
			expected: models.EventFilter{Page: 2, Limit: 100},
		},
		{
			name:     "Search is trimmed",
			query:    "search=%20jazz%20",
			expected: models.EventFilter{Search: "jazz", Page: 1, Limit: 5},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			q, err := url.ParseQuery(tc.query)
			require.NoError(t, err)

			assert.Equal(t, tc.expected, ParseFilter(q))
		})
	}
}
