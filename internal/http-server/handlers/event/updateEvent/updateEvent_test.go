package updateEvent

import (
	"bytes"
	"encoding/json"
	"errors"
	"eventBooking/internal/http-server/handlers/event/updateEvent/mocks"
	"eventBooking/internal/lib/logger/handlers/slogdiscard"
	"eventBooking/internal/lib/upload"
	"eventBooking/internal/models"
	"eventBooking/internal/storage"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func imageOnlyBody(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "new.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func jsonBody(s string) func(t *testing.T) (*bytes.Buffer, string) {
	return func(t *testing.T) (*bytes.Buffer, string) {
		return bytes.NewBufferString(s), "application/json"
	}
}

func TestUpdateEventHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	updated := &models.Event{
		ID:          1,
		Title:       "Renamed",
		EventDate:   "2030-06-01",
		StartTime:   "18:00:00",
		MaxSeats:    40,
		BookedSeats: 12,
	}

	testCases := []struct {
		name           string
		eventID        string
		body           func(t *testing.T) (*bytes.Buffer, string)
		mockSetup      func(updater *mocks.EventUpdater, images *mocks.ImageSaver)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:    "Partial JSON update",
			eventID: "1",
			body:    jsonBody(`{"title":"Renamed","max_seats":40}`),
			mockSetup: func(updater *mocks.EventUpdater, images *mocks.ImageSaver) {
				updater.On("UpdateEvent", mock.Anything, int64(1), models.EventPatch{
					Title:    strPtr("Renamed"),
					MaxSeats: intPtr(40),
				}).Return(updated, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				var resp EventResponse
				require.NoError(t, json.Unmarshal([]byte(body), &resp))

				assert.Equal(t, "OK", resp.Status)
				require.NotNil(t, resp.Event)
				assert.Equal(t, "Renamed", resp.Event.Title)
				assert.Equal(t, 40, resp.Event.MaxSeats)
			},
		},
		{
			name:    "Image only update",
			eventID: "1",
			body:    imageOnlyBody,
			mockSetup: func(updater *mocks.EventUpdater, images *mocks.ImageSaver) {
				images.On("Save", mock.Anything, "new.jpg").Return("/uploads/2-def.jpg", nil)
				updater.On("UpdateEvent", mock.Anything, int64(1), models.EventPatch{
					ImageURL: strPtr("/uploads/2-def.jpg"),
				}).Return(updated, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "Rejected image",
			eventID: "1",
			body:    imageOnlyBody,
			mockSetup: func(updater *mocks.EventUpdater, images *mocks.ImageSaver) {
				images.On("Save", mock.Anything, "new.jpg").Return("", upload.ErrTooLarge)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"image is too large"}`,
		},
		{
			name:           "Empty JSON object",
			eventID:        "1",
			body:           jsonBody(`{}`),
			mockSetup:      func(updater *mocks.EventUpdater, images *mocks.ImageSaver) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"update payload cannot be empty"}`,
		},
		{
			name:           "Empty body",
			eventID:        "1",
			body:           jsonBody(``),
			mockSetup:      func(updater *mocks.EventUpdater, images *mocks.ImageSaver) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"update payload cannot be empty"}`,
		},
		{
			name:           "Invalid event ID format",
			eventID:        "abc",
			body:           jsonBody(`{"title":"Renamed"}`),
			mockSetup:      func(updater *mocks.EventUpdater, images *mocks.ImageSaver) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid event id format"}`,
		},
		{
			name:           "Invalid date",
			eventID:        "1",
			body:           jsonBody(`{"event_date":"01/06/2030"}`),
			mockSetup:      func(updater *mocks.EventUpdater, images *mocks.ImageSaver) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field EventDate must match format 2006-01-02"}`,
		},
		{
			name:    "Capacity below booked",
			eventID: "1",
			body:    jsonBody(`{"max_seats":5}`),
			mockSetup: func(updater *mocks.EventUpdater, images *mocks.ImageSaver) {
				updater.On("UpdateEvent", mock.Anything, int64(1), models.EventPatch{MaxSeats: intPtr(5)}).
					Return(nil, fmt.Errorf("storage.postgres.UpdateEvent: %w",
						&models.CapacityError{MaxSeats: 5, BookedSeats: 12}))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"maxSeats (5) cannot be less than currently booked (12)"}`,
		},
		{
			name:    "Event not found",
			eventID: "404",
			body:    jsonBody(`{"title":"Renamed"}`),
			mockSetup: func(updater *mocks.EventUpdater, images *mocks.ImageSaver) {
				updater.On("UpdateEvent", mock.Anything, int64(404), mock.Anything).
					Return(nil, fmt.Errorf("storage.postgres.UpdateEvent: %w", storage.ErrEventNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event not found"}`,
		},
		{
			name:    "Storage error",
			eventID: "1",
			body:    jsonBody(`{"title":"Renamed"}`),
			mockSetup: func(updater *mocks.EventUpdater, images *mocks.ImageSaver) {
				updater.On("UpdateEvent", mock.Anything, int64(1), mock.Anything).
					Return(nil, errors.New("connection reset"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to update event"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			updater := mocks.NewEventUpdater(t)
			images := mocks.NewImageSaver(t)
			images.On("MaxSize").Return(int64(1 << 20)).Maybe()
			tc.mockSetup(updater, images)

			router := chi.NewRouter()
			router.Patch("/events/{id}", New(logger, updater, images))

			body, contentType := tc.body(t)
			req, err := http.NewRequest(http.MethodPatch, "/events/"+tc.eventID, body)
			require.NoError(t, err)
			req.Header.Set("Content-Type", contentType)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}
