package signup

import (
	"bytes"
	"encoding/json"
	"errors"
	"eventBooking/internal/http-server/handlers/auth/signup/mocks"
	"eventBooking/internal/lib/jwt"
	"eventBooking/internal/lib/logger/handlers/slogdiscard"
	"eventBooking/internal/lib/password"
	"eventBooking/internal/models"
	"eventBooking/internal/storage"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const secret = "signup-secret"

func TestSignupHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testCases := []struct {
		name           string
		requestBody    string
		mockSetup      func(m *mocks.UserCreator)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:        "Success",
			requestBody: `{"name":"Alice","email":" Alice@Example.com ","password":"secret1"}`,
			mockSetup: func(m *mocks.UserCreator) {
				m.On("CreateUser", mock.Anything, "Alice", "alice@example.com",
					mock.MatchedBy(func(hash string) bool {
						ok, err := password.Verify(hash, "secret1")
						return err == nil && ok
					}),
					models.RoleUser,
				).Return(&models.User{ID: 3, Name: "Alice", Email: "alice@example.com", Role: models.RoleUser}, nil)
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body string) {
				var resp Response
				require.NoError(t, json.Unmarshal([]byte(body), &resp))

				assert.Equal(t, "OK", resp.Status)

				claims, err := jwt.ParseToken(resp.AccessToken, secret)
				require.NoError(t, err)
				assert.Equal(t, "3", claims.Subject)
				assert.Equal(t, models.RoleUser, claims.Role)
			},
		},
		{
			name:           "Invalid email",
			requestBody:    `{"name":"Alice","email":"nope","password":"secret1"}`,
			mockSetup:      func(m *mocks.UserCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field Email is not a valid email"}`,
		},
		{
			name:           "Short password",
			requestBody:    `{"name":"Alice","email":"alice@example.com","password":"123"}`,
			mockSetup:      func(m *mocks.UserCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field Password must be at least 6"}`,
		},
		{
			name:           "Invalid JSON",
			requestBody:    `{"name":`,
			mockSetup:      func(m *mocks.UserCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name:        "Email already used",
			requestBody: `{"name":"Alice","email":"alice@example.com","password":"secret1"}`,
			mockSetup: func(m *mocks.UserCreator) {
				m.On("CreateUser", mock.Anything, "Alice", "alice@example.com", mock.Anything, models.RoleUser).
					Return(nil, fmt.Errorf("storage.postgres.CreateUser: %w", storage.ErrUserExists))
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"email already used"}`,
		},
		{
			name:        "Storage error",
			requestBody: `{"name":"Alice","email":"alice@example.com","password":"secret1"}`,
			mockSetup: func(m *mocks.UserCreator) {
				m.On("CreateUser", mock.Anything, "Alice", "alice@example.com", mock.Anything, models.RoleUser).
					Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to create user"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			creator := mocks.NewUserCreator(t)
			tc.mockSetup(creator)

			req, err := http.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(tc.requestBody))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")

			rr := httptest.NewRecorder()
			New(logger, creator, secret, time.Hour).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}
