package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/article-feed/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, in models.RegisterInput) (*models.UserProfile, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validRequest() Request {
	return Request{
		FirstName:       "Ivan",
		LastName:        "Petrov",
		Phone:           "9123456789",
		Email:           "ivan@example.com",
		Password:        "Secret1!",
		ConfirmPassword: "Secret1!",
		DateOfBirth:     "1990-05-17",
		Preferences:     []string{"tech"},
	}
}

func TestRegisterHandler(t *testing.T) {
	profile := &models.UserProfile{
		ID:          "u-1",
		FirstName:   "Ivan",
		LastName:    "Petrov",
		Phone:       "9123456789",
		Email:       "ivan@example.com",
		Preferences: []string{"tech"},
	}
	const zero = "0001-01-01T00:00:00Z"

	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешная регистрация",
			requestBody: validRequest(),
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.MatchedBy(func(in models.RegisterInput) bool {
					return in.Email == "ivan@example.com" && in.DateOfBirth != nil &&
						in.DateOfBirth.Format("2006-01-02") == "1990-05-17"
				})).Return(profile, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody: fmt.Sprintf(`{"status":"OK","data":{"user":{"id":"u-1","first_name":"Ivan","last_name":"Petrov",
				"phone":"9123456789","email":"ivan@example.com","preferences":["tech"],
				"created_at":%q,"updated_at":%q}}}`, zero, zero),
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name: "пароли не совпадают",
			requestBody: func() Request {
				r := validRequest()
				r.ConfirmPassword = "Other1!x"
				return r
			}(),
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field ConfirmPassword must match Password"}`,
		},
		{
			name: "телефон начинается с нуля",
			requestBody: func() Request {
				r := validRequest()
				r.Phone = "0123456789"
				return r
			}(),
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Phone must be 10 digits not starting with 0"}`,
		},
		{
			name: "некорректная дата рождения",
			requestBody: func() Request {
				r := validRequest()
				r.DateOfBirth = "17.05.1990"
				return r
			}(),
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field DateOfBirth can contain only date in format 2006-01-02"}`,
		},
		{
			name: "нет категорий",
			requestBody: func() Request {
				r := validRequest()
				r.Preferences = []string{}
				return r
			}(),
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Preferences must contain at least 1 items"}`,
		},
		{
			name:        "email уже занят",
			requestBody: validRequest(),
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("op: %w", models.ErrDuplicateIdentity)).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"email or phone already registered"}`,
		},
		{
			name: "слабый пароль",
			requestBody: func() Request {
				r := validRequest()
				r.Password, r.ConfirmPassword = "password", "password"
				return r
			}(),
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("op: %w", models.ErrWeakPassword)).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"password must be at least 8 characters and contain upper, lower, digit and symbol"}`,
		},
		{
			name:        "ошибка хранилища",
			requestBody: validRequest(),
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to register user"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)
			handler := New(newNoopLogger(), mockService)

			var body []byte
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				var err error
				body, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
