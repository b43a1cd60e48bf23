package read

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/article-feed/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, id string) (*models.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func TestReadHandler(t *testing.T) {
	const id = "0b7e8f4a-5c1d-4e2f-8a9b-1c2d3e4f5a6b"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "статья найдена",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, id).Return(&models.Article{ID: id, Title: "Go"}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"Go"`,
		},
		{
			name: "статья не найдена",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, id).Return(nil, models.ErrArticleNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"article not found"`,
		},
		{
			name: "ошибка хранилища",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, id).Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to get article"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/articles/"+id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			w := httptest.NewRecorder()

			New(logger, mockService).ServeHTTP(w, req.WithContext(ctx))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
