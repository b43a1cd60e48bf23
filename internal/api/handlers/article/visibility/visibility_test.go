package visibility

import (
	"context"
	"fmt"
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

func (m *MockService) Block(ctx context.Context, id string) (*models.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockService) Unblock(ctx context.Context, id string) (*models.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestVisibilityHandler(t *testing.T) {
	const id = "0b7e8f4a-5c1d-4e2f-8a9b-1c2d3e4f5a6b"

	tests := []struct {
		name           string
		unblock        bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "блокировка",
			setupMock: func(m *MockService) {
				m.On("Block", mock.Anything, id).Return(&models.Article{ID: id, IsActive: false}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"is_active":false`,
		},
		{
			name:    "разблокировка",
			unblock: true,
			setupMock: func(m *MockService) {
				m.On("Unblock", mock.Anything, id).Return(&models.Article{ID: id, IsActive: true}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"is_active":true`,
		},
		{
			name: "статья не найдена",
			setupMock: func(m *MockService) {
				m.On("Block", mock.Anything, id).Return(nil, fmt.Errorf("op: %w", models.ErrArticleNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"article not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)
			handler := NewBlock(newNoopLogger(), mockService)
			if tt.unblock {
				handler = NewUnblock(newNoopLogger(), mockService)
			}

			req := httptest.NewRequest(http.MethodPatch, "/api/v1/articles/"+id+"/block", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req.WithContext(ctx))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
