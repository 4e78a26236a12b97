package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/news-portal/internal/models"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Read(ctx context.Context, id int64) (*models.Post, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное чтение публикации",
			id:   "123",
			setupMock: func(m *MockService) {
				post := &models.Post{
					ID:           123,
					Title:        "Заголовок",
					Text:         "Текст",
					CategoryType: models.CategoryTypeNews,
					Categories:   []models.Category{{ID: 1, Name: "Спорт"}},
				}
				m.On("Read", mock.Anything, int64(123)).Return(post, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"Title":"Заголовок"`,
		},
		{
			name:           "некорректный id в URL",
			id:             "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid post id`,
		},
		{
			name: "публикация не найдена",
			id:   "777",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, int64(777)).Return(nil, errors.New("post not found"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `post not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/news/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
