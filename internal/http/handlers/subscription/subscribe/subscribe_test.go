package subscribe

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

	"github.com/magabrotheeeer/news-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/news-portal/internal/models"
)

// MockService реализует интерфейс subscribe.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Subscribe(ctx context.Context, userUID string, categoryID int64) (*models.Category, bool, error) {
	args := m.Called(ctx, userUID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Category), args.Bool(1), args.Error(2)
}

func TestSubscribeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sport := &models.Category{ID: 1, Name: "Спорт"}

	tests := []struct {
		name           string
		categoryID     string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:       "успешная подписка",
			categoryID: "1",
			userUID:    "uid-1",
			setupMock: func(m *MockService) {
				m.On("Subscribe", mock.Anything, "uid-1", int64(1)).Return(sport, true, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `Вы успешно подписались на рассылку новостей категории Спорт`,
		},
		{
			name:       "повторная подписка",
			categoryID: "1",
			userUID:    "uid-1",
			setupMock: func(m *MockService) {
				m.On("Subscribe", mock.Anything, "uid-1", int64(1)).Return(sport, false, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `Вы уже подписаны на рассылку новостей категории Спорт`,
		},
		{
			name:           "некорректный id категории",
			categoryID:     "abc",
			userUID:        "uid-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid category id`,
		},
		{
			name:           "нет пользователя в контексте",
			categoryID:     "1",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `unauthorized`,
		},
		{
			name:       "ошибка сервиса",
			categoryID: "1",
			userUID:    "uid-1",
			setupMock: func(m *MockService) {
				m.On("Subscribe", mock.Anything, "uid-1", int64(1)).
					Return(nil, false, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not subscribe`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/news/subscribe/"+tt.categoryID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.categoryID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
