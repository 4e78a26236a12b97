package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/news-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/news-portal/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, userUID string, req models.DummyPost) (int64, error) {
	args := m.Called(ctx, userUID, req)
	return args.Get(0).(int64), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := `{"title":"Заголовок","text":"Текст","category_type":"NW","category_ids":[1,2]}`

	tests := []struct {
		name           string
		body           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное создание публикации",
			body:    validBody,
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "uid-1", mock.MatchedBy(func(p models.DummyPost) bool {
					return p.Title == "Заголовок" && len(p.CategoryIDs) == 2
				})).Return(int64(42), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"last_added_id":42`,
		},
		{
			name:           "некорректный JSON",
			body:           `{not-json`,
			userUID:        "uid-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name:           "неизвестный тип публикации",
			body:           `{"title":"Заголовок","text":"Текст","category_type":"XX","category_ids":[1]}`,
			userUID:        "uid-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `CategoryType`,
		},
		{
			name:           "без категорий",
			body:           `{"title":"Заголовок","text":"Текст","category_type":"NW","category_ids":[]}`,
			userUID:        "uid-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `CategoryIDs`,
		},
		{
			name:           "нет пользователя в контексте",
			body:           validBody,
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `unauthorized`,
		},
		{
			name:    "ошибка сервиса",
			body:    validBody,
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "uid-1", mock.Anything).
					Return(int64(0), errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not create post`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/news", strings.NewReader(tt.body))
			if tt.userUID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID)
				req = req.WithContext(ctx)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
