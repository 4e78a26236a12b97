// Package list реализует HTTP-обработчик списка категорий портала.
// Для авторизованного пользователя каждая категория помечается признаком
// подписки.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/news-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/news-portal/internal/http/response"
	"github.com/magabrotheeeer/news-portal/internal/lib/sl"
	"github.com/magabrotheeeer/news-portal/internal/models"
)

// Handler управляет HTTP-запросами на получение списка категорий.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики подписок
}

// Service описывает интерфейс бизнес-логики списка категорий.
type Service interface {
	ListCategories(ctx context.Context, userUID string) ([]*models.Category, map[int64]bool, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// categoryItem — категория с признаком подписки текущего пользователя.
type categoryItem struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Subscribed bool   `json:"subscribed"`
}

// ServeHTTP godoc
// @Summary Список категорий
// @Description Возвращает все категории портала. Для авторизованного пользователя каждая категория содержит признак подписки.
// @Tags Categories
// @Produce  json
// @Success 200 {object} map[string]any "Список категорий"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при получении категорий"
// @Router /categories [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

	categories, subscribed, err := h.service.ListCategories(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list categories", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list categories"))
		return
	}

	items := make([]categoryItem, 0, len(categories))
	for _, category := range categories {
		items = append(items, categoryItem{
			ID:         category.ID,
			Name:       category.Name,
			Subscribed: subscribed[category.ID],
		})
	}

	log.Info("success to list categories", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"categories": items,
	}))
}
