// Package list реализует HTTP-обработчик для списка публикаций с фильтрами
// и постраничной навигацией.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/news-portal/internal/http/response"
	"github.com/magabrotheeeer/news-portal/internal/lib/sl"
	"github.com/magabrotheeeer/news-portal/internal/models"
)

// Публикаций на страницу.
const pageSize = 10

// Handler управляет HTTP-запросами на получение списка публикаций.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики публикаций
}

// Service описывает интерфейс бизнес-логики списка публикаций.
type Service interface {
	List(ctx context.Context, filter models.PostFilter, limit, offset int) ([]*models.Post, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список публикаций
// @Description Возвращает публикации от новых к старым, по 10 на страницу. Поддерживает фильтры по заголовку, категории и нижней границе даты.
// @Tags Posts
// @Produce  json
// @Param page query int false "Номер страницы (по умолчанию 1)"
// @Param title query string false "Подстрока заголовка"
// @Param category query int false "ID категории"
// @Param date_after query string false "Нижняя граница даты создания в формате 2006-01-02"
// @Success 200 {object} map[string]any "Список публикаций"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры запроса"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при получении списка"
// @Router /news [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			log.Error("invalid page number", slog.String("page", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid page number"))
			return
		}
		page = parsed
	}

	filter := models.PostFilter{Title: r.URL.Query().Get("title")}
	if raw := r.URL.Query().Get("category"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Error("invalid category id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid category id"))
			return
		}
		filter.CategoryID = &categoryID
	}
	if raw := r.URL.Query().Get("date_after"); raw != "" {
		dateAfter, err := time.Parse("2006-01-02", raw)
		if err != nil {
			log.Error("invalid date_after", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid date_after, expected format 2006-01-02"))
			return
		}
		filter.DateAfter = &dateAfter
	}

	posts, err := h.service.List(r.Context(), filter, pageSize, (page-1)*pageSize)
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list posts"))
		return
	}

	log.Info("success to list posts", slog.Int("count", len(posts)), slog.Int("page", page))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"page":  page,
		"posts": posts,
	}))
}
