// Package read реализует HTTP-обработчик для чтения одной публикации.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/news-portal/internal/http/response"
	"github.com/magabrotheeeer/news-portal/internal/lib/sl"
	"github.com/magabrotheeeer/news-portal/internal/models"
)

// Handler управляет HTTP-запросами на чтение публикации.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики публикаций
}

// Service описывает интерфейс бизнес-логики чтения публикации.
type Service interface {
	Read(ctx context.Context, id int64) (*models.Post, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить публикацию
// @Description Возвращает публикацию по её ID вместе с категориями.
// @Tags Posts
// @Produce  json
// @Param id path int true "ID публикации"
// @Success 200 {object} map[string]any "Публикация"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Публикация не найдена"
// @Router /news/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid post id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid post id"))
		return
	}

	post, err := h.service.Read(r.Context(), id)
	if err != nil {
		log.Error("failed to read post", sl.Err(err))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("post not found"))
		return
	}

	log.Info("success to read post", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(post))
}
