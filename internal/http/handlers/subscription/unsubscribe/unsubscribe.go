// Package unsubscribe реализует HTTP-обработчик отписки пользователя от
// рассылки новостей категории.
package unsubscribe

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/news-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/news-portal/internal/http/response"
	"github.com/magabrotheeeer/news-portal/internal/lib/sl"
)

// Handler управляет HTTP-запросами на отписку.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики подписок
}

// Service описывает интерфейс бизнес-логики отписки.
type Service interface {
	Unsubscribe(ctx context.Context, userUID string, categoryID int64) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отписаться от категории
// @Description Отписывает текущего пользователя от рассылки новостей категории.
// @Tags Subscriptions
// @Produce  json
// @Param id path int true "ID категории"
// @Success 200 {object} map[string]any "Результат отписки"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID категории"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при отписке"
// @Security BearerAuth
// @Router /news/unsubscribe/{id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.unsubscribe"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	categoryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid category id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid category id"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("useruid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	count, err := h.service.Unsubscribe(r.Context(), userUID, categoryID)
	if err != nil {
		log.Error("failed to unsubscribe", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not unsubscribe"))
		return
	}

	log.Info("success to unsubscribe",
		slog.String("useruid", userUID), slog.Int64("categoryid", categoryID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"removed": count,
		"message": "Вы отписались от рассылки новостей категории",
	}))
}
