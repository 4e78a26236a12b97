// Package subscribe реализует HTTP-обработчик подписки пользователя на
// рассылку новостей категории.
package subscribe

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/news-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/news-portal/internal/http/response"
	"github.com/magabrotheeeer/news-portal/internal/lib/sl"
	"github.com/magabrotheeeer/news-portal/internal/models"
)

// Handler управляет HTTP-запросами на подписку.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики подписок
}

// Service описывает интерфейс бизнес-логики подписки.
type Service interface {
	Subscribe(ctx context.Context, userUID string, categoryID int64) (*models.Category, bool, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подписаться на категорию
// @Description Подписывает текущего пользователя на рассылку новостей категории. Повторная подписка не создаёт дубликат.
// @Tags Subscriptions
// @Produce  json
// @Param id path int true "ID категории"
// @Success 200 {object} map[string]any "Результат подписки"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID категории"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при подписке"
// @Security BearerAuth
// @Router /news/subscribe/{id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.subscribe"
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

	category, created, err := h.service.Subscribe(r.Context(), userUID, categoryID)
	if err != nil {
		log.Error("failed to subscribe", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not subscribe"))
		return
	}

	message := fmt.Sprintf("Вы успешно подписались на рассылку новостей категории %s", category.Name)
	if !created {
		message = fmt.Sprintf("Вы уже подписаны на рассылку новостей категории %s", category.Name)
	}

	log.Info("success to subscribe",
		slog.String("useruid", userUID), slog.Int64("categoryid", categoryID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"category": category.Name,
		"created":  created,
		"message":  message,
	}))
}
