// Package upgrade реализует HTTP-обработчик повышения пользователя до автора.
package upgrade

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/news-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/news-portal/internal/http/response"
	"github.com/magabrotheeeer/news-portal/internal/lib/sl"
)

// Handler управляет HTTP-запросами на получение статуса автора.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики учётных записей
}

// Service описывает интерфейс бизнес-логики повышения до автора.
type Service interface {
	BecomeAuthor(ctx context.Context, userUID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Стать автором
// @Description Повышает текущего пользователя до автора и создаёт профиль автора. Повторный вызов безвреден.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Статус автора получен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при повышении роли"
// @Security BearerAuth
// @Router /accounts/upgrade [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.upgrade"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("useruid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.BecomeAuthor(r.Context(), userUID); err != nil {
		log.Error("failed to promote user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not promote user"))
		return
	}

	log.Info("success to promote user", slog.String("useruid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "Теперь вы автор и можете публиковать материалы",
	}))
}
