// Package confirm реализует HTTP-обработчик подтверждения почты по ссылке
// из письма регистрации.
package confirm

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/news-portal/internal/http/response"
	"github.com/magabrotheeeer/news-portal/internal/lib/sl"
)

// Handler управляет HTTP-запросами на подтверждение почты.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики учётных записей
}

// Service описывает интерфейс бизнес-логики подтверждения почты.
type Service interface {
	ConfirmEmail(ctx context.Context, userUID, token string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подтвердить почту
// @Description Активирует учётную запись по ссылке из письма. Причина неудачи наружу не раскрывается.
// @Tags Auth
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Param token path string true "Токен подтверждения"
// @Success 200 {object} map[string]any "Учётная запись активирована"
// @Failure 400 {object} response.ErrorResponse "Подтверждение не удалось"
// @Router /accounts/confirm/{uid}/{token} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.confirm"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "uid")
	token := chi.URLParam(r, "token")

	if err := h.service.ConfirmEmail(r.Context(), userUID, token); err != nil {
		log.Error("failed to confirm email", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Подтверждение не удалось"))
		return
	}

	log.Info("success to confirm email", slog.String("useruid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "Почта подтверждена, учётная запись активирована",
	}))
}
