// Package newsportal предоставляет маршруты для основного приложения.
package newsportal

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/news-portal/internal/http/handlers/auth/confirm"
	"github.com/magabrotheeeer/news-portal/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/news-portal/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/news-portal/internal/http/handlers/auth/upgrade"
	categorylist "github.com/magabrotheeeer/news-portal/internal/http/handlers/category/list"
	"github.com/magabrotheeeer/news-portal/internal/http/handlers/health"
	postcreate "github.com/magabrotheeeer/news-portal/internal/http/handlers/post/create"
	postlist "github.com/magabrotheeeer/news-portal/internal/http/handlers/post/list"
	postread "github.com/magabrotheeeer/news-portal/internal/http/handlers/post/read"
	postremove "github.com/magabrotheeeer/news-portal/internal/http/handlers/post/remove"
	postupdate "github.com/magabrotheeeer/news-portal/internal/http/handlers/post/update"
	"github.com/magabrotheeeer/news-portal/internal/http/handlers/subscription/subscribe"
	"github.com/magabrotheeeer/news-portal/internal/http/handlers/subscription/unsubscribe"
	"github.com/magabrotheeeer/news-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/news-portal/internal/models"
	accountservice "github.com/magabrotheeeer/news-portal/internal/services/account"
	postservice "github.com/magabrotheeeer/news-portal/internal/services/post"
	subscriptionservice "github.com/magabrotheeeer/news-portal/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	accountService *accountservice.AccountService,
	subscriptionService *subscriptionservice.SubscriptionService,
	postService *postservice.PostService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, accountService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, accountService).ServeHTTP)
		r.Get("/accounts/confirm/{uid}/{token}", confirm.New(logger, accountService).ServeHTTP)

		// Публичные страницы, подстраивающиеся под авторизованного пользователя
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.OptionalJWTMiddleware(accountService, logger))
			r.Get("/news", postlist.New(logger, postService).ServeHTTP)
			r.Get("/news/{id}", postread.New(logger, postService).ServeHTTP)
			r.Get("/categories", categorylist.New(logger, subscriptionService).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(accountService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/accounts/upgrade", upgrade.New(logger, accountService).ServeHTTP)
			r.Post("/news/subscribe/{id}", subscribe.New(logger, subscriptionService).ServeHTTP)
			r.Post("/news/unsubscribe/{id}", unsubscribe.New(logger, subscriptionService).ServeHTTP)

			// Публиковать и править материалы могут только авторы
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoleMiddleware(logger, models.RoleAuthor))
				r.Post("/news", postcreate.New(logger, postService).ServeHTTP)
				r.Put("/news/{id}", postupdate.New(logger, postService).ServeHTTP)
				r.Delete("/news/{id}", postremove.New(logger, postService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
