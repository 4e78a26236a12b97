// Package newsportal собирает основное HTTP-приложение портала: хранилище,
// кеш, очередь уведомлений и все обработчики.
package newsportal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/news-portal/internal/cache"
	"github.com/magabrotheeeer/news-portal/internal/config"
	"github.com/magabrotheeeer/news-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/news-portal/internal/lib/token"
	"github.com/magabrotheeeer/news-portal/internal/migrations"
	"github.com/magabrotheeeer/news-portal/internal/rabbitmq"
	accountservice "github.com/magabrotheeeer/news-portal/internal/services/account"
	notificationservice "github.com/magabrotheeeer/news-portal/internal/services/notification"
	postservice "github.com/magabrotheeeer/news-portal/internal/services/post"
	subscriptionservice "github.com/magabrotheeeer/news-portal/internal/services/subscription"
	"github.com/magabrotheeeer/news-portal/internal/storage/repository"
)

// App представляет HTTP-приложение портала.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New создает новый экземпляр приложения портала.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}
	mailer := rabbitmq.NewEmailPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	confirmMaker := token.New(cfg.JWTSecretKey, cfg.ConfirmTTL)

	accountService := accountservice.NewAccountService(db, db, jwtMaker, confirmMaker,
		mailer, cfg.SiteURL, logger)
	subscriptionService := subscriptionservice.NewSubscriptionService(db, db, cacheRedis, logger)
	dispatcher := notificationservice.NewDispatcherService(db, db, db, mailer, cfg.SiteURL, logger)
	postService := postservice.NewPostService(db, db, cacheRedis, dispatcher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, accountService, subscriptionService, postService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
