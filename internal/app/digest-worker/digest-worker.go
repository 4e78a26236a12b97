// Package digestworker содержит приложение планировщика еженедельной рассылки.
//
// Планировщик запускает рассылку по cron-выражению и чистит историю запусков.
// Повторный запуск задачи не стартует, пока не завершился предыдущий.
package digestworker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/news-portal/internal/config"
	"github.com/magabrotheeeer/news-portal/internal/lib/sl"
	"github.com/magabrotheeeer/news-portal/internal/rabbitmq"
	notificationservice "github.com/magabrotheeeer/news-portal/internal/services/notification"
	"github.com/magabrotheeeer/news-portal/internal/storage/repository"
)

// App представляет приложение планировщика рассылки.
type App struct {
	dispatcher *notificationservice.DispatcherService
	cron       *cron.Cron
	conn       *amqp.Connection
	ch         *amqp.Channel
	cfg        *config.Config
	logger     *slog.Logger
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения планировщика.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err := waitForDB(db); err != nil {
		closeResources(ch, conn, logger)
		return nil, err
	}

	mailer := rabbitmq.NewEmailPublisher(ch)
	dispatcher := notificationservice.NewDispatcherService(db, db, db, mailer, cfg.SiteURL, logger)

	location, err := time.LoadLocation(cfg.Digest.Timezone)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to load timezone %s: %w", cfg.Digest.Timezone, err)
	}

	c := cron.New(
		cron.WithLocation(location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	return &App{
		dispatcher: dispatcher,
		cron:       c,
		conn:       conn,
		ch:         ch,
		cfg:        cfg,
		logger:     logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", "error", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", "error", err)
		}
	}
}

// Run регистрирует задачи планировщика и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	_, err := a.cron.AddFunc(a.cfg.Digest.WeeklySpec, func() {
		if err := a.dispatcher.SendWeeklyDigest(ctx); err != nil {
			a.logger.Error("weekly digest failed", sl.Err(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule weekly digest: %w", err)
	}

	_, err = a.cron.AddFunc(a.cfg.Digest.CleanupSpec, func() {
		if err := a.dispatcher.CleanupOldJobExecutions(ctx, a.cfg.Digest.HistoryMaxAge); err != nil {
			a.logger.Error("job history cleanup failed", sl.Err(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup: %w", err)
	}

	a.cron.Start()
	a.logger.Info("digest worker started",
		slog.String("weekly_spec", a.cfg.Digest.WeeklySpec),
		slog.String("cleanup_spec", a.cfg.Digest.CleanupSpec),
		slog.String("timezone", a.cfg.Digest.Timezone))

	<-ctx.Done()

	a.logger.Info("shutting down digest worker")
	stopCtx := a.cron.Stop()
	<-stopCtx.Done()

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	return nil
}
