// Package services содержит логику рассылки уведомлений: мгновенные письма
// подписчикам о новых публикациях и еженедельную рассылку по категориям.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/news-portal/internal/lib/mail"
	"github.com/magabrotheeeer/news-portal/internal/lib/sl"
	"github.com/magabrotheeeer/news-portal/internal/models"
)

// Окно еженедельной рассылки: публикации за последние 7 суток.
const digestWindow = 7 * 24 * time.Hour

// Идентификаторы периодических задач в истории запусков.
const (
	JobWeeklyDigest = "weekly_digest"
	JobCleanup      = "delete_old_job_executions"
)

// SubscriberRepository определяет методы для выборки получателей рассылки.
type SubscriberRepository interface {
	// ListSubscribersByCategory возвращает подписчиков категории.
	ListSubscribersByCategory(ctx context.Context, categoryID int64) ([]*models.Subscriber, error)
	// ListDigestTargets возвращает пары пользователь-категория для еженедельной рассылки.
	ListDigestTargets(ctx context.Context) ([]*models.DigestTarget, error)
}

// PostRepository определяет методы для выборки публикаций рассылки.
type PostRepository interface {
	// ListPostsByCategorySince возвращает публикации категории, созданные после since.
	ListPostsByCategorySince(ctx context.Context, categoryID int64, since time.Time) ([]*models.Post, error)
}

// JobRepository ведёт историю запусков периодических задач.
type JobRepository interface {
	// StartJobExecution регистрирует запуск задачи и возвращает ID записи.
	StartJobExecution(ctx context.Context, jobID string, startedAt time.Time) (int64, error)
	// FinishJobExecution фиксирует завершение запуска со статусом.
	FinishJobExecution(ctx context.Context, id int64, status, errText string) error
	// DeleteOldJobExecutions удаляет записи старше maxAge и возвращает их количество.
	DeleteOldJobExecutions(ctx context.Context, maxAge time.Duration) (int, error)
}

// Mailer отправляет готовое письмо получателю.
type Mailer interface {
	Send(msg models.EmailMessage) error
}

// DispatcherService собирает письма и раздаёт их через Mailer. Ошибка отправки
// одному получателю логируется и не прерывает рассылку остальным.
type DispatcherService struct {
	subs    SubscriberRepository
	posts   PostRepository
	jobs    JobRepository
	mailer  Mailer
	siteURL string
	log     *slog.Logger
}

// NewDispatcherService создает новый экземпляр DispatcherService.
func NewDispatcherService(subs SubscriberRepository, posts PostRepository, jobs JobRepository,
	mailer Mailer, siteURL string, log *slog.Logger) *DispatcherService {
	return &DispatcherService{
		subs:    subs,
		posts:   posts,
		jobs:    jobs,
		mailer:  mailer,
		siteURL: siteURL,
		log:     log,
	}
}

// NotifyNewPost рассылает уведомления подписчикам каждой категории новой
// публикации. Подписчик нескольких категорий публикации получает письмо
// по каждой из них. Получатели без адреса почты пропускаются.
func (s *DispatcherService) NotifyNewPost(ctx context.Context, post *models.Post) {
	for _, category := range post.Categories {
		subscribers, err := s.subs.ListSubscribersByCategory(ctx, category.ID)
		if err != nil {
			s.log.Error("failed to list subscribers",
				slog.Int64("categoryid", category.ID), sl.Err(err))
			continue
		}
		for _, subscriber := range subscribers {
			if subscriber.Email == "" {
				continue
			}
			msg, err := mail.NewPostMessage(subscriber, post, category, s.siteURL)
			if err != nil {
				s.log.Error("failed to render notification", sl.Err(err))
				RecordNotification("new_post", "error")
				continue
			}
			if err := s.mailer.Send(msg); err != nil {
				s.log.Error("failed to send notification",
					slog.String("to", subscriber.Email), sl.Err(err))
				RecordNotification("new_post", "error")
				continue
			}
			RecordNotification("new_post", "sent")
		}
	}
}

// SendWeeklyDigest отправляет каждому подписчику по одному письму на каждую
// его подписку со всеми публикациями категории за последнюю неделю. Подписки
// без новых публикаций пропускаются. Запуск фиксируется в истории задач.
func (s *DispatcherService) SendWeeklyDigest(ctx context.Context) error {
	execID, err := s.jobs.StartJobExecution(ctx, JobWeeklyDigest, time.Now().UTC())
	if err != nil {
		s.log.Error("failed to record job start", sl.Err(err))
	}

	sendErr := s.runWeeklyDigest(ctx)

	if execID != 0 {
		status, errText := "success", ""
		if sendErr != nil {
			status, errText = "error", sendErr.Error()
		}
		if err := s.jobs.FinishJobExecution(ctx, execID, status, errText); err != nil {
			s.log.Error("failed to record job finish", sl.Err(err))
		}
	}
	return sendErr
}

func (s *DispatcherService) runWeeklyDigest(ctx context.Context) error {
	s.log.Info("starting weekly digest")
	since := time.Now().UTC().Add(-digestWindow)

	targets, err := s.subs.ListDigestTargets(ctx)
	if err != nil {
		return err
	}

	// Публикации запрашиваются один раз на категорию, а не на подписку.
	postsByCategory := make(map[int64][]*models.Post)
	var sent int
	for _, target := range targets {
		if target.Email == "" {
			continue
		}
		posts, ok := postsByCategory[target.CategoryID]
		if !ok {
			posts, err = s.posts.ListPostsByCategorySince(ctx, target.CategoryID, since)
			if err != nil {
				s.log.Error("failed to list posts for digest",
					slog.Int64("categoryid", target.CategoryID), sl.Err(err))
				RecordNotification("weekly_digest", "error")
				continue
			}
			postsByCategory[target.CategoryID] = posts
		}
		if len(posts) == 0 {
			continue
		}

		msg, err := mail.WeeklyDigestMessage(target, posts, s.siteURL)
		if err != nil {
			s.log.Error("failed to render digest", sl.Err(err))
			RecordNotification("weekly_digest", "error")
			continue
		}
		if err := s.mailer.Send(msg); err != nil {
			s.log.Error("failed to send digest",
				slog.String("to", target.Email), sl.Err(err))
			RecordNotification("weekly_digest", "error")
			continue
		}
		RecordNotification("weekly_digest", "sent")
		sent++
	}

	s.log.Info("weekly digest finished", slog.Int("sent", sent))
	return nil
}

// CleanupOldJobExecutions удаляет записи истории запусков старше maxAge.
func (s *DispatcherService) CleanupOldJobExecutions(ctx context.Context, maxAge time.Duration) error {
	execID, err := s.jobs.StartJobExecution(ctx, JobCleanup, time.Now().UTC())
	if err != nil {
		s.log.Error("failed to record job start", sl.Err(err))
	}

	count, cleanupErr := s.jobs.DeleteOldJobExecutions(ctx, maxAge)
	if cleanupErr != nil {
		s.log.Error("failed to delete old job executions", sl.Err(cleanupErr))
	} else {
		s.log.Info("deleted old job executions", slog.Int("count", count))
	}

	if execID != 0 {
		status, errText := "success", ""
		if cleanupErr != nil {
			status, errText = "error", cleanupErr.Error()
		}
		if err := s.jobs.FinishJobExecution(ctx, execID, status, errText); err != nil {
			s.log.Error("failed to record job finish", sl.Err(err))
		}
	}
	return cleanupErr
}
