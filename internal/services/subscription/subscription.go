// Package services содержит бизнес-логику для управления подписками на категории.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/news-portal/internal/models"
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет подписку пользователя на категорию.
	// Возвращает false, если подписка уже существовала.
	CreateSubscription(ctx context.Context, userUID string, categoryID int64) (bool, error)
	// RemoveSubscription удаляет подписку и возвращает количество удалённых записей.
	RemoveSubscription(ctx context.Context, userUID string, categoryID int64) (int, error)
	// ListSubscribedCategoryIDs возвращает ID категорий, на которые подписан пользователь.
	ListSubscribedCategoryIDs(ctx context.Context, userUID string) ([]int64, error)
}

// CategoryRepository определяет методы для чтения категорий.
type CategoryRepository interface {
	// ListCategories возвращает все категории портала.
	ListCategories(ctx context.Context) ([]*models.Category, error)
	// ReadCategory возвращает категорию по ID.
	ReadCategory(ctx context.Context, id int64) (*models.Category, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// SubscriptionService реализует бизнес-логику подписок пользователей на категории.
type SubscriptionService struct {
	repo       SubscriptionRepository
	categories CategoryRepository
	cache      Cache
	log        *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, categories CategoryRepository,
	cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:       repo,
		categories: categories,
		cache:      cache,
		log:        log,
	}
}

// Subscribe подписывает пользователя на категорию. Повторная подписка не
// создаёт дубликат: возвращается та же категория и признак created = false.
func (s *SubscriptionService) Subscribe(ctx context.Context, userUID string, categoryID int64) (*models.Category, bool, error) {
	category, err := s.categories.ReadCategory(ctx, categoryID)
	if err != nil {
		return nil, false, err
	}

	created, err := s.repo.CreateSubscription(ctx, userUID, categoryID)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.log.Info("created subscription",
			slog.String("useruid", userUID), slog.Int64("categoryid", categoryID))
	}

	s.invalidate(userUID)
	return category, created, nil
}

// Unsubscribe отписывает пользователя от категории и возвращает количество
// удалённых подписок.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userUID string, categoryID int64) (int, error) {
	count, err := s.repo.RemoveSubscription(ctx, userUID, categoryID)
	if err != nil {
		return 0, err
	}
	s.invalidate(userUID)
	return count, nil
}

// ListCategories возвращает все категории вместе с признаком подписки
// пользователя на каждую из них. Для анонимного запроса userUID пуст и все
// признаки ложны.
func (s *SubscriptionService) ListCategories(ctx context.Context, userUID string) ([]*models.Category, map[int64]bool, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, nil, err
	}

	subscribed := make(map[int64]bool, len(categories))
	if userUID == "" {
		return categories, subscribed, nil
	}

	ids, err := s.subscribedIDs(ctx, userUID)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range ids {
		subscribed[id] = true
	}
	return categories, subscribed, nil
}

func (s *SubscriptionService) subscribedIDs(ctx context.Context, userUID string) ([]int64, error) {
	var ids []int64
	cacheKey := fmt.Sprintf("subscriptions:%s", userUID)
	found, err := s.cache.Get(cacheKey, &ids)
	if err != nil {
		return nil, err
	}
	if found {
		return ids, nil
	}

	ids, err = s.repo.ListSubscribedCategoryIDs(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, ids, time.Hour); err != nil {
		s.log.Warn("failed to cache subscriptions", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return ids, nil
}

func (s *SubscriptionService) invalidate(userUID string) {
	cacheKey := fmt.Sprintf("subscriptions:%s", userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}
