// Package services содержит бизнес-логику для управления публикациями и кешированием.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/news-portal/internal/lib/sl"
	"github.com/magabrotheeeer/news-portal/internal/models"
)

// Служебное числовое поле публикации, выставляется при создании.
const defaultQuantity = 13

// PostRepository определяет методы для работы с публикациями в хранилище.
type PostRepository interface {
	// CreatePost добавляет новую публикацию со связями на категории и возвращает её ID.
	CreatePost(ctx context.Context, post models.Post) (int64, error)
	// ReadPost возвращает публикацию по ID вместе с категориями.
	ReadPost(ctx context.Context, id int64) (*models.Post, error)
	// UpdatePost обновляет публикацию по ID и возвращает количество изменённых записей.
	UpdatePost(ctx context.Context, post models.Post, id int64) (int, error)
	// RemovePost удаляет публикацию по ID и возвращает количество удалённых записей.
	RemovePost(ctx context.Context, id int64) (int, error)
	// ListPosts возвращает список публикаций по фильтру с пагинацией.
	ListPosts(ctx context.Context, filter models.PostFilter, limit, offset int) ([]*models.Post, error)
}

// AuthorRepository определяет методы для работы с авторами в хранилище.
type AuthorRepository interface {
	// GetOrCreateAuthor возвращает профиль автора, создавая его при первом обращении.
	GetOrCreateAuthor(ctx context.Context, userUID string) (*models.Author, error)
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

// Dispatcher рассылает уведомления подписчикам о новой публикации.
type Dispatcher interface {
	NotifyNewPost(ctx context.Context, post *models.Post)
}

// PostService реализует бизнес-логику работы с публикациями, включая кеширование
// и запуск рассылки уведомлений при создании.
type PostService struct {
	repo       PostRepository
	authors    AuthorRepository
	cache      Cache
	dispatcher Dispatcher
	log        *slog.Logger
}

// NewPostService создает новый экземпляр PostService.
func NewPostService(repo PostRepository, authors AuthorRepository, cache Cache,
	dispatcher Dispatcher, log *slog.Logger) *PostService {
	return &PostService{
		repo:       repo,
		authors:    authors,
		cache:      cache,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Create создает новую публикацию от имени пользователя и запускает рассылку
// уведомлений подписчикам выбранных категорий. Профиль автора создаётся при
// первой публикации. Ошибки рассылки не мешают созданию.
func (s *PostService) Create(ctx context.Context, userUID string, req models.DummyPost) (int64, error) {
	author, err := s.authors.GetOrCreateAuthor(ctx, userUID)
	if err != nil {
		return 0, err
	}

	categories := make([]models.Category, 0, len(req.CategoryIDs))
	for _, categoryID := range req.CategoryIDs {
		categories = append(categories, models.Category{ID: categoryID})
	}

	post := models.Post{
		AuthorID:     author.ID,
		CategoryType: req.CategoryType,
		DateCreation: time.Now().UTC(),
		Title:        req.Title,
		Text:         req.Text,
		Quantity:     defaultQuantity,
		Categories:   categories,
	}

	id, err := s.repo.CreatePost(ctx, post)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new post", slog.Int64("id", id))

	created, err := s.repo.ReadPost(ctx, id)
	if err != nil {
		s.log.Error("failed to read created post for notifications", sl.Err(err))
		return id, nil
	}
	s.dispatcher.NotifyNewPost(ctx, created)

	return id, nil
}

// Read возвращает публикацию по ID, используя кеш или репозиторий.
func (s *PostService) Read(ctx context.Context, id int64) (*models.Post, error) {
	var result *models.Post
	cacheKey := fmt.Sprintf("post:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey),
				slog.Any("err", err))
		}
	}
	return result, nil
}

// Update обновляет публикацию и инвалидирует кеш. Повторная рассылка
// уведомлений при обновлении не выполняется.
func (s *PostService) Update(ctx context.Context, req models.DummyPost, id int64) (int, error) {
	categories := make([]models.Category, 0, len(req.CategoryIDs))
	for _, categoryID := range req.CategoryIDs {
		categories = append(categories, models.Category{ID: categoryID})
	}

	post := models.Post{
		CategoryType: req.CategoryType,
		Title:        req.Title,
		Text:         req.Text,
		Categories:   categories,
	}
	res, err := s.repo.UpdatePost(ctx, post, id)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated post in storage", slog.Int64("id", id))

	cacheKey := fmt.Sprintf("post:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return res, nil
}

// Remove удаляет публикацию по ID и инвалидирует кеш.
func (s *PostService) Remove(ctx context.Context, id int64) (int, error) {
	cacheKey := fmt.Sprintf("post:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemovePost(ctx, id)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// List возвращает список публикаций по фильтру с пагинацией.
func (s *PostService) List(ctx context.Context, filter models.PostFilter, limit, offset int) ([]*models.Post, error) {
	posts, err := s.repo.ListPosts(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	return posts, nil
}
