package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/news-portal/internal/models"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Storage{DB: db}, mock
}

func TestStorage_CreatePost(t *testing.T) {
	storage, mock := newMockStorage(t)

	post := models.Post{
		AuthorID:     5,
		CategoryType: models.CategoryTypeNews,
		DateCreation: time.Now(),
		Title:        "Заголовок",
		Text:         "Текст",
		Quantity:     13,
		Categories:   []models.Category{{ID: 1}, {ID: 2}},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO posts").
		WithArgs(post.AuthorID, post.CategoryType, post.DateCreation,
			post.Title, post.Text, post.Quantity).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec("INSERT INTO post_categories").
		WithArgs(int64(42), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO post_categories").
		WithArgs(int64(42), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := storage.CreatePost(context.Background(), post)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ReadPost(t *testing.T) {
	storage, mock := newMockStorage(t)

	created := time.Now()
	mock.ExpectQuery("SELECT id, author_id, category_type, date_creation, title, text, quantity").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "author_id", "category_type", "date_creation", "title", "text", "quantity"}).
			AddRow(42, 5, "NW", created, "Заголовок", "Текст", 13))
	mock.ExpectQuery("SELECT c.id, c.name").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "Спорт").
			AddRow(2, "Политика"))

	post, err := storage.ReadPost(context.Background(), 42)

	assert.NoError(t, err)
	assert.Equal(t, "Заголовок", post.Title)
	assert.Equal(t, models.CategoryTypeNews, post.CategoryType)
	assert.Len(t, post.Categories, 2)
	assert.Equal(t, "Спорт", post.Categories[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ReadPost_NotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery("SELECT id, author_id, category_type, date_creation, title, text, quantity").
		WithArgs(int64(777)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "author_id", "category_type", "date_creation", "title", "text", "quantity"}))

	post, err := storage.ReadPost(context.Background(), 777)

	assert.Error(t, err)
	assert.Nil(t, post)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_UpdatePost(t *testing.T) {
	storage, mock := newMockStorage(t)

	post := models.Post{
		CategoryType: models.CategoryTypeArticle,
		Title:        "Новый заголовок",
		Text:         "Новый текст",
		Categories:   []models.Category{{ID: 3}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE posts").
		WithArgs(post.CategoryType, post.Title, post.Text, post.Quantity, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM post_categories").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO post_categories").
		WithArgs(int64(42), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	count, err := storage.UpdatePost(context.Background(), post, 42)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_RemovePost(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectExec("DELETE FROM posts").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	count, err := storage.RemovePost(context.Background(), 42)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ListPostsByCategorySince(t *testing.T) {
	storage, mock := newMockStorage(t)

	since := time.Now().Add(-7 * 24 * time.Hour)
	mock.ExpectQuery("SELECT p.id, p.author_id, p.category_type, p.date_creation").
		WithArgs(int64(1), since).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "author_id", "category_type", "date_creation", "title", "text", "quantity"}).
			AddRow(1, 5, "NW", time.Now(), "Первая", "Текст", 13).
			AddRow(2, 5, "AR", time.Now(), "Вторая", "Текст", 13))

	posts, err := storage.ListPostsByCategorySince(context.Background(), 1, since)

	assert.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, "Первая", posts[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_CancelledContext(t *testing.T) {
	storage, _ := newMockStorage(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.ReadPost(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
