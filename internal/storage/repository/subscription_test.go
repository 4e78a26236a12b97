package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestStorage_CreateSubscription(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectExec("INSERT INTO subscriptions").
		WithArgs("uid-1", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := storage.CreateSubscription(context.Background(), "uid-1", 2)

	assert.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_CreateSubscription_Duplicate(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectExec("INSERT INTO subscriptions").
		WithArgs("uid-1", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := storage.CreateSubscription(context.Background(), "uid-1", 2)

	assert.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_RemoveSubscription(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectExec("DELETE FROM subscriptions").
		WithArgs("uid-1", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	count, err := storage.RemoveSubscription(context.Background(), "uid-1", 2)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ListSubscribedCategoryIDs(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery("SELECT category_id FROM subscriptions").
		WithArgs("uid-1").
		WillReturnRows(sqlmock.NewRows([]string{"category_id"}).
			AddRow(1).
			AddRow(3))

	ids, err := storage.ListSubscribedCategoryIDs(context.Background(), "uid-1")

	assert.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ListSubscribersByCategory(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery("SELECT u.uid, u.username, u.email").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"uid", "username", "email"}).
			AddRow("uid-1", "ivan", "ivan@example.com").
			AddRow("uid-2", "petr", ""))

	subs, err := storage.ListSubscribersByCategory(context.Background(), 1)

	assert.NoError(t, err)
	assert.Len(t, subs, 2)
	assert.Equal(t, "ivan@example.com", subs[0].Email)
	assert.Empty(t, subs[1].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ListDigestTargets(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery("SELECT u.uid, u.username, u.email, c.id, c.name").
		WillReturnRows(sqlmock.NewRows([]string{"uid", "username", "email", "id", "name"}).
			AddRow("uid-1", "ivan", "ivan@example.com", 1, "Спорт").
			AddRow("uid-1", "ivan", "ivan@example.com", 2, "Политика"))

	targets, err := storage.ListDigestTargets(context.Background())

	assert.NoError(t, err)
	assert.Len(t, targets, 2)
	assert.Equal(t, int64(1), targets[0].CategoryID)
	assert.Equal(t, "Политика", targets[1].CategoryName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
