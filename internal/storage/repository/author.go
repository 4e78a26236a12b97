package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/news-portal/internal/models"
)

// GetOrCreateAuthor возвращает автора для пользователя, создавая запись,
// если её ещё нет. Конфликт по user_uid поглощается: метод безопасен при
// конкурентных вызовах для одного пользователя.
func (s *Storage) GetOrCreateAuthor(ctx context.Context, userUID string) (*models.Author, error) {
	const op = "storage.GetOrCreateAuthor"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO authors (user_uid)
			  VALUES ($1)
			  ON CONFLICT (user_uid) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result models.Author
	row := s.DB.QueryRowContext(ctx,
		`SELECT id, user_uid FROM authors WHERE user_uid = $1`, userUID)
	if err := row.Scan(&result.ID, &result.UserUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}
