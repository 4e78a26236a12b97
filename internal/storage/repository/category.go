package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/news-portal/internal/models"
)

// ListCategories возвращает все категории портала по возрастанию ID.
func (s *Storage) ListCategories(ctx context.Context) ([]*models.Category, error) {
	const op = "storage.ListCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name FROM categories ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Category
	for rows.Next() {
		var item models.Category
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReadCategory возвращает категорию по её ID.
func (s *Storage) ReadCategory(ctx context.Context, id int64) (*models.Category, error) {
	const op = "storage.ReadCategory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name FROM categories WHERE id = $1`
	var result models.Category
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&result.ID, &result.Name); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}
