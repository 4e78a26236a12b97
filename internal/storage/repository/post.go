package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/news-portal/internal/models"
)

// CreatePost вставляет новую публикацию вместе со связями на категории
// и возвращает её ID. Вставка выполняется в одной транзакции.
func (s *Storage) CreatePost(ctx context.Context, post models.Post) (int64, error) {
	const op = "storage.CreatePost"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO posts (author_id, category_type, date_creation, title, text, quantity)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int64
	err = tx.QueryRowContext(ctx, query,
		post.AuthorID, post.CategoryType, post.DateCreation, post.Title, post.Text,
		post.Quantity).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	for _, category := range post.Categories {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)`,
			newID, category.ID)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadPost возвращает публикацию по ID вместе с её категориями.
// Наружу отдаются только публикации типов NW и AR.
func (s *Storage) ReadPost(ctx context.Context, id int64) (*models.Post, error) {
	const op = "storage.ReadPost"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, author_id, category_type, date_creation, title, text, quantity
			  FROM posts
			  WHERE id = $1
			    AND category_type IN ('NW', 'AR')`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Post
	if err := row.Scan(&result.ID, &result.AuthorID, &result.CategoryType,
		&result.DateCreation, &result.Title, &result.Text, &result.Quantity); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	categories, err := s.listCategoriesOfPost(ctx, result.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result.Categories = categories
	return &result, nil
}

// UpdatePost обновляет публикацию и её категории, возвращает количество изменённых строк.
func (s *Storage) UpdatePost(ctx context.Context, post models.Post, id int64) (int, error) {
	const op = "storage.UpdatePost"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE posts
			  SET category_type = $1, title = $2, text = $3, quantity = $4
			  WHERE id = $5`
	result, err := tx.ExecContext(ctx, query,
		post.CategoryType, post.Title, post.Text, post.Quantity, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if rowsAffected > 0 {
		if _, err = tx.ExecContext(ctx,
			`DELETE FROM post_categories WHERE post_id = $1`, id); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		for _, category := range post.Categories {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)`,
				id, category.ID); err != nil {
				return 0, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemovePost удаляет публикацию по ID и возвращает количество удалённых строк.
func (s *Storage) RemovePost(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemovePost"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM posts WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListPosts возвращает список публикаций по фильтру с пагинацией,
// отсортированный по убыванию даты создания.
func (s *Storage) ListPosts(ctx context.Context, filter models.PostFilter, limit, offset int) ([]*models.Post, error) {
	const op = "storage.ListPosts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT DISTINCT p.id, p.author_id, p.category_type, p.date_creation,
			      p.title, p.text, p.quantity
			  FROM posts p
			  LEFT JOIN post_categories pc ON pc.post_id = p.id
			  WHERE ($1::text = '' OR p.title ILIKE '%' || $1 || '%')
			    AND ($2::bigint IS NULL OR pc.category_id = $2)
			    AND ($3::timestamptz IS NULL OR p.date_creation >= $3)
			  ORDER BY p.date_creation DESC
			  LIMIT $4 OFFSET $5`
	rows, err := s.DB.QueryContext(ctx, query,
		filter.Title, filter.CategoryID, filter.DateAfter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Post
	for rows.Next() {
		var item models.Post
		if err := rows.Scan(&item.ID, &item.AuthorID, &item.CategoryType,
			&item.DateCreation, &item.Title, &item.Text, &item.Quantity); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, post := range result {
		categories, err := s.listCategoriesOfPost(ctx, post.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		post.Categories = categories
	}
	return result, nil
}

// ListPostsByCategorySince возвращает публикации категории, созданные не раньше
// указанного момента, по убыванию даты создания. Используется для дайджеста.
func (s *Storage) ListPostsByCategorySince(ctx context.Context, categoryID int64, since time.Time) ([]*models.Post, error) {
	const op = "storage.ListPostsByCategorySince"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.author_id, p.category_type, p.date_creation,
			      p.title, p.text, p.quantity
			  FROM posts p
			  JOIN post_categories pc ON pc.post_id = p.id
			  WHERE pc.category_id = $1
			    AND p.date_creation >= $2
			  ORDER BY p.date_creation DESC`
	rows, err := s.DB.QueryContext(ctx, query, categoryID, since)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Post
	for rows.Next() {
		var item models.Post
		if err := rows.Scan(&item.ID, &item.AuthorID, &item.CategoryType,
			&item.DateCreation, &item.Title, &item.Text, &item.Quantity); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Storage) listCategoriesOfPost(ctx context.Context, postID int64) ([]models.Category, error) {
	query := `SELECT c.id, c.name
			  FROM categories c
			  JOIN post_categories pc ON pc.category_id = c.id
			  WHERE pc.post_id = $1
			  ORDER BY c.id`
	rows, err := s.DB.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
