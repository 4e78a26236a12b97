package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/news-portal/internal/models"
)

// CreateSubscription атомарно создаёт подписку на категорию, если её ещё нет.
// Возвращает true, если была создана новая запись, и false при повторной подписке.
// Корректность при конкурентных вызовах обеспечивается уникальным ограничением
// на пару (user_uid, category_id).
func (s *Storage) CreateSubscription(ctx context.Context, userUID string, categoryID int64) (bool, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, category_id)
			  VALUES ($1, $2)
			  ON CONFLICT (user_uid, category_id) DO NOTHING`
	result, err := s.DB.ExecContext(ctx, query, userUID, categoryID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}

// RemoveSubscription удаляет подписку пользователя на категорию и возвращает
// количество удалённых строк. Отсутствие подписки не является ошибкой.
func (s *Storage) RemoveSubscription(ctx context.Context, userUID string, categoryID int64) (int, error) {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE user_uid = $1 AND category_id = $2`
	result, err := s.DB.ExecContext(ctx, query, userUID, categoryID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListSubscribedCategoryIDs возвращает идентификаторы категорий,
// на которые подписан пользователь.
func (s *Storage) ListSubscribedCategoryIDs(ctx context.Context, userUID string) ([]int64, error) {
	const op = "storage.ListSubscribedCategoryIDs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT category_id FROM subscriptions WHERE user_uid = $1 ORDER BY category_id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListSubscribersByCategory возвращает подписчиков категории вместе
// с данными их учётных записей. Порядок определяется запросом.
func (s *Storage) ListSubscribersByCategory(ctx context.Context, categoryID int64) ([]*models.Subscriber, error) {
	const op = "storage.ListSubscribersByCategory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.uid, u.username, u.email
			  FROM subscriptions s
			  JOIN users u ON u.uid = s.user_uid
			  WHERE s.category_id = $1`
	rows, err := s.DB.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscriber
	for rows.Next() {
		var item models.Subscriber
		if err := rows.Scan(&item.UserUID, &item.Username, &item.Email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListDigestTargets возвращает все подписки вместе с пользователем и категорией
// для еженедельной рассылки.
func (s *Storage) ListDigestTargets(ctx context.Context) ([]*models.DigestTarget, error) {
	const op = "storage.ListDigestTargets"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.uid, u.username, u.email, c.id, c.name
			  FROM subscriptions s
			  JOIN users u ON u.uid = s.user_uid
			  JOIN categories c ON c.id = s.category_id
			  ORDER BY s.id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.DigestTarget
	for rows.Next() {
		var item models.DigestTarget
		if err := rows.Scan(&item.UserUID, &item.Username, &item.Email,
			&item.CategoryID, &item.CategoryName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
