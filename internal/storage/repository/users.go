package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/news-portal/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) error {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (uid, email, username, password_hash, role, is_active,
			      email_verified, registered_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := s.DB.ExecContext(ctx, query,
		user.UID, user.Email, user.Username, user.PasswordHash, user.Role,
		user.IsActive, user.EmailVerified, user.RegisteredAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, is_active,
			      email_verified, registered_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.IsActive, &u.EmailVerified, &u.RegisteredAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, is_active,
			      email_verified, registered_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.IsActive, &u.EmailVerified, &u.RegisteredAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ActivateUser активирует учётную запись и помечает почту подтверждённой.
// Возвращает количество изменённых строк.
func (s *Storage) ActivateUser(ctx context.Context, userUID string) (int, error) {
	const op = "storage.ActivateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_active = TRUE, email_verified = TRUE
			  WHERE uid = $1`
	result, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateUserRole обновляет роль пользователя.
func (s *Storage) UpdateUserRole(ctx context.Context, userUID, role string) error {
	const op = "storage.UpdateUserRole"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET role = $1 WHERE uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, role, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
