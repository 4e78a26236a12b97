package models

import "time"

// Роли пользователей портала.
const (
	RoleUser   = "user"
	RoleAuthor = "author"
	RoleAdmin  = "admin"
)

// User представляет зарегистрированного пользователя портала.
type User struct {
	UID           string    // Уникальный идентификатор пользователя
	Email         string    // Электронная почта
	Username      string    // Имя пользователя (уникальное)
	PasswordHash  string    // Хэш пароля пользователя
	Role          string    // Роль пользователя: user, author или admin
	IsActive      bool      // Активирована ли учётная запись
	EmailVerified bool      // Подтверждена ли электронная почта
	RegisteredAt  time.Time // Дата регистрации
}
