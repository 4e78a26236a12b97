// Package services содержит логику бизнес-уровня для работы с учётными записями:
// регистрация с подтверждением почты, вход и получение статуса автора.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/news-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/news-portal/internal/lib/mail"
	"github.com/magabrotheeeer/news-portal/internal/lib/password"
	"github.com/magabrotheeeer/news-portal/internal/lib/sl"
	"github.com/magabrotheeeer/news-portal/internal/lib/token"
	"github.com/magabrotheeeer/news-portal/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре логин-пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAccountInactive возвращается при входе в неактивированную учётную запись.
var ErrAccountInactive = errors.New("account is not active")

// ErrConfirmationFailed возвращается при любой неудаче подтверждения почты.
// Причина (просроченный токен, чужой токен, неизвестный пользователь) наружу
// не раскрывается.
var ErrConfirmationFailed = errors.New("confirmation failed")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя.
	RegisterUser(ctx context.Context, user models.User) error
	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUser возвращает пользователя по UID или ошибку, если не найден.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// ActivateUser активирует учётную запись и отмечает почту подтверждённой.
	ActivateUser(ctx context.Context, userUID string) (int, error)
	// UpdateUserRole меняет роль пользователя.
	UpdateUserRole(ctx context.Context, userUID, role string) error
}

// AuthorRepository создаёт профиль автора при повышении роли.
type AuthorRepository interface {
	GetOrCreateAuthor(ctx context.Context, userUID string) (*models.Author, error)
}

// Mailer отправляет готовое письмо получателю.
type Mailer interface {
	Send(msg models.EmailMessage) error
}

// AccountService отвечает за жизненный цикл учётной записи: регистрацию,
// подтверждение почты, вход и повышение до автора.
type AccountService struct {
	users    UserRepository
	authors  AuthorRepository
	jwtMaker jwt.Maker
	confirm  *token.Maker
	mailer   Mailer
	siteURL  string
	log      *slog.Logger
}

// NewAccountService создает новый экземпляр AccountService.
func NewAccountService(users UserRepository, authors AuthorRepository, jwtMaker jwt.Maker,
	confirm *token.Maker, mailer Mailer, siteURL string, log *slog.Logger) *AccountService {
	return &AccountService{
		users:    users,
		authors:  authors,
		jwtMaker: jwtMaker,
		confirm:  confirm,
		mailer:   mailer,
		siteURL:  siteURL,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью
// "user". Учётная запись неактивна до подтверждения почты: на указанный адрес
// отправляется письмо со ссылкой подтверждения. Пользователю без адреса письмо
// не отправляется, активировать такую запись через подтверждение нельзя.
func (s *AccountService) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		UID:           uuid.NewString(),
		Email:         email,
		Username:      username,
		PasswordHash:  hashed,
		Role:          models.RoleUser, // дефолтная роль при регистрации
		IsActive:      false,
		EmailVerified: false,
		RegisteredAt:  time.Now().UTC(),
	}
	if err := s.users.RegisterUser(ctx, user); err != nil {
		return "", err
	}
	s.log.Info("registered new user", slog.String("useruid", user.UID))

	if user.Email != "" {
		confirmToken, err := s.confirm.Generate(user.UID)
		if err != nil {
			s.log.Error("failed to generate confirmation token", sl.Err(err))
			return user.UID, nil
		}
		link := fmt.Sprintf("%s/accounts/confirm/%s/%s/", s.siteURL, user.UID, confirmToken)
		msg, err := mail.WelcomeConfirmationMessage(&user, link)
		if err != nil {
			s.log.Error("failed to render confirmation email", sl.Err(err))
			return user.UID, nil
		}
		if err := s.mailer.Send(msg); err != nil {
			s.log.Error("failed to send confirmation email", sl.Err(err))
		}
	}
	return user.UID, nil
}

// ConfirmEmail проверяет токен подтверждения и активирует учётную запись.
// Любая неудача проверки возвращается как ErrConfirmationFailed. Повторное
// подтверждение безвредно: письмо о завершении отправляется только при
// первом переходе в подтверждённое состояние.
func (s *AccountService) ConfirmEmail(ctx context.Context, userUID, tokenStr string) error {
	if err := s.confirm.Check(tokenStr, userUID); err != nil {
		return ErrConfirmationFailed
	}
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return ErrConfirmationFailed
	}
	if user.EmailVerified {
		return nil
	}

	if _, err := s.users.ActivateUser(ctx, userUID); err != nil {
		return err
	}
	s.log.Info("activated user account", slog.String("useruid", userUID))

	if user.Email != "" {
		msg, err := mail.WelcomeCompleteMessage(user, s.siteURL)
		if err != nil {
			s.log.Error("failed to render welcome email", sl.Err(err))
			return nil
		}
		if err := s.mailer.Send(msg); err != nil {
			s.log.Error("failed to send welcome email", sl.Err(err))
		}
	}
	return nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AccountService) Login(ctx context.Context, username, rawPassword string) (tokenStr, role string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", "", ErrAccountInactive
	}
	tokenStr, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", "", err
	}
	return tokenStr, user.Role, nil
}

// ValidateToken проверяет JWT и возвращает информацию о пользователе, роль и признак валидности.
func (s *AccountService) ValidateToken(_ context.Context, tokenStr string) (*models.User, string, bool, error) {
	claims, err := s.jwtMaker.ParseToken(tokenStr)
	if err != nil {
		return nil, "", false, err
	}
	user := &models.User{
		Username: claims.Username,
		Role:     claims.Role,
		UID:      claims.UserUID,
	}
	return user, claims.Role, true, nil
}

// BecomeAuthor повышает пользователя до автора и создаёт профиль автора.
// Повторный вызов безвреден: поздравительное письмо отправляется только
// при первом переходе в роль автора.
func (s *AccountService) BecomeAuthor(ctx context.Context, userUID string) error {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAuthor {
		return nil
	}

	if err := s.users.UpdateUserRole(ctx, userUID, models.RoleAuthor); err != nil {
		return err
	}
	if _, err := s.authors.GetOrCreateAuthor(ctx, userUID); err != nil {
		return err
	}
	s.log.Info("promoted user to author", slog.String("useruid", userUID))

	if user.Email != "" {
		msg, err := mail.AuthorCongratulationMessage(user, s.siteURL)
		if err != nil {
			s.log.Error("failed to render congratulation email", sl.Err(err))
			return nil
		}
		if err := s.mailer.Send(msg); err != nil {
			s.log.Error("failed to send congratulation email", sl.Err(err))
		}
	}
	return nil
}
