package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/magabrotheeeer/news-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/news-portal/internal/lib/password"
	"github.com/magabrotheeeer/news-portal/internal/lib/token"
	"github.com/magabrotheeeer/news-portal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) ActivateUser(ctx context.Context, userUID string) (int, error) {
	args := m.Called(ctx, userUID)
	return args.Int(0), args.Error(1)
}
func (m *UsersMock) UpdateUserRole(ctx context.Context, userUID, role string) error {
	return m.Called(ctx, userUID, role).Error(0)
}

type AuthorsMock struct{ mock.Mock }

func (m *AuthorsMock) GetOrCreateAuthor(ctx context.Context, userUID string) (*models.Author, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Author), args.Error(1)
}

// MailerMock копит отправленные письма для проверок.
type MailerMock struct {
	sent []models.EmailMessage
}

func (m *MailerMock) Send(msg models.EmailMessage) error {
	m.sent = append(m.sent, msg)
	return nil
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newService(users *UsersMock, authors *AuthorsMock, mailer *MailerMock) *AccountService {
	jwtMaker := jwt.NewJWTMaker("test-secret", time.Hour)
	confirm := token.New("test-secret", time.Hour)
	return NewAccountService(users, authors, jwtMaker, confirm, mailer,
		"http://localhost:8000", newNoopLogger())
}

func TestAccountService_Register(t *testing.T) {
	t.Run("creates inactive user and sends confirmation email", func(t *testing.T) {
		users := new(UsersMock)
		users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Username == "ivan" &&
				u.Role == models.RoleUser &&
				!u.IsActive && !u.EmailVerified &&
				u.UID != "" && u.PasswordHash != "secret123"
		})).Return(nil).Once()

		mailer := &MailerMock{}
		svc := newService(users, new(AuthorsMock), mailer)
		uid, err := svc.Register(context.Background(), "ivan@example.com", "ivan", "secret123")

		assert.NoError(t, err)
		assert.NotEmpty(t, uid)
		assert.Len(t, mailer.sent, 1)
		assert.Equal(t, "ivan@example.com", mailer.sent[0].To)
		assert.Contains(t, mailer.sent[0].TextBody, "/accounts/confirm/"+uid+"/")
		users.AssertExpectations(t)
	})

	t.Run("user without email gets no letter", func(t *testing.T) {
		users := new(UsersMock)
		users.On("RegisterUser", mock.Anything, mock.Anything).Return(nil).Once()

		mailer := &MailerMock{}
		svc := newService(users, new(AuthorsMock), mailer)
		uid, err := svc.Register(context.Background(), "", "ivan", "secret123")

		assert.NoError(t, err)
		assert.NotEmpty(t, uid)
		assert.Empty(t, mailer.sent)
	})
}

func TestAccountService_ConfirmEmail(t *testing.T) {
	confirm := token.New("test-secret", time.Hour)

	t.Run("valid token activates account and sends welcome letter", func(t *testing.T) {
		tokenStr, err := confirm.Generate("uid-1")
		assert.NoError(t, err)

		users := new(UsersMock)
		users.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
			UID: "uid-1", Username: "ivan", Email: "ivan@example.com",
		}, nil).Once()
		users.On("ActivateUser", mock.Anything, "uid-1").Return(1, nil).Once()

		mailer := &MailerMock{}
		svc := newService(users, new(AuthorsMock), mailer)
		err = svc.ConfirmEmail(context.Background(), "uid-1", tokenStr)

		assert.NoError(t, err)
		assert.Len(t, mailer.sent, 1)
		assert.Contains(t, mailer.sent[0].Subject, "Добро пожаловать")
		users.AssertExpectations(t)
	})

	t.Run("repeat confirmation sends nothing", func(t *testing.T) {
		tokenStr, err := confirm.Generate("uid-1")
		assert.NoError(t, err)

		users := new(UsersMock)
		users.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
			UID: "uid-1", Username: "ivan", Email: "ivan@example.com",
			IsActive: true, EmailVerified: true,
		}, nil).Once()

		mailer := &MailerMock{}
		svc := newService(users, new(AuthorsMock), mailer)
		err = svc.ConfirmEmail(context.Background(), "uid-1", tokenStr)

		assert.NoError(t, err)
		assert.Empty(t, mailer.sent)
		users.AssertNotCalled(t, "ActivateUser")
	})

	t.Run("foreign token fails uniformly", func(t *testing.T) {
		tokenStr, err := confirm.Generate("uid-2")
		assert.NoError(t, err)

		svc := newService(new(UsersMock), new(AuthorsMock), &MailerMock{})
		err = svc.ConfirmEmail(context.Background(), "uid-1", tokenStr)

		assert.ErrorIs(t, err, ErrConfirmationFailed)
	})

	t.Run("garbage token fails uniformly", func(t *testing.T) {
		svc := newService(new(UsersMock), new(AuthorsMock), &MailerMock{})
		err := svc.ConfirmEmail(context.Background(), "uid-1", "not-a-token")

		assert.ErrorIs(t, err, ErrConfirmationFailed)
	})
}

func TestAccountService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	assert.NoError(t, err)
	activeUser := &models.User{
		UID: "uid-1", Username: "ivan", PasswordHash: hash,
		Role: models.RoleUser, IsActive: true,
	}

	tests := []struct {
		name       string
		setupMocks func(u *UsersMock)
		rawPass    string
		wantErr    error
	}{
		{
			name: "success login",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByUsername", mock.Anything, "ivan").Return(activeUser, nil).Once()
			},
			rawPass: "secret123",
		},
		{
			name: "wrong password",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByUsername", mock.Anything, "ivan").Return(activeUser, nil).Once()
			},
			rawPass: "wrong",
			wantErr: ErrInvalidCredentials,
		},
		{
			name: "unknown user",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByUsername", mock.Anything, "ivan").
					Return(nil, errors.New("user not found")).Once()
			},
			rawPass: "secret123",
			wantErr: ErrInvalidCredentials,
		},
		{
			name: "inactive account",
			setupMocks: func(u *UsersMock) {
				inactive := *activeUser
				inactive.IsActive = false
				u.On("GetUserByUsername", mock.Anything, "ivan").Return(&inactive, nil).Once()
			},
			rawPass: "secret123",
			wantErr: ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			tt.setupMocks(users)

			svc := newService(users, new(AuthorsMock), &MailerMock{})
			tokenStr, role, err := svc.Login(context.Background(), "ivan", tt.rawPass)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, tokenStr)
				assert.Equal(t, models.RoleUser, role)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAccountService_BecomeAuthor(t *testing.T) {
	t.Run("promotes user and sends congratulation once", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
			UID: "uid-1", Username: "ivan", Email: "ivan@example.com",
			Role: models.RoleUser, IsActive: true,
		}, nil).Once()
		users.On("UpdateUserRole", mock.Anything, "uid-1", models.RoleAuthor).Return(nil).Once()

		authors := new(AuthorsMock)
		authors.On("GetOrCreateAuthor", mock.Anything, "uid-1").
			Return(&models.Author{ID: 1, UserUID: "uid-1"}, nil).Once()

		mailer := &MailerMock{}
		svc := newService(users, authors, mailer)
		err := svc.BecomeAuthor(context.Background(), "uid-1")

		assert.NoError(t, err)
		assert.Len(t, mailer.sent, 1)
		assert.Contains(t, mailer.sent[0].Subject, "автором")
		users.AssertExpectations(t)
		authors.AssertExpectations(t)
	})

	t.Run("repeat promotion is a no-op without letter", func(t *testing.T) {
		users := new(UsersMock)
		users.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
			UID: "uid-1", Username: "ivan", Email: "ivan@example.com",
			Role: models.RoleAuthor, IsActive: true,
		}, nil).Once()

		mailer := &MailerMock{}
		svc := newService(users, new(AuthorsMock), mailer)
		err := svc.BecomeAuthor(context.Background(), "uid-1")

		assert.NoError(t, err)
		assert.Empty(t, mailer.sent)
		users.AssertNotCalled(t, "UpdateUserRole")
	})
}
