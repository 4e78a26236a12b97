// Package token реализует одноразовые токены подтверждения электронной почты.
//
// Токен — это подписанный JWT с uid пользователя и назначением email_confirm.
// Любая причина отказа (подпись, срок, назначение, чужой uid) неразличима для
// вызывающего: возвращается единая ошибка ErrInvalidToken.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken возвращается для любого некорректного или просроченного токена.
var ErrInvalidToken = errors.New("invalid confirmation token")

const purposeEmailConfirm = "email_confirm"

type confirmClaims struct {
	Purpose              string `json:"purpose"`
	jwt.RegisteredClaims        // Стандартные claims: Subject хранит uid пользователя
}

// Maker создаёт и проверяет токены подтверждения почты.
type Maker struct {
	secretKey string
	ttl       time.Duration
}

// New создаёт Maker с секретным ключом и сроком жизни токена.
func New(secretKey string, ttl time.Duration) *Maker {
	return &Maker{secretKey: secretKey, ttl: ttl}
}

// Generate создаёт токен подтверждения для пользователя с данным uid.
func (m *Maker) Generate(userUID string) (string, error) {
	claims := confirmClaims{
		Purpose: purposeEmailConfirm,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userUID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(m.secretKey))
}

// Check проверяет токен и его принадлежность пользователю userUID.
func (m *Maker) Check(tokenStr, userUID string) error {
	t, err := jwt.ParseWithClaims(tokenStr, &confirmClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return ErrInvalidToken
	}
	claims, ok := t.Claims.(*confirmClaims)
	if !ok || !t.Valid {
		return ErrInvalidToken
	}
	if claims.Purpose != purposeEmailConfirm || claims.Subject != userUID {
		return ErrInvalidToken
	}
	return nil
}
