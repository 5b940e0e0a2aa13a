// catalog-service/pkg/auth/token.go
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingUserID - токен подписан верно, но не содержит user_id.
var ErrMissingUserID = errors.New("token has no user_id claim")

// TokenValidator проверяет bearer-токены, выданные сервисом пользователей.
type TokenValidator interface {
	Validate(tokenString string) (*Claims, error)
}

// Claims определяет структуру данных, хранимых в JWT.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// hmacValidator реализует TokenValidator для HS256.
type hmacValidator struct {
	secretKey []byte
}

// NewTokenValidator создает валидатор с общим секретом.
func NewTokenValidator(secretKey string) (TokenValidator, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	return &hmacValidator{secretKey: []byte(secretKey)}, nil
}

// Validate проверяет подпись и срок действия и возвращает Claims.
func (v *hmacValidator) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	return claims, nil
}
