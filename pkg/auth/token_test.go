package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-with-enough-bytes-for-hs256"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims *Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestNewTokenValidatorRequiresSecret(t *testing.T) {
	_, err := NewTokenValidator("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	v, err := NewTokenValidator(secret)
	require.NoError(t, err)

	valid := &Claims{UserID: "0b7f5a8e-2d0c-4c59-8f3e-1c3a2b4d5e6f", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	claims, err := v.Validate(sign(t, jwt.SigningMethodHS256, []byte(secret), valid))
	require.NoError(t, err)
	assert.Equal(t, valid.UserID, claims.UserID)

	_, err = v.Validate(sign(t, jwt.SigningMethodHS256, []byte("another-secret"), valid))
	assert.Error(t, err)

	_, err = v.Validate(sign(t, jwt.SigningMethodHS512, []byte(secret), valid))
	assert.Error(t, err)

	noUser := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	_, err = v.Validate(sign(t, jwt.SigningMethodHS256, []byte(secret), noUser))
	assert.ErrorIs(t, err, ErrMissingUserID)
}
