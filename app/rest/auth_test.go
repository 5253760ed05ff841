package rest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestJWTVerifier_Verify(t *testing.T) {
	secret := []byte("secret")
	v := JWTVerifier{Secret: secret}

	t.Run("valid", func(t *testing.T) {
		id, err := v.Verify(sign(t, jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}))
		require.NoError(t, err)
		assert.Equal(t, "user-1", id)
	})

	t.Run("no subject", func(t *testing.T) {
		_, err := v.Verify(sign(t, jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{}))
		assert.EqualError(t, err, "no subject in token")
	})

	t.Run("expired", func(t *testing.T) {
		_, err := v.Verify(sign(t, jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}))
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{Subject: "user-1"}))
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("wrong method", func(t *testing.T) {
		_, err := v.Verify(sign(t, jwt.SigningMethodHS512, secret, jwt.RegisteredClaims{Subject: "user-1"}))
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify("not-a-token")
		assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
	})
}
