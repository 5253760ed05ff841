package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	// Verify returns the id of the user the token was issued to.
	Verify(token string) (userID string, err error)
}

// JWTVerifier verifies HS256-signed tokens, taking the user id
// from the "sub" claim.
type JWTVerifier struct {
	Secret []byte
}

// Verify parses and validates the token.
func (v JWTVerifier) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	if claims.Subject == "" {
		return "", errors.New("no subject in token")
	}

	return claims.Subject, nil
}

const userIDKey = "user_id"

// authenticate rejects requests without a valid bearer token.
func authenticate(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" || v == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errResponse{Error: "Unauthorized"})
			return
		}

		id, err := v.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errResponse{Error: "Unauthorized"})
			return
		}

		c.Set(userIDKey, id)
		c.Next()
	}
}

func userID(c *gin.Context) string { return c.GetString(userIDKey) }
