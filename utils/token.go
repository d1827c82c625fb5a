package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSecret = errors.New("JWT_SECRET is not set")

// GenerateToken issues an HS256 token for subject valid for ttl.
func GenerateToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}

	claims := jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and validates the token
func ValidateToken(secret, tokenString string) (*jwt.Token, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
}
