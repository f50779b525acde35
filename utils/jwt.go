package utils

import (
	"errors"
	"sync"
	"time"

	"teleka/config"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var (
	secretOnce sync.Once
	secretKey  []byte
)

// signingKey reads JWT_SECRET once. Without one, tokens are signed with a
// random per-process key and do not survive a restart.
func signingKey() []byte {
	secretOnce.Do(func() {
		secret := config.AppConfig.JWTSecret
		if secret == "" {
			secret = uuid.NewString()
		}
		secretKey = []byte(secret)
	})
	return secretKey
}

// GenerateToken creates a signed JWT with the given subject, email and role.
// The token expires after the specified duration.
func GenerateToken(subject, email, role string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"role":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return signingKey(), nil
	})
}

// ExtractClaims validates the token and returns its claims.
func ExtractClaims(tokenString string) (jwt.MapClaims, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
