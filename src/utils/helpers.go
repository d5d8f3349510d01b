package utils

import (
	"fmt"
	"gsc/src/config"
	"gsc/src/types"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

func IsProd() bool {
	return os.Getenv("API_ENV") == "production"
}

// WithSuffix scopes queue and topic names to the running environment.
func WithSuffix(name string) string {
	env := os.Getenv("API_ENV")
	if env == "" || env == "production" {
		return name
	}
	return fmt.Sprintf("%s_%s", name, env)
}

func GenerateJWT(email string, userID uint, role types.Role, clientID *uint, uid string) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		Email:    email,
		Role:     role,
		ClientID: clientID,
		UID:      uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			Issuer:    config.API_HOST,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JWTKey())
}

// ParseDate reads an optional YYYY-MM-DD value.
func ParseDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := time.Parse(config.DATE_FORMAT, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func Ptr[T any](v T) *T {
	return &v
}
