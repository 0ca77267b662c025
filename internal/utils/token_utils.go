package utils

import (
	"fmt"
	"time"

	"github.com/SscSPs/campus_coin_ledger/internal/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateAccessToken signs an HS256 access token for holderID acting as role.
func GenerateAccessToken(holderID string, role middleware.Role, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	if holderID == "" {
		return "", fmt.Errorf("holder id is required")
	}
	switch role {
	case middleware.RoleProfessor, middleware.RoleStudent, middleware.RoleAdmin:
	default:
		return "", fmt.Errorf("unknown role %q", role)
	}

	now := time.Now()
	claims := middleware.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   holderID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
