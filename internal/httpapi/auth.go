package httpapi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWT authentication for the EventGate HTTP API.

// JWTClaims represents the JWT token claims.
type JWTClaims struct {
	ClientID string `json:"client_id"`
	Admin    bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuth handles JWT token creation and validation.
type JWTAuth struct {
	secretKey []byte
	tokenTTL  time.Duration
}

// NewJWTAuth creates a new JWT authentication handler. A non-positive TTL
// defaults to 24 hours.
func NewJWTAuth(secretKey string, tokenTTL time.Duration) *JWTAuth {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &JWTAuth{secretKey: []byte(secretKey), tokenTTL: tokenTTL}
}

// GenerateToken creates a new signed token for a client.
func (j *JWTAuth) GenerateToken(clientID string, admin bool) (string, time.Time, error) {
	if clientID == "" {
		return "", time.Time{}, errors.New("clientID cannot be empty")
	}

	now := time.Now()
	expiresAt := now.Add(j.tokenTTL)

	claims := JWTClaims{
		ClientID: clientID,
		Admin:    admin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateToken validates a token string (with or without the "Bearer "
// prefix) and returns its claims.
func (j *JWTAuth) ValidateToken(tokenString string) (*JWTClaims, error) {
	if tokenString == "" {
		return nil, errors.New("token cannot be empty")
	}
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}
	return claims, nil
}
