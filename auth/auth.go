// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/danielhkuo/quickly-vote/models"
)

var (
	ErrMissingToken = errors.New("missing identity token")
	ErrInvalidToken = errors.New("invalid identity token")
)

// Identity is the authenticated caller, as asserted by the identity service
type Identity struct {
	VoterID string
	Role    string
}

func (id Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin
}

// ParseToken verifies an HS256 token and extracts the caller's identity
func ParseToken(tokenString, secret string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, ErrMissingToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	// exp is mandatory; jwt only validates it when present
	if _, ok := claims["exp"]; !ok {
		return Identity{}, fmt.Errorf("%w: missing exp", ErrInvalidToken)
	}

	voterID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if strings.TrimSpace(voterID) == "" {
		return Identity{}, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}
	if role != models.RoleAdmin && role != models.RoleUser {
		return Identity{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, role)
	}

	return Identity{VoterID: voterID, Role: role}, nil
}

// IssueToken signs an identity token valid for ttl.
// Used by tests and local tooling; production tokens come from the identity service.
func IssueToken(id Identity, secret string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": id.VoterID,
		"role":    id.Role,
		"exp":     time.Now().Add(ttl).Unix(),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
