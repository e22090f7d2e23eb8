package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/workhub/workspace-portal/internal"
)

// TokenIssuer signs and verifies HS256 bearer tokens with a single
// server-held secret and a fixed lifetime. The lifetime bounds how stale the
// embedded permission snapshot can get, so it is hours, not days.
type TokenIssuer struct {
	Secret   []byte
	Lifetime time.Duration
}

func NewTokenIssuer(secret string, lifetime time.Duration) *TokenIssuer {
	return &TokenIssuer{
		Secret:   []byte(secret),
		Lifetime: lifetime,
	}
}

func (t *TokenIssuer) Issue(user *User, snapshot PermissionSnapshot) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID:      user.ID,
		DisplayName: user.Name,
		RoleID:      user.RoleID,
		Permissions: snapshot.Boards,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.Lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(t.Secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature and expiry and returns the decoded claims. On any
// failure the partially parsed claims are discarded; there is no fallback
// identity.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrTokenMalformed
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrTokenMalformed
}
