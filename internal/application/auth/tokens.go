package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"

	revokedPrefix = "revoked:"
)

// Claims is the JWT payload for both access and refresh tokens.
type Claims struct {
	UserID  uint   `json:"uid"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"adm"`
	Type    string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenManager signs, parses and revokes HS256 tokens. Rdb may be nil, in which
// case revocation is a no-op and tokens live until they expire.
type TokenManager struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Rdb        *redis.Client
	Now        func() time.Time
}

func (m *TokenManager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Issue signs a token of the given type for user.
func (m *TokenManager) Issue(userID uint, email string, isAdmin bool, typ string) (string, *Claims, error) {
	if len(m.Secret) == 0 {
		return "", nil, errors.New("sign token: empty secret")
	}
	ttl := m.AccessTTL
	if typ == TokenRefresh {
		ttl = m.RefreshTTL
	}
	now := m.now()
	claims := &Claims{
		UserID:  userID,
		Email:   email,
		IsAdmin: isAdmin,
		Type:    typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Parse validates signature, expiry (required), type and revocation.
func (m *TokenManager) Parse(ctx context.Context, raw, typ string) (*Claims, error) {
	if len(m.Secret) == 0 {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Type != typ || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	revoked, err := m.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke denylists the token id until the token would have expired anyway.
func (m *TokenManager) Revoke(ctx context.Context, claims *Claims) error {
	if m.Rdb == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if d := claims.ExpiresAt.Time.Sub(m.now()); d > 0 {
			ttl = d
		}
	}
	return m.Rdb.Set(ctx, revokedPrefix+claims.ID, "1", ttl).Err()
}

func (m *TokenManager) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if m.Rdb == nil || jti == "" {
		return false, nil
	}
	err := m.Rdb.Get(ctx, revokedPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return true, nil
}
