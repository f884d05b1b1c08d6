package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pizzapalace/internal/config"
	"pizzapalace/internal/domain"
	sessionrepo "pizzapalace/internal/repository/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carried by a storefront access token. The registered ID (jti) is
// the key of the server-side session row.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

type tokenManager struct {
	sessions sessionRepo
	secret   []byte
	issuer   string
	ttl      time.Duration
	now      func() time.Time
}

func newTokenManager(sessions sessionRepo, cfg config.AuthConfig) *tokenManager {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	return &tokenManager{
		sessions: sessions,
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue signs a token for u and records its session.
func (m *tokenManager) Issue(ctx context.Context, u domain.User) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: u.Email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	if err := m.sessions.Create(ctx, sessionrepo.Session{ID: claims.ID, AccountID: u.ID, ExpiresAt: expiresAt}); err != nil {
		return "", time.Time{}, fmt.Errorf("store session: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies the signature and registered claims.
func (m *tokenManager) Parse(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Validate parses token and checks its session is still live.
func (m *tokenManager) Validate(ctx context.Context, token string) (*Claims, error) {
	claims, err := m.Parse(token)
	if err != nil {
		return nil, err
	}
	sess, err := m.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if sess.AccountID != claims.Subject || !m.now().Before(sess.ExpiresAt) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Revoke removes the session behind claims. An already removed session is
// not an error.
func (m *tokenManager) Revoke(ctx context.Context, claims *Claims) error {
	if err := m.sessions.Delete(ctx, claims.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}
