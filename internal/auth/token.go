package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/emilythestrangee/threadboard/backend/internal/apperr"
	"github.com/emilythestrangee/threadboard/backend/internal/config"
)

// TokenService issues and verifies HMAC-signed JWT access tokens. Tokens are
// stateless: there is no revocation list, so a token stays usable until it
// expires.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenService)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(cfg config.AuthConfig, opts ...TokenOption) (*TokenService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("token secret must not be empty")
	}
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if cfg.TokenExpiry <= 0 {
		return nil, errors.New("token expiry must be positive")
	}

	s := &TokenService{
		secret: []byte(cfg.SecretKey),
		method: method,
		ttl:    cfg.TokenExpiry,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for subjectID valid for ttl; ttl <= 0 selects the
// configured lifetime. exp is encoded in whole seconds and rounded up, so a
// token never expires before ttl has elapsed.
func (s *TokenService) Issue(subjectID int, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()

	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(subjectID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(ceilSecond(now.Add(ttl))),
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the subject of a valid, unexpired token.
func (s *TokenService) Verify(tokenString string) (int, error) {
	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, apperr.Unauthenticated("Invalid or expired token")
	}

	if claims.Subject == "" {
		return 0, apperr.Unauthenticated("Invalid token: missing user ID")
	}
	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, apperr.Unauthenticated("Invalid token: malformed user ID")
	}
	return id, nil
}

func ceilSecond(t time.Time) time.Time {
	if r := t.Truncate(time.Second); !r.Equal(t) {
		return r.Add(time.Second)
	}
	return t
}

// TTL is the configured default lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
