package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenExpiry is how long an issued token stays valid
const DefaultTokenExpiry = 7 * 24 * time.Hour

// Claims are the registered claims carried by a bearer token; the subject is the user id
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed bearer tokens
type TokenService interface {
	Issue(subjectID string) (string, error)
	Verify(token string) (string, error)
	Expiry() time.Duration
}

type tokenService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// TokenOption customises a TokenService
type TokenOption func(*tokenService)

// WithClock replaces the time source used for issuing and verifying
func WithClock(now func() time.Time) TokenOption {
	return func(s *tokenService) { s.now = now }
}

// NewTokenService returns an HS256 token service. An empty secret is an error: there is no fallback.
func NewTokenService(secret string, expiry time.Duration, opts ...TokenOption) (TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token signing secret is not configured")
	}
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	s := &tokenService{secret: []byte(secret), expiry: expiry, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *tokenService) Expiry() time.Duration {
	return s.expiry
}

func (s *tokenService) Issue(subjectID string) (string, error) {
	if strings.TrimSpace(subjectID) == "" {
		return "", errors.New("subject is required")
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the subject of a valid token, or ErrInvalidToken
func (s *tokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
