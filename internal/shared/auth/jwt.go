// Package auth signs and verifies the HS256 session tokens issued after
// Google sign-in.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the identity contained in a JWT.
type Claims struct {
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

var (
	// ErrMissingSecret is returned when no signing secret is configured in production.
	ErrMissingSecret = errors.New("jwt secret not configured")
	// ErrInvalidToken covers malformed, expired, foreign and tampered tokens.
	ErrInvalidToken = errors.New("invalid token")
)

const (
	// Issuer is stamped on every token and required when verifying.
	Issuer = "resume-builder"

	// DefaultTTL is the lifetime of a token without an explicit expiry.
	DefaultTTL = 24 * time.Hour

	devSecret = "dev-secret"
	leeway    = 30 * time.Second
)

// Signer issues and verifies tokens with one HS256 secret.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner builds a Signer. A non-positive ttl selects DefaultTTL.
func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// SignerFromEnv reads JWT_SECRET. Outside production an empty secret falls
// back to a fixed development secret.
func SignerFromEnv() (*Signer, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		env := strings.ToLower(strings.TrimSpace(os.Getenv("ENV")))
		if env == "production" || env == "prod" {
			return nil, fmt.Errorf("%w: JWT_SECRET required in production", ErrMissingSecret)
		}
		secret = devSecret
	}
	return NewSigner(secret, DefaultTTL)
}

// Sign fills IssuedAt, ExpiresAt and Issuer when unset and signs claims.
func (s *Signer) Sign(claims Claims) (string, error) {
	if claims.Subject == "" {
		return "", errors.New("sub is required")
	}
	now := s.now().UTC()
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(now)
	}
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	if claims.Issuer == "" {
		claims.Issuer = Issuer
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, issuer and expiry and returns the claims.
func (s *Signer) Verify(token string) (Claims, error) {
	if strings.TrimSpace(token) == "" {
		return Claims{}, ErrInvalidToken
	}
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// SignJWT signs claims with the secret from the environment.
func SignJWT(claims Claims) (string, error) {
	s, err := SignerFromEnv()
	if err != nil {
		return "", err
	}
	return s.Sign(claims)
}

// VerifyJWT verifies a token with the secret from the environment.
func VerifyJWT(token string) (Claims, error) {
	s, err := SignerFromEnv()
	if err != nil {
		return Claims{}, err
	}
	return s.Verify(token)
}
