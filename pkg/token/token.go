package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Verification failure kinds. Expiry is distinguished from every other
// defect so callers can tell a stale token from a forged one.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed or signature invalid")
)

// DefaultTTL matches the original deployment's 30-day token lifetime.
const DefaultTTL = 30 * 24 * time.Hour

// Config carries the signing material. The secret is process-wide
// configuration supplied at construction, never read from ambient
// globals and never derived from request data.
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Service issues and verifies signed, expiring identity tokens.
// Verification is stateless: signature plus expiry only, with no store
// round-trip, so a leaked token cannot be revoked before it expires.
type Service struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// New builds a token service. An empty secret is a configuration error.
func New(cfg Config) (*Service, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token: signing secret is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
	}, nil
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue produces a signed token whose subject is the given user id and
// whose expiry is issuance time plus the configured TTL.
func (s *Service) Issue(subjectID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature integrity and expiry and returns the subject
// id. Failures are classified as ErrTokenExpired or ErrTokenMalformed.
func (s *Service) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return "", ErrTokenExpired
		}
		return "", ErrTokenMalformed
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}
