// Package token issues and validates the HS256 JWTs used for email
// verification, and builds the revocable service behind login sessions.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose names what a signed token may be used for.
type Purpose string

const PurposeVerify Purpose = "verify"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpired      = errors.New("token expired")
)

// Claims is the payload of every token issued by Signer.
type Claims struct {
	Email   string  `json:"email,omitempty"`
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// Signer signs and parses tokens with a shared HMAC secret.
type Signer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// Option configures a Signer.
type Option func(*Signer)

// WithIssuer sets the iss claim written to and required from tokens.
func WithIssuer(issuer string) Option {
	return func(s *Signer) { s.issuer = issuer }
}

// WithClock overrides the time source; used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) { s.now = now }
}

// NewSigner creates a Signer for the given secret.
func NewSigner(secret string, opts ...Option) *Signer {
	s := &Signer{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueVerification returns a token proving ownership of email, valid for ttl.
func (s *Signer) IssueVerification(email string, ttl time.Duration) (string, time.Time, error) {
	return s.issue(Claims{Email: email, Purpose: PurposeVerify}, ttl)
}

func (s *Signer) issue(c Claims, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(ttl)
	c.Issuer = s.issuer
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(exp)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse validates raw and returns its claims. The token must be HS256,
// unexpired and issued for purpose. Errors wrap ErrExpired or ErrInvalidToken.
func (s *Signer) Parse(raw string, purpose Purpose) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Purpose != purpose {
		return nil, fmt.Errorf("%w: purpose %q, want %q", ErrInvalidToken, claims.Purpose, purpose)
	}
	return claims, nil
}
