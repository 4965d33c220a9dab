package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrEmptyToken       = errors.New("token is empty")
	ErrMalformedToken   = errors.New("token is malformed")
	ErrExpiredToken     = errors.New("token is expired")
	ErrUnsupportedToken = errors.New("token is unsupported")
	ErrBadSignature     = errors.New("token signature is invalid")
)

// AccessToken is an issued bearer token and its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// TokenCodec issues and verifies HS256 tokens whose subject is the user
// email.  It holds no mutable state and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// CodecOption customises a TokenCodec.
type CodecOption func(*TokenCodec)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) { c.now = now }
}

func NewTokenCodec(secret string, ttl time.Duration, opts ...CodecOption) *TokenCodec {
	c := &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue signs a token for p valid for the configured TTL.
func (c *TokenCodec) Issue(p *Principal) (AccessToken, error) {
	if p == nil || p.Email == "" {
		return AccessToken{}, errors.New("issue token: principal has no email")
	}
	now := c.now()
	exp := now.Add(c.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   p.Email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return AccessToken{}, fmt.Errorf("issue token: %w", err)
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseSubject verifies raw and returns its subject.  Failures are reported
// as one of ErrEmptyToken, ErrMalformedToken, ErrExpiredToken,
// ErrUnsupportedToken or ErrBadSignature.
func (c *TokenCodec) ParseSubject(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyToken
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, c.keyFunc,
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", classify(err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrUnsupportedToken)
	}
	return claims.Subject, nil
}

// IsValid reports whether raw would be accepted by ParseSubject.  The reason
// for a rejection is logged, never returned.
func (c *TokenCodec) IsValid(raw string) bool {
	return c.IsValidContext(context.Background(), raw)
}

// IsValidContext is IsValid logging through the request logger in ctx.
func (c *TokenCodec) IsValidContext(ctx context.Context, raw string) bool {
	_, err := c.ParseSubject(raw)
	if err == nil {
		return true
	}
	kind, level := RejectionKind(err)
	zerolog.Ctx(ctx).WithLevel(level).Str("kind", kind).Err(err).Msg("jwt rejected")
	return false
}

// RejectionKind names the failure behind a ParseSubject error and the level
// it is logged at.
func RejectionKind(err error) (string, zerolog.Level) {
	switch {
	case errors.Is(err, ErrEmptyToken):
		return "empty", zerolog.DebugLevel
	case errors.Is(err, ErrMalformedToken):
		return "malformed", zerolog.WarnLevel
	case errors.Is(err, ErrExpiredToken):
		return "expired", zerolog.DebugLevel
	case errors.Is(err, ErrUnsupportedToken):
		return "unsupported", zerolog.WarnLevel
	case errors.Is(err, ErrBadSignature):
		return "bad_signature", zerolog.WarnLevel
	}
	return "unknown", zerolog.WarnLevel
}

func (c *TokenCodec) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("%w: signing method %v", ErrUnsupportedToken, t.Header["alg"])
	}
	return c.secret, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrUnsupportedToken):
		return err
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpiredToken, err)
	default:
		// unknown algorithms, missing exp, not-yet-valid tokens
		return fmt.Errorf("%w: %v", ErrUnsupportedToken, err)
	}
}
