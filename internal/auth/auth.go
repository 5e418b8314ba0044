// Package auth verifies bearer tokens and attaches the caller's identity
// to the request context. Tokens are HS256 JWTs whose subject claim is
// the user ID; every data-touching route requires one.
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rotisserie/eris"

	"github.com/magellan-group/report-triage/internal/apperr"
)

type contextKey struct{}

// UserID returns the authenticated user ID from ctx, or "" when the
// request never passed the middleware.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// WithUserID returns a context carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// Config holds token verification settings.
type Config struct {
	Secret    string        `yaml:"secret" mapstructure:"secret"`
	AccessTTL time.Duration `yaml:"access_ttl" mapstructure:"access_ttl"`
}

// Verifier issues and checks access tokens.
type Verifier struct {
	secret    []byte
	accessTTL time.Duration
}

// NewVerifier creates a Verifier. The secret must be non-empty; the
// service refuses to start unauthenticated.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.Secret == "" {
		return nil, eris.New("auth: empty signing secret")
	}
	ttl := cfg.AccessTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Verifier{secret: []byte(cfg.Secret), accessTTL: ttl}, nil
}

// IssueToken mints a signed access token for the given user.
func (v *Verifier) IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(v.accessTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	return signed, eris.Wrap(err, "auth: sign token")
}

// VerifyToken parses and validates a token, returning the user ID from
// its subject claim. Any failure, including expiry and a wrong signing
// method, is an unauthorized error.
func (v *Verifier) VerifyToken(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, eris.Errorf("auth: unexpected signing method %s", t.Method.Alg())
			}
			return v.secret, nil
		},
	)
	if err != nil {
		return "", apperr.Wrap(eris.Wrap(err, "auth: parse token"),
			apperr.KindUnauthorized, "invalid or expired token")
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", apperr.New(apperr.KindUnauthorized, "invalid or expired token")
	}
	return claims.Subject, nil
}

// Ping verifies the verifier is usable by issuing and checking a probe
// token.
func (v *Verifier) Ping() error {
	tok, err := v.IssueToken("healthcheck")
	if err != nil {
		return err
	}
	_, err = v.VerifyToken(tok)
	return err
}
