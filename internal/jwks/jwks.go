// Package jwks loads JWK sets and verifies caller credentials against them.
package jwks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

var ErrInvalidToken = errors.New("invalid token")

// Load reads a JWK set from an http(s) URL or a local file.
func Load(ctx context.Context, src string) (jwk.Set, error) {
	if src == "" {
		return nil, errors.New("jwks: no source configured")
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		set, err := jwk.Fetch(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("jwks_fetch: %w", err)
		}
		return set, nil
	}
	b, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("jwks_read: %w", err)
	}
	set, err := jwk.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("jwks_parse: %w", err)
	}
	return set, nil
}

// Resolver verifies a signed JWT credential and returns its subject.
type Resolver struct {
	set      jwk.Set
	issuer   string
	audience string
}

type Option func(*Resolver)

func WithIssuer(iss string) Option   { return func(r *Resolver) { r.issuer = iss } }
func WithAudience(aud string) Option { return func(r *Resolver) { r.audience = aud } }

func NewResolver(set jwk.Set, opts ...Option) *Resolver {
	r := &Resolver{set: set}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Resolver) Subject(ctx context.Context, credential string) (string, error) {
	raw := bearer(credential)
	if raw == "" {
		return "", ErrInvalidToken
	}

	opts := []jwt.ParseOption{
		jwt.WithKeySet(r.set),
		jwt.WithValidate(true),
	}
	if r.issuer != "" {
		opts = append(opts, jwt.WithIssuer(r.issuer))
	}
	if r.audience != "" {
		opts = append(opts, jwt.WithAudience(r.audience))
	}

	tok, err := jwt.ParseString(raw, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sub, ok := tok.Subject()
	if !ok || sub == "" {
		return "", fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return sub, nil
}

// bearer strips an optional "Bearer " scheme; the gate itself forwards
// credentials untouched.
func bearer(v string) string {
	v = strings.TrimSpace(v)
	if len(v) > 7 && strings.EqualFold(v[:7], "bearer ") {
		return strings.TrimSpace(v[7:])
	}
	return v
}
