// Package auth resolves bearer tokens into principals.
package auth

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kailas-cloud/crmsearch/internal/domain"
)

// Config holds token verification settings.
type Config struct {
	Secret       string
	Issuer       string
	Audience     string
	AllowedRoles []string
	Leeway       time.Duration
}

// Claims is the token payload the service understands.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 tokens.
type Verifier struct {
	secret       []byte
	allowedRoles []string
	parser       *jwt.Parser
}

// NewVerifier creates a verifier. An empty secret is rejected.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	return &Verifier{
		secret:       []byte(cfg.Secret),
		allowedRoles: cfg.AllowedRoles,
		parser:       jwt.NewParser(opts...),
	}, nil
}

// Verify parses the token and returns the principal it names.
// Verification failures wrap domain.ErrUnauthenticated; a role outside
// the allowed list wraps domain.ErrUnauthorized.
func (v *Verifier) Verify(_ context.Context, token string) (domain.Principal, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(_ *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: subject is not a uuid", domain.ErrUnauthenticated)
	}

	role := claims.Role
	if role == "" {
		role = domain.DefaultRole
	}
	if len(v.allowedRoles) > 0 && !slices.Contains(v.allowedRoles, role) {
		return domain.Principal{}, fmt.Errorf("%w: role %q", domain.ErrUnauthorized, role)
	}

	return domain.Principal{ID: id.String(), Email: claims.Email, Role: role}, nil
}
