// Package auth is the boundary to the identity provider. The application
// only sees an opaque Identity and the Session that proves it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/meltforce/kinetic/internal/models"
)

// ErrInvalidCredentials is returned by SignIn for a rejected login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Provider signs users in and out.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*models.Identity, *models.Session, error)
	SignOut(ctx context.Context, s *models.Session) error
	// Resume re-attaches a session restored from device storage.
	Resume(ctx context.Context, s models.Session) (*models.Identity, error)
}

// Claims is the part of an access token the client cares about.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims reads an access token without verifying its signature. The
// provider verifies tokens; the client only needs the subject and expiry.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parsing access token: %w", err)
	}
	return claims, nil
}

// ExpiresAt returns the token's exp claim, or zero if it has none.
func ExpiresAt(token string) time.Time {
	c, err := ParseClaims(token)
	if err != nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// IdentityFromToken builds an Identity from the token's sub and email claims.
func IdentityFromToken(token string) (*models.Identity, error) {
	c, err := ParseClaims(token)
	if err != nil {
		return nil, err
	}
	if c.Subject == "" {
		return nil, errors.New("access token has no subject")
	}
	return &models.Identity{ID: c.Subject, Email: c.Email}, nil
}
