package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/meltforce/kinetic/internal/models"
)

// Static accepts a single configured user and issues HS256 tokens signed
// with a local secret. It is used with the direct Postgres and memory
// backends, where there is no hosted identity service.
type Static struct {
	User     models.Identity
	Password string
	Secret   []byte
	TTL      time.Duration
	now      func() time.Time
}

var _ Provider = (*Static)(nil)

func NewStatic(user models.Identity, password string, secret []byte) *Static {
	return &Static{User: user, Password: password, Secret: secret, TTL: 24 * time.Hour, now: time.Now}
}

func (s *Static) SignIn(_ context.Context, email, password string) (*models.Identity, *models.Session, error) {
	if email != s.User.Email || subtle.ConstantTimeCompare([]byte(password), []byte(s.Password)) != 1 {
		return nil, nil, ErrInvalidCredentials
	}
	now := s.now()
	exp := now.Add(s.TTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: s.User.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.User.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return nil, nil, fmt.Errorf("signing token: %w", err)
	}
	id := s.User
	return &id, &models.Session{AccessToken: signed, TokenType: "bearer", ExpiresAt: exp.Unix()}, nil
}

func (s *Static) SignOut(context.Context, *models.Session) error { return nil }

// Resume verifies the token signature and expiry.
func (s *Static) Resume(_ context.Context, sess models.Session) (*models.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(sess.AccessToken, claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("verifying session: %w", err)
	}
	if claims.Subject != s.User.ID {
		return nil, fmt.Errorf("session belongs to %q", claims.Subject)
	}
	id := s.User
	return &id, nil
}
