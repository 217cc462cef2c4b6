package hosted

import (
	"context"
	"fmt"

	"github.com/meltforce/kinetic/internal/auth"
	"github.com/meltforce/kinetic/internal/models"
	"github.com/supabase-community/gotrue-go/types"
)

// Auth signs users in against the project's GoTrue service.
type Auth struct {
	c       *Client
	anonKey string
}

var _ auth.Provider = (*Auth)(nil)

func NewAuth(c *Client, anonKey string) *Auth {
	return &Auth{c: c, anonKey: anonKey}
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (*models.Identity, *models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	s, err := a.c.signIn(email, password)
	if err != nil {
		return nil, nil, fmt.Errorf("signing in: %w", err)
	}
	id := &models.Identity{ID: s.User.ID.String(), Email: s.User.Email}
	if name, ok := s.User.UserMetadata["full_name"].(string); ok {
		id.DisplayName = name
	}
	return id, sessionFrom(s), nil
}

func (a *Auth) SignOut(ctx context.Context, _ *models.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.c.signOut(a.anonKey); err != nil {
		return fmt.Errorf("signing out: %w", err)
	}
	return nil
}

// Resume reattaches a stored session. The identity is read from the token
// so a restored session works before the network is reachable.
func (a *Auth) Resume(ctx context.Context, s models.Session) (*models.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, err := auth.IdentityFromToken(s.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("resuming session: %w", err)
	}
	a.c.useSession(types.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresAt:    s.ExpiresAt,
	})
	return id, nil
}

func sessionFrom(s types.Session) *models.Session {
	exp := s.ExpiresAt
	if exp == 0 {
		if t := auth.ExpiresAt(s.AccessToken); !t.IsZero() {
			exp = t.Unix()
		}
	}
	return &models.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresAt:    exp,
	}
}
