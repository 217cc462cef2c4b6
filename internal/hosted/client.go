// Package hosted talks to a Supabase project: PostgREST for table data and
// GoTrue for sign-in. One *Client carries the session token for both.
package hosted

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/meltforce/kinetic/internal/gateway"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/postgrest-go"
	supabase "github.com/supabase-community/supabase-go"
)

// notFoundCode is PostgREST's code for a single-object request that matched
// zero (or several) rows.
const notFoundCode = "PGRST116"

// Client wraps a supabase-go client. Requests and session changes are
// serialized because the underlying client mutates shared headers.
type Client struct {
	mu sync.Mutex
	sb *supabase.Client
}

// NewClient connects to the project at url with the anon key.
func NewClient(url, anonKey, schema string) (*Client, error) {
	sb, err := supabase.NewClient(url, anonKey, &supabase.ClientOptions{Schema: schema})
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}
	return &Client{sb: sb}, nil
}

func (c *Client) from(table gateway.Table) *postgrest.QueryBuilder {
	return c.sb.From(string(table))
}

// signIn exchanges credentials for a session and switches subsequent table
// requests to the user's token.
func (c *Client) signIn(email, password string) (types.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sb.SignInWithEmailPassword(email, password)
}

// useSession switches to a previously issued session.
func (c *Client) useSession(s types.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sb.UpdateAuthSession(s)
}

// signOut revokes the session's refresh tokens and drops back to the anon
// key for table requests.
func (c *Client) signOut(anonKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.sb.Auth.Logout()
	c.sb.UpdateAuthSession(types.Session{AccessToken: anonKey})
	return err
}

var errPattern = regexp.MustCompile(`^\(([^)]*)\) (.*)$`)

// remoteError turns a postgrest-go error string into a typed error.
func remoteError(op string, err error) error {
	if err == nil {
		return nil
	}
	m := errPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return &gateway.RemoteError{Op: op, Message: err.Error(), Err: err}
	}
	re := &gateway.RemoteError{Op: op, Code: m[1], Message: m[2], Err: err}
	if re.Code == notFoundCode {
		return fmt.Errorf("%s: %w", op, errors.Join(gateway.ErrNotFound, re))
	}
	return re
}
