// Package identity is the client-side adapter to the identity provider. It
// holds the current user and token and tells subscribers whenever either
// changes.
package identity

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tenderdesk/caseforum/internal/core/domain"
	"github.com/tenderdesk/caseforum/internal/core/ports"
)

var _ ports.IdentityProvider = (*Client)(nil)

type subscriber struct {
	id int
	fn func(*domain.User)
}

// Client implements ports.IdentityProvider on top of an AuthService.
type Client struct {
	auth ports.AuthService
	log  zerolog.Logger

	mu     sync.RWMutex
	user   *domain.User
	token  string
	subs   []subscriber
	nextID int
}

func NewClient(auth ports.AuthService, log zerolog.Logger) *Client {
	return &Client{auth: auth, log: log}
}

// Current returns the signed-in user, or nil.
func (c *Client) Current() *domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// Token returns the bearer token of the current session, or "".
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnSessionChange registers fn. Subscribers run in registration order on the
// goroutine that changed the session.
func (c *Client) OnSessionChange(fn func(*domain.User)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// SignIn authenticates creds. The provider's failure message is returned
// unchanged.
func (c *Client) SignIn(ctx context.Context, creds ports.Credentials) (*domain.User, error) {
	token, user, err := c.auth.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, domain.NewProviderError("sign in", err)
	}

	c.set(user, token)
	c.log.Info().Str("uid", user.UID).Msg("signed in")
	return user, nil
}

// SignOut revokes the current token and clears the session. The local
// session is cleared even when revocation fails.
func (c *Client) SignOut(ctx context.Context) error {
	token := c.Token()
	c.set(nil, "")

	if token == "" {
		return nil
	}
	if err := c.auth.Logout(ctx, token); err != nil {
		c.log.Warn().Err(err).Msg("token revocation failed")
		return domain.NewProviderError("sign out", err)
	}
	c.log.Info().Msg("signed out")
	return nil
}

// Restore verifies a persisted token and announces the resulting session.
// An invalid token announces a signed-out session.
func (c *Client) Restore(ctx context.Context, token string) error {
	user, err := c.auth.Verify(ctx, token)
	if err != nil {
		c.set(nil, "")
		return domain.NewProviderError("restore session", err)
	}
	c.set(user, token)
	return nil
}

func (c *Client) set(user *domain.User, token string) {
	c.mu.Lock()
	c.user = user
	c.token = token
	subs := make([]subscriber, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(user)
	}
}
