package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vpetrenko/acctcli/internal/client/api"
	"github.com/vpetrenko/acctcli/internal/client/keystore"
	"github.com/vpetrenko/acctcli/internal/logging"
	"github.com/vpetrenko/acctcli/internal/validation"
)

// Controller coordinates login, registration, logout and profile operations.
// All errors are converted to a user-facing message in the published state;
// they are also returned so callers can branch on the error kind.
type Controller struct {
	client api.Client
	store  keystore.Store
	valid  *validation.Validator
	log    logging.Logger

	// inFlight is the single operation slot: a second network operation
	// started while one is running fails with ErrOperationInFlight instead
	// of interleaving credential writes.
	inFlight atomic.Bool

	mu    sync.Mutex
	state State
	subs  []chan State
}

// New builds a Controller. The credential store is injected so tests can
// substitute an in-memory vault.
func New(client api.Client, store keystore.Store, valid *validation.Validator, log logging.Logger) *Controller {
	return &Controller{client: client, store: store, valid: valid, log: log}
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe returns a channel receiving state snapshots, primed with the
// current state. The channel holds one element; when the subscriber lags,
// older snapshots are dropped in favor of the latest.
func (c *Controller) Subscribe() <-chan State {
	ch := make(chan State, 1)
	c.mu.Lock()
	c.subs = append(c.subs, ch)
	ch <- c.state
	c.mu.Unlock()
	return ch
}

// update applies fn to the state under the lock and publishes the result.
func (c *Controller) update(fn func(*State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
	st := c.state
	for _, ch := range c.subs {
		select {
		case ch <- st:
		default:
			// Subscriber lags: replace the pending snapshot.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
}

// Restore probes the credential store for an access token. Presence alone
// authenticates the session; the token is not validated against the server.
// The token's claims are decoded (unverified) only to recover the subject.
func (c *Controller) Restore(ctx context.Context) {
	tok, err := c.store.Retrieve(ctx, keystore.KeyAccessToken)
	if err != nil {
		if !errors.Is(err, keystore.ErrNotFound) {
			c.log.Warn(ctx, "failed to probe stored credentials", "error", err)
		}
		return
	}

	subject := tokenSubject(tok)
	c.update(func(st *State) {
		st.Authenticated = true
		st.User = nil
		st.Subject = subject
	})
	c.log.Info(ctx, "session restored from stored token", "subject", subject)
}

// Login validates the credentials locally (invalid input never reaches the
// network), authenticates against the server, persists both tokens and the
// user id atomically, and only then marks the session authenticated. A
// storage failure therefore leaves the session unauthenticated.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	req := api.LoginRequest{Email: email, Password: password}
	if err := c.valid.Struct(req); err != nil {
		c.setError(err.Error())
		return err
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return ErrOperationInFlight
	}
	defer c.inFlight.Store(false)
	c.begin()

	resp, err := c.client.Login(ctx, req)
	if err != nil {
		c.fail(ctx, "login failed", err)
		return err
	}

	if err := c.persistCredentials(ctx, resp.Token, resp.RefreshToken, resp.User.ID.String()); err != nil {
		c.fail(ctx, "failed to store credentials", err)
		return err
	}

	user := resp.User
	c.update(func(st *State) {
		st.Authenticated = true
		st.User = &user
		st.Subject = user.Email
		st.Loading = false
		st.ErrMessage = ""
	})
	c.log.Info(ctx, "login succeeded", "email", user.Email)
	return nil
}

// Register creates an account and then behaves exactly like Login: persist
// credentials, flip state. The name rule is checked before the login rules.
func (c *Controller) Register(ctx context.Context, email, password, name string) error {
	req := api.RegisterRequest{Name: name, Email: email, Password: password}
	if err := c.valid.Struct(req); err != nil {
		c.setError(err.Error())
		return err
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return ErrOperationInFlight
	}
	defer c.inFlight.Store(false)
	c.begin()

	resp, err := c.client.Register(ctx, req)
	if err != nil {
		c.fail(ctx, "registration failed", err)
		return err
	}

	if err := c.persistCredentials(ctx, resp.Token, resp.RefreshToken, resp.User.ID.String()); err != nil {
		c.fail(ctx, "failed to store credentials", err)
		return err
	}

	user := resp.User
	c.update(func(st *State) {
		st.Authenticated = true
		st.User = &user
		st.Subject = user.Email
		st.Loading = false
		st.ErrMessage = ""
	})
	c.log.Info(ctx, "registration succeeded", "email", user.Email)
	return nil
}

// Logout deletes the stored credentials and resets the state. It performs no
// network call and never fails: deletion is idempotent and any storage error
// is only logged.
func (c *Controller) Logout(ctx context.Context) {
	for _, key := range []keystore.Key{keystore.KeyAccessToken, keystore.KeyRefreshToken, keystore.KeyUserID} {
		if err := c.store.Delete(ctx, key); err != nil {
			c.log.Warn(ctx, "failed to delete secret", "key", string(key), "error", err)
		}
	}
	c.update(func(st *State) { *st = State{} })
	c.log.Info(ctx, "logged out")
}

// Profile fetches the current user profile and replaces the session's user.
func (c *Controller) Profile(ctx context.Context) (*api.User, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrOperationInFlight
	}
	defer c.inFlight.Store(false)
	c.begin()

	user, err := c.client.Profile(ctx)
	if err != nil {
		c.fail(ctx, "profile fetch failed", err)
		return nil, err
	}

	c.update(func(st *State) {
		st.User = user
		st.Subject = user.Email
		st.Loading = false
		st.ErrMessage = ""
	})
	return user, nil
}

// UpdateProfile validates and submits a profile change, replacing the
// session's user with the server's response wholesale.
func (c *Controller) UpdateProfile(ctx context.Context, name string, phone, bio *string) (*api.User, error) {
	req := api.UpdateProfileRequest{Name: name, Phone: phone, Bio: bio}
	if err := c.valid.Struct(req); err != nil {
		c.setError(err.Error())
		return nil, err
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrOperationInFlight
	}
	defer c.inFlight.Store(false)
	c.begin()

	user, err := c.client.UpdateProfile(ctx, req)
	if err != nil {
		c.fail(ctx, "profile update failed", err)
		return nil, err
	}

	c.update(func(st *State) {
		st.User = user
		st.Subject = user.Email
		st.Loading = false
		st.ErrMessage = ""
	})
	c.log.Info(ctx, "profile updated", "email", user.Email)
	return user, nil
}

// Refresh exchanges the stored refresh token for a new token pair and
// persists both atomically.
func (c *Controller) Refresh(ctx context.Context) error {
	rt, err := c.store.Retrieve(ctx, keystore.KeyRefreshToken)
	if err != nil {
		c.setError(err.Error())
		return err
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return ErrOperationInFlight
	}
	defer c.inFlight.Store(false)
	c.begin()

	resp, err := c.client.Refresh(ctx, api.RefreshRequest{RefreshToken: string(rt)})
	if err != nil {
		c.fail(ctx, "token refresh failed", err)
		return err
	}

	err = c.store.SaveAll(ctx, map[keystore.Key][]byte{
		keystore.KeyAccessToken:  []byte(resp.Token),
		keystore.KeyRefreshToken: []byte(resp.RefreshToken),
	})
	if err != nil {
		c.fail(ctx, "failed to store rotated tokens", err)
		return err
	}

	c.update(func(st *State) {
		st.Loading = false
		st.ErrMessage = ""
	})
	c.log.Info(ctx, "tokens refreshed")
	return nil
}

// DeleteAccount removes the account on the server, then clears the local
// session as Logout does.
func (c *Controller) DeleteAccount(ctx context.Context) error {
	if !c.inFlight.CompareAndSwap(false, true) {
		return ErrOperationInFlight
	}

	err := func() error {
		defer c.inFlight.Store(false)
		c.begin()
		if err := c.client.DeleteAccount(ctx); err != nil {
			c.fail(ctx, "account deletion failed", err)
			return err
		}
		return nil
	}()
	if err != nil {
		return err
	}

	c.Logout(ctx)
	return nil
}

// persistCredentials writes the token pair and the user id in a single
// transaction so a crash cannot leave a partial credential set behind.
func (c *Controller) persistCredentials(ctx context.Context, token, refreshToken, userID string) error {
	return c.store.SaveAll(ctx, map[keystore.Key][]byte{
		keystore.KeyAccessToken:  []byte(token),
		keystore.KeyRefreshToken: []byte(refreshToken),
		keystore.KeyUserID:       []byte(userID),
	})
}

func (c *Controller) begin() {
	c.update(func(st *State) {
		st.Loading = true
		st.ErrMessage = ""
	})
}

func (c *Controller) fail(ctx context.Context, msg string, err error) {
	c.update(func(st *State) {
		st.Loading = false
		st.ErrMessage = err.Error()
	})
	c.log.Error(ctx, msg, "error", err)
}

func (c *Controller) setError(msg string) {
	c.update(func(st *State) {
		st.ErrMessage = msg
	})
}

// tokenSubject decodes JWT claims without verifying the signature; the token
// is trusted because it came from the local vault, and freshness is the
// server's concern on the next request.
func tokenSubject(tok []byte) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(string(tok), claims); err != nil {
		return ""
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub
	}
	if email, ok := claims["email"].(string); ok {
		return email
	}
	return ""
}
