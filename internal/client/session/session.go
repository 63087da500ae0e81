// Package session owns the authenticated/unauthenticated state of the client
// and orchestrates the credential store and the API client: validate input
// locally, call the server, persist tokens, then flip the in-memory state.
package session

import (
	"errors"

	"github.com/vpetrenko/acctcli/internal/client/api"
)

// ErrOperationInFlight is returned when a second network operation is started
// while another one is still running. The controller holds a single
// operation slot; callers may retry once the running operation finishes.
var ErrOperationInFlight = errors.New("another operation is in progress")

// State is an immutable snapshot of the session, published to subscribers on
// every change.
//
// Invariant: Authenticated implies an access token exists in the credential
// store at the time the state was set. The converse is only probed at
// startup; no background revalidation happens.
type State struct {
	Authenticated bool
	User          *api.User
	// Subject identifies the session owner when the full profile is unknown,
	// e.g. right after a restart before the profile has been fetched.
	Subject    string
	ErrMessage string
	Loading    bool
}
