// Package api implements the account-service wire protocol: the endpoint
// registry, request/response payloads, the error taxonomy, and a JSON-over-
// HTTP client.
package api

import "context"

// TokenSource supplies the bearer token for authenticated endpoints.
// Implementations typically read it from the credential store.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client is the account-service API. One method per endpoint; every method
// honors context cancellation.
type Client interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
	Profile(ctx context.Context) (*User, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error)
	DeleteAccount(ctx context.Context) error
	Close() error
}
