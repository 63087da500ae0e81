// Package keystore persists small named secrets (tokens, the user id) in a
// local vault: a sqlite table whose values are sealed with AES-GCM under a
// key derived from a file private to this application.
package keystore

import (
	"context"
	"errors"
	"fmt"
)

// Key names a stored secret. The set matches what the session layer needs.
type Key string

const (
	KeyAccessToken  Key = "auth_token"
	KeyRefreshToken Key = "refresh_token"
	KeyUserID       Key = "user_id"
)

// ErrNotFound is returned (wrapped in *StorageError) when a secret is absent.
var ErrNotFound = errors.New("secret not found")

// StorageError describes a failed store operation.
type StorageError struct {
	Op  string
	Key Key
	Err error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("keystore: %s %q: %v", e.Op, string(e.Key), e.Err)
	}
	return fmt.Sprintf("keystore: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Store is the secure credential store.
//
// Contract:
//   - Save persists one secret, overwriting any previous value.
//   - SaveAll persists several secrets atomically: either all writes land
//     or none do.
//   - Retrieve returns the value, or a *StorageError wrapping ErrNotFound
//     when the key is absent.
//   - Delete removes a secret and is idempotent: deleting an absent key is
//     not an error.
//   - Clear removes every secret.
type Store interface {
	Save(ctx context.Context, key Key, value []byte) error
	SaveAll(ctx context.Context, values map[Key][]byte) error
	Retrieve(ctx context.Context, key Key) ([]byte, error)
	Delete(ctx context.Context, key Key) error
	Clear(ctx context.Context) error
}

// TokenSource reads the access token from a Store. It satisfies the API
// client's token-source contract.
type TokenSource struct {
	Store Store
}

func (t TokenSource) AccessToken(ctx context.Context) (string, error) {
	v, err := t.Store.Retrieve(ctx, KeyAccessToken)
	if err != nil {
		return "", err
	}
	return string(v), nil
}
