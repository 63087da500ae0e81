package keystore

import (
	"context"
	"crypto/cipher"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vpetrenko/acctcli/internal/dbx"

	_ "modernc.org/sqlite"
)

// SQLite is a Store backed by a local sqlite database. Values are sealed
// before they reach disk; the table itself only ever sees ciphertext.
type SQLite struct {
	db   *sql.DB
	aead cipher.AEAD
}

var _ Store = (*SQLite)(nil)

// Open opens (or creates) the vault database at dbPath and its key file at
// keyPath. The schema is created on first use.
func Open(ctx context.Context, dbPath, keyPath string) (*SQLite, error) {
	key, err := loadOrCreateKey(keyPath)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}

	aead, err := newAEAD(key)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS secrets (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)
	`)
	if err != nil {
		_ = db.Close()
		return nil, &StorageError{Op: "open", Err: err}
	}

	return &SQLite{db: db, aead: aead}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Save(ctx context.Context, key Key, value []byte) error {
	return s.save(ctx, s.db, key, value)
}

// SaveAll writes every pair inside a single transaction, so a crash cannot
// leave a partially written credential set.
func (s *SQLite) SaveAll(ctx context.Context, values map[Key][]byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for key, value := range values {
			if err := s.save(ctx, tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLite) save(ctx context.Context, db dbx.DBTX, key Key, value []byte) error {
	sealed, err := seal(s.aead, value)
	if err != nil {
		return &StorageError{Op: "save", Key: key, Err: err}
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO secrets (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, string(key), sealed)
	if err != nil {
		return &StorageError{Op: "save", Key: key, Err: err}
	}
	return nil
}

func (s *SQLite) Retrieve(ctx context.Context, key Key) ([]byte, error) {
	var sealed []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM secrets WHERE key = ?`, string(key)).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &StorageError{Op: "retrieve", Key: key, Err: ErrNotFound}
	}
	if err != nil {
		return nil, &StorageError{Op: "retrieve", Key: key, Err: err}
	}

	value, err := open(s.aead, sealed)
	if err != nil {
		return nil, &StorageError{Op: "retrieve", Key: key, Err: fmt.Errorf("failed to unseal: %w", err)}
	}
	return value, nil
}

func (s *SQLite) Delete(ctx context.Context, key Key) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM secrets WHERE key = ?`, string(key)); err != nil {
		return &StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM secrets`); err != nil {
		return &StorageError{Op: "clear", Err: err}
	}
	return nil
}
