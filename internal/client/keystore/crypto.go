package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/argon2"
)

const (
	keySeedSize = 32
	keySaltSize = 16
	nonceSize   = 12
)

// loadOrCreateKey reads the vault key material (seed || salt) from path,
// creating it with 0600 permissions on first use, and derives the AES-256
// key with argon2id.
func loadOrCreateKey(path string) ([]byte, error) {
	material, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		material = make([]byte, keySeedSize+keySaltSize)
		if _, err := rand.Read(material); err != nil {
			return nil, fmt.Errorf("failed to generate vault key: %w", err)
		}
		if err := os.WriteFile(path, material, 0o600); err != nil {
			return nil, fmt.Errorf("failed to write vault key file: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read vault key file: %w", err)
	case len(material) != keySeedSize+keySaltSize:
		return nil, fmt.Errorf("vault key file %s is corrupt", path)
	}

	seed, salt := material[:keySeedSize], material[keySeedSize:]
	return argon2.IDKey(seed, salt, 1, 64*1024, 4, 32), nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// seal encrypts plaintext and returns nonce||ciphertext.
func seal(aead cipher.AEAD, plaintext []byte) ([]byte, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// open decrypts a nonce||ciphertext blob produced by seal.
func open(aead cipher.AEAD, blob []byte) ([]byte, error) {
	if len(blob) < nonceSize {
		return nil, errors.New("sealed value too short")
	}
	return aead.Open(nil, blob[:nonceSize], blob[nonceSize:], nil)
}
