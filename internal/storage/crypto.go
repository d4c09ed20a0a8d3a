package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Key derivation parameters. Changing them makes existing sealed data unreadable.
const (
	saltLen   = 16
	keyLen    = 32
	kdfRounds = 100000
)

// ErrDecrypt is returned when sealed data cannot be opened with the given passphrase
var ErrDecrypt = errors.New("decryption failed: invalid passphrase or corrupted data")

// cryptor seals values with AES-256-GCM under a PBKDF2-derived key
type cryptor struct {
	aead cipher.AEAD
}

func newCryptor(passphrase string, salt []byte) (*cryptor, error) {
	block, err := aes.NewCipher(pbkdf2.Key([]byte(passphrase), salt, kdfRounds, keyLen, sha256.New))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return &cryptor{aead: aead}, nil
}

func generateSalt() ([]byte, error) {
	return randomBytes(saltLen)
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// seal prefixes the ciphertext with a fresh nonce
func (c *cryptor) seal(plaintext []byte) ([]byte, error) {
	nonce, err := randomBytes(c.aead.NonceSize())
	if err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (c *cryptor) open(sealed []byte) ([]byte, error) {
	n := c.aead.NonceSize()
	if len(sealed) < n+c.aead.Overhead() {
		return nil, ErrDecrypt
	}
	plaintext, err := c.aead.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}
