package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
)

const (
	saltKey  = "_salt"
	checkKey = "_check"
)

var checkPlaintext = []byte("pintask")

// SealedBackend encrypts every value before handing it to the inner backend.
// The salt and a check value live next to the data so a wrong passphrase is
// caught when opening rather than by silently loading nothing.
type SealedBackend struct {
	inner Backend
	c     *cryptor
}

// NewSealedBackend wraps inner, creating the salt on first use
func NewSealedBackend(ctx context.Context, inner Backend, passphrase string) (*SealedBackend, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("empty passphrase")
	}

	encoded, ok, err := inner.Get(ctx, saltKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read salt: %w", err)
	}

	var salt []byte
	if ok {
		salt, err = base64.StdEncoding.DecodeString(string(encoded))
		if err != nil {
			return nil, fmt.Errorf("%w: salt: %v", ErrMalformed, err)
		}
	} else {
		salt, err = generateSalt()
		if err != nil {
			return nil, err
		}
	}

	c, err := newCryptor(passphrase, salt)
	if err != nil {
		return nil, err
	}
	s := &SealedBackend{inner: inner, c: c}

	if !ok {
		if err := inner.Put(ctx, saltKey, []byte(base64.StdEncoding.EncodeToString(salt))); err != nil {
			return nil, fmt.Errorf("failed to store salt: %w", err)
		}
		if err := s.Put(ctx, checkKey, checkPlaintext); err != nil {
			return nil, err
		}
		return s, nil
	}

	check, found, err := s.Get(ctx, checkKey)
	if err != nil {
		return nil, err
	}
	if found && !bytes.Equal(check, checkPlaintext) {
		return nil, ErrDecrypt
	}
	return s, nil
}

func (s *SealedBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	plaintext, err := s.c.open(raw)
	if err != nil {
		return nil, true, err
	}
	return plaintext, true, nil
}

func (s *SealedBackend) Put(ctx context.Context, key string, value []byte) error {
	sealed, err := s.c.seal(value)
	if err != nil {
		return err
	}
	return s.inner.Put(ctx, key, []byte(base64.StdEncoding.EncodeToString(sealed)))
}

func (s *SealedBackend) Close() error {
	return s.inner.Close()
}
