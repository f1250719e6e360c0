// Package cryptobox encrypts article files with AES-256-GCM before they leave the author's machine.
package cryptobox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const (
	KeySize = 32
	IVSize  = 12
)

var (
	ErrKeySize = errors.New("key must be 32 bytes")
	ErrIVSize  = errors.New("iv must be 12 bytes")
	// ErrDecrypt hides whether the key, iv or ciphertext was wrong.
	ErrDecrypt = errors.New("decryption failed")
)

// Key is the material needed to decrypt a blob, as registered with the key store.
type Key struct {
	Raw []byte
	IV  []byte
}

// NewKey draws a fresh random key and iv.
func NewKey() (*Key, error) {
	return newKey(rand.Reader)
}

func newKey(r io.Reader) (*Key, error) {
	k := &Key{Raw: make([]byte, KeySize), IV: make([]byte, IVSize)}
	if _, err := io.ReadFull(r, k.Raw); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	if _, err := io.ReadFull(r, k.IV); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}
	return k, nil
}

// ParseKey decodes the base64 key and iv returned by the key store.
func ParseKey(rawKey, iv string) (*Key, error) {
	raw, err := base64.StdEncoding.DecodeString(rawKey)
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(iv)
	if err != nil {
		return nil, fmt.Errorf("decode iv: %w", err)
	}
	k := &Key{Raw: raw, IV: nonce}
	if err := k.validate(); err != nil {
		return nil, err
	}
	return k, nil
}

// EncodedKey returns the base64 form of the raw key.
func (k *Key) EncodedKey() string {
	return base64.StdEncoding.EncodeToString(k.Raw)
}

// EncodedIV returns the base64 form of the iv.
func (k *Key) EncodedIV() string {
	return base64.StdEncoding.EncodeToString(k.IV)
}

func (k *Key) validate() error {
	if len(k.Raw) != KeySize {
		return ErrKeySize
	}
	if len(k.IV) != IVSize {
		return ErrIVSize
	}
	return nil
}

func (k *Key) aead() (cipher.AEAD, error) {
	if err := k.validate(); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(k.Raw)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext; the output carries the 16-byte GCM tag at the end.
func (k *Key) Seal(plaintext []byte) ([]byte, error) {
	gcm, err := k.aead()
	if err != nil {
		return nil, err
	}
	return gcm.Seal(nil, k.IV, plaintext, nil), nil
}

// Open decrypts ciphertext produced by Seal.
func (k *Key) Open(ciphertext []byte) ([]byte, error) {
	gcm, err := k.aead()
	if err != nil {
		return nil, err
	}
	out, err := gcm.Open(nil, k.IV, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return out, nil
}
