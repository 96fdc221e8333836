// Package crypto seals credentials kept in configuration files.
//
// A sealed value looks like "enc:v1:<base64>" where the payload is a random
// salt, the AES-GCM nonce and the ciphertext. The key is derived from a
// passphrase with PBKDF2, per value, using that value's salt.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Prefix marks a sealed value.
const Prefix = "enc:v1:"

const (
	saltSize   = 16
	iterations = 100000
	keySize    = 32 // AES-256
)

var (
	ErrNoPassphrase = errors.New("passphrase is empty")
	ErrMalformed    = errors.New("malformed sealed value")
)

// Encryptor seals and opens values with one passphrase
type Encryptor struct {
	passphrase []byte
}

// NewEncryptor creates an encryptor for the given passphrase
func NewEncryptor(passphrase string) (*Encryptor, error) {
	if passphrase == "" {
		return nil, ErrNoPassphrase
	}
	return &Encryptor{passphrase: []byte(passphrase)}, nil
}

// IsSealed reports whether s carries the sealed prefix.
func IsSealed(s string) bool {
	return strings.HasPrefix(s, Prefix)
}

func (e *Encryptor) gcm(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(e.passphrase, salt, iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext. Empty stays empty.
func (e *Encryptor) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	gcm, err := e.gcm(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	out := append(salt, nonce...)
	out = gcm.Seal(out, nonce, []byte(plaintext), nil)
	return Prefix + base64.StdEncoding.EncodeToString(out), nil
}

// Open decrypts a sealed value. Values without the prefix are returned
// unchanged so plain settings keep working.
func (e *Encryptor) Open(value string) (string, error) {
	if !IsSealed(value) {
		return value, nil
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, Prefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(data) < saltSize {
		return "", ErrMalformed
	}

	salt, rest := data[:saltSize], data[saltSize:]
	gcm, err := e.gcm(salt)
	if err != nil {
		return "", err
	}
	if len(rest) < gcm.NonceSize() {
		return "", ErrMalformed
	}

	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("opening sealed value: wrong passphrase or corrupted data")
	}
	return string(plaintext), nil
}
