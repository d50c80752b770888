// Package encrypt implements the symmetric cipher used to protect
// sensitive fields in .bot configuration files.
//
// Values are encrypted with AES-256-GCM and serialized as
// base64(nonce || ciphertext || tag). Decrypting with a different secret
// fails authentication, which is what lets a stored validator token prove
// whether a supplied secret matches the one that protected the document.
package encrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

const keySize = 32

var (
	// ErrEmptySecret is returned when a cipher operation is attempted
	// without a secret.
	ErrEmptySecret = errors.New("encrypt: empty secret")

	// ErrDecryptFailed is returned when ciphertext cannot be authenticated
	// with the supplied secret.
	ErrDecryptFailed = errors.New("encrypt: cannot decrypt, wrong secret or corrupted value")
)

// GenerateKey returns a fresh base64-encoded 256-bit key suitable for use
// as the secret argument of EncryptString and DecryptString.
func GenerateKey() (string, error) {
	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("generating key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// deriveKey accepts a base64-encoded 32-byte key (the GenerateKey format)
// directly; any other secret is hashed down to key size so user-chosen
// passphrases work too.
func deriveKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if key, err := base64.StdEncoding.DecodeString(secret); err == nil && len(key) == keySize {
		return key, nil
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:], nil
}

// EncryptString encrypts plaintext under secret. The empty string passes
// through unchanged so unset optional fields stay unset on disk.
func EncryptString(plaintext, secret string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	key, err := deriveKey(secret)
	if err != nil {
		return "", err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString reverses EncryptString. It fails with ErrDecryptFailed when
// the value was not produced by EncryptString under the same secret.
func DecryptString(ciphertext, secret string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}
	key, err := deriveKey(secret)
	if err != nil {
		return "", err
	}
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrDecryptFailed
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(data) < gcm.NonceSize() {
		return "", ErrDecryptFailed
	}
	nonce, sealed := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptFailed
	}
	return string(plaintext), nil
}
