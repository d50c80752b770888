package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// SecureBuffer holds the bot secret in a memguard enclave: encrypted at
// rest in memory and protected from swapping via mlock.
//
// memguard.Enclave has no direct destroy operation; Destroy here makes
// the buffer unusable and leaves the encrypted remains to the garbage
// collector, with memguard.Purge() available for full cleanup at exit.
type SecureBuffer struct {
	enclave *memguard.Enclave
	mu      sync.RWMutex
	// destroyed allows idempotent Destroy() calls and prevents use after
	// destroy
	destroyed bool
}

// NewSecureBuffer creates a protected buffer from secret bytes. The input
// is copied into a protected memory region; the caller should zero its
// own copy.
func NewSecureBuffer(data []byte) (*SecureBuffer, error) {
	return &SecureBuffer{
		enclave:   memguard.NewEnclave(data),
		destroyed: false,
	}, nil
}

// NewSecureBufferFromString creates a protected buffer from a secret
// string, the form secrets arrive in from flags, the environment and the
// OS keyring.
func NewSecureBufferFromString(secret string) (*SecureBuffer, error) {
	return NewSecureBuffer([]byte(secret))
}

// Open decrypts and returns the protected data in a locked buffer. The
// caller MUST call Destroy() on the returned LockedBuffer when done to
// wipe the plaintext from memory.
func (s *SecureBuffer) Open() (*memguard.LockedBuffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.destroyed {
		// Return an empty locked buffer if already destroyed
		return memguard.NewBufferFromBytes([]byte{}), nil
	}

	return s.enclave.Open()
}

// Destroy marks this SecureBuffer as destroyed and prevents further use.
// It is idempotent; after Destroy(), Open() returns an empty buffer.
func (s *SecureBuffer) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return
	}

	s.enclave = nil
	s.destroyed = true
}
