// Package secure provides memory-safe handling of the bot secret while
// the CLI holds it between resolution (flag, environment, OS keyring) and
// use (decrypting or saving a bot file).
//
// It wraps the memguard library so the secret is:
//
//   - Encrypted at rest in memory (XSalsa20Poly1305)
//   - Protected from swapping via mlock
//   - Securely wiped when no longer needed
//
// Create a buffer from the resolved secret:
//
//	buf, err := secure.NewSecureBufferFromString(secret)
//	if err != nil {
//	    // Handle error - may indicate mlock unavailable
//	}
//	defer buf.Destroy()
//
//	// When the secret is needed:
//	locked, err := buf.Open()
//	if err != nil {
//	    // Handle error
//	}
//	defer locked.Destroy()
//	secret := string(locked.Bytes())
//
// If mlock is unavailable (for example due to RLIMIT_MEMLOCK), memguard
// degrades gracefully to standard allocation. None of this protects
// against an attacker with root access to the running process; it keeps
// plaintext secrets out of core dumps and swap.
package secure
