package botfile

import (
	"github.com/google/uuid"

	"github.com/systmms/botcfg/pkg/encrypt"
)

// Token is the document's secret validator: an encrypted random value
// whose only purpose is to let a later call prove it holds the same
// secret that produced it. It is in exactly one of two states, unset or
// established; the protecting secret itself is never stored anywhere.
type Token struct {
	ciphertext string
}

// TokenFromCiphertext rebinds a token read from a stored document. An
// empty ciphertext yields an unset token.
func TokenFromCiphertext(ciphertext string) Token {
	return Token{ciphertext: ciphertext}
}

// Established reports whether a secret has been bound to this token.
func (t Token) Established() bool { return t.ciphertext != "" }

// Ciphertext returns the stored validator ciphertext, empty when unset.
func (t Token) Ciphertext() string { return t.ciphertext }

// Establish binds secret to this token by encrypting a fresh random
// value. An already established token is left untouched.
func (t *Token) Establish(secret string) error {
	if t.Established() {
		return nil
	}
	ciphertext, err := encrypt.EncryptString(uuid.NewString(), secret)
	if err != nil {
		return err
	}
	t.ciphertext = ciphertext
	return nil
}

// Validate proves that secret matches the one this token was established
// with. Any cipher failure is reported uniformly as ErrInvalidSecret; the
// cipher's own error detail is deliberately not surfaced.
func (t Token) Validate(secret string) error {
	if _, err := encrypt.DecryptString(t.ciphertext, secret); err != nil {
		return ErrInvalidSecret
	}
	return nil
}

// Clear resets the token to unset.
func (t *Token) Clear() { t.ciphertext = "" }
