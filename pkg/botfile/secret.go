package botfile

import "fmt"

// ValidateSecret proves secret against the document's validator token.
// On a document with no token yet, the first successful call establishes
// one, binding the document to that secret from then on.
func (c *Configuration) ValidateSecret(secret string) error {
	if secret == "" {
		return ErrMissingSecret
	}
	if !c.token.Established() {
		return c.token.Establish(secret)
	}
	return c.token.Validate(secret)
}

// SecretEstablished reports whether the document carries a validator
// token, i.e. whether its sensitive fields are encrypted at rest.
func (c *Configuration) SecretEstablished() bool { return c.token.Established() }

// ClearSecret drops the validator token so the document saves as
// plaintext. The document itself must already be plaintext in memory,
// which it always is outside Save.
func (c *Configuration) ClearSecret() { c.token.Clear() }

// Encrypt validates secret and then encrypts the sensitive fields of
// every connected service, in document order. Validation failure aborts
// before any service is touched.
func (c *Configuration) Encrypt(secret string) error {
	if err := c.ValidateSecret(secret); err != nil {
		return err
	}
	for _, svc := range c.Services {
		if err := svc.Encrypt(secret); err != nil {
			return fmt.Errorf("encrypting service %q: %w", svc.Common().ID, err)
		}
	}
	return nil
}

// Decrypt validates secret and reverses Encrypt across every connected
// service, in document order.
func (c *Configuration) Decrypt(secret string) error {
	if err := c.ValidateSecret(secret); err != nil {
		return err
	}
	for _, svc := range c.Services {
		if err := svc.Decrypt(secret); err != nil {
			return fmt.Errorf("decrypting service %q: %w", svc.Common().ID, err)
		}
	}
	return nil
}
