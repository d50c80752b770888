package botfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/systmms/botcfg/pkg/service"
)

// documentSchema checks the top-level document shape before decoding.
// Service entries are deliberately not constrained here; their type tags
// are checked by the typed decoders so an unknown or missing tag surfaces
// as ErrUnknownServiceType rather than a schema message.
const documentSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"description": {"type": "string"},
		"secretKey": {"type": "string"},
		"version": {"type": "string"},
		"services": {"type": "array", "items": {"type": "object"}}
	}
}`

// Load reads, decodes and binds the document at path. When the stored
// validator token is non-empty the document is decrypted in place before
// being returned; a missing or wrong secret fails the whole load, never
// yielding a half-decrypted document. When the token is empty the secret
// argument is ignored.
func Load(path, secret string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := validateDocument(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	config := New()
	// Decode through UnmarshalJSON directly: the codec re-renders errors
	// from nested unmarshalers as text, and sentinels like
	// ErrUnknownServiceType must stay matchable after a failed load.
	if err := config.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	config.location = path
	if config.token.Established() {
		if err := config.Decrypt(secret); err != nil {
			return nil, err
		}
	}
	return config, nil
}

// FindInFolder returns the path of the first .bot file in dir, in
// lexical order, and fails with ErrNotFound when the folder holds none.
func FindInFolder(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != FileExtension {
			continue
		}
		return filepath.Join(dir, entry.Name()), nil
	}
	return "", fmt.Errorf("no %s file in %q: %w", FileExtension, dir, ErrNotFound)
}

// LoadFromFolder loads the first .bot file in dir.
func LoadFromFolder(dir, secret string) (*Configuration, error) {
	path, err := FindInFolder(dir)
	if err != nil {
		return nil, err
	}
	return Load(path, secret)
}

func validateDocument(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return err
	}
	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return fmt.Errorf("not a valid bot file: %s", strings.Join(messages, "; "))
	}
	return nil
}

// Location returns the file path the document was loaded from or last
// saved to; empty until the first Load or SaveAs.
func (c *Configuration) Location() string { return c.location }

// Save writes the document back to its bound location and fails with
// ErrNoLocation when the document has never been loaded or saved.
func (c *Configuration) Save(secret string) error {
	if c.location == "" {
		return fmt.Errorf("document was never loaded or saved to a path: %w", ErrNoLocation)
	}
	return c.saveTo(c.location, secret)
}

// SaveAs writes the document to path and binds path as the document's
// location. A failed save leaves the previous binding in place.
func (c *Configuration) SaveAs(path, secret string) error {
	if path == "" {
		return fmt.Errorf("target path: %w", ErrNoLocation)
	}
	if err := c.saveTo(path, secret); err != nil {
		return err
	}
	c.location = path
	return nil
}

// saveTo is the save transaction. A supplied secret always proves itself
// against the validator token first, which on a fresh document also
// establishes the token. Dispatch references are pruned on every save.
// When a token is established, encryption happens on a transient deep
// copy that exists only to be serialized: the live document is plaintext
// before, during and after the write, whether or not the write succeeds.
func (c *Configuration) saveTo(path, secret string) error {
	if secret != "" {
		if err := c.ValidateSecret(secret); err != nil {
			return err
		}
	}
	c.pruneDispatchReferences()

	out := c
	if c.token.Established() {
		dup, err := c.clone()
		if err != nil {
			return err
		}
		if err := dup.Encrypt(secret); err != nil {
			return err
		}
		out = dup
	}
	data, err := json.MarshalIndent(out.wire(), "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// pruneDispatchReferences drops dispatch serviceIds that no longer name a
// service in this document. Stale references accumulate between saves by
// design; this is the enforcement point.
func (c *Configuration) pruneDispatchReferences() {
	for _, svc := range c.Services {
		dispatch, ok := svc.(*service.Dispatch)
		if !ok {
			continue
		}
		kept := make([]string, 0, len(dispatch.ServiceIDs))
		for _, id := range dispatch.ServiceIDs {
			if c.FindService(id) != nil {
				kept = append(kept, id)
			}
		}
		dispatch.ServiceIDs = kept
	}
}
