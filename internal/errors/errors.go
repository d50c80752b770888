// Package errors decorates library failures with the context a CLI user
// needs to fix them. The library's own error kinds stay matchable through
// Unwrap.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/systmms/botcfg/pkg/botfile"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// BotFileError adds the usual fixes to bot-file load and save failures.
// Errors without a known fix pass through untouched.
func BotFileError(path string, err error) error {
	suggestion := getSuggestion(err)
	if suggestion == "" {
		return err
	}
	return UserError{
		Message:    fmt.Sprintf("cannot use bot file %q", path),
		Details:    err.Error(),
		Suggestion: suggestion,
		Err:        err,
	}
}

// getSuggestion maps the library's error kinds to next steps.
func getSuggestion(err error) string {
	switch {
	case errors.Is(err, botfile.ErrNotFound):
		return "Run 'botcfg init --name <name>' to create a bot file, or point at one with --bot"
	case errors.Is(err, botfile.ErrMissingSecret):
		return "This bot file is protected. Pass --secret, set BOTCFG_SECRET, or stash the secret with 'botcfg secret stash'"
	case errors.Is(err, botfile.ErrInvalidSecret):
		return "The secret does not match the one this bot file was protected with. Check --secret, BOTCFG_SECRET and the stashed keyring entry"
	case errors.Is(err, botfile.ErrUnknownServiceType):
		return "One of the service entries has an unrecognized type tag. Fix the file by hand; nothing is dropped silently"
	case errors.Is(err, botfile.ErrNoLocation):
		return "The document has no file path yet. Save it with an explicit path first"
	}
	return ""
}
