package botfile

import (
	"errors"

	"github.com/systmms/botcfg/pkg/service"
)

// Error kinds surfaced by this package. Callers match them with
// errors.Is; message text identifies the offending path or service but is
// not part of the contract. Raw I/O and JSON parse errors propagate
// unchanged and match none of these.
var (
	ErrMissingArgument  = errors.New("missing argument")
	ErrNotFound         = errors.New("not found")
	ErrDuplicateService = errors.New("duplicate service")
	ErrMissingSecret    = errors.New("missing secret")
	ErrInvalidSecret    = errors.New("invalid secret, this bot file was protected with a different secret")
	ErrNoLocation       = errors.New("no file location bound to the document")
	ErrIDSpaceExhausted = errors.New("service id space exhausted")

	// ErrUnknownServiceType aliases the decode failure so callers of this
	// package can match it without importing pkg/service.
	ErrUnknownServiceType = service.ErrUnknownServiceType
)
