package commands

import (
	stderrors "errors"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/zalando/go-keyring"

	"github.com/systmms/botcfg/internal/errors"
	"github.com/systmms/botcfg/internal/logging"
	"github.com/systmms/botcfg/internal/secure"
	"github.com/systmms/botcfg/pkg/botfile"
)

// keyringService namespaces keyring entries; the account is the absolute
// bot-file path, so each bot file can stash its own secret.
const keyringService = "botcfg"

// secretEnvVar is consulted when no --secret flag is given.
const secretEnvVar = "BOTCFG_SECRET"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Options carries the state shared by every command.
type Options struct {
	BotPath string
	Logger  *logging.Logger

	secret *secure.SecureBuffer
}

// SetSecret stores a secret supplied on the command line in protected
// memory. An empty secret leaves the fallback chain in charge.
func (o *Options) SetSecret(secret string) error {
	if secret == "" {
		return nil
	}
	buf, err := secure.NewSecureBufferFromString(secret)
	if err != nil {
		return err
	}
	o.secret = buf
	return nil
}

// resolveBotPath returns the bot file to operate on: the --bot flag, or
// the first .bot file in the working directory.
func (o *Options) resolveBotPath() (string, error) {
	if o.BotPath != "" {
		return o.BotPath, nil
	}
	path, err := botfile.FindInFolder(".")
	if err != nil {
		return "", errors.BotFileError(".", err)
	}
	o.Logger.Debug("discovered bot file %s", path)
	return path, nil
}

// resolveSecret returns the secret for the bot file at path, trying the
// --secret flag, the environment and the OS keyring in that order. An
// empty result means the file is treated as unprotected.
func (o *Options) resolveSecret(path string) (string, error) {
	if o.secret != nil {
		locked, err := o.secret.Open()
		if err != nil {
			return "", err
		}
		defer locked.Destroy()
		return string(locked.Bytes()), nil
	}
	if env := os.Getenv(secretEnvVar); env != "" {
		o.Logger.Debug("using secret from %s", secretEnvVar)
		return env, nil
	}
	account, err := keyringAccount(path)
	if err != nil {
		return "", err
	}
	stored, err := keyring.Get(keyringService, account)
	if err != nil {
		// No stashed entry, or no usable keyring backend on this system.
		// Either way the file is treated as unprotected.
		if !stderrors.Is(err, keyring.ErrNotFound) {
			o.Logger.Debug("keyring lookup failed: %v", err)
		}
		return "", nil
	}
	o.Logger.Debug("using secret stashed in the OS keyring")
	return stored, nil
}

func keyringAccount(path string) (string, error) {
	return filepath.Abs(path)
}

// RedactError rewrites err for display so a caller-supplied secret never
// reaches the terminal, whatever an error message ends up quoting. The
// wrap chain does not survive the rewrite; errors that never mention the
// secret pass through unchanged.
func RedactError(err error, secret string) error {
	if err == nil || secret == "" {
		return err
	}
	redacted := logging.Redact(err.Error(), []string{secret})
	if redacted == err.Error() {
		return err
	}
	return stderrors.New(redacted)
}

// load resolves the bot file and its secret and loads the document. The
// returned secret is what Save needs to write the document back.
func (o *Options) load() (*botfile.Configuration, string, error) {
	path, err := o.resolveBotPath()
	if err != nil {
		return nil, "", err
	}
	secret, err := o.resolveSecret(path)
	if err != nil {
		return nil, "", err
	}
	config, err := botfile.Load(path, secret)
	if err != nil {
		return nil, "", errors.BotFileError(path, err)
	}
	return config, secret, nil
}
