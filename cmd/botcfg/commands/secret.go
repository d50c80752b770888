package commands

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"

	"github.com/systmms/botcfg/internal/logging"
	"github.com/systmms/botcfg/pkg/encrypt"
)

// NewSecretCommand creates the secret command group.
func NewSecretCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Generate, stash and clear bot secrets",
	}

	cmd.AddCommand(
		newSecretNewCommand(opts),
		newSecretStashCommand(opts),
		newSecretClearCommand(opts),
	)

	return cmd
}

func newSecretNewCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Generate a fresh bot secret",
		Long: `Print a freshly generated symmetric key on stdout. Protect a bot file
with it by saving the file once with this secret supplied.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := encrypt.GenerateKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
}

func newSecretStashCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "stash",
		Short: "Store the bot secret in the OS keyring",
		Long: `Verify the secret against the bot file and store it in the OS keyring,
keyed by the bot file's absolute path. Later commands pick it up without
--secret or the environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.resolveBotPath()
			if err != nil {
				return err
			}
			secret, err := opts.resolveSecret(path)
			if err != nil {
				return err
			}
			if secret == "" {
				return fmt.Errorf("no secret to stash; pass --secret or set $%s", secretEnvVar)
			}

			// Loading proves the secret before anything is stored.
			config, _, err := opts.load()
			if err != nil {
				return err
			}
			if !config.SecretEstablished() {
				return fmt.Errorf("bot file %s is not protected by a secret; nothing to stash", path)
			}

			account, err := keyringAccount(path)
			if err != nil {
				return err
			}
			if err := keyring.Set(keyringService, account, secret); err != nil {
				return err
			}
			opts.Logger.Info("Stashed secret %s for %s in the OS keyring", logging.Secret(secret), path)
			return nil
		},
	}
}

func newSecretClearCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove secret protection from the bot file",
		Long: `Decrypt the bot file with its current secret, drop the validator token
and save the file as plaintext. Any stashed keyring entry is removed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, _, err := opts.load()
			if err != nil {
				return err
			}
			if !config.SecretEstablished() {
				opts.Logger.Warn("Bot file %s is not protected; nothing to clear", config.Location())
				return nil
			}

			// Load already decrypted the document, so clearing the token
			// and saving writes it back as plaintext.
			config.ClearSecret()
			if err := config.Save(""); err != nil {
				return err
			}

			account, err := keyringAccount(config.Location())
			if err == nil {
				if err := keyring.Delete(keyringService, account); err != nil && !stderrors.Is(err, keyring.ErrNotFound) {
					opts.Logger.Warn("Could not remove the stashed keyring entry: %v", err)
				}
			}

			opts.Logger.Info("Removed secret protection from %s; sensitive fields are now plaintext on disk", config.Location())
			return nil
		},
	}
}
