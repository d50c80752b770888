package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/botcfg/pkg/botfile"
	"github.com/systmms/botcfg/pkg/encrypt"
)

// NewInitCommand creates the init command.
func NewInitCommand(opts *Options) *cobra.Command {
	var (
		name        string
		description string
		protect     bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new .bot file",
		Long:  "Create an empty bot configuration file, optionally protected by a freshly generated secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.BotPath
			if path == "" {
				path = name + botfile.FileExtension
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists. Remove it first if you want to reinitialize", path)
			}

			config := botfile.New()
			config.Name = name
			config.Description = description

			secret := ""
			if protect {
				key, err := encrypt.GenerateKey()
				if err != nil {
					return err
				}
				secret = key
			}

			if err := config.SaveAs(path, secret); err != nil {
				return err
			}

			opts.Logger.Info("Created %s", path)
			if protect {
				// The key is printed exactly once; it is not recoverable
				// from the file.
				fmt.Fprintln(cmd.OutOrStdout(), secret)
				opts.Logger.Warn("Store this secret somewhere safe; the bot file cannot be decrypted without it")
				opts.Logger.Info("Stash it in the OS keyring with 'botcfg --bot %s --secret <secret> secret stash'", path)
			} else {
				opts.Logger.Info("Connect services with 'botcfg connect --file <service.json>'")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Bot name")
	cmd.Flags().StringVar(&description, "description", "", "Bot description")
	cmd.Flags().BoolVar(&protect, "protect", false, "Generate a secret and encrypt sensitive fields at rest")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
