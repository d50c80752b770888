package commands

import (
	"github.com/spf13/cobra"
)

// NewDisconnectCommand creates the disconnect command.
func NewDisconnectCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disconnect NAME_OR_ID",
		Short: "Disconnect a service from the bot file",
		Long: `Remove the first service whose id or name matches the argument and
save the bot file. Dispatch entries referencing the removed service are
pruned on save.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, secret, err := opts.load()
			if err != nil {
				return err
			}

			removed, err := config.DisconnectServiceByNameOrID(args[0])
			if err != nil {
				return err
			}
			if err := config.Save(secret); err != nil {
				return err
			}

			opts.Logger.Info("Disconnected %s service %q (id %s)",
				removed.Common().Type, removed.Common().Name, removed.Common().ID)
			return nil
		},
	}

	return cmd
}
