package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/botcfg/pkg/service"
)

// NewConnectCommand creates the connect command.
func NewConnectCommand(opts *Options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect a service to the bot file",
		Long: `Read one service description (a JSON object with a "type" field) from
--file or stdin, connect it to the bot file and save. The assigned
service id is printed on stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readServiceInput(cmd, file)
			if err != nil {
				return err
			}

			svc, err := service.Decode(raw)
			if err != nil {
				return err
			}

			config, secret, err := opts.load()
			if err != nil {
				return err
			}

			id, err := config.ConnectService(svc)
			if err != nil {
				return err
			}
			if err := config.Save(secret); err != nil {
				return err
			}

			opts.Logger.Info("Connected %s service %q", svc.Common().Type, svc.Common().Name)
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Service description JSON file (default: stdin)")

	return cmd
}

func readServiceInput(cmd *cobra.Command, file string) ([]byte, error) {
	if file != "" && file != "-" {
		return os.ReadFile(file)
	}
	return io.ReadAll(cmd.InOrStdin())
}
