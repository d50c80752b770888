package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/systmms/botcfg/cmd/botcfg/commands"
	"github.com/systmms/botcfg/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Wipe any protected secret material before exit.
	defer memguard.Purge()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		memguard.Purge()
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		botPath string
		secret  string
		noColor bool
		debug   bool
	)

	opts := &commands.Options{}

	rootCmd := &cobra.Command{
		Use:   "botcfg",
		Short: "Manage .bot configuration files and their secrets",
		Long: `botcfg connects, lists and disconnects the external services described
in a bot's .bot configuration file, and keeps their keys and connection
strings encrypted at rest under a bot secret.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Logger = logging.New(debug, noColor)
			opts.BotPath = botPath
			return opts.SetSecret(secret)
		},
	}

	rootCmd.PersistentFlags().StringVar(&botPath, "bot", "", "Path to the .bot file (default: first .bot file in the working directory)")
	rootCmd.PersistentFlags().StringVar(&secret, "secret", "", "Bot secret (default: $BOTCFG_SECRET, then the OS keyring)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		commands.NewInitCommand(opts),
		commands.NewListCommand(opts),
		commands.NewConnectCommand(opts),
		commands.NewDisconnectCommand(opts),
		commands.NewSecretCommand(opts),
	)

	return commands.RedactError(rootCmd.Execute(), secret)
}
