package cmd

import (
	"context"
	"log/slog"

	"github.com/gaze-network/coloredcoins-network/internal/config"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

var cmds = []*cobra.Command{
	NewVersionCommand(),
	NewRunCommand(),
	NewGenerateKeypairCommand(),
}

// Execute runs the root command.
func Execute(ctx context.Context) {
	var configFile string

	// Create root command and register sub-commands
	cmd := &cobra.Command{
		Use:   "coloredcoins",
		Short: "Colored coins wallet service",
		Long:  `Colored coins wallet service. Issue, send and burn colored coins assets and watch wallet transactions over an explorer or a full node backend.`,
	}
	cmd.AddCommand(cmds...)

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g. `./config.yaml`")
	flags.String("network", "mainnet", "network to connect to, E.g. `mainnet` or `testnet`")

	// Bind flags to configuration
	config.BindPFlag("network", flags.Lookup("network"))

	// Initialize configuration and logger on start command
	cobra.OnInitialize(func() {
		// Initialize configuration
		config := config.Parse(configFile)

		// Initialize logger
		if err := logger.Init(config.Logger); err != nil {
			logger.Panic("Something went wrong, can't init logger", slogx.Error(err), slog.Any("config", config.Logger))
		}
	})

	// Execute command
	if err := cmd.ExecuteContext(ctx); err != nil {
		// Cobra will print the error message by default
		logger.DebugContext(ctx, "Error executing command", slogx.Error(err))
	}
}
