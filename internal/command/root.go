// Package command contains the CLI command constructors.
package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/stolasapp/tracker/internal/config"
	"github.com/stolasapp/tracker/internal/observability"
)

// RootCommand instantiates the root command, with all sub-commands bound.
func RootCommand() *cobra.Command {
	var dbFilepath, webAddress string
	cmd := &cobra.Command{
		Use:          "tracker [command] [flags]",
		Short:        "The project and task tracker",
		Long:         "The project and task tracker. Configuration is read from " + config.EnvPrefix + "* environment variables.",
		Version:      version(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if dbFilepath != "" {
				cfg.DBFilepath = dbFilepath
			}
			if webAddress != "" {
				cfg.WebAddress = webAddress
			}
			logger := observability.InitSlog(cfg)
			logger.DebugContext(cmd.Context(), "configuration loaded", slog.Any("config", cfg))
			slog.SetDefault(logger)
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(
		&dbFilepath,
		"db", "",
		"path to the SQLite database (overrides "+config.EnvPrefix+"DB_FILEPATH)",
	)
	cmd.PersistentFlags().StringVar(
		&webAddress,
		"addr", "",
		"address the API listens on (overrides "+config.EnvPrefix+"WEB_ADDRESS)",
	)

	cmd.AddCommand(
		serveCommand(),
		userCommand(),
	)

	return cmd
}
