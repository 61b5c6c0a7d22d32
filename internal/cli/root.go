package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/me/schedcheck/internal/config"
	"github.com/me/schedcheck/internal/logging"
	"github.com/me/schedcheck/internal/store"
)

var (
	flagConfig    string
	flagDB        string
	flagLogLevel  string
	flagLogFormat string

	cfg    config.Config
	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the schedcheck CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "schedcheck",
		Short: "schedcheck — G-EDF schedulability analysis for heterogeneous multiprocessors",
		Long: "schedcheck generates random periodic task sets, evaluates the G-EDF\n" +
			"sufficient schedulability test against a multiprocessor platform, and\n" +
			"keeps results in a SQLite database for acceptance-ratio experiments.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(flagConfig)
			if err != nil {
				return err
			}
			if flagDB != "" {
				cfg.DBPath = flagDB
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = flagLogLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = flagLogFormat
			}
			logger = logging.New(cfg.LogLevel, cfg.LogFormat)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (overrides config)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newGenCmd(),
		newAnalyzeCmd(),
		newStatsCmd(),
		newShowCmd(),
	)

	return root
}

// openStore opens the configured database and runs migrations.
func openStore(cmd *cobra.Command) (*store.SQLiteStore, error) {
	st, err := store.NewSQLiteStore(cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}
