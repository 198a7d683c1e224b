package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/choplin/cerebro/internal/config"
	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/logging"
)

var (
	cfg            config.Config
	reportsDirFlag string
	logLevelFlag   string
)

var rootCmd = &cobra.Command{
	Use:          "cerebro",
	Short:        "cerebro - index markdown reports and review them with spaced repetition",
	Long:         "cerebro keeps a searchable index of markdown reports and schedules them for review using SM-2.",
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if reportsDirFlag != "" {
			loaded.ReportsDir = reportsDirFlag
		}
		if logLevelFlag != "" {
			loaded.LogLevel = logLevelFlag
		}
		cfg = loaded

		// stdout is reserved for command output and the MCP transport
		logging.Init(cmd.ErrOrStderr(), cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&reportsDirFlag, "reports-dir", "", "Reports directory (overrides config and CEREBRO_REPORTS_DIR)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(newIndexCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newRecentCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newEditCmd())
	rootCmd.AddCommand(newFavoriteCmd())
	rootCmd.AddCommand(newMoveCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newReviewCmd())
	rootCmd.AddCommand(newTagCmd())
	rootCmd.AddCommand(newCollectionCmd())
	rootCmd.AddCommand(newMCPCmd())
}

// withDatabase opens the index for the duration of fn.
func withDatabase(cmd *cobra.Command, fn func(ctx context.Context, dbCtx *database.Context) error) error {
	dbCtx, err := database.CreateDatabase("")
	if err != nil {
		return err
	}
	defer func() {
		_ = database.CloseDatabase(dbCtx)
	}()

	return fn(cmd.Context(), dbCtx)
}
