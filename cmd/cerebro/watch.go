package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/indexer"
	"github.com/choplin/cerebro/internal/logging"
	"github.com/choplin/cerebro/internal/usecase"
)

func newWatchCmd() *cobra.Command {
	var (
		schedule string
		noSync   bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Index reports as they are written",
		Long: "Watch the content-type directories and index report files when they are created or modified. " +
			"A full re-index also runs on the resync schedule; pass --schedule off to disable it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !cmd.Flags().Changed("schedule") {
				schedule = cfg.ResyncSchedule
			}

			return withDatabase(cmd, func(_ context.Context, dbCtx *database.Context) error {
				ix := usecase.NewReport(dbCtx, cfg.ReportsDir).Indexer()

				if !noSync {
					if _, err := ix.IndexAll(ctx); err != nil {
						return err
					}
				}

				var scheduler *indexer.Scheduler
				if schedule != "" && schedule != "off" {
					var err error
					if scheduler, err = indexer.NewScheduler(ix, schedule); err != nil {
						return err
					}
				}

				watcher, err := indexer.NewWatcher(ix)
				if err != nil {
					return err
				}

				var wg sync.WaitGroup
				if scheduler != nil {
					wg.Add(1)
					go func() {
						defer wg.Done()
						_ = scheduler.Run(ctx)
					}()
				}

				err = watcher.Run(ctx)
				stop()
				wg.Wait()
				logging.Info("watcher stopped")
				return err
			})
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "Cron spec for periodic full re-index, or \"off\" (default from config)")
	cmd.Flags().BoolVar(&noSync, "no-sync", false, "Skip the initial full index")

	return cmd
}
