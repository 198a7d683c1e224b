package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/usecase"
)

func newFavoriteCmd() *cobra.Command {
	var on, off bool

	cmd := &cobra.Command{
		Use:   "favorite <id|filename>",
		Short: "Toggle or set the favorite flag of a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				uc := usecase.NewReport(dbCtx, cfg.ReportsDir)
				id, err := uc.Resolve(ctx, args[0])
				if err != nil {
					return err
				}

				favorite := on
				if on || off {
					err = uc.SetFavorite(ctx, id, on)
				} else {
					favorite, err = uc.ToggleFavorite(ctx, id)
				}
				if err != nil {
					return err
				}

				if favorite {
					fmt.Fprintf(cmd.OutOrStdout(), "Report %d marked as favorite\n", id)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Report %d is no longer a favorite\n", id)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&on, "on", false, "Mark as favorite")
	cmd.Flags().BoolVar(&off, "off", false, "Unmark as favorite")
	cmd.MarkFlagsMutuallyExclusive("on", "off")

	return cmd
}
