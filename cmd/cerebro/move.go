package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/usecase"
)

func newMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <id|filename> <type>",
		Short: "Move a report to another content type directory",
		Long:  "Moves the report file into the directory of the given content type (youtube, article, paper, other) and updates the index.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				uc := usecase.NewReport(dbCtx, cfg.ReportsDir)
				id, err := uc.Resolve(ctx, args[0])
				if err != nil {
					return err
				}

				record, err := uc.Move(ctx, id, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved '%s' to %s (%s)\n", record.Title, record.ContentType, record.FilePath)
				return nil
			})
		},
	}

	return cmd
}
