package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/filesystem"
	"github.com/choplin/cerebro/internal/usecase"
)

func newIndexCmd() *cobra.Command {
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "index [file...]",
		Short: "Index the reports directory or specific report files",
		Long: "Without arguments every report under the reports directory is indexed. " +
			"Given files are indexed individually; a file that no longer exists is removed from the index.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				uc := usecase.NewReport(dbCtx, cfg.ReportsDir)
				out := cmd.OutOrStdout()

				if len(args) == 0 {
					if rebuild {
						if err := database.ClearDatabase(dbCtx); err != nil {
							return err
						}
					}
					summary, err := uc.Sync(ctx)
					if err != nil {
						return err
					}
					total, err := uc.Count(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Indexed %d reports from %s (%d failed, %d in index)\n", summary.Indexed, cfg.ReportsDir, summary.Failed, total)
					return nil
				}
				if rebuild {
					return fmt.Errorf("--rebuild cannot be combined with file arguments")
				}

				for _, path := range args {
					if !filesystem.FileExists(path) {
						removed, err := uc.Forget(ctx, path)
						if err != nil {
							return err
						}
						if removed {
							fmt.Fprintf(out, "%s: removed from index\n", path)
						} else {
							fmt.Fprintf(out, "%s: not found\n", path)
						}
						continue
					}

					result, err := uc.IndexFile(ctx, path)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s: %s\n", path, result)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Drop all indexed data, including review state and tags, before indexing")

	return cmd
}
