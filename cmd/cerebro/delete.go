package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/usecase"
)

func newDeleteCmd() *cobra.Command {
	var (
		keepFile bool
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "delete <id|filename>",
		Short: "Delete a report from the index and from disk",
		Long:  "Deletes the report together with its review state, review history and tags. The markdown file is removed unless --keep-file is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				uc := usecase.NewReport(dbCtx, cfg.ReportsDir)
				id, err := uc.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				detail, err := uc.Get(ctx, id, false)
				if err != nil {
					return err
				}

				if !force {
					message := fmt.Sprintf("Delete '%s' and its file? (y/N) ", detail.Report.Title)
					if keepFile {
						message = fmt.Sprintf("Delete '%s' from the index? (y/N) ", detail.Report.Title)
					}

					reader := bufio.NewReader(os.Stdin)
					fmt.Fprint(cmd.ErrOrStderr(), message)
					answer, err := reader.ReadString('\n')
					if err != nil {
						return err
					}

					answer = strings.TrimSpace(strings.ToLower(answer))
					if answer != "y" {
						fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")
						return nil
					}
				}

				record, err := uc.Delete(ctx, id, keepFile)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted '%s'\n", record.Title)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&keepFile, "keep-file", false, "Keep the markdown file on disk")
	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
