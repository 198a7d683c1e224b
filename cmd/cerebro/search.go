package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/usecase"
)

func newSearchCmd() *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Full-text search over report titles and content",
		Long:  "Each word of the query matches as a prefix. Results are ordered by relevance.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			query := strings.Join(args, " ")

			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				hits, err := usecase.NewReport(dbCtx, cfg.ReportsDir).Search(ctx, query, limit)
				if err != nil {
					return err
				}

				if format == formatJSON {
					items := make([]reportOutput, 0, len(hits))
					for _, hit := range hits {
						item := toReportOutput(hit.Report)
						item.Snippet = hit.Snippet
						items = append(items, item)
					}
					return writeJSON(cmd.OutOrStdout(), items)
				}

				if len(hits) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No reports match %q\n", query)
					return nil
				}

				termWidth := getTerminalWidth()
				titleWidth := flexWidth(termWidth/2, 6, 7)
				snippetWidth := flexWidth(termWidth-termWidth/2, 0)

				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"ID", "Type", "Title", "Match"})
				for _, hit := range hits {
					t.AppendRow(table.Row{
						hit.Report.ID,
						string(hit.Report.ContentType),
						oneLine(hit.Report.Title, titleWidth),
						oneLine(plainSnippet(hit.Snippet), snippetWidth),
					})
				}
				t.Render()
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")

	return cmd
}
