package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/usecase"
)

func newListCmd() *cobra.Command {
	var (
		contentType string
		favorites   bool
		tag         string
		collection  string
		page        int
		pageSize    int
		format      string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				uc := usecase.NewReport(dbCtx, cfg.ReportsDir)
				result, err := uc.List(ctx, usecase.ListInput{
					Type:          contentType,
					FavoritesOnly: favorites,
					Tag:           tag,
					Collection:    collection,
					Page:          page,
					PageSize:      pageSize,
				})
				if err != nil {
					return err
				}

				if format == formatJSON {
					items := make([]reportOutput, 0, len(result.Items))
					for _, r := range result.Items {
						items = append(items, toReportOutput(r))
					}
					return writeJSON(cmd.OutOrStdout(), map[string]any{
						"reports":     items,
						"total":       result.Total,
						"page":        result.Page,
						"page_size":   result.PageSize,
						"total_pages": result.TotalPages,
					})
				}

				outputReportTable(cmd, result.Items)
				fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d (%d reports)\n", result.Page, max(result.TotalPages, 1), result.Total)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&contentType, "type", "", "Content type: youtube, article, paper or other")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "Only favorite reports")
	cmd.Flags().StringVar(&tag, "tag", "", "Only reports with this tag (name or id)")
	cmd.Flags().StringVar(&collection, "collection", "", "Only reports in this collection (name or id)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Reports per page (max 100)")
	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")

	return cmd
}

func newRecentCmd() *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				records, err := usecase.NewReport(dbCtx, cfg.ReportsDir).Recent(ctx, limit)
				if err != nil {
					return err
				}

				if format == formatJSON {
					items := make([]reportOutput, 0, len(records))
					for _, r := range records {
						items = append(items, toReportOutput(r))
					}
					return writeJSON(cmd.OutOrStdout(), items)
				}

				outputReportTable(cmd, records)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of reports")
	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")

	return cmd
}

func outputReportTable(cmd *cobra.Command, records []database.ReportRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)

	// go-pretty's WidthMax miscounts wide runes, so titles are truncated up front
	titleWidth := flexWidth(getTerminalWidth(), 6, 7, 10, 3, 6)

	t.AppendHeader(table.Row{"ID", "Type", "Created", "Fav", "Title", "Words"})
	for _, r := range records {
		t.AppendRow(table.Row{
			r.ID,
			string(r.ContentType),
			r.CreatedAt.Format("2006-01-02"),
			favoriteMark(r.IsFavorite),
			oneLine(r.Title, titleWidth),
			r.WordCount,
		})
	}

	t.Render()
}
