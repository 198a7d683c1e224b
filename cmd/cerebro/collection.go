package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/services"
	"github.com/choplin/cerebro/internal/usecase"
)

type collectionOutput struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	CreatedAt   string `json:"created_at"`
	ReportCount int64  `json:"report_count"`
}

func toCollectionOutput(c database.CollectionRecord) collectionOutput {
	return collectionOutput{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		CreatedAt:   database.FormatTimestamp(c.CreatedAt),
		ReportCount: c.ReportCount,
	}
}

func newCollectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collection",
		Short: "Group reports into named collections",
		Long:  "Collections are referred to by id or by name (case-insensitive). A report may belong to any number of them.",
	}

	cmd.AddCommand(newCollectionCreateCmd())
	cmd.AddCommand(newCollectionListCmd())
	cmd.AddCommand(newCollectionShowCmd())
	cmd.AddCommand(newCollectionUpdateCmd())
	cmd.AddCommand(newCollectionDeleteCmd())
	cmd.AddCommand(newCollectionAddCmd())
	cmd.AddCommand(newCollectionRemoveCmd())

	return cmd
}

func newCollectionCreateCmd() *cobra.Command {
	var description, color string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				collection, err := usecase.NewCollection(dbCtx).Create(ctx, args[0], description, color)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created collection '%s' (id %d)\n", collection.Name, collection.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "What the collection is for")
	cmd.Flags().StringVar(&color, "color", "", "Display color, e.g. #ff8800")

	return cmd
}

func newCollectionListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List collections with report counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				collections, err := usecase.NewCollection(dbCtx).List(ctx)
				if err != nil {
					return err
				}

				if format == formatJSON {
					items := make([]collectionOutput, 0, len(collections))
					for _, c := range collections {
						items = append(items, toCollectionOutput(c))
					}
					return writeJSON(cmd.OutOrStdout(), items)
				}

				descriptionWidth := flexWidth(getTerminalWidth(), 6, 20, 10, 9)

				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"ID", "Name", "Description", "Color", "Reports"})
				for _, c := range collections {
					t.AppendRow(table.Row{c.ID, c.Name, oneLine(c.Description, descriptionWidth), c.Color, c.ReportCount})
				}
				t.Render()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")

	return cmd
}

func newCollectionShowCmd() *cobra.Command {
	var (
		page     int
		pageSize int
		format   string
	)

	cmd := &cobra.Command{
		Use:   "show <collection>",
		Short: "Show a collection and the reports in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				detail, err := usecase.NewCollection(dbCtx).Show(ctx, args[0], page, pageSize)
				if err != nil {
					return err
				}

				result := detail.Reports
				if format == formatJSON {
					items := make([]reportOutput, 0, len(result.Items))
					for _, r := range result.Items {
						items = append(items, toReportOutput(r))
					}
					return writeJSON(cmd.OutOrStdout(), map[string]any{
						"collection":  toCollectionOutput(detail.Collection),
						"reports":     items,
						"total":       result.Total,
						"page":        result.Page,
						"page_size":   result.PageSize,
						"total_pages": result.TotalPages,
					})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (id %d)\n", detail.Collection.Name, detail.Collection.ID)
				if detail.Collection.Description != "" {
					fmt.Fprintln(out, detail.Collection.Description)
				}
				outputReportTable(cmd, result.Items)
				fmt.Fprintf(out, "Page %d of %d (%d reports)\n", result.Page, max(result.TotalPages, 1), result.Total)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Reports per page (max 100)")
	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")

	return cmd
}

func newCollectionUpdateCmd() *cobra.Command {
	var name, description, color string

	cmd := &cobra.Command{
		Use:   "update <collection>",
		Short: "Rename a collection or change its description or color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var changes services.CollectionChanges
			if cmd.Flags().Changed("name") {
				changes.Name = &name
			}
			if cmd.Flags().Changed("description") {
				changes.Description = &description
			}
			if cmd.Flags().Changed("color") {
				changes.Color = &color
			}
			if changes == (services.CollectionChanges{}) {
				return fmt.Errorf("%w: nothing to update; pass --name, --description or --color", services.ErrInvalidArgument)
			}

			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				collection, err := usecase.NewCollection(dbCtx).Update(ctx, args[0], changes)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated collection %d '%s'\n", collection.ID, collection.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description; empty clears it")
	cmd.Flags().StringVar(&color, "color", "", "New display color; empty clears it")

	return cmd
}

func newCollectionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection>",
		Short: "Delete a collection; its reports are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				collection, err := usecase.NewCollection(dbCtx).Delete(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted collection '%s'\n", collection.Name)
				return nil
			})
		},
	}
}

func newCollectionAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <collection> <id|filename>",
		Short: "Add a report to a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReport(cmd, args[1], func(ctx context.Context, dbCtx *database.Context, id int64) error {
				collection, err := usecase.NewCollection(dbCtx).Add(ctx, args[0], id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added report %d to '%s'\n", id, collection.Name)
				return nil
			})
		},
	}
}

func newCollectionRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <collection> <id|filename>",
		Short: "Remove a report from a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReport(cmd, args[1], func(ctx context.Context, dbCtx *database.Context, id int64) error {
				removed, err := usecase.NewCollection(dbCtx).Remove(ctx, args[0], id)
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Report %d was not in '%s'\n", id, args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed report %d from '%s'\n", id, args[0])
				return nil
			})
		},
	}
}
