package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/usecase"
)

func newTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
		Long:  "Tags are referred to by id or by name (case-insensitive).",
	}

	cmd.AddCommand(newTagCreateCmd())
	cmd.AddCommand(newTagListCmd())
	cmd.AddCommand(newTagRenameCmd())
	cmd.AddCommand(newTagDeleteCmd())
	cmd.AddCommand(newTagAttachCmd())
	cmd.AddCommand(newTagDetachCmd())

	return cmd
}

func newTagCreateCmd() *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				tag, err := usecase.NewTag(dbCtx).Create(ctx, args[0], color)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created tag '%s' (id %d)\n", tag.Name, tag.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Display color, e.g. #ff8800")

	return cmd
}

func newTagListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags with report counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				tags, err := usecase.NewTag(dbCtx).List(ctx)
				if err != nil {
					return err
				}

				if format == formatJSON {
					type tagOutput struct {
						ID          int64  `json:"id"`
						Name        string `json:"name"`
						Color       string `json:"color,omitempty"`
						ReportCount int64  `json:"report_count"`
					}
					items := make([]tagOutput, 0, len(tags))
					for _, tag := range tags {
						items = append(items, tagOutput{ID: tag.ID, Name: tag.Name, Color: tag.Color, ReportCount: tag.ReportCount})
					}
					return writeJSON(cmd.OutOrStdout(), items)
				}

				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"ID", "Name", "Color", "Reports"})
				for _, tag := range tags {
					t.AppendRow(table.Row{tag.ID, tag.Name, tag.Color, tag.ReportCount})
				}
				t.Render()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")

	return cmd
}

func newTagRenameCmd() *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "rename <tag> <new-name>",
		Short: "Rename a tag and set its color",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				tag, err := usecase.NewTag(dbCtx).Update(ctx, args[0], args[1], color)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed tag %d to '%s'\n", tag.ID, tag.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Display color; empty clears it")

	return cmd
}

func newTagDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <tag>",
		Short: "Delete a tag and detach it from all reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				tag, err := usecase.NewTag(dbCtx).Delete(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag '%s'\n", tag.Name)
				return nil
			})
		},
	}
}

func newTagAttachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attach <id|filename> <tag>",
		Short: "Tag a report, creating the tag if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReport(cmd, args[0], func(ctx context.Context, dbCtx *database.Context, id int64) error {
				tag, err := usecase.NewTag(dbCtx).Attach(ctx, id, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tagged report %d with '%s'\n", id, tag.Name)
				return nil
			})
		},
	}
}

func newTagDetachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detach <id|filename> <tag>",
		Short: "Remove a tag from a report",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReport(cmd, args[0], func(ctx context.Context, dbCtx *database.Context, id int64) error {
				removed, err := usecase.NewTag(dbCtx).Detach(ctx, id, args[1])
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Report %d was not tagged '%s'\n", id, args[1])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed tag '%s' from report %d\n", args[1], id)
				return nil
			})
		},
	}
}
