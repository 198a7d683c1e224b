package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/usecase"
)

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Spaced-repetition review queue",
	}

	cmd.AddCommand(newReviewAddCmd())
	cmd.AddCommand(newReviewRemoveCmd())
	cmd.AddCommand(newReviewRecordCmd())
	cmd.AddCommand(newReviewDueCmd())
	cmd.AddCommand(newReviewStatsCmd())
	cmd.AddCommand(newReviewHistoryCmd())

	return cmd
}

// withReport opens the index and resolves ref to a report id.
func withReport(cmd *cobra.Command, ref string, fn func(ctx context.Context, dbCtx *database.Context, id int64) error) error {
	return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
		id, err := usecase.NewReport(dbCtx, cfg.ReportsDir).Resolve(ctx, ref)
		if err != nil {
			return err
		}
		return fn(ctx, dbCtx, id)
	})
}

func newReviewAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <id|filename>",
		Short: "Add a report to the review queue; it becomes due tomorrow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReport(cmd, args[0], func(ctx context.Context, dbCtx *database.Context, id int64) error {
				record, added, err := usecase.NewReview(dbCtx).Add(ctx, id)
				if err != nil {
					return err
				}
				if added {
					fmt.Fprintf(cmd.OutOrStdout(), "Added '%s' to review queue\n", record.Title)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "'%s' is already in the review queue\n", record.Title)
				}
				return nil
			})
		},
	}
}

func newReviewRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id|filename>",
		Short: "Remove a report from the review queue, keeping its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReport(cmd, args[0], func(ctx context.Context, dbCtx *database.Context, id int64) error {
				if err := usecase.NewReview(dbCtx).Remove(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed report %d from review queue\n", id)
				return nil
			})
		},
	}
}

func newReviewRecordCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "record <id|filename> <quality>",
		Short: "Record a review with quality 0 (blackout) to 5 (perfect recall)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			quality, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quality %q: must be an integer from 0 to 5", args[1])
			}

			return withReport(cmd, args[0], func(ctx context.Context, dbCtx *database.Context, id int64) error {
				result, err := usecase.NewReview(dbCtx).Record(ctx, id, quality)
				if err != nil {
					return err
				}

				if format == formatJSON {
					return writeJSON(cmd.OutOrStdout(), map[string]any{
						"report_id":        result.ReportID,
						"next_review_date": database.FormatDate(result.NextReviewDate),
						"interval_days":    result.IntervalDays,
						"ease_factor":      result.EaseFactor,
						"repetitions":      result.Repetitions,
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Next review on %s (in %d days, ease %.2f, repetitions %d)\n",
					database.FormatDate(result.NextReviewDate), result.IntervalDays, result.EaseFactor, result.Repetitions)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")

	return cmd
}

func newReviewDueCmd() *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "due",
		Short: "List reports due for review, most overdue first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				due, err := usecase.NewReview(dbCtx).Due(ctx, limit)
				if err != nil {
					return err
				}

				if format == formatJSON {
					type dueOutput struct {
						ReportID    int64        `json:"report_id"`
						Title       string       `json:"title"`
						ContentType string       `json:"content_type"`
						SourceURL   string       `json:"source_url,omitempty"`
						Summary     string       `json:"summary,omitempty"`
						Review      reviewOutput `json:"review"`
					}
					items := make([]dueOutput, 0, len(due))
					for _, d := range due {
						items = append(items, dueOutput{
							ReportID:    d.State.ReportID,
							Title:       d.Title,
							ContentType: string(d.ContentType),
							SourceURL:   d.SourceURL,
							Summary:     d.Summary,
							Review:      toReviewOutput(d.State),
						})
					}
					return writeJSON(cmd.OutOrStdout(), items)
				}

				if len(due) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing due for review")
					return nil
				}

				titleWidth := flexWidth(getTerminalWidth(), 6, 7, 10, 8, 4)

				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"ID", "Type", "Due", "Interval", "Ease", "Title"})
				for _, d := range due {
					t.AppendRow(table.Row{
						d.State.ReportID,
						string(d.ContentType),
						database.FormatDate(d.State.NextReviewDate),
						d.State.IntervalDays,
						fmt.Sprintf("%.2f", d.State.EaseFactor),
						oneLine(d.Title, titleWidth),
					})
				}
				t.Render()
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of reports")
	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")

	return cmd
}

func newReviewStatsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show review queue statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				stats, err := usecase.NewReview(dbCtx).Stats(ctx)
				if err != nil {
					return err
				}

				if format == formatJSON {
					return writeJSON(cmd.OutOrStdout(), stats)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Due:            %d\n", stats.DueCount)
				fmt.Fprintf(out, "In queue:       %d\n", stats.TotalInQueue)
				fmt.Fprintf(out, "Reviewed today: %d\n", stats.ReviewedToday)
				fmt.Fprintf(out, "Streak:         %d days\n", stats.StreakDays)
				fmt.Fprintf(out, "Average ease:   %.2f\n", stats.AverageEase)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")

	return cmd
}

func newReviewHistoryCmd() *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "history <id|filename>",
		Short: "Show past reviews of a report, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			return withReport(cmd, args[0], func(ctx context.Context, dbCtx *database.Context, id int64) error {
				history, err := usecase.NewReview(dbCtx).History(ctx, id, limit)
				if err != nil {
					return err
				}

				if format == formatJSON {
					type historyOutput struct {
						Quality      int64   `json:"quality"`
						ReviewedAt   string  `json:"reviewed_at"`
						IntervalDays int64   `json:"interval_days"`
						EaseFactor   float64 `json:"ease_factor"`
					}
					items := make([]historyOutput, 0, len(history))
					for _, h := range history {
						items = append(items, historyOutput{
							Quality:      h.Quality,
							ReviewedAt:   database.FormatTimestamp(h.ReviewedAt),
							IntervalDays: h.IntervalDays,
							EaseFactor:   h.EaseFactor,
						})
					}
					return writeJSON(cmd.OutOrStdout(), items)
				}

				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"Reviewed", "Quality", "Interval", "Ease"})
				for _, h := range history {
					t.AppendRow(table.Row{
						h.ReviewedAt.Format("2006-01-02 15:04"),
						h.Quality,
						h.IntervalDays,
						fmt.Sprintf("%.2f", h.EaseFactor),
					})
				}
				t.Render()
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of entries")
	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")

	return cmd
}
