package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/usecase"
)

func newShowCmd() *cobra.Command {
	var (
		withContent bool
		format      string
	)

	cmd := &cobra.Command{
		Use:   "show <id|filename>",
		Short: "Show report metadata, tags, collections and review state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			return withDatabase(cmd, func(ctx context.Context, dbCtx *database.Context) error {
				uc := usecase.NewReport(dbCtx, cfg.ReportsDir)
				id, err := uc.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				detail, err := uc.Get(ctx, id, withContent)
				if err != nil {
					return err
				}

				if format == formatJSON {
					return writeJSON(cmd.OutOrStdout(), toDetailOutput(detail))
				}
				outputDetail(cmd, detail)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&withContent, "content", false, "Print the markdown content after the metadata")
	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")

	return cmd
}

type reviewOutput struct {
	EaseFactor     float64 `json:"ease_factor"`
	IntervalDays   int64   `json:"interval_days"`
	Repetitions    int64   `json:"repetitions"`
	NextReviewDate string  `json:"next_review_date"`
	LastReviewDate string  `json:"last_review_date,omitempty"`
}

type detailOutput struct {
	reportOutput
	FileModifiedAt string        `json:"file_modified_at"`
	Collections    []string      `json:"collections,omitempty"`
	Review         *reviewOutput `json:"review,omitempty"`
	Content        string        `json:"content,omitempty"`
}

func toReviewOutput(r database.ReviewStateRecord) reviewOutput {
	out := reviewOutput{
		EaseFactor:     r.EaseFactor,
		IntervalDays:   r.IntervalDays,
		Repetitions:    r.Repetitions,
		NextReviewDate: database.FormatDate(r.NextReviewDate),
	}
	if r.LastReviewDate != nil {
		out.LastReviewDate = database.FormatDate(*r.LastReviewDate)
	}
	return out
}

func toDetailOutput(detail *usecase.Detail) detailOutput {
	out := detailOutput{
		reportOutput:   toReportOutput(detail.Report),
		FileModifiedAt: database.FormatModTime(detail.Report.FileModifiedAt),
		Content:        detail.Content,
	}
	for _, tag := range detail.Tags {
		out.Tags = append(out.Tags, tag.Name)
	}
	for _, collection := range detail.Collections {
		out.Collections = append(out.Collections, collection.Name)
	}
	if detail.Review != nil {
		review := toReviewOutput(*detail.Review)
		out.Review = &review
	}
	return out
}

func outputDetail(cmd *cobra.Command, detail *usecase.Detail) {
	out := cmd.OutOrStdout()
	r := detail.Report

	fmt.Fprintf(out, "ID:          %d\n", r.ID)
	fmt.Fprintf(out, "Title:       %s\n", r.Title)
	fmt.Fprintf(out, "Type:        %s\n", r.ContentType)
	fmt.Fprintf(out, "Source:      %s\n", r.SourceURL)
	fmt.Fprintf(out, "File:        %s\n", r.FilePath)
	fmt.Fprintf(out, "Created:     %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Indexed:     %s\n", r.IndexedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Words:       %d\n", r.WordCount)
	fmt.Fprintf(out, "Favorite:    %t\n", r.IsFavorite)

	names := make([]string, 0, len(detail.Tags))
	for _, tag := range detail.Tags {
		names = append(names, tag.Name)
	}
	fmt.Fprintf(out, "Tags:        %s\n", strings.Join(names, ", "))

	names = names[:0]
	for _, collection := range detail.Collections {
		names = append(names, collection.Name)
	}
	fmt.Fprintf(out, "Collections: %s\n", strings.Join(names, ", "))

	if detail.Review != nil {
		review := toReviewOutput(*detail.Review)
		fmt.Fprintf(out, "Next review: %s (interval %d days, ease %.2f, repetitions %d)\n",
			review.NextReviewDate, review.IntervalDays, review.EaseFactor, review.Repetitions)
	} else {
		fmt.Fprintf(out, "Next review: not queued\n")
	}

	if r.Summary != "" {
		fmt.Fprintf(out, "\n%s\n", r.Summary)
	}
	if detail.Content != "" {
		fmt.Fprintf(out, "\n%s", detail.Content)
		if !strings.HasSuffix(detail.Content, "\n") {
			fmt.Fprintln(out)
		}
	}
}
