package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/choplin/cerebro/internal/database"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func getTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// flexWidth returns what is left of the terminal for one variable column
// after the fixed columns and roughly three characters of border per column.
func flexWidth(termWidth int, fixed ...int) int {
	width := termWidth - (len(fixed)+1)*3
	for _, w := range fixed {
		width -= w
	}
	if width < 15 {
		width = 15
	}
	return width
}

// oneLine collapses whitespace and truncates s to maxWidth display cells.
func oneLine(s string, maxWidth int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, maxWidth, "...")
}

// plainSnippet drops the highlight markers emitted by the search index.
func plainSnippet(s string) string {
	return strings.NewReplacer("<mark>", "", "</mark>", "").Replace(s)
}

type reportOutput struct {
	ID          int64    `json:"id"`
	Filename    string   `json:"filename"`
	FilePath    string   `json:"file_path"`
	Title       string   `json:"title"`
	ContentType string   `json:"content_type"`
	SourceURL   string   `json:"source_url,omitempty"`
	CreatedAt   string   `json:"created_at"`
	IndexedAt   string   `json:"indexed_at"`
	Summary     string   `json:"summary,omitempty"`
	WordCount   int64    `json:"word_count"`
	IsFavorite  bool     `json:"is_favorite"`
	Snippet     string   `json:"snippet,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func toReportOutput(r database.ReportRecord) reportOutput {
	return reportOutput{
		ID:          r.ID,
		Filename:    r.Filename,
		FilePath:    r.FilePath,
		Title:       r.Title,
		ContentType: string(r.ContentType),
		SourceURL:   r.SourceURL,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		IndexedAt:   r.IndexedAt.Format(time.RFC3339),
		Summary:     r.Summary,
		WordCount:   r.WordCount,
		IsFavorite:  r.IsFavorite,
	}
}

func favoriteMark(favorite bool) string {
	if favorite {
		return "*"
	}
	return ""
}
