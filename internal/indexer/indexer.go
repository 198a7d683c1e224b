// Package indexer keeps the report index in sync with the reports directory.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/choplin/cerebro/internal/category"
	"github.com/choplin/cerebro/internal/filesystem"
	"github.com/choplin/cerebro/internal/logging"
	"github.com/choplin/cerebro/internal/parser"
	"github.com/choplin/cerebro/internal/services"
)

// Summary counts the outcome of a full scan.
type Summary struct {
	Indexed int `json:"indexed"`
	Failed  int `json:"failed"`
}

// Indexer parses report files and upserts them into the index.
type Indexer struct {
	root    string
	reports *services.ReportService
	logger  *log.Logger
	now     func() time.Time
}

// New creates an Indexer for the reports tree rooted at root.
func New(root string, reports *services.ReportService) *Indexer {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = filepath.Clean(root)
	}
	return &Indexer{
		root:    abs,
		reports: reports,
		logger:  logging.WithPrefix("indexer"),
		now:     time.Now,
	}
}

// WithClock replaces the time source used when a report carries no date.
func (ix *Indexer) WithClock(now func() time.Time) *Indexer {
	ix.now = now
	return ix
}

// Root returns the absolute reports directory.
func (ix *Indexer) Root() string {
	return ix.root
}

// ContentTypeForPath maps a file below the reports root to its content type.
func (ix *Indexer) ContentTypeForPath(path string) (category.ContentType, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	return category.Resolve(ix.root, abs)
}

// IndexAll indexes every report file of every content type. Missing type
// directories are created. A file that fails is logged and counted; only
// cancellation of ctx stops the scan early.
func (ix *Indexer) IndexAll(ctx context.Context) (Summary, error) {
	var summary Summary
	ix.logger.Info("starting full index", "root", ix.root)

	for _, contentType := range category.All() {
		dir := filesystem.TypeDir(ix.root, contentType)
		if !filesystem.FileExists(dir) {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				ix.logger.Error("failed to create directory", "dir", dir, "err", err)
			}
			continue
		}

		files, err := filesystem.ListReports(dir)
		if err != nil {
			ix.logger.Error("failed to list reports", "dir", dir, "err", err)
			continue
		}

		for _, path := range files {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			if _, err := ix.IndexFile(ctx, path, contentType); err != nil {
				summary.Failed++
				continue
			}
			summary.Indexed++
		}
	}

	ix.logger.Info("indexing complete", "indexed", summary.Indexed, "failed", summary.Failed)
	return summary, nil
}

// IndexFile parses one report file and upserts it.
func (ix *Indexer) IndexFile(ctx context.Context, path string, contentType category.ContentType) (services.UpsertResult, error) {
	result, err := ix.indexFile(ctx, path, contentType)
	if err != nil {
		ix.logger.Error("failed to index", "path", path, "err", err)
		return result, err
	}
	ix.logger.Debug("indexed", "file", filepath.Base(path), "result", result)
	return result, nil
}

func (ix *Indexer) indexFile(ctx context.Context, path string, contentType category.ContentType) (services.UpsertResult, error) {
	if !contentType.Valid() {
		return services.Unchanged, fmt.Errorf("%w: unknown content type %q", services.ErrInvalidArgument, contentType)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return services.Unchanged, err
	}

	content, modTime, err := filesystem.ReadReport(abs)
	if err != nil {
		return services.Unchanged, err
	}
	if !utf8.ValidString(content) {
		return services.Unchanged, errors.New("file is not valid UTF-8")
	}

	return ix.reports.Upsert(ctx, ix.buildInput(abs, content, modTime, contentType))
}

func (ix *Indexer) buildInput(path, content string, modTime time.Time, contentType category.ContentType) services.ReportInput {
	parsed := parser.Parse(content)
	filename := filepath.Base(path)

	title := parsed.Title
	if title == "" {
		title = strings.TrimSuffix(filename, filepath.Ext(filename))
	}

	return services.ReportInput{
		Filename:       filename,
		FilePath:       path,
		Title:          title,
		SourceURL:      parsed.Source,
		ContentType:    contentType,
		CreatedAt:      ix.createdAt(filename, parsed),
		FileModifiedAt: modTime,
		Summary:        parsed.Summary,
		WordCount:      int64(parser.WordCount(content)),
		ContentText:    parsed.TextContent,
	}
}

// createdAt prefers the date in the filename, then the **Date** field, then now.
func (ix *Indexer) createdAt(filename string, parsed parser.Result) time.Time {
	if date, ok := parser.ParseDateFromFilename(filename); ok {
		return date
	}
	if date, ok := parsed.ParsedDate(); ok {
		return date
	}
	return ix.now()
}
