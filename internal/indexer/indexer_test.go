package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choplin/cerebro/internal/category"
	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/services"
)

type fixture struct {
	root    string
	db      *database.Context
	reports *services.ReportService
	ix      *Indexer
}

func setupIndexer(t *testing.T) *fixture {
	t.Helper()
	dbCtx, err := database.CreateDatabase(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, database.CloseDatabase(dbCtx))
	})

	root := t.TempDir()
	reports := services.NewReportService(dbCtx)
	return &fixture{
		root:    root,
		db:      dbCtx,
		reports: reports,
		ix:      New(root, reports),
	}
}

func (f *fixture) write(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(f.root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const report = `# Deep Dive

**Source**: https://youtu.be/abc
**Date**: 2024-03-15
**Type**: YouTube Video

## 1. Summary

A short summary.

## 2. Notes

Body text.
`

func TestIndexAllIndexesEveryType(t *testing.T) {
	f := setupIndexer(t)
	ctx := context.Background()

	f.write(t, "youtube/2024-03-01_deep.md", report)
	f.write(t, "articles/post.md", "# Post\n\nwords")
	f.write(t, "articles/.hidden.md", "# Hidden")
	f.write(t, "articles/readme.txt", "not markdown")

	summary, err := f.ix.IndexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Indexed: 2, Failed: 0}, summary)

	for _, dir := range []string{"papers", "other"} {
		assert.DirExists(t, filepath.Join(f.root, dir))
	}

	deep, err := f.reports.GetByFilename(ctx, "2024-03-01_deep.md")
	require.NoError(t, err)
	assert.Equal(t, "Deep Dive", deep.Title)
	assert.Equal(t, "https://youtu.be/abc", deep.SourceURL)
	assert.Equal(t, category.YouTube, deep.ContentType)
	assert.Equal(t, "A short summary.", deep.Summary)
	assert.Equal(t, filepath.Join(f.root, "youtube", "2024-03-01_deep.md"), deep.FilePath)
	assert.True(t, deep.CreatedAt.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)), "filename date wins: %v", deep.CreatedAt)

	_, err = f.reports.GetByFilename(ctx, ".hidden.md")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestIndexAllTwiceMakesNoChanges(t *testing.T) {
	f := setupIndexer(t)
	ctx := context.Background()
	f.write(t, "papers/p.md", report)

	_, err := f.ix.IndexAll(ctx)
	require.NoError(t, err)
	before, err := f.reports.GetByFilename(ctx, "p.md")
	require.NoError(t, err)

	path := filepath.Join(f.root, "papers", "p.md")
	result, err := f.ix.IndexFile(ctx, path, category.Paper)
	require.NoError(t, err)
	assert.Equal(t, services.Unchanged, result)

	summary, err := f.ix.IndexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Indexed)

	after, err := f.reports.GetByFilename(ctx, "p.md")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestIndexFileReindexesModifiedFile(t *testing.T) {
	f := setupIndexer(t)
	ctx := context.Background()
	path := f.write(t, "other/o.md", "# First")

	result, err := f.ix.IndexFile(ctx, path, category.Other)
	require.NoError(t, err)
	assert.Equal(t, services.Inserted, result)

	require.NoError(t, os.WriteFile(path, []byte("# Second"), 0o600))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	result, err = f.ix.IndexFile(ctx, path, category.Other)
	require.NoError(t, err)
	assert.Equal(t, services.Updated, result)

	got, err := f.reports.GetByFilename(ctx, "o.md")
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Title)
}

func TestCreatedAtFallbacks(t *testing.T) {
	f := setupIndexer(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	f.ix.WithClock(func() time.Time { return now })

	dated := f.write(t, "articles/dated.md", report)
	undated := f.write(t, "articles/undated.md", "no heading at all")

	_, err := f.ix.IndexFile(ctx, dated, category.Article)
	require.NoError(t, err)
	_, err = f.ix.IndexFile(ctx, undated, category.Article)
	require.NoError(t, err)

	got, err := f.reports.GetByFilename(ctx, "dated.md")
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)), "%v", got.CreatedAt)

	got, err = f.reports.GetByFilename(ctx, "undated.md")
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(now), "%v", got.CreatedAt)
	assert.Equal(t, "undated", got.Title)
	assert.EqualValues(t, 4, got.WordCount)
}

func TestIndexAllIsolatesFailures(t *testing.T) {
	f := setupIndexer(t)
	ctx := context.Background()

	f.write(t, "youtube/good.md", report)
	f.write(t, "youtube/binary.md", string([]byte{0xff, 0xfe, 0xfd}))
	require.NoError(t, os.Symlink(filepath.Join(f.root, "missing.md"), filepath.Join(f.root, "youtube", "broken.md")))

	summary, err := f.ix.IndexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Indexed: 1, Failed: 2}, summary)

	_, err = f.reports.GetByFilename(ctx, "good.md")
	assert.NoError(t, err)
}

func TestIndexAllStopsOnCancel(t *testing.T) {
	f := setupIndexer(t)
	f.write(t, "youtube/a.md", report)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.ix.IndexAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndexFileRejectsUnknownType(t *testing.T) {
	f := setupIndexer(t)
	path := f.write(t, "youtube/a.md", report)

	_, err := f.ix.IndexFile(context.Background(), path, category.ContentType("video"))
	assert.ErrorIs(t, err, services.ErrInvalidArgument)
}

func TestContentTypeForPath(t *testing.T) {
	f := setupIndexer(t)

	got, ok := f.ix.ContentTypeForPath(filepath.Join(f.root, "papers", "x.md"))
	assert.True(t, ok)
	assert.Equal(t, category.Paper, got)

	_, ok = f.ix.ContentTypeForPath(filepath.Join(f.root, "x.md"))
	assert.False(t, ok)

	t.Chdir(f.root)
	got, ok = f.ix.ContentTypeForPath(filepath.Join("articles", "y.md"))
	assert.True(t, ok)
	assert.Equal(t, category.Article, got)
}
