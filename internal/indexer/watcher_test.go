package indexer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choplin/cerebro/internal/category"
	"github.com/choplin/cerebro/internal/database"
)

func waitForReport(t *testing.T, f *fixture, filename string) {
	t.Helper()
	assert.Eventually(t, func() bool {
		_, err := f.reports.GetByFilename(context.Background(), filename)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond, "report %s was not indexed", filename)
}

func TestWatcherIndexesCreatedFiles(t *testing.T) {
	f := setupIndexer(t)

	w, err := NewWatcher(f.ix)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	f.write(t, "articles/live.md", report)
	f.write(t, "articles/.swap.md", report)
	f.write(t, "articles/notes.txt", "ignored")

	waitForReport(t, f, "live.md")

	got, err := f.reports.GetByFilename(context.Background(), "live.md")
	require.NoError(t, err)
	assert.Equal(t, category.Article, got.ContentType)

	count, err := f.reports.Count(context.Background(), database.ReportFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestSchedulerRunsFullIndex(t *testing.T) {
	f := setupIndexer(t)
	f.write(t, "papers/scheduled.md", report)

	s, err := NewScheduler(f.ix, "@every 1s")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	waitForReport(t, f, "scheduled.md")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}

	assert.DirExists(t, filepath.Join(f.root, "youtube"))
}

func TestNewSchedulerRejectsInvalidSpec(t *testing.T) {
	f := setupIndexer(t)

	_, err := NewScheduler(f.ix, "every hour")
	assert.Error(t, err)
}
