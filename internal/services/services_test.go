package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/choplin/cerebro/internal/category"
	"github.com/choplin/cerebro/internal/database"
)

func setupServiceDB(t *testing.T) *database.Context {
	t.Helper()
	ctx, err := database.CreateDatabase(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}

	t.Cleanup(func() {
		if err := database.CloseDatabase(ctx); err != nil {
			t.Fatalf("CloseDatabase error: %v", err)
		}
	})

	return ctx
}

// clock is a settable time source for services.
type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock(y int, m time.Month, d int) *clock {
	return &clock{now: time.Date(y, m, d, 9, 0, 0, 0, time.Local)}
}

func sampleInput(filename string, contentType category.ContentType, modTime time.Time) ReportInput {
	return ReportInput{
		Filename:       filename,
		FilePath:       filepath.Join(contentType.Dir(), filename),
		Title:          "Title of " + filename,
		SourceURL:      "https://example.com/" + filename,
		ContentType:    contentType,
		CreatedAt:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local),
		FileModifiedAt: modTime,
		Summary:        "A summary.",
		WordCount:      42,
		ContentText:    "Title of " + filename + " body text about distributed systems",
	}
}

func mustUpsert(t *testing.T, svc *ReportService, in ReportInput) int64 {
	t.Helper()
	if _, err := svc.Upsert(context.Background(), in); err != nil {
		t.Fatalf("Upsert(%s) failed: %v", in.Filename, err)
	}
	record, err := svc.GetByFilename(context.Background(), in.Filename)
	if err != nil {
		t.Fatalf("GetByFilename(%s) failed: %v", in.Filename, err)
	}
	return record.ID
}
