package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/choplin/cerebro/internal/category"
	"github.com/choplin/cerebro/internal/database"
)

func TestTagLifecycle(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupServiceDB(t)
	reports := NewReportService(dbCtx)
	tags := NewTagService(dbCtx)

	id := mustUpsert(t, reports, sampleInput("a.md", category.Article, time.Now()))

	tag, err := tags.Create(ctx, " golang ", "#00ADD8")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if tag.Name != "golang" || tag.Color != "#00ADD8" {
		t.Fatalf("unexpected tag: %#v", tag)
	}

	if _, err := tags.Create(ctx, "GoLang", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected duplicate name to be rejected, got %v", err)
	}
	if _, err := tags.Create(ctx, "  ", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected empty name to be rejected, got %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := tags.Attach(ctx, id, tag.ID); err != nil {
			t.Fatalf("Attach #%d failed: %v", i+1, err)
		}
	}

	listed, err := tags.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 1 || listed[0].ReportCount != 1 {
		t.Fatalf("expected idempotent attach, got %#v", listed)
	}

	page, err := reports.List(ctx, database.ReportFilter{TagID: tag.ID}, 1, 10)
	if err != nil || page.Total != 1 {
		t.Fatalf("expected tag filter to match, got %+v (%v)", page, err)
	}

	forReport, err := tags.ForReport(ctx, id)
	if err != nil || len(forReport) != 1 {
		t.Fatalf("ForReport failed: %#v (%v)", forReport, err)
	}

	if err := tags.Update(ctx, tag.ID, "go", ""); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	renamed, err := tags.Get(ctx, tag.ID)
	if err != nil || renamed.Name != "go" || renamed.Color != "" {
		t.Fatalf("unexpected renamed tag: %#v (%v)", renamed, err)
	}

	detached, err := tags.Detach(ctx, id, tag.ID)
	if err != nil || !detached {
		t.Fatalf("Detach failed: %v (%v)", detached, err)
	}
	detached, err = tags.Detach(ctx, id, tag.ID)
	if err != nil || detached {
		t.Fatalf("expected second Detach to be a no-op, got %v (%v)", detached, err)
	}

	if err := tags.Delete(ctx, tag.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := tags.Delete(ctx, tag.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAttachRequiresExistingRows(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupServiceDB(t)
	reports := NewReportService(dbCtx)
	tags := NewTagService(dbCtx)

	id := mustUpsert(t, reports, sampleInput("a.md", category.Article, time.Now()))
	tag, err := tags.Create(ctx, "ml", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := tags.Attach(ctx, id+1, tag.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown report, got %v", err)
	}
	if err := tags.Attach(ctx, id, tag.ID+1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown tag, got %v", err)
	}
}
