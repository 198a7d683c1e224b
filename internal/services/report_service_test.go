package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/choplin/cerebro/internal/category"
	"github.com/choplin/cerebro/internal/database"
)

func TestUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupServiceDB(t)
	clk := newClock(2024, 2, 1)
	svc := NewReportService(dbCtx).WithClock(clk.Now)

	mod := time.Date(2024, 1, 20, 10, 11, 12, 123456789, time.Local)
	in := sampleInput("2024-01-15_talk.md", category.YouTube, mod)

	result, err := svc.Upsert(ctx, in)
	if err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}
	if result != Inserted {
		t.Fatalf("expected Inserted, got %s", result)
	}

	before, err := svc.GetByFilename(ctx, in.Filename)
	if err != nil {
		t.Fatalf("GetByFilename failed: %v", err)
	}

	clk.Advance(time.Hour)
	result, err = svc.Upsert(ctx, in)
	if err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}
	if result != Unchanged {
		t.Fatalf("expected Unchanged, got %s", result)
	}

	after, err := svc.GetByFilename(ctx, in.Filename)
	if err != nil {
		t.Fatalf("GetByFilename failed: %v", err)
	}
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("row changed on no-op upsert (-before +after):\n%s", diff)
	}

	count, err := svc.Count(ctx, database.ReportFilter{})
	if err != nil || count != 1 {
		t.Fatalf("expected one report, got %d (%v)", count, err)
	}
}

func TestUpsertReindexesOnChange(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupServiceDB(t)
	clk := newClock(2024, 2, 1)
	svc := NewReportService(dbCtx).WithClock(clk.Now)

	mod := time.Date(2024, 1, 20, 10, 0, 0, 0, time.Local)
	in := sampleInput("a.md", category.Article, mod)
	id := mustUpsert(t, svc, in)

	clk.Advance(time.Hour)
	in.FileModifiedAt = mod.Add(time.Nanosecond)
	in.Title = "Retitled"
	in.ContentText = "completely different words"
	in.WordCount = 3

	result, err := svc.Upsert(ctx, in)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if result != Updated {
		t.Fatalf("expected Updated, got %s", result)
	}

	got, err := svc.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Retitled" || got.WordCount != 3 || !got.FileModifiedAt.Equal(in.FileModifiedAt) {
		t.Fatalf("fields not updated: %#v", got)
	}
	if !got.IndexedAt.Equal(clk.Now()) {
		t.Fatalf("expected indexed_at %v, got %v", clk.Now(), got.IndexedAt)
	}

	count, err := svc.Count(ctx, database.ReportFilter{})
	if err != nil || count != 1 {
		t.Fatalf("expected one report, got %d (%v)", count, err)
	}

	hits, err := svc.Search(ctx, "distributed", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected stale body to be unsearchable, got %d hits", len(hits))
	}
	hits, err = svc.Search(ctx, "retitled", 10)
	if err != nil || len(hits) != 1 {
		t.Fatalf("expected new title to be searchable, got %d hits (%v)", len(hits), err)
	}
}

func TestUpsertRejectsInvalidInput(t *testing.T) {
	svc := NewReportService(setupServiceDB(t))

	in := sampleInput("a.md", category.ContentType("video"), time.Now())
	if _, err := svc.Upsert(context.Background(), in); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSearchQuotesUserInput(t *testing.T) {
	ctx := context.Background()
	svc := NewReportService(setupServiceDB(t))
	mustUpsert(t, svc, sampleInput("a.md", category.Paper, time.Now()))

	for _, query := range []string{`distrib`, `"distributed`, `systems AND (`, `body: NEAR`} {
		if _, err := svc.Search(ctx, query, 5); err != nil {
			t.Fatalf("Search(%q) failed: %v", query, err)
		}
	}

	hits, err := svc.Search(ctx, "distrib sys", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected prefix match, got %d hits", len(hits))
	}

	empty, err := svc.Search(ctx, `  "" `, 5)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty result for blank query, got %#v (%v)", empty, err)
	}
}

func TestMatchExpression(t *testing.T) {
	tests := map[string]string{
		"go":             `"go"*`,
		"  go   sqlite ": `"go"* "sqlite"*`,
		`say "hi"`:       `"say"* "hi"*`,
		"a ( ) b":        `"a"* "b"*`,
		"":               "",
	}
	for in, want := range tests {
		if got := MatchExpression(in); got != want {
			t.Fatalf("MatchExpression(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestListPaginates(t *testing.T) {
	ctx := context.Background()
	svc := NewReportService(setupServiceDB(t))

	for i, name := range []string{"a.md", "b.md", "c.md", "d.md", "e.md"} {
		in := sampleInput(name, category.Article, time.Now())
		in.CreatedAt = time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.Local)
		mustUpsert(t, svc, in)
	}

	page, err := svc.List(ctx, database.ReportFilter{}, 2, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Total != 5 || page.TotalPages != 3 || page.Page != 2 || page.PageSize != 2 {
		t.Fatalf("unexpected page metadata: %+v", page)
	}
	got := []string{page.Items[0].Filename, page.Items[1].Filename}
	if diff := cmp.Diff([]string{"c.md", "b.md"}, got); diff != "" {
		t.Fatalf("unexpected page items (-want +got):\n%s", diff)
	}

	defaults, err := svc.List(ctx, database.ReportFilter{}, 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if defaults.Page != 1 || defaults.PageSize != DefaultPageSize || len(defaults.Items) != 5 {
		t.Fatalf("unexpected defaults: %+v", defaults)
	}

	recent, err := svc.Recent(ctx, 1)
	if err != nil || len(recent) != 1 || recent[0].Filename != "e.md" {
		t.Fatalf("unexpected recent reports: %#v (%v)", recent, err)
	}

	if _, err := svc.List(ctx, database.ReportFilter{ContentType: "video"}, 1, 10); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for unknown type, got %v", err)
	}
}

func TestFavoriteAndMove(t *testing.T) {
	ctx := context.Background()
	svc := NewReportService(setupServiceDB(t))
	id := mustUpsert(t, svc, sampleInput("a.md", category.Other, time.Now()))

	favorite, err := svc.ToggleFavorite(ctx, id)
	if err != nil || !favorite {
		t.Fatalf("expected toggle to set favorite, got %v (%v)", favorite, err)
	}
	favorite, err = svc.ToggleFavorite(ctx, id)
	if err != nil || favorite {
		t.Fatalf("expected toggle to clear favorite, got %v (%v)", favorite, err)
	}
	if err := svc.SetFavorite(ctx, id, true); err != nil {
		t.Fatalf("SetFavorite failed: %v", err)
	}

	favorites, err := svc.List(ctx, database.ReportFilter{FavoritesOnly: true}, 1, 10)
	if err != nil || favorites.Total != 1 {
		t.Fatalf("expected one favorite, got %+v (%v)", favorites, err)
	}

	if err := svc.Move(ctx, id, category.Paper, "papers/a.md"); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	moved, err := svc.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if moved.ContentType != category.Paper || moved.FilePath != "papers/a.md" {
		t.Fatalf("move not recorded: %#v", moved)
	}
	byPath, err := svc.GetByPath(ctx, "papers/a.md")
	if err != nil || byPath.ID != id {
		t.Fatalf("GetByPath after move = %+v (%v)", byPath, err)
	}
	if _, err := svc.GetByPath(ctx, "other/a.md"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected old path to be gone, got %v", err)
	}

	if err := svc.SetFavorite(ctx, id+1, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.ToggleFavorite(ctx, id+1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Move(ctx, id+1, category.Paper, "papers/x.md"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCascadesToReviewsAndSearch(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupServiceDB(t)
	clk := newClock(2024, 1, 1)
	reports := NewReportService(dbCtx)
	reviews := NewReviewService(dbCtx).WithClock(clk.Now)

	id := mustUpsert(t, reports, sampleInput("a.md", category.YouTube, time.Now()))
	if _, err := reviews.AddToQueue(ctx, id); err != nil {
		t.Fatalf("AddToQueue failed: %v", err)
	}
	if _, err := reviews.RecordReview(ctx, id, 4); err != nil {
		t.Fatalf("RecordReview failed: %v", err)
	}

	if err := reports.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := reviews.State(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected review state to be gone, got %v", err)
	}
	history, err := reviews.History(ctx, id, 10)
	if err != nil || len(history) != 0 {
		t.Fatalf("expected no history, got %d (%v)", len(history), err)
	}
	hits, err := reports.Search(ctx, "distributed", 10)
	if err != nil || len(hits) != 0 {
		t.Fatalf("expected no search hits, got %d (%v)", len(hits), err)
	}

	if err := reports.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteByPath(t *testing.T) {
	ctx := context.Background()
	svc := NewReportService(setupServiceDB(t))
	in := sampleInput("a.md", category.Article, time.Now())
	mustUpsert(t, svc, in)

	deleted, err := svc.DeleteByPath(ctx, in.FilePath)
	if err != nil || !deleted {
		t.Fatalf("expected delete, got %v (%v)", deleted, err)
	}
	deleted, err = svc.DeleteByPath(ctx, in.FilePath)
	if err != nil || deleted {
		t.Fatalf("expected nothing to delete, got %v (%v)", deleted, err)
	}
}
