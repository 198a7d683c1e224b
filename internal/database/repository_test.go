package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/choplin/cerebro/internal/category"
)

func TestReportRepositoryLookups(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupTestDB(t)
	repo := NewReportRepository(dbCtx)

	id := insertReport(t, dbCtx.DB, "2024-01-15_talk.md", "youtube/2024-01-15_talk.md")

	byID, err := repo.FindByID(ctx, id)
	if err != nil || byID == nil {
		t.Fatalf("FindByID failed: %v", err)
	}

	want := ReportRecord{
		ID:             id,
		Filename:       "2024-01-15_talk.md",
		FilePath:       "youtube/2024-01-15_talk.md",
		Title:          "2024-01-15_talk.md",
		ContentType:    category.YouTube,
		CreatedAt:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local),
		IndexedAt:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local),
		FileModifiedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local),
		WordCount:      3,
		ContentText:    "body text here",
	}
	if diff := cmp.Diff(want, *byID); diff != "" {
		t.Fatalf("FindByID mismatch (-want +got):\n%s", diff)
	}

	byName, err := repo.FindByFilename(ctx, "2024-01-15_talk.md")
	if err != nil || byName == nil || byName.ID != id {
		t.Fatalf("FindByFilename failed: %v %#v", err, byName)
	}

	byPath, err := repo.FindByFilePath(ctx, "youtube/2024-01-15_talk.md")
	if err != nil || byPath == nil || byPath.ID != id {
		t.Fatalf("FindByFilePath failed: %v %#v", err, byPath)
	}

	stored, err := StoredModTime(ctx, dbCtx.Queries, "2024-01-15_talk.md")
	if err != nil || stored != "2024-01-15T00:00:00" {
		t.Fatalf("StoredModTime = %q, %v", stored, err)
	}
	if _, err := StoredModTime(ctx, dbCtx.Queries, "unknown.md"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("StoredModTime for unknown file = %v, want ErrNotFound", err)
	}

	missing, err := repo.FindByID(ctx, id+100)
	if err != nil {
		t.Fatalf("FindByID for missing row returned error: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing report, got %#v", missing)
	}
}

func TestReportRepositoryListFilters(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupTestDB(t)
	repo := NewReportRepository(dbCtx)

	first := insertReport(t, dbCtx.DB, "a.md", "youtube/a.md")
	second := insertReport(t, dbCtx.DB, "b.md", "youtube/b.md")
	third := insertReport(t, dbCtx.DB, "c.md", "papers/c.md")
	if _, err := dbCtx.DB.Exec(`UPDATE reports SET content_type = 'paper', is_favorite = 1 WHERE id = ?`, third); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	tagID := insertTag(t, dbCtx.DB, "go")
	if _, err := dbCtx.DB.Exec(`INSERT INTO report_tags(report_id, tag_id) VALUES(?, ?)`, first, tagID); err != nil {
		t.Fatalf("insert report_tags failed: %v", err)
	}
	collectionID := insertCollection(t, dbCtx.DB, "reading")
	addToCollection(t, dbCtx.DB, second, collectionID)
	addToCollection(t, dbCtx.DB, third, collectionID)

	tests := []struct {
		name   string
		filter ReportFilter
		want   []int64
	}{
		{"all", ReportFilter{}, []int64{third, second, first}},
		{"by type", ReportFilter{ContentType: category.YouTube}, []int64{second, first}},
		{"favorites", ReportFilter{FavoritesOnly: true}, []int64{third}},
		{"by tag", ReportFilter{TagID: tagID}, []int64{first}},
		{"by collection", ReportFilter{CollectionID: collectionID}, []int64{third, second}},
		{"by collection and type", ReportFilter{CollectionID: collectionID, ContentType: category.YouTube}, []int64{second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := repo.List(ctx, tt.filter, 10, 0)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			got := make([]int64, 0, len(records))
			for _, r := range records {
				got = append(got, r.ID)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("List ids mismatch (-want +got):\n%s", diff)
			}

			count, err := repo.Count(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Count failed: %v", err)
			}
			if count != int64(len(tt.want)) {
				t.Fatalf("expected count %d, got %d", len(tt.want), count)
			}
		})
	}

	page, err := repo.List(ctx, ReportFilter{}, 2, 2)
	if err != nil {
		t.Fatalf("List with offset failed: %v", err)
	}
	if len(page) != 1 || page[0].ID != first {
		t.Fatalf("unexpected second page: %#v", page)
	}
}

func TestReportSearchFollowsTriggers(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupTestDB(t)
	repo := NewReportRepository(dbCtx)

	id := insertReport(t, dbCtx.DB, "a.md", "youtube/a.md")
	if _, err := dbCtx.DB.Exec(`UPDATE reports SET content_text = 'quantum entanglement explained' WHERE id = ?`, id); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	hits, err := repo.Search(ctx, `"quantum"*`, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 || hits[0].Report.ID != id {
		t.Fatalf("expected one hit for updated body, got %#v", hits)
	}
	if !strings.Contains(hits[0].Snippet, "<mark>quantum</mark>") {
		t.Fatalf("expected highlighted snippet, got %q", hits[0].Snippet)
	}

	stale, err := repo.Search(ctx, `"body"*`, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(stale) != 0 {
		t.Fatalf("expected old body to be gone from index, got %d hits", len(stale))
	}

	if _, err := dbCtx.DB.Exec(`DELETE FROM reports WHERE id = ?`, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	hits, err = repo.Search(ctx, `"quantum"*`, 10)
	if err != nil {
		t.Fatalf("Search after delete failed: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits after delete, got %d", len(hits))
	}
}

func TestDeleteReportCascades(t *testing.T) {
	dbCtx := setupTestDB(t)

	id := insertReport(t, dbCtx.DB, "a.md", "youtube/a.md")
	insertReview(t, dbCtx.DB, id, "2024-01-01")
	insertHistory(t, dbCtx.DB, id, 3, "2024-01-01T09:00:00")
	tagID := insertTag(t, dbCtx.DB, "go")
	if _, err := dbCtx.DB.Exec(`INSERT INTO report_tags(report_id, tag_id) VALUES(?, ?)`, id, tagID); err != nil {
		t.Fatalf("insert report_tags failed: %v", err)
	}

	if _, err := dbCtx.DB.Exec(`DELETE FROM reports WHERE id = ?`, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	assertCount(t, dbCtx.DB, "reviews", 0)
	assertCount(t, dbCtx.DB, "review_history", 0)
	assertCount(t, dbCtx.DB, "report_tags", 0)
	assertCount(t, dbCtx.DB, "tags", 1)
}

func TestReviewRepositoryDueAndCounts(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupTestDB(t)
	repo := NewReviewRepository(dbCtx)

	a := insertReport(t, dbCtx.DB, "a.md", "youtube/a.md")
	b := insertReport(t, dbCtx.DB, "b.md", "youtube/b.md")
	c := insertReport(t, dbCtx.DB, "c.md", "youtube/c.md")
	insertReview(t, dbCtx.DB, a, "2024-03-10")
	insertReview(t, dbCtx.DB, b, "2024-03-01")
	insertReview(t, dbCtx.DB, c, "2024-03-11")
	insertHistory(t, dbCtx.DB, a, 4, "2024-03-10T08:00:00")
	insertHistory(t, dbCtx.DB, b, 2, "2024-03-10T21:30:00")
	insertHistory(t, dbCtx.DB, b, 5, "2024-03-02T12:00:00")
	insertHistory(t, dbCtx.DB, b, 5, "2024-01-01T12:00:00")

	today := time.Date(2024, 3, 10, 15, 0, 0, 0, time.Local)

	due, err := repo.Due(ctx, today, 10)
	if err != nil {
		t.Fatalf("Due failed: %v", err)
	}
	if len(due) != 2 || due[0].State.ReportID != b || due[1].State.ReportID != a {
		t.Fatalf("unexpected due order: %#v", due)
	}
	if due[0].Title != "b.md" || due[0].ContentType != category.YouTube {
		t.Fatalf("expected joined report metadata, got %#v", due[0])
	}

	state, err := repo.FindByReportID(ctx, c)
	if err != nil || state == nil {
		t.Fatalf("FindByReportID failed: %v", err)
	}
	wantState := ReviewStateRecord{
		ReportID:       c,
		EaseFactor:     2.5,
		IntervalDays:   1,
		NextReviewDate: time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local),
	}
	if diff := cmp.Diff(wantState, *state, cmpopts.IgnoreFields(ReviewStateRecord{}, "ID")); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}

	counts, err := repo.Counts(ctx, today, today.AddDate(0, 0, -29))
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	want := ReviewCounts{Total: 3, Due: 2, ReviewedToday: 2, ActiveDays: 2, AverageEase: 2.5, HasAverageEase: true}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}

	history, err := repo.History(ctx, b, 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 3 || history[0].Quality != 2 || history[2].Quality != 5 {
		t.Fatalf("expected newest-first history, got %#v", history)
	}
}

func TestTagRepositoryCounts(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupTestDB(t)
	repo := NewTagRepository(dbCtx)

	report := insertReport(t, dbCtx.DB, "a.md", "youtube/a.md")
	goTag := insertTag(t, dbCtx.DB, "go")
	insertTag(t, dbCtx.DB, "Algorithms")
	if _, err := dbCtx.DB.Exec(`INSERT INTO report_tags(report_id, tag_id) VALUES(?, ?)`, report, goTag); err != nil {
		t.Fatalf("insert report_tags failed: %v", err)
	}

	tags, err := repo.ListWithCounts(ctx)
	if err != nil {
		t.Fatalf("ListWithCounts failed: %v", err)
	}
	if len(tags) != 2 || tags[0].Name != "Algorithms" || tags[0].ReportCount != 0 || tags[1].ReportCount != 1 {
		t.Fatalf("unexpected tags: %#v", tags)
	}

	forReport, err := repo.ForReport(ctx, report)
	if err != nil {
		t.Fatalf("ForReport failed: %v", err)
	}
	if len(forReport) != 1 || forReport[0].ID != goTag {
		t.Fatalf("unexpected report tags: %#v", forReport)
	}

	missing, err := repo.FindByID(ctx, 999)
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing tag, got %#v, %v", missing, err)
	}
}

func TestCollectionRepositoryCounts(t *testing.T) {
	ctx := context.Background()
	dbCtx := setupTestDB(t)
	repo := NewCollectionRepository(dbCtx)

	report := insertReport(t, dbCtx.DB, "a.md", "youtube/a.md")
	reading := insertCollection(t, dbCtx.DB, "reading")
	insertCollection(t, dbCtx.DB, "Archive")
	addToCollection(t, dbCtx.DB, report, reading)

	collections, err := repo.ListWithCounts(ctx)
	if err != nil {
		t.Fatalf("ListWithCounts failed: %v", err)
	}
	if len(collections) != 2 || collections[0].Name != "Archive" || collections[0].ReportCount != 0 || collections[1].ReportCount != 1 {
		t.Fatalf("unexpected collections: %#v", collections)
	}

	found, err := repo.FindByID(ctx, reading)
	if err != nil || found == nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Name != "reading" || found.ReportCount != 1 {
		t.Fatalf("unexpected collection: %#v", found)
	}

	forReport, err := repo.ForReport(ctx, report)
	if err != nil {
		t.Fatalf("ForReport failed: %v", err)
	}
	if len(forReport) != 1 || forReport[0].ID != reading {
		t.Fatalf("unexpected report collections: %#v", forReport)
	}

	if _, err := dbCtx.DB.Exec(`DELETE FROM reports WHERE id = ?`, report); err != nil {
		t.Fatalf("delete report failed: %v", err)
	}
	assertCount(t, dbCtx.DB, "report_collections", 0)

	missing, err := repo.FindByID(ctx, 999)
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing collection, got %#v, %v", missing, err)
	}
}
