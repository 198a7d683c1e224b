package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/choplin/cerebro/internal/config"
)

func setupTestDB(t *testing.T) *Context {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("CEREBRO_DIR", tmp)

	ctx, err := CreateDatabase("")
	if err != nil {
		t.Fatalf("CreateDatabase returned error: %v", err)
	}

	t.Cleanup(func() {
		if err := CloseDatabase(ctx); err != nil {
			t.Fatalf("CloseDatabase error: %v", err)
		}
	})

	return ctx
}

func TestDatabaseCreationAndMigration(t *testing.T) {
	ctx := setupTestDB(t)

	dbPath := filepath.Join(config.GetDataDir(), "index.db")
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected database file to exist at %s: %v", dbPath, err)
	}

	var version int
	var dirty bool
	if err := ctx.DB.QueryRow("SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty); err != nil {
		t.Fatalf("failed to read schema_migrations: %v", err)
	}
	if version != 2 || dirty {
		t.Fatalf("expected clean migration version 2, got %d (dirty=%v)", version, dirty)
	}

	tables := []string{"reports", "reports_fts", "reviews", "review_history", "tags", "report_tags", "collections", "report_collections"}
	for _, table := range tables {
		if !tableExists(t, ctx.DB, table) {
			t.Fatalf("expected table %s to exist", table)
		}
	}
}

func TestCreateDatabaseIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "index.db")

	first, err := CreateDatabase(path)
	if err != nil {
		t.Fatalf("first CreateDatabase failed: %v", err)
	}
	insertReport(t, first.DB, "a.md", "youtube/a.md")
	if err := CloseDatabase(first); err != nil {
		t.Fatalf("CloseDatabase failed: %v", err)
	}

	second, err := CreateDatabase(path)
	if err != nil {
		t.Fatalf("second CreateDatabase failed: %v", err)
	}
	defer CloseDatabase(second)

	assertCount(t, second.DB, "reports", 1)
}

func TestForeignKeysEnforced(t *testing.T) {
	ctx := setupTestDB(t)

	_, err := ctx.DB.Exec(`INSERT INTO reviews(report_id, next_review_date) VALUES(999, '2024-01-01')`)
	if err == nil {
		t.Fatalf("expected foreign key violation for unknown report")
	}
}

func TestClearDatabaseRemovesAllRows(t *testing.T) {
	ctx := setupTestDB(t)

	reportID := insertReport(t, ctx.DB, "a.md", "youtube/a.md")
	insertReview(t, ctx.DB, reportID, "2024-01-01")
	insertHistory(t, ctx.DB, reportID, 4, "2024-01-01T10:00:00")
	tagID := insertTag(t, ctx.DB, "go")
	if _, err := ctx.DB.Exec(`INSERT INTO report_tags(report_id, tag_id) VALUES(?, ?)`, reportID, tagID); err != nil {
		t.Fatalf("insert report_tags failed: %v", err)
	}
	collectionID := insertCollection(t, ctx.DB, "reading")
	addToCollection(t, ctx.DB, reportID, collectionID)

	tables := []string{"reports", "reviews", "review_history", "tags", "report_tags", "collections", "report_collections"}
	for _, table := range tables {
		assertCount(t, ctx.DB, table, 1)
	}

	if err := ClearDatabase(ctx); err != nil {
		t.Fatalf("ClearDatabase returned error: %v", err)
	}

	for _, table := range tables {
		assertCount(t, ctx.DB, table, 0)
	}
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("tableExists query failed for %s: %v", table, err)
	}
	return true
}

func insertReport(t *testing.T, db *sql.DB, filename, path string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO reports(filename, filepath, title, content_type, created_at, indexed_at, file_modified_at, word_count, content_text)
VALUES(?, ?, ?, 'youtube', '2024-01-15T00:00:00', '2024-01-15T00:00:00', '2024-01-15T00:00:00', 3, 'body text here')`,
		filename, path, filename)
	if err != nil {
		t.Fatalf("insertReport failed: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("insertReport LastInsertId failed: %v", err)
	}
	return id
}

func insertReview(t *testing.T, db *sql.DB, reportID int64, next string) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO reviews(report_id, next_review_date) VALUES(?, ?)`, reportID, next); err != nil {
		t.Fatalf("insertReview failed: %v", err)
	}
}

func insertHistory(t *testing.T, db *sql.DB, reportID int64, quality int, reviewedAt string) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO review_history(report_id, quality, reviewed_at, interval_days, ease_factor) VALUES(?, ?, ?, 1, 2.5)`,
		reportID, quality, reviewedAt); err != nil {
		t.Fatalf("insertHistory failed: %v", err)
	}
}

func insertTag(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO tags(name, created_at) VALUES(?, '2024-01-01T00:00:00')`, name)
	if err != nil {
		t.Fatalf("insertTag failed: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("insertTag LastInsertId failed: %v", err)
	}
	return id
}

func insertCollection(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO collections(name, created_at) VALUES(?, '2024-01-01T00:00:00')`, name)
	if err != nil {
		t.Fatalf("insertCollection failed: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("insertCollection LastInsertId failed: %v", err)
	}
	return id
}

func addToCollection(t *testing.T, db *sql.DB, reportID, collectionID int64) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO report_collections(report_id, collection_id, added_at) VALUES(?, ?, '2024-01-01T00:00:00')`,
		reportID, collectionID); err != nil {
		t.Fatalf("addToCollection failed: %v", err)
	}
}

func assertCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("count query failed for %s: %v", table, err)
	}
	if count != expected {
		t.Fatalf("expected %s to have %d rows, got %d", table, expected, count)
	}
}
