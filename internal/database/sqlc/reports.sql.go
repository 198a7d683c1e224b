package sqldb

import (
	"context"
	"database/sql"
)

const reportColumns = `id, filename, filepath, title, source_url, content_type, created_at,
       indexed_at, file_modified_at, summary, word_count, content_text, is_favorite`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner, extra ...any) (Report, error) {
	var i Report
	dest := []any{
		&i.ID,
		&i.Filename,
		&i.Filepath,
		&i.Title,
		&i.SourceUrl,
		&i.ContentType,
		&i.CreatedAt,
		&i.IndexedAt,
		&i.FileModifiedAt,
		&i.Summary,
		&i.WordCount,
		&i.ContentText,
		&i.IsFavorite,
	}
	err := row.Scan(append(dest, extra...)...)
	return i, err
}

const findReportByID = `SELECT ` + reportColumns + ` FROM reports WHERE id = ?`

func (q *Queries) FindReportByID(ctx context.Context, id int64) (Report, error) {
	return scanReport(q.db.QueryRowContext(ctx, findReportByID, id))
}

const findReportByFilename = `SELECT ` + reportColumns + ` FROM reports WHERE filename = ?`

func (q *Queries) FindReportByFilename(ctx context.Context, filename string) (Report, error) {
	return scanReport(q.db.QueryRowContext(ctx, findReportByFilename, filename))
}

const findReportByFilepath = `SELECT ` + reportColumns + ` FROM reports WHERE filepath = ?`

func (q *Queries) FindReportByFilepath(ctx context.Context, filepath string) (Report, error) {
	return scanReport(q.db.QueryRowContext(ctx, findReportByFilepath, filepath))
}

const reportExists = `SELECT EXISTS(SELECT 1 FROM reports WHERE id = ?)`

func (q *Queries) ReportExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, reportExists, id).Scan(&exists)
	return exists, err
}

const findReportModTimeByFilename = `SELECT id, file_modified_at FROM reports WHERE filename = ?`

type FindReportModTimeByFilenameRow struct {
	ID             int64
	FileModifiedAt string
}

func (q *Queries) FindReportModTimeByFilename(ctx context.Context, filename string) (FindReportModTimeByFilenameRow, error) {
	var i FindReportModTimeByFilenameRow
	err := q.db.QueryRowContext(ctx, findReportModTimeByFilename, filename).Scan(&i.ID, &i.FileModifiedAt)
	return i, err
}

const insertReport = `INSERT INTO reports (
    filename, filepath, title, source_url, content_type,
    created_at, indexed_at, file_modified_at, summary, word_count, content_text
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type InsertReportParams struct {
	Filename       string
	Filepath       string
	Title          string
	SourceUrl      sql.NullString
	ContentType    string
	CreatedAt      string
	IndexedAt      string
	FileModifiedAt string
	Summary        sql.NullString
	WordCount      int64
	ContentText    string
}

func (q *Queries) InsertReport(ctx context.Context, arg InsertReportParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, insertReport,
		arg.Filename,
		arg.Filepath,
		arg.Title,
		arg.SourceUrl,
		arg.ContentType,
		arg.CreatedAt,
		arg.IndexedAt,
		arg.FileModifiedAt,
		arg.Summary,
		arg.WordCount,
		arg.ContentText,
	)
}

const updateReportByFilename = `UPDATE reports SET
    filepath = ?, title = ?, source_url = ?, content_type = ?,
    created_at = ?, file_modified_at = ?, summary = ?,
    word_count = ?, content_text = ?, indexed_at = ?
WHERE filename = ?`

type UpdateReportByFilenameParams struct {
	Filepath       string
	Title          string
	SourceUrl      sql.NullString
	ContentType    string
	CreatedAt      string
	FileModifiedAt string
	Summary        sql.NullString
	WordCount      int64
	ContentText    string
	IndexedAt      string
	Filename       string
}

func (q *Queries) UpdateReportByFilename(ctx context.Context, arg UpdateReportByFilenameParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateReportByFilename,
		arg.Filepath,
		arg.Title,
		arg.SourceUrl,
		arg.ContentType,
		arg.CreatedAt,
		arg.FileModifiedAt,
		arg.Summary,
		arg.WordCount,
		arg.ContentText,
		arg.IndexedAt,
		arg.Filename,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateReportFavorite = `UPDATE reports SET is_favorite = ? WHERE id = ?`

type UpdateReportFavoriteParams struct {
	IsFavorite int64
	ID         int64
}

func (q *Queries) UpdateReportFavorite(ctx context.Context, arg UpdateReportFavoriteParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateReportFavorite, arg.IsFavorite, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateReportLocation = `UPDATE reports SET filepath = ?, content_type = ? WHERE id = ?`

type UpdateReportLocationParams struct {
	Filepath    string
	ContentType string
	ID          int64
}

func (q *Queries) UpdateReportLocation(ctx context.Context, arg UpdateReportLocationParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateReportLocation, arg.Filepath, arg.ContentType, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteReportByID = `DELETE FROM reports WHERE id = ?`

func (q *Queries) DeleteReportByID(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteReportByID, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteReportByFilepath = `DELETE FROM reports WHERE filepath = ?`

func (q *Queries) DeleteReportByFilepath(ctx context.Context, filepath string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteReportByFilepath, filepath)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// reportFilter matches rows by optional content type, favorite flag, tag and
// collection.
// Each placeholder pair takes the same value twice.
const reportFilter = `WHERE (? = '' OR content_type = ?)
  AND (? = 0 OR is_favorite = 1)
  AND (? = 0 OR id IN (SELECT report_id FROM report_tags WHERE tag_id = ?))
  AND (? = 0 OR id IN (SELECT report_id FROM report_collections WHERE collection_id = ?))`

type ReportFilterParams struct {
	ContentType   string
	FavoritesOnly bool
	TagID         int64
	CollectionID  int64
}

func (p ReportFilterParams) args() []any {
	return []any{p.ContentType, p.ContentType, p.FavoritesOnly, p.TagID, p.TagID, p.CollectionID, p.CollectionID}
}

const countReports = `SELECT COUNT(*) FROM reports ` + reportFilter

func (q *Queries) CountReports(ctx context.Context, arg ReportFilterParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countReports, arg.args()...).Scan(&count)
	return count, err
}

const listReports = `SELECT ` + reportColumns + ` FROM reports ` + reportFilter + `
ORDER BY created_at DESC, file_modified_at DESC, id DESC
LIMIT ? OFFSET ?`

type ListReportsParams struct {
	Filter ReportFilterParams
	Limit  int64
	Offset int64
}

func (q *Queries) ListReports(ctx context.Context, arg ListReportsParams) ([]Report, error) {
	args := append(arg.Filter.args(), arg.Limit, arg.Offset)
	rows, err := q.db.QueryContext(ctx, listReports, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Report
	for rows.Next() {
		i, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const searchReports = `SELECT r.id, r.filename, r.filepath, r.title, r.source_url, r.content_type, r.created_at,
       r.indexed_at, r.file_modified_at, r.summary, r.word_count, r.content_text, r.is_favorite,
       snippet(reports_fts, 1, '<mark>', '</mark>', '...', 32) AS snippet
FROM reports_fts
JOIN reports r ON reports_fts.rowid = r.id
WHERE reports_fts MATCH ?
ORDER BY rank
LIMIT ?`

type SearchReportsParams struct {
	Query string
	Limit int64
}

type SearchReportsRow struct {
	Report  Report
	Snippet string
}

func (q *Queries) SearchReports(ctx context.Context, arg SearchReportsParams) ([]SearchReportsRow, error) {
	rows, err := q.db.QueryContext(ctx, searchReports, arg.Query, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SearchReportsRow
	for rows.Next() {
		var snippet sql.NullString
		report, err := scanReport(rows, &snippet)
		if err != nil {
			return nil, err
		}
		items = append(items, SearchReportsRow{Report: report, Snippet: snippet.String})
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
