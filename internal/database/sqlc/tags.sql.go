package sqldb

import (
	"context"
	"database/sql"
)

const insertTag = `INSERT INTO tags (name, color, created_at) VALUES (?, ?, ?)`

type InsertTagParams struct {
	Name      string
	Color     sql.NullString
	CreatedAt string
}

func (q *Queries) InsertTag(ctx context.Context, arg InsertTagParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, insertTag, arg.Name, arg.Color, arg.CreatedAt)
}

const findTagByID = `SELECT id, name, color, created_at FROM tags WHERE id = ?`

func (q *Queries) FindTagByID(ctx context.Context, id int64) (Tag, error) {
	var i Tag
	err := q.db.QueryRowContext(ctx, findTagByID, id).Scan(&i.ID, &i.Name, &i.Color, &i.CreatedAt)
	return i, err
}

const listTagsWithCounts = `SELECT t.id, t.name, t.color, t.created_at, COUNT(rt.report_id) AS report_count
FROM tags t
LEFT JOIN report_tags rt ON rt.tag_id = t.id
GROUP BY t.id
ORDER BY t.name COLLATE NOCASE`

type ListTagsWithCountsRow struct {
	Tag         Tag
	ReportCount int64
}

func (q *Queries) ListTagsWithCounts(ctx context.Context) ([]ListTagsWithCountsRow, error) {
	rows, err := q.db.QueryContext(ctx, listTagsWithCounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListTagsWithCountsRow
	for rows.Next() {
		var i ListTagsWithCountsRow
		if err := rows.Scan(&i.Tag.ID, &i.Tag.Name, &i.Tag.Color, &i.Tag.CreatedAt, &i.ReportCount); err != nil {
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

const listTagsForReport = `SELECT t.id, t.name, t.color, t.created_at
FROM tags t
JOIN report_tags rt ON rt.tag_id = t.id
WHERE rt.report_id = ?
ORDER BY t.name COLLATE NOCASE`

func (q *Queries) ListTagsForReport(ctx context.Context, reportID int64) ([]Tag, error) {
	rows, err := q.db.QueryContext(ctx, listTagsForReport, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Tag
	for rows.Next() {
		var i Tag
		if err := rows.Scan(&i.ID, &i.Name, &i.Color, &i.CreatedAt); err != nil {
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

const updateTag = `UPDATE tags SET name = ?, color = ? WHERE id = ?`

type UpdateTagParams struct {
	Name  string
	Color sql.NullString
	ID    int64
}

func (q *Queries) UpdateTag(ctx context.Context, arg UpdateTagParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTag, arg.Name, arg.Color, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteTagByID = `DELETE FROM tags WHERE id = ?`

func (q *Queries) DeleteTagByID(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTagByID, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const attachTag = `INSERT OR IGNORE INTO report_tags (report_id, tag_id) VALUES (?, ?)`

type ReportTagParams struct {
	ReportID int64
	TagID    int64
}

func (q *Queries) AttachTag(ctx context.Context, arg ReportTagParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, attachTag, arg.ReportID, arg.TagID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const detachTag = `DELETE FROM report_tags WHERE report_id = ? AND tag_id = ?`

func (q *Queries) DetachTag(ctx context.Context, arg ReportTagParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, detachTag, arg.ReportID, arg.TagID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
