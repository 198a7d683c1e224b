package sqldb

import (
	"context"
	"database/sql"
)

const insertCollection = `INSERT INTO collections (name, description, color, created_at) VALUES (?, ?, ?, ?)`

type InsertCollectionParams struct {
	Name        string
	Description sql.NullString
	Color       sql.NullString
	CreatedAt   string
}

func (q *Queries) InsertCollection(ctx context.Context, arg InsertCollectionParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, insertCollection, arg.Name, arg.Description, arg.Color, arg.CreatedAt)
}

const findCollectionByID = `SELECT c.id, c.name, c.description, c.color, c.created_at,
  (SELECT COUNT(*) FROM report_collections rc WHERE rc.collection_id = c.id) AS report_count
FROM collections c
WHERE c.id = ?`

type CollectionWithCountRow struct {
	Collection  Collection
	ReportCount int64
}

func (q *Queries) FindCollectionByID(ctx context.Context, id int64) (CollectionWithCountRow, error) {
	var i CollectionWithCountRow
	err := q.db.QueryRowContext(ctx, findCollectionByID, id).Scan(
		&i.Collection.ID,
		&i.Collection.Name,
		&i.Collection.Description,
		&i.Collection.Color,
		&i.Collection.CreatedAt,
		&i.ReportCount,
	)
	return i, err
}

const listCollectionsWithCounts = `SELECT c.id, c.name, c.description, c.color, c.created_at, COUNT(rc.report_id) AS report_count
FROM collections c
LEFT JOIN report_collections rc ON rc.collection_id = c.id
GROUP BY c.id
ORDER BY c.name COLLATE NOCASE`

func (q *Queries) ListCollectionsWithCounts(ctx context.Context) ([]CollectionWithCountRow, error) {
	rows, err := q.db.QueryContext(ctx, listCollectionsWithCounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CollectionWithCountRow
	for rows.Next() {
		var i CollectionWithCountRow
		if err := rows.Scan(
			&i.Collection.ID,
			&i.Collection.Name,
			&i.Collection.Description,
			&i.Collection.Color,
			&i.Collection.CreatedAt,
			&i.ReportCount,
		); err != nil {
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

const listCollectionsForReport = `SELECT c.id, c.name, c.description, c.color, c.created_at
FROM collections c
JOIN report_collections rc ON rc.collection_id = c.id
WHERE rc.report_id = ?
ORDER BY c.name COLLATE NOCASE`

func (q *Queries) ListCollectionsForReport(ctx context.Context, reportID int64) ([]Collection, error) {
	rows, err := q.db.QueryContext(ctx, listCollectionsForReport, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Collection
	for rows.Next() {
		var i Collection
		if err := rows.Scan(&i.ID, &i.Name, &i.Description, &i.Color, &i.CreatedAt); err != nil {
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

const updateCollection = `UPDATE collections SET name = ?, description = ?, color = ? WHERE id = ?`

type UpdateCollectionParams struct {
	Name        string
	Description sql.NullString
	Color       sql.NullString
	ID          int64
}

func (q *Queries) UpdateCollection(ctx context.Context, arg UpdateCollectionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateCollection, arg.Name, arg.Description, arg.Color, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteCollectionByID = `DELETE FROM collections WHERE id = ?`

func (q *Queries) DeleteCollectionByID(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteCollectionByID, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const addReportToCollection = `INSERT OR IGNORE INTO report_collections (report_id, collection_id, added_at) VALUES (?, ?, ?)`

type AddReportToCollectionParams struct {
	ReportID     int64
	CollectionID int64
	AddedAt      string
}

func (q *Queries) AddReportToCollection(ctx context.Context, arg AddReportToCollectionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, addReportToCollection, arg.ReportID, arg.CollectionID, arg.AddedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const removeReportFromCollection = `DELETE FROM report_collections WHERE report_id = ? AND collection_id = ?`

type RemoveReportFromCollectionParams struct {
	ReportID     int64
	CollectionID int64
}

func (q *Queries) RemoveReportFromCollection(ctx context.Context, arg RemoveReportFromCollectionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, removeReportFromCollection, arg.ReportID, arg.CollectionID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
