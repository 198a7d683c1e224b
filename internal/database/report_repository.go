package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqldb "github.com/choplin/cerebro/internal/database/sqlc"
)

// ReportRepository reads indexed reports. Lookups return nil, nil when no
// row matches.
type ReportRepository struct {
	ctx *Context
}

func NewReportRepository(dbCtx *Context) *ReportRepository {
	return &ReportRepository{ctx: dbCtx}
}

func (r *ReportRepository) FindByID(ctx context.Context, id int64) (*ReportRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("report repository: missing database context")
	}

	row, err := queries.FindReportByID(ctx, id)
	return optionalReport(row, err)
}

func (r *ReportRepository) FindByFilename(ctx context.Context, filename string) (*ReportRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("report repository: missing database context")
	}

	row, err := queries.FindReportByFilename(ctx, filename)
	return optionalReport(row, err)
}

func (r *ReportRepository) FindByFilePath(ctx context.Context, path string) (*ReportRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("report repository: missing database context")
	}

	row, err := queries.FindReportByFilepath(ctx, path)
	return optionalReport(row, err)
}

// List returns one page of reports, newest first.
func (r *ReportRepository) List(ctx context.Context, filter ReportFilter, limit, offset int64) ([]ReportRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("report repository: missing database context")
	}

	rows, err := queries.ListReports(ctx, sqldb.ListReportsParams{
		Filter: ReportFilterParams(filter),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	result := make([]ReportRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, ReportRecordFromRow(row))
	}
	return result, nil
}

func (r *ReportRepository) Count(ctx context.Context, filter ReportFilter) (int64, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return 0, fmt.Errorf("report repository: missing database context")
	}

	return queries.CountReports(ctx, ReportFilterParams(filter))
}

// Search runs an FTS5 MATCH expression against title and body. The
// expression must already be valid FTS5 syntax.
func (r *ReportRepository) Search(ctx context.Context, match string, limit int64) ([]SearchHit, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("report repository: missing database context")
	}

	rows, err := queries.SearchReports(ctx, sqldb.SearchReportsParams{Query: match, Limit: limit})
	if err != nil {
		return nil, err
	}

	result := make([]SearchHit, 0, len(rows))
	for _, row := range rows {
		result = append(result, SearchHit{
			Report:  ReportRecordFromRow(row.Report),
			Snippet: row.Snippet,
		})
	}
	return result, nil
}

// StoredModTime returns the file_modified_at text recorded for filename using
// q, so it can run inside a caller's transaction. It returns ErrNotFound when
// the filename has never been indexed.
func StoredModTime(ctx context.Context, q *sqldb.Queries, filename string) (string, error) {
	row, err := q.FindReportModTimeByFilename(ctx, filename)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return row.FileModifiedAt, nil
}

func optionalReport(row sqldb.Report, err error) (*ReportRecord, error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	record := ReportRecordFromRow(row)
	return &record, nil
}
