package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type TagRepository struct {
	ctx *Context
}

func NewTagRepository(dbCtx *Context) *TagRepository {
	return &TagRepository{ctx: dbCtx}
}

func (r *TagRepository) FindByID(ctx context.Context, id int64) (*TagRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("tag repository: missing database context")
	}

	row, err := queries.FindTagByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	record := TagRecordFromRow(row)
	return &record, nil
}

// ListWithCounts returns every tag with the number of reports carrying it.
func (r *TagRepository) ListWithCounts(ctx context.Context) ([]TagRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("tag repository: missing database context")
	}

	rows, err := queries.ListTagsWithCounts(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]TagRecord, 0, len(rows))
	for _, row := range rows {
		record := TagRecordFromRow(row.Tag)
		record.ReportCount = row.ReportCount
		result = append(result, record)
	}
	return result, nil
}

func (r *TagRepository) ForReport(ctx context.Context, reportID int64) ([]TagRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("tag repository: missing database context")
	}

	rows, err := queries.ListTagsForReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	result := make([]TagRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, TagRecordFromRow(row))
	}
	return result, nil
}
