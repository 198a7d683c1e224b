package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type CollectionRepository struct {
	ctx *Context
}

func NewCollectionRepository(dbCtx *Context) *CollectionRepository {
	return &CollectionRepository{ctx: dbCtx}
}

// FindByID returns the collection with its report count, or nil when absent.
func (r *CollectionRepository) FindByID(ctx context.Context, id int64) (*CollectionRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("collection repository: missing database context")
	}

	row, err := queries.FindCollectionByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	record := CollectionRecordFromRow(row.Collection)
	record.ReportCount = row.ReportCount
	return &record, nil
}

func (r *CollectionRepository) ListWithCounts(ctx context.Context) ([]CollectionRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("collection repository: missing database context")
	}

	rows, err := queries.ListCollectionsWithCounts(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]CollectionRecord, 0, len(rows))
	for _, row := range rows {
		record := CollectionRecordFromRow(row.Collection)
		record.ReportCount = row.ReportCount
		result = append(result, record)
	}
	return result, nil
}

func (r *CollectionRepository) ForReport(ctx context.Context, reportID int64) ([]CollectionRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("collection repository: missing database context")
	}

	rows, err := queries.ListCollectionsForReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	result := make([]CollectionRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, CollectionRecordFromRow(row))
	}
	return result, nil
}
