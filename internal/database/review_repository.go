package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqldb "github.com/choplin/cerebro/internal/database/sqlc"
)

// ReviewRepository reads review state, history and the due queue.
type ReviewRepository struct {
	ctx *Context
}

func NewReviewRepository(dbCtx *Context) *ReviewRepository {
	return &ReviewRepository{ctx: dbCtx}
}

// FindByReportID returns nil, nil when the report is not queued.
func (r *ReviewRepository) FindByReportID(ctx context.Context, reportID int64) (*ReviewStateRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("review repository: missing database context")
	}

	row, err := queries.FindReviewByReportID(ctx, reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	record := ReviewStateRecordFromRow(row)
	return &record, nil
}

// History lists the most recent reviews of a report, newest first.
func (r *ReviewRepository) History(ctx context.Context, reportID, limit int64) ([]ReviewHistoryRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("review repository: missing database context")
	}

	rows, err := queries.ListReviewHistory(ctx, sqldb.ListReviewHistoryParams{ReportID: reportID, Limit: limit})
	if err != nil {
		return nil, err
	}

	result := make([]ReviewHistoryRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, ReviewHistoryRecordFromRow(row))
	}
	return result, nil
}

// Due lists states whose next review date is on or before today, earliest first.
func (r *ReviewRepository) Due(ctx context.Context, today time.Time, limit int64) ([]DueReviewRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("review repository: missing database context")
	}

	rows, err := queries.ListDueReviews(ctx, sqldb.ListDueReviewsParams{Today: FormatDate(today), Limit: limit})
	if err != nil {
		return nil, err
	}

	result := make([]DueReviewRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, DueReviewRecordFromRow(row))
	}
	return result, nil
}

// ReviewCounts aggregates the figures reported by review statistics.
type ReviewCounts struct {
	Total          int64
	Due            int64
	ReviewedToday  int64
	ActiveDays     int64
	AverageEase    float64
	HasAverageEase bool
}

// Counts gathers review statistics relative to today. ActiveDays counts the
// distinct days with at least one review inside [windowStart, today].
func (r *ReviewRepository) Counts(ctx context.Context, today, windowStart time.Time) (ReviewCounts, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return ReviewCounts{}, fmt.Errorf("review repository: missing database context")
	}

	day := FormatDate(today)
	var counts ReviewCounts
	var err error

	if counts.Total, err = queries.CountReviews(ctx); err != nil {
		return ReviewCounts{}, err
	}
	if counts.Due, err = queries.CountDueReviews(ctx, day); err != nil {
		return ReviewCounts{}, err
	}
	if counts.ReviewedToday, err = queries.CountHistoryOnDay(ctx, day); err != nil {
		return ReviewCounts{}, err
	}
	if counts.ActiveDays, err = queries.CountActiveDays(ctx, sqldb.CountActiveDaysParams{
		From: FormatDate(windowStart),
		To:   day,
	}); err != nil {
		return ReviewCounts{}, err
	}

	avg, err := queries.AverageEaseFactor(ctx)
	if err != nil {
		return ReviewCounts{}, err
	}
	counts.AverageEase = avg.Float64
	counts.HasAverageEase = avg.Valid

	return counts, nil
}
