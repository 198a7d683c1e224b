package sqldb

import (
	"context"
	"database/sql"
)

const findReviewByReportID = `SELECT id, report_id, ease_factor, interval_days, repetitions, next_review_date, last_review_date
FROM reviews WHERE report_id = ?`

func (q *Queries) FindReviewByReportID(ctx context.Context, reportID int64) (Review, error) {
	var i Review
	err := q.db.QueryRowContext(ctx, findReviewByReportID, reportID).Scan(
		&i.ID,
		&i.ReportID,
		&i.EaseFactor,
		&i.IntervalDays,
		&i.Repetitions,
		&i.NextReviewDate,
		&i.LastReviewDate,
	)
	return i, err
}

const insertReviewIfAbsent = `INSERT OR IGNORE INTO reviews (report_id, ease_factor, interval_days, repetitions, next_review_date)
VALUES (?, ?, ?, ?, ?)`

type InsertReviewIfAbsentParams struct {
	ReportID       int64
	EaseFactor     float64
	IntervalDays   int64
	Repetitions    int64
	NextReviewDate string
}

func (q *Queries) InsertReviewIfAbsent(ctx context.Context, arg InsertReviewIfAbsentParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertReviewIfAbsent,
		arg.ReportID,
		arg.EaseFactor,
		arg.IntervalDays,
		arg.Repetitions,
		arg.NextReviewDate,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const upsertReview = `INSERT INTO reviews (report_id, ease_factor, interval_days, repetitions, next_review_date, last_review_date)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(report_id) DO UPDATE SET
    ease_factor = excluded.ease_factor,
    interval_days = excluded.interval_days,
    repetitions = excluded.repetitions,
    next_review_date = excluded.next_review_date,
    last_review_date = excluded.last_review_date`

type UpsertReviewParams struct {
	ReportID       int64
	EaseFactor     float64
	IntervalDays   int64
	Repetitions    int64
	NextReviewDate string
	LastReviewDate sql.NullString
}

func (q *Queries) UpsertReview(ctx context.Context, arg UpsertReviewParams) error {
	_, err := q.db.ExecContext(ctx, upsertReview,
		arg.ReportID,
		arg.EaseFactor,
		arg.IntervalDays,
		arg.Repetitions,
		arg.NextReviewDate,
		arg.LastReviewDate,
	)
	return err
}

const insertReviewHistory = `INSERT INTO review_history (report_id, quality, reviewed_at, interval_days, ease_factor)
VALUES (?, ?, ?, ?, ?)`

type InsertReviewHistoryParams struct {
	ReportID     int64
	Quality      int64
	ReviewedAt   string
	IntervalDays int64
	EaseFactor   float64
}

func (q *Queries) InsertReviewHistory(ctx context.Context, arg InsertReviewHistoryParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, insertReviewHistory,
		arg.ReportID,
		arg.Quality,
		arg.ReviewedAt,
		arg.IntervalDays,
		arg.EaseFactor,
	)
}

const listReviewHistory = `SELECT id, report_id, quality, reviewed_at, interval_days, ease_factor
FROM review_history
WHERE report_id = ?
ORDER BY reviewed_at DESC, id DESC
LIMIT ?`

type ListReviewHistoryParams struct {
	ReportID int64
	Limit    int64
}

func (q *Queries) ListReviewHistory(ctx context.Context, arg ListReviewHistoryParams) ([]ReviewHistory, error) {
	rows, err := q.db.QueryContext(ctx, listReviewHistory, arg.ReportID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ReviewHistory
	for rows.Next() {
		var i ReviewHistory
		if err := rows.Scan(
			&i.ID,
			&i.ReportID,
			&i.Quality,
			&i.ReviewedAt,
			&i.IntervalDays,
			&i.EaseFactor,
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

const listDueReviews = `SELECT v.id, v.report_id, v.ease_factor, v.interval_days, v.repetitions,
       v.next_review_date, v.last_review_date,
       r.title, r.content_type, r.source_url, r.summary
FROM reviews v
JOIN reports r ON r.id = v.report_id
WHERE v.next_review_date <= ?
ORDER BY v.next_review_date ASC, v.report_id ASC
LIMIT ?`

type ListDueReviewsParams struct {
	Today string
	Limit int64
}

type ListDueReviewsRow struct {
	Review      Review
	Title       string
	ContentType string
	SourceUrl   sql.NullString
	Summary     sql.NullString
}

func (q *Queries) ListDueReviews(ctx context.Context, arg ListDueReviewsParams) ([]ListDueReviewsRow, error) {
	rows, err := q.db.QueryContext(ctx, listDueReviews, arg.Today, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListDueReviewsRow
	for rows.Next() {
		var i ListDueReviewsRow
		if err := rows.Scan(
			&i.Review.ID,
			&i.Review.ReportID,
			&i.Review.EaseFactor,
			&i.Review.IntervalDays,
			&i.Review.Repetitions,
			&i.Review.NextReviewDate,
			&i.Review.LastReviewDate,
			&i.Title,
			&i.ContentType,
			&i.SourceUrl,
			&i.Summary,
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

const countDueReviews = `SELECT COUNT(*) FROM reviews WHERE next_review_date <= ?`

func (q *Queries) CountDueReviews(ctx context.Context, today string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countDueReviews, today).Scan(&count)
	return count, err
}

const countReviews = `SELECT COUNT(*) FROM reviews`

func (q *Queries) CountReviews(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countReviews).Scan(&count)
	return count, err
}

const averageEaseFactor = `SELECT AVG(ease_factor) FROM reviews`

func (q *Queries) AverageEaseFactor(ctx context.Context) (sql.NullFloat64, error) {
	var avg sql.NullFloat64
	err := q.db.QueryRowContext(ctx, averageEaseFactor).Scan(&avg)
	return avg, err
}

const countHistoryOnDay = `SELECT COUNT(*) FROM review_history WHERE substr(reviewed_at, 1, 10) = ?`

func (q *Queries) CountHistoryOnDay(ctx context.Context, day string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countHistoryOnDay, day).Scan(&count)
	return count, err
}

const countActiveDays = `SELECT COUNT(DISTINCT substr(reviewed_at, 1, 10))
FROM review_history
WHERE substr(reviewed_at, 1, 10) BETWEEN ? AND ?`

type CountActiveDaysParams struct {
	From string
	To   string
}

func (q *Queries) CountActiveDays(ctx context.Context, arg CountActiveDaysParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countActiveDays, arg.From, arg.To).Scan(&count)
	return count, err
}

const deleteReviewByReportID = `DELETE FROM reviews WHERE report_id = ?`

func (q *Queries) DeleteReviewByReportID(ctx context.Context, reportID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteReviewByReportID, reportID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
