package sqldb

import "context"

const deleteAllReviewHistory = `DELETE FROM review_history`

func (q *Queries) DeleteAllReviewHistory(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllReviewHistory)
	return err
}

const deleteAllReviews = `DELETE FROM reviews`

func (q *Queries) DeleteAllReviews(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllReviews)
	return err
}

const deleteAllReportTags = `DELETE FROM report_tags`

func (q *Queries) DeleteAllReportTags(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllReportTags)
	return err
}

const deleteAllTags = `DELETE FROM tags`

func (q *Queries) DeleteAllTags(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllTags)
	return err
}

const deleteAllReportCollections = `DELETE FROM report_collections`

func (q *Queries) DeleteAllReportCollections(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllReportCollections)
	return err
}

const deleteAllCollections = `DELETE FROM collections`

func (q *Queries) DeleteAllCollections(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllCollections)
	return err
}

const deleteAllReports = `DELETE FROM reports`

func (q *Queries) DeleteAllReports(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllReports)
	return err
}
