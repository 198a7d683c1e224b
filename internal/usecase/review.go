package usecase

import (
	"context"

	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/services"
)

type Review struct {
	reports *services.ReportService
	reviews *services.ReviewService
}

func NewReview(dbCtx *database.Context) *Review {
	return &Review{
		reports: services.NewReportService(dbCtx),
		reviews: services.NewReviewService(dbCtx),
	}
}

// Add queues a report and returns it along with whether it was newly queued.
func (u *Review) Add(ctx context.Context, reportID int64) (*database.ReportRecord, bool, error) {
	record, err := u.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, false, err
	}
	added, err := u.reviews.AddToQueue(ctx, reportID)
	if err != nil {
		return nil, false, err
	}
	return record, added, nil
}

func (u *Review) Remove(ctx context.Context, reportID int64) error {
	return u.reviews.RemoveFromQueue(ctx, reportID)
}

func (u *Review) Record(ctx context.Context, reportID int64, quality int) (services.ReviewResult, error) {
	return u.reviews.RecordReview(ctx, reportID, quality)
}

func (u *Review) Due(ctx context.Context, limit int) ([]database.DueReviewRecord, error) {
	return u.reviews.DueReviews(ctx, limit)
}

func (u *Review) Stats(ctx context.Context) (services.ReviewStats, error) {
	return u.reviews.Stats(ctx)
}

func (u *Review) History(ctx context.Context, reportID int64, limit int) ([]database.ReviewHistoryRecord, error) {
	if _, err := u.reports.GetByID(ctx, reportID); err != nil {
		return nil, err
	}
	return u.reviews.History(ctx, reportID, limit)
}
