package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/choplin/cerebro/internal/database"
	sqldb "github.com/choplin/cerebro/internal/database/sqlc"
	"github.com/choplin/cerebro/internal/review"
)

const (
	DefaultDueLimit     = 10
	DefaultHistoryLimit = 50
	// StreakWindowDays is the trailing window, today included, in which
	// active review days are counted.
	StreakWindowDays = 30
)

// ReviewResult is the schedule produced by one recorded review.
type ReviewResult struct {
	ReportID       int64     `json:"report_id"`
	NextReviewDate time.Time `json:"next_review_date"`
	IntervalDays   int64     `json:"interval_days"`
	EaseFactor     float64   `json:"ease_factor"`
	Repetitions    int64     `json:"repetitions"`
}

// ReviewStats summarises the review queue.
type ReviewStats struct {
	DueCount      int64   `json:"due_count"`
	TotalInQueue  int64   `json:"total_in_queue"`
	ReviewedToday int64   `json:"reviewed_today"`
	StreakDays    int64   `json:"streak_days"`
	AverageEase   float64 `json:"average_ease"`
}

// ReviewService schedules reports for spaced repetition.
type ReviewService struct {
	ctx     *database.Context
	reviews *database.ReviewRepository
	now     func() time.Time
}

// NewReviewService creates a new ReviewService.
func NewReviewService(ctx *database.Context) *ReviewService {
	return &ReviewService{
		ctx:     ctx,
		reviews: database.NewReviewRepository(ctx),
		now:     time.Now,
	}
}

// WithClock replaces the time source that decides "today".
func (s *ReviewService) WithClock(now func() time.Time) *ReviewService {
	s.now = now
	return s
}

// AddToQueue schedules the report for review tomorrow. It reports false
// when the report was already queued; an existing schedule is never reset.
func (s *ReviewService) AddToQueue(ctx context.Context, reportID int64) (bool, error) {
	initial := review.NewState(s.now())

	var added bool
	err := withTx(ctx, s.ctx, "review service", func(txCtx context.Context, q *sqldb.Queries) error {
		if err := ensureReport(txCtx, q, reportID); err != nil {
			return err
		}

		affected, err := q.InsertReviewIfAbsent(txCtx, sqldb.InsertReviewIfAbsentParams{
			ReportID:       reportID,
			EaseFactor:     initial.EaseFactor,
			IntervalDays:   initial.IntervalDays,
			Repetitions:    initial.Repetitions,
			NextReviewDate: database.FormatDate(initial.NextReviewDate),
		})
		if err != nil {
			return storageError("queue report", err)
		}
		added = affected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// RemoveFromQueue deletes the review state of a report. Its history is kept.
func (s *ReviewService) RemoveFromQueue(ctx context.Context, reportID int64) error {
	q, err := queriesFor(s.ctx, "review service")
	if err != nil {
		return err
	}

	affected, err := q.DeleteReviewByReportID(ctx, reportID)
	if err != nil {
		return storageError("dequeue report", err)
	}
	if affected == 0 {
		return notFound("report %d is not queued", reportID)
	}
	return nil
}

// RecordReview grades one review of a report and reschedules it with SM-2.
// A report without review state starts from the defaults. The state update
// and the history entry are written in a single transaction.
func (s *ReviewService) RecordReview(ctx context.Context, reportID int64, quality int) (ReviewResult, error) {
	if !review.ValidQuality(quality) {
		return ReviewResult{}, invalidArgument("quality must be between %d and %d, got %d", review.MinQuality, review.MaxQuality, quality)
	}

	now := s.now()

	var result ReviewResult
	err := withTx(ctx, s.ctx, "review service", func(txCtx context.Context, q *sqldb.Queries) error {
		if err := ensureReport(txCtx, q, reportID); err != nil {
			return err
		}

		current := review.NewState(now)
		row, err := q.FindReviewByReportID(txCtx, reportID)
		switch {
		case err == nil:
			record := database.ReviewStateRecordFromRow(row)
			current = review.State{
				EaseFactor:     record.EaseFactor,
				IntervalDays:   record.IntervalDays,
				Repetitions:    record.Repetitions,
				NextReviewDate: record.NextReviewDate,
				LastReviewDate: record.LastReviewDate,
			}
		case !errors.Is(err, sql.ErrNoRows):
			return storageError("find review", err)
		}

		next, err := review.Schedule(current, quality, now)
		if err != nil {
			return invalidArgument("%v", err)
		}

		if err := q.UpsertReview(txCtx, sqldb.UpsertReviewParams{
			ReportID:       reportID,
			EaseFactor:     next.EaseFactor,
			IntervalDays:   next.IntervalDays,
			Repetitions:    next.Repetitions,
			NextReviewDate: database.FormatDate(next.NextReviewDate),
			LastReviewDate: sql.NullString{String: database.FormatDate(now), Valid: true},
		}); err != nil {
			return storageError("save review", err)
		}

		if _, err := q.InsertReviewHistory(txCtx, sqldb.InsertReviewHistoryParams{
			ReportID:     reportID,
			Quality:      int64(quality),
			ReviewedAt:   database.FormatTimestamp(now),
			IntervalDays: next.IntervalDays,
			EaseFactor:   next.EaseFactor,
		}); err != nil {
			return storageError("append review history", err)
		}

		result = ReviewResult{
			ReportID:       reportID,
			NextReviewDate: next.NextReviewDate,
			IntervalDays:   next.IntervalDays,
			EaseFactor:     next.EaseFactor,
			Repetitions:    next.Repetitions,
		}
		return nil
	})
	if err != nil {
		return ReviewResult{}, err
	}
	return result, nil
}

// State returns the review state of a queued report.
func (s *ReviewService) State(ctx context.Context, reportID int64) (*database.ReviewStateRecord, error) {
	state, err := s.reviews.FindByReportID(ctx, reportID)
	if err != nil {
		return nil, storageError("get review state", err)
	}
	if state == nil {
		return nil, notFound("report %d is not queued", reportID)
	}
	return state, nil
}

// History lists past reviews of a report, newest first.
func (s *ReviewService) History(ctx context.Context, reportID int64, limit int) ([]database.ReviewHistoryRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	entries, err := s.reviews.History(ctx, reportID, int64(limit))
	if err != nil {
		return nil, storageError("list review history", err)
	}
	return entries, nil
}

// DueReviews lists queued reports whose next review is today or earlier,
// most overdue first.
func (s *ReviewService) DueReviews(ctx context.Context, limit int) ([]database.DueReviewRecord, error) {
	if limit <= 0 {
		limit = DefaultDueLimit
	}
	items, err := s.reviews.Due(ctx, s.now(), int64(limit))
	if err != nil {
		return nil, storageError("list due reviews", err)
	}
	return items, nil
}

// Stats computes queue statistics. StreakDays counts the days with at least
// one review in the last StreakWindowDays days; they need not be consecutive.
func (s *ReviewService) Stats(ctx context.Context) (ReviewStats, error) {
	today := review.Day(s.now())
	counts, err := s.reviews.Counts(ctx, today, today.AddDate(0, 0, -(StreakWindowDays-1)))
	if err != nil {
		return ReviewStats{}, storageError("review stats", err)
	}

	stats := ReviewStats{
		DueCount:      counts.Due,
		TotalInQueue:  counts.Total,
		ReviewedToday: counts.ReviewedToday,
		StreakDays:    counts.ActiveDays,
		AverageEase:   review.DefaultEase,
	}
	if counts.HasAverageEase {
		stats.AverageEase = counts.AverageEase
	}
	return stats, nil
}

func ensureReport(ctx context.Context, q *sqldb.Queries, reportID int64) error {
	exists, err := q.ReportExists(ctx, reportID)
	if err != nil {
		return storageError("find report", err)
	}
	if !exists {
		return notFound("report %d", reportID)
	}
	return nil
}
