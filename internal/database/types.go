package database

import (
	"time"

	"github.com/choplin/cerebro/internal/category"
)

// ReportRecord represents a row in the reports table. Each report indexes a
// single markdown file below the reports root.
type ReportRecord struct {
	ID             int64
	Filename       string
	FilePath       string
	Title          string
	SourceURL      string
	ContentType    category.ContentType
	CreatedAt      time.Time
	IndexedAt      time.Time
	FileModifiedAt time.Time
	Summary        string
	WordCount      int64
	ContentText    string
	IsFavorite     bool
}

// SearchHit is a report matched by full-text search together with the
// highlighted excerpt around the match.
type SearchHit struct {
	Report  ReportRecord
	Snippet string
}

// ReportFilter narrows report listings. Zero values disable a criterion.
type ReportFilter struct {
	ContentType   category.ContentType
	FavoritesOnly bool
	TagID         int64
	CollectionID  int64
}

// ReviewStateRecord mirrors the reviews table: the SM-2 scheduling state of
// one report.
type ReviewStateRecord struct {
	ID             int64
	ReportID       int64
	EaseFactor     float64
	IntervalDays   int64
	Repetitions    int64
	NextReviewDate time.Time
	LastReviewDate *time.Time
}

// ReviewHistoryRecord is one immutable row of review_history.
type ReviewHistoryRecord struct {
	ID           int64
	ReportID     int64
	Quality      int64
	ReviewedAt   time.Time
	IntervalDays int64
	EaseFactor   float64
}

// DueReviewRecord joins a review state with the report metadata shown in the
// due queue.
type DueReviewRecord struct {
	State       ReviewStateRecord
	Title       string
	ContentType category.ContentType
	SourceURL   string
	Summary     string
}

// TagRecord mirrors the tags table.
type TagRecord struct {
	ID          int64
	Name        string
	Color       string
	CreatedAt   time.Time
	ReportCount int64
}

// CollectionRecord mirrors the collections table.
type CollectionRecord struct {
	ID          int64
	Name        string
	Description string
	Color       string
	CreatedAt   time.Time
	ReportCount int64
}
