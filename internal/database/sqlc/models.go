package sqldb

import "database/sql"

// Report mirrors a row of the reports table.
type Report struct {
	ID             int64
	Filename       string
	Filepath       string
	Title          string
	SourceUrl      sql.NullString
	ContentType    string
	CreatedAt      string
	IndexedAt      string
	FileModifiedAt string
	Summary        sql.NullString
	WordCount      int64
	ContentText    string
	IsFavorite     int64
}

// Review mirrors a row of the reviews table.
type Review struct {
	ID             int64
	ReportID       int64
	EaseFactor     float64
	IntervalDays   int64
	Repetitions    int64
	NextReviewDate string
	LastReviewDate sql.NullString
}

// ReviewHistory mirrors a row of the review_history table.
type ReviewHistory struct {
	ID           int64
	ReportID     int64
	Quality      int64
	ReviewedAt   string
	IntervalDays int64
	EaseFactor   float64
}

// Tag mirrors a row of the tags table.
type Tag struct {
	ID        int64
	Name      string
	Color     sql.NullString
	CreatedAt string
}

// Collection mirrors a row of the collections table.
type Collection struct {
	ID          int64
	Name        string
	Description sql.NullString
	Color       sql.NullString
	CreatedAt   string
}
