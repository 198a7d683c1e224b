package database

import (
	"github.com/choplin/cerebro/internal/category"
	sqldb "github.com/choplin/cerebro/internal/database/sqlc"
)

// ReportRecordFromRow converts a database report row to a ReportRecord.
func ReportRecordFromRow(row sqldb.Report) ReportRecord {
	return ReportRecord{
		ID:             row.ID,
		Filename:       row.Filename,
		FilePath:       row.Filepath,
		Title:          row.Title,
		SourceURL:      optionalString(row.SourceUrl),
		ContentType:    category.ContentType(row.ContentType),
		CreatedAt:      parseTimestamp(row.CreatedAt),
		IndexedAt:      parseTimestamp(row.IndexedAt),
		FileModifiedAt: parseTimestamp(row.FileModifiedAt),
		Summary:        optionalString(row.Summary),
		WordCount:      row.WordCount,
		ContentText:    row.ContentText,
		IsFavorite:     row.IsFavorite != 0,
	}
}

// ReviewStateRecordFromRow converts a reviews row to a ReviewStateRecord.
func ReviewStateRecordFromRow(row sqldb.Review) ReviewStateRecord {
	return ReviewStateRecord{
		ID:             row.ID,
		ReportID:       row.ReportID,
		EaseFactor:     row.EaseFactor,
		IntervalDays:   row.IntervalDays,
		Repetitions:    row.Repetitions,
		NextReviewDate: parseDate(row.NextReviewDate),
		LastReviewDate: optionalDate(row.LastReviewDate),
	}
}

// ReviewHistoryRecordFromRow converts a review_history row.
func ReviewHistoryRecordFromRow(row sqldb.ReviewHistory) ReviewHistoryRecord {
	return ReviewHistoryRecord{
		ID:           row.ID,
		ReportID:     row.ReportID,
		Quality:      row.Quality,
		ReviewedAt:   parseTimestamp(row.ReviewedAt),
		IntervalDays: row.IntervalDays,
		EaseFactor:   row.EaseFactor,
	}
}

// DueReviewRecordFromRow converts a due-queue join row.
func DueReviewRecordFromRow(row sqldb.ListDueReviewsRow) DueReviewRecord {
	return DueReviewRecord{
		State:       ReviewStateRecordFromRow(row.Review),
		Title:       row.Title,
		ContentType: category.ContentType(row.ContentType),
		SourceURL:   optionalString(row.SourceUrl),
		Summary:     optionalString(row.Summary),
	}
}

// TagRecordFromRow converts a tags row.
func TagRecordFromRow(row sqldb.Tag) TagRecord {
	return TagRecord{
		ID:        row.ID,
		Name:      row.Name,
		Color:     optionalString(row.Color),
		CreatedAt: parseTimestamp(row.CreatedAt),
	}
}

// CollectionRecordFromRow converts a collections row.
func CollectionRecordFromRow(row sqldb.Collection) CollectionRecord {
	return CollectionRecord{
		ID:          row.ID,
		Name:        row.Name,
		Description: optionalString(row.Description),
		Color:       optionalString(row.Color),
		CreatedAt:   parseTimestamp(row.CreatedAt),
	}
}

// ReportInsertParams builds insert parameters for a new report row.
func ReportInsertParams(r ReportRecord) sqldb.InsertReportParams {
	return sqldb.InsertReportParams{
		Filename:       r.Filename,
		Filepath:       r.FilePath,
		Title:          r.Title,
		SourceUrl:      nullString(r.SourceURL),
		ContentType:    string(r.ContentType),
		CreatedAt:      FormatTimestamp(r.CreatedAt),
		IndexedAt:      FormatTimestamp(r.IndexedAt),
		FileModifiedAt: FormatModTime(r.FileModifiedAt),
		Summary:        nullString(r.Summary),
		WordCount:      r.WordCount,
		ContentText:    r.ContentText,
	}
}

// ReportUpdateParams builds the full-row update used when a file changed.
func ReportUpdateParams(r ReportRecord) sqldb.UpdateReportByFilenameParams {
	return sqldb.UpdateReportByFilenameParams{
		Filepath:       r.FilePath,
		Title:          r.Title,
		SourceUrl:      nullString(r.SourceURL),
		ContentType:    string(r.ContentType),
		CreatedAt:      FormatTimestamp(r.CreatedAt),
		FileModifiedAt: FormatModTime(r.FileModifiedAt),
		Summary:        nullString(r.Summary),
		WordCount:      r.WordCount,
		ContentText:    r.ContentText,
		IndexedAt:      FormatTimestamp(r.IndexedAt),
		Filename:       r.Filename,
	}
}

// ReportFilterParams converts a ReportFilter to query parameters.
func ReportFilterParams(f ReportFilter) sqldb.ReportFilterParams {
	return sqldb.ReportFilterParams{
		ContentType:   string(f.ContentType),
		FavoritesOnly: f.FavoritesOnly,
		TagID:         f.TagID,
		CollectionID:  f.CollectionID,
	}
}
