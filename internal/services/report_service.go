package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/choplin/cerebro/internal/category"
	"github.com/choplin/cerebro/internal/database"
	sqldb "github.com/choplin/cerebro/internal/database/sqlc"
)

const (
	DefaultPageSize    = 20
	MaxPageSize        = 100
	DefaultSearchLimit = 20
)

// ReportInput carries the fields the indexer derives from one markdown file.
type ReportInput struct {
	Filename       string
	FilePath       string
	Title          string
	SourceURL      string
	ContentType    category.ContentType
	CreatedAt      time.Time
	FileModifiedAt time.Time
	Summary        string
	WordCount      int64
	ContentText    string
}

// UpsertResult tells what Upsert did with the row.
type UpsertResult int

const (
	Unchanged UpsertResult = iota
	Inserted
	Updated
)

func (r UpsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	default:
		return "unchanged"
	}
}

// ReportPage is one page of a report listing.
type ReportPage struct {
	Items      []database.ReportRecord
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// ReportService owns every write to the reports table.
type ReportService struct {
	ctx     *database.Context
	reports *database.ReportRepository
	now     func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(ctx *database.Context) *ReportService {
	return &ReportService{
		ctx:     ctx,
		reports: database.NewReportRepository(ctx),
		now:     time.Now,
	}
}

// WithClock replaces the time source used for indexed_at.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// Upsert inserts the report if its filename is unknown, rewrites it if the
// stored modification time differs, and otherwise leaves the row untouched.
func (s *ReportService) Upsert(ctx context.Context, in ReportInput) (UpsertResult, error) {
	if in.Filename == "" || in.FilePath == "" {
		return Unchanged, invalidArgument("report filename and path are required")
	}
	if !in.ContentType.Valid() {
		return Unchanged, invalidArgument("unknown content type %q", in.ContentType)
	}

	record := database.ReportRecord{
		Filename:       in.Filename,
		FilePath:       in.FilePath,
		Title:          in.Title,
		SourceURL:      in.SourceURL,
		ContentType:    in.ContentType,
		CreatedAt:      in.CreatedAt,
		IndexedAt:      s.now(),
		FileModifiedAt: in.FileModifiedAt,
		Summary:        in.Summary,
		WordCount:      in.WordCount,
		ContentText:    in.ContentText,
	}

	result := Unchanged
	err := withTx(ctx, s.ctx, "report service", func(txCtx context.Context, q *sqldb.Queries) error {
		stored, err := database.StoredModTime(txCtx, q, in.Filename)
		switch {
		case errors.Is(err, database.ErrNotFound):
			if _, err := q.InsertReport(txCtx, database.ReportInsertParams(record)); err != nil {
				return storageError("insert report", err)
			}
			result = Inserted
			return nil
		case err != nil:
			return storageError("find report", err)
		}

		if stored == database.FormatModTime(in.FileModifiedAt) {
			return nil
		}

		if _, err := q.UpdateReportByFilename(txCtx, database.ReportUpdateParams(record)); err != nil {
			return storageError("update report", err)
		}
		result = Updated
		return nil
	})
	if err != nil {
		return Unchanged, err
	}
	return result, nil
}

// GetByID returns the report or ErrNotFound.
func (s *ReportService) GetByID(ctx context.Context, id int64) (*database.ReportRecord, error) {
	record, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, storageError("get report", err)
	}
	if record == nil {
		return nil, notFound("report %d", id)
	}
	return record, nil
}

// GetByFilename returns the report indexed from filename or ErrNotFound.
func (s *ReportService) GetByFilename(ctx context.Context, filename string) (*database.ReportRecord, error) {
	record, err := s.reports.FindByFilename(ctx, filename)
	if err != nil {
		return nil, storageError("get report", err)
	}
	if record == nil {
		return nil, notFound("report %q", filename)
	}
	return record, nil
}

// GetByPath returns the report stored at the absolute path or ErrNotFound.
func (s *ReportService) GetByPath(ctx context.Context, path string) (*database.ReportRecord, error) {
	record, err := s.reports.FindByFilePath(ctx, path)
	if err != nil {
		return nil, storageError("get report", err)
	}
	if record == nil {
		return nil, notFound("report at %s", path)
	}
	return record, nil
}

// List returns one page of reports, newest first. Page numbers start at 1.
func (s *ReportService) List(ctx context.Context, filter database.ReportFilter, page, pageSize int) (ReportPage, error) {
	if filter.ContentType != "" && !filter.ContentType.Valid() {
		return ReportPage{}, invalidArgument("unknown content type %q", filter.ContentType)
	}
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize <= 0:
		pageSize = DefaultPageSize
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}

	total, err := s.reports.Count(ctx, filter)
	if err != nil {
		return ReportPage{}, storageError("count reports", err)
	}

	items, err := s.reports.List(ctx, filter, int64(pageSize), int64((page-1)*pageSize))
	if err != nil {
		return ReportPage{}, storageError("list reports", err)
	}

	return ReportPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

// Recent returns the newest reports.
func (s *ReportService) Recent(ctx context.Context, limit int) ([]database.ReportRecord, error) {
	page, err := s.List(ctx, database.ReportFilter{}, 1, limit)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Count returns the number of reports matching filter.
func (s *ReportService) Count(ctx context.Context, filter database.ReportFilter) (int64, error) {
	total, err := s.reports.Count(ctx, filter)
	if err != nil {
		return 0, storageError("count reports", err)
	}
	return total, nil
}

// Search runs a full-text query over titles and bodies, best match first.
// Every whitespace-separated word must match as a prefix.
func (s *ReportService) Search(ctx context.Context, query string, limit int) ([]database.SearchHit, error) {
	match := MatchExpression(query)
	if match == "" {
		return []database.SearchHit{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	hits, err := s.reports.Search(ctx, match, int64(limit))
	if err != nil {
		return nil, storageError("search reports", err)
	}
	return hits, nil
}

// MatchExpression turns free text into an FTS5 query of quoted prefix terms.
// Words without any letter or digit are dropped.
func MatchExpression(query string) string {
	terms := make([]string, 0)
	for _, word := range strings.Fields(query) {
		word = strings.ReplaceAll(word, `"`, "")
		if strings.IndexFunc(word, isWordRune) < 0 {
			continue
		}
		terms = append(terms, `"`+word+`"*`)
	}
	return strings.Join(terms, " ")
}

// SetFavorite sets the favorite flag.
func (s *ReportService) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	q, err := queriesFor(s.ctx, "report service")
	if err != nil {
		return err
	}

	affected, err := q.UpdateReportFavorite(ctx, sqldb.UpdateReportFavoriteParams{
		IsFavorite: boolToInt64(favorite),
		ID:         id,
	})
	if err != nil {
		return storageError("set favorite", err)
	}
	if affected == 0 {
		return notFound("report %d", id)
	}
	return nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *ReportService) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	var favorite bool
	err := withTx(ctx, s.ctx, "report service", func(txCtx context.Context, q *sqldb.Queries) error {
		row, err := q.FindReportByID(txCtx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("report %d", id)
			}
			return storageError("find report", err)
		}

		favorite = row.IsFavorite == 0
		if _, err := q.UpdateReportFavorite(txCtx, sqldb.UpdateReportFavoriteParams{
			IsFavorite: boolToInt64(favorite),
			ID:         id,
		}); err != nil {
			return storageError("set favorite", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return favorite, nil
}

// Move records that the report file now lives at path under contentType.
// The file itself is moved by the caller.
func (s *ReportService) Move(ctx context.Context, id int64, contentType category.ContentType, path string) error {
	if !contentType.Valid() {
		return invalidArgument("unknown content type %q", contentType)
	}
	if path == "" {
		return invalidArgument("report path is required")
	}

	q, err := queriesFor(s.ctx, "report service")
	if err != nil {
		return err
	}

	affected, err := q.UpdateReportLocation(ctx, sqldb.UpdateReportLocationParams{
		Filepath:    path,
		ContentType: string(contentType),
		ID:          id,
	})
	if err != nil {
		return storageError("move report", err)
	}
	if affected == 0 {
		return notFound("report %d", id)
	}
	return nil
}

// Delete removes the report row. Review state, history, tag links and the
// search entry go with it.
func (s *ReportService) Delete(ctx context.Context, id int64) error {
	q, err := queriesFor(s.ctx, "report service")
	if err != nil {
		return err
	}

	affected, err := q.DeleteReportByID(ctx, id)
	if err != nil {
		return storageError("delete report", err)
	}
	if affected == 0 {
		return notFound("report %d", id)
	}
	return nil
}

// DeleteByPath removes the report indexed from path, reporting whether a row existed.
func (s *ReportService) DeleteByPath(ctx context.Context, path string) (bool, error) {
	q, err := queriesFor(s.ctx, "report service")
	if err != nil {
		return false, err
	}

	affected, err := q.DeleteReportByFilepath(ctx, path)
	if err != nil {
		return false, storageError("delete report", err)
	}
	return affected > 0, nil
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func boolToInt64(value bool) int64 {
	if value {
		return 1
	}
	return 0
}
