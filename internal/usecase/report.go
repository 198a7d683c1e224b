package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/choplin/cerebro/internal/category"
	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/filesystem"
	"github.com/choplin/cerebro/internal/indexer"
	"github.com/choplin/cerebro/internal/logging"
	"github.com/choplin/cerebro/internal/services"
)

// Report combines the index with the reports directory it mirrors.
type Report struct {
	root        string
	reports     *services.ReportService
	reviews     *services.ReviewService
	tags        *services.TagService
	collections *services.CollectionService
	indexer     *indexer.Indexer
}

func NewReport(dbCtx *database.Context, root string) *Report {
	reports := services.NewReportService(dbCtx)
	ix := indexer.New(root, reports)
	return &Report{
		root:        ix.Root(),
		reports:     reports,
		reviews:     services.NewReviewService(dbCtx),
		tags:        services.NewTagService(dbCtx),
		collections: services.NewCollectionService(dbCtx),
		indexer:     ix,
	}
}

// Indexer exposes the indexer for the watch command.
func (u *Report) Indexer() *indexer.Indexer {
	return u.indexer
}

// Count returns the number of indexed reports.
func (u *Report) Count(ctx context.Context) (int64, error) {
	return u.reports.Count(ctx, database.ReportFilter{})
}

// Sync runs a full index of the reports directory.
func (u *Report) Sync(ctx context.Context) (indexer.Summary, error) {
	return u.indexer.IndexAll(ctx)
}

// IndexFile indexes one file, deriving its content type from its directory.
func (u *Report) IndexFile(ctx context.Context, path string) (services.UpsertResult, error) {
	contentType, ok := u.indexer.ContentTypeForPath(path)
	if !ok {
		return services.Unchanged, fmt.Errorf("%w: %s is not inside a content-type directory of %s", services.ErrInvalidArgument, path, u.root)
	}
	return u.indexer.IndexFile(ctx, path, contentType)
}

// Forget drops the index row of a report file that no longer exists on disk.
func (u *Report) Forget(ctx context.Context, path string) (bool, error) {
	if filesystem.FileExists(path) {
		return false, fmt.Errorf("%w: %s still exists", services.ErrInvalidArgument, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	return u.reports.DeleteByPath(ctx, abs)
}

// Resolve maps a numeric id, a report path or a bare filename to the report id.
func (u *Report) Resolve(ctx context.Context, ref string) (int64, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return id, nil
	}

	var (
		record *database.ReportRecord
		err    error
	)
	if strings.ContainsRune(ref, filepath.Separator) {
		abs, absErr := filepath.Abs(ref)
		if absErr != nil {
			return 0, absErr
		}
		record, err = u.reports.GetByPath(ctx, abs)
	} else {
		record, err = u.reports.GetByFilename(ctx, ref)
	}
	if err != nil {
		return 0, err
	}
	return record.ID, nil
}

type ListInput struct {
	Type          string
	FavoritesOnly bool
	Tag           string
	Collection    string
	Page          int
	PageSize      int
}

func (u *Report) List(ctx context.Context, input ListInput) (services.ReportPage, error) {
	filter := database.ReportFilter{FavoritesOnly: input.FavoritesOnly}
	if input.Type != "" {
		t, err := category.Parse(input.Type)
		if err != nil {
			return services.ReportPage{}, fmt.Errorf("%w: %v", services.ErrInvalidArgument, err)
		}
		filter.ContentType = t
	}
	if input.Tag != "" {
		tag, err := resolveTag(ctx, u.tags, input.Tag)
		if err != nil {
			return services.ReportPage{}, err
		}
		filter.TagID = tag.ID
	}
	if input.Collection != "" {
		collection, err := resolveCollection(ctx, u.collections, input.Collection)
		if err != nil {
			return services.ReportPage{}, err
		}
		filter.CollectionID = collection.ID
	}
	return u.reports.List(ctx, filter, input.Page, input.PageSize)
}

func (u *Report) Recent(ctx context.Context, limit int) ([]database.ReportRecord, error) {
	return u.reports.Recent(ctx, limit)
}

func (u *Report) Search(ctx context.Context, query string, limit int) ([]database.SearchHit, error) {
	return u.reports.Search(ctx, query, limit)
}

// Detail is a report with everything attached to it.
type Detail struct {
	Report      database.ReportRecord
	Tags        []database.TagRecord
	Collections []database.CollectionRecord
	Review      *database.ReviewStateRecord
	Content     string
}

// Get loads a report, its tags, collections and review state. When withContent is set the
// markdown file is read too; a missing file leaves Content empty.
func (u *Report) Get(ctx context.Context, id int64, withContent bool) (*Detail, error) {
	record, err := u.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tags, err := u.tags.ForReport(ctx, id)
	if err != nil {
		return nil, err
	}

	collections, err := u.collections.ForReport(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Report: *record, Tags: tags, Collections: collections}

	state, err := u.reviews.State(ctx, id)
	switch {
	case err == nil:
		detail.Review = state
	case !errors.Is(err, services.ErrNotFound):
		return nil, err
	}

	if withContent {
		content, err := filesystem.ReadFile(record.FilePath)
		switch {
		case err == nil:
			detail.Content = content
		case os.IsNotExist(err):
			logging.Warn("report file is missing", "id", id, "path", record.FilePath)
		default:
			return nil, err
		}
	}

	return detail, nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (u *Report) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	return u.reports.ToggleFavorite(ctx, id)
}

func (u *Report) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	return u.reports.SetFavorite(ctx, id, favorite)
}

// Move relocates the report file into the directory of another content type
// and records the new location. The file is moved back if the index update fails.
func (u *Report) Move(ctx context.Context, id int64, typeName string) (*database.ReportRecord, error) {
	target, err := category.Parse(typeName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrInvalidArgument, err)
	}

	record, err := u.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.ContentType == target {
		return record, nil
	}

	newPath, err := filesystem.MoveReport(u.root, record.FilePath, target)
	if err != nil {
		return nil, fmt.Errorf("failed to move %s: %w", record.FilePath, err)
	}

	if err := u.reports.Move(ctx, id, target, newPath); err != nil {
		if _, rbErr := filesystem.MoveReport(u.root, newPath, record.ContentType); rbErr != nil {
			return nil, fmt.Errorf("%w (restoring file failed: %w)", err, rbErr)
		}
		return nil, err
	}

	return u.reports.GetByID(ctx, id)
}

// Delete removes the report from the index and, unless keepFile is set, from disk.
func (u *Report) Delete(ctx context.Context, id int64, keepFile bool) (*database.ReportRecord, error) {
	record, err := u.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := u.reports.Delete(ctx, id); err != nil {
		return nil, err
	}

	if !keepFile {
		if err := filesystem.DeleteFile(record.FilePath); err != nil {
			return record, fmt.Errorf("report removed from index but file deletion failed: %w", err)
		}
	}
	return record, nil
}
