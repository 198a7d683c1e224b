package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/choplin/cerebro/internal/database"
	sqldb "github.com/choplin/cerebro/internal/database/sqlc"
)

// TagService manages tags and their links to reports.
type TagService struct {
	ctx  *database.Context
	tags *database.TagRepository
	now  func() time.Time
}

// NewTagService creates a new TagService.
func NewTagService(ctx *database.Context) *TagService {
	return &TagService{
		ctx:  ctx,
		tags: database.NewTagRepository(ctx),
		now:  time.Now,
	}
}

// Create adds a tag. Names are unique regardless of case.
func (s *TagService) Create(ctx context.Context, name, color string) (*database.TagRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidArgument("tag name is required")
	}

	q, err := queriesFor(s.ctx, "tag service")
	if err != nil {
		return nil, err
	}

	res, err := q.InsertTag(ctx, sqldb.InsertTagParams{
		Name:      name,
		Color:     optionalText(color),
		CreatedAt: database.FormatTimestamp(s.now()),
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, invalidArgument("tag %q already exists", name)
		}
		return nil, storageError("create tag", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, storageError("create tag", err)
	}
	return s.Get(ctx, id)
}

// Get returns a tag or ErrNotFound.
func (s *TagService) Get(ctx context.Context, id int64) (*database.TagRecord, error) {
	tag, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return nil, storageError("get tag", err)
	}
	if tag == nil {
		return nil, notFound("tag %d", id)
	}
	return tag, nil
}

// List returns all tags ordered by name, each with its report count.
func (s *TagService) List(ctx context.Context) ([]database.TagRecord, error) {
	tags, err := s.tags.ListWithCounts(ctx)
	if err != nil {
		return nil, storageError("list tags", err)
	}
	return tags, nil
}

// Update renames and recolors a tag.
func (s *TagService) Update(ctx context.Context, id int64, name, color string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalidArgument("tag name is required")
	}

	q, err := queriesFor(s.ctx, "tag service")
	if err != nil {
		return err
	}

	affected, err := q.UpdateTag(ctx, sqldb.UpdateTagParams{Name: name, Color: optionalText(color), ID: id})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return invalidArgument("tag %q already exists", name)
		}
		return storageError("update tag", err)
	}
	if affected == 0 {
		return notFound("tag %d", id)
	}
	return nil
}

// Delete removes a tag and its links.
func (s *TagService) Delete(ctx context.Context, id int64) error {
	q, err := queriesFor(s.ctx, "tag service")
	if err != nil {
		return err
	}

	affected, err := q.DeleteTagByID(ctx, id)
	if err != nil {
		return storageError("delete tag", err)
	}
	if affected == 0 {
		return notFound("tag %d", id)
	}
	return nil
}

// Attach links a tag to a report. Attaching twice is a no-op.
func (s *TagService) Attach(ctx context.Context, reportID, tagID int64) error {
	return withTx(ctx, s.ctx, "tag service", func(txCtx context.Context, q *sqldb.Queries) error {
		if err := ensureReport(txCtx, q, reportID); err != nil {
			return err
		}
		if _, err := q.FindTagByID(txCtx, tagID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("tag %d", tagID)
			}
			return storageError("find tag", err)
		}

		if _, err := q.AttachTag(txCtx, sqldb.ReportTagParams{ReportID: reportID, TagID: tagID}); err != nil {
			return storageError("attach tag", err)
		}
		return nil
	})
}

// Detach unlinks a tag from a report, reporting whether a link existed.
func (s *TagService) Detach(ctx context.Context, reportID, tagID int64) (bool, error) {
	q, err := queriesFor(s.ctx, "tag service")
	if err != nil {
		return false, err
	}

	affected, err := q.DetachTag(ctx, sqldb.ReportTagParams{ReportID: reportID, TagID: tagID})
	if err != nil {
		return false, storageError("detach tag", err)
	}
	return affected > 0, nil
}

// ForReport lists the tags attached to a report.
func (s *TagService) ForReport(ctx context.Context, reportID int64) ([]database.TagRecord, error) {
	tags, err := s.tags.ForReport(ctx, reportID)
	if err != nil {
		return nil, storageError("list report tags", err)
	}
	return tags, nil
}

// optionalText trims value and stores blanks as NULL.
func optionalText(value string) sql.NullString {
	value = strings.TrimSpace(value)
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
