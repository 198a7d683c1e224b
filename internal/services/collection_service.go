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

// CollectionChanges lists the fields to change on a collection. Nil fields are
// left untouched; an empty description or color clears it.
type CollectionChanges struct {
	Name        *string
	Description *string
	Color       *string
}

// CollectionService manages named groups of reports.
type CollectionService struct {
	ctx         *database.Context
	collections *database.CollectionRepository
	now         func() time.Time
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(ctx *database.Context) *CollectionService {
	return &CollectionService{
		ctx:         ctx,
		collections: database.NewCollectionRepository(ctx),
		now:         time.Now,
	}
}

// Create adds a collection. Names are unique regardless of case.
func (s *CollectionService) Create(ctx context.Context, name, description, color string) (*database.CollectionRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidArgument("collection name is required")
	}

	q, err := queriesFor(s.ctx, "collection service")
	if err != nil {
		return nil, err
	}

	res, err := q.InsertCollection(ctx, sqldb.InsertCollectionParams{
		Name:        name,
		Description: optionalText(description),
		Color:       optionalText(color),
		CreatedAt:   database.FormatTimestamp(s.now()),
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, invalidArgument("collection %q already exists", name)
		}
		return nil, storageError("create collection", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, storageError("create collection", err)
	}
	return s.Get(ctx, id)
}

// Get returns a collection with its report count, or ErrNotFound.
func (s *CollectionService) Get(ctx context.Context, id int64) (*database.CollectionRecord, error) {
	collection, err := s.collections.FindByID(ctx, id)
	if err != nil {
		return nil, storageError("get collection", err)
	}
	if collection == nil {
		return nil, notFound("collection %d", id)
	}
	return collection, nil
}

// List returns all collections ordered by name, each with its report count.
func (s *CollectionService) List(ctx context.Context) ([]database.CollectionRecord, error) {
	collections, err := s.collections.ListWithCounts(ctx)
	if err != nil {
		return nil, storageError("list collections", err)
	}
	return collections, nil
}

// Update applies changes to a collection and returns the stored result.
func (s *CollectionService) Update(ctx context.Context, id int64, changes CollectionChanges) (*database.CollectionRecord, error) {
	err := withTx(ctx, s.ctx, "collection service", func(txCtx context.Context, q *sqldb.Queries) error {
		row, err := q.FindCollectionByID(txCtx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("collection %d", id)
			}
			return storageError("find collection", err)
		}

		params := sqldb.UpdateCollectionParams{
			Name:        row.Collection.Name,
			Description: row.Collection.Description,
			Color:       row.Collection.Color,
			ID:          id,
		}
		if changes.Name != nil {
			params.Name = strings.TrimSpace(*changes.Name)
			if params.Name == "" {
				return invalidArgument("collection name is required")
			}
		}
		if changes.Description != nil {
			params.Description = optionalText(*changes.Description)
		}
		if changes.Color != nil {
			params.Color = optionalText(*changes.Color)
		}

		if _, err := q.UpdateCollection(txCtx, params); err != nil {
			if database.IsUniqueViolation(err) {
				return invalidArgument("collection %q already exists", params.Name)
			}
			return storageError("update collection", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a collection and its memberships. Reports are untouched.
func (s *CollectionService) Delete(ctx context.Context, id int64) error {
	q, err := queriesFor(s.ctx, "collection service")
	if err != nil {
		return err
	}

	affected, err := q.DeleteCollectionByID(ctx, id)
	if err != nil {
		return storageError("delete collection", err)
	}
	if affected == 0 {
		return notFound("collection %d", id)
	}
	return nil
}

// AddReport puts a report in a collection. Adding twice is a no-op.
func (s *CollectionService) AddReport(ctx context.Context, collectionID, reportID int64) error {
	return withTx(ctx, s.ctx, "collection service", func(txCtx context.Context, q *sqldb.Queries) error {
		if err := ensureReport(txCtx, q, reportID); err != nil {
			return err
		}
		if _, err := q.FindCollectionByID(txCtx, collectionID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("collection %d", collectionID)
			}
			return storageError("find collection", err)
		}

		if _, err := q.AddReportToCollection(txCtx, sqldb.AddReportToCollectionParams{
			ReportID:     reportID,
			CollectionID: collectionID,
			AddedAt:      database.FormatTimestamp(s.now()),
		}); err != nil {
			return storageError("add report to collection", err)
		}
		return nil
	})
}

// RemoveReport takes a report out of a collection, reporting whether it was
// a member.
func (s *CollectionService) RemoveReport(ctx context.Context, collectionID, reportID int64) (bool, error) {
	q, err := queriesFor(s.ctx, "collection service")
	if err != nil {
		return false, err
	}

	affected, err := q.RemoveReportFromCollection(ctx, sqldb.RemoveReportFromCollectionParams{
		ReportID:     reportID,
		CollectionID: collectionID,
	})
	if err != nil {
		return false, storageError("remove report from collection", err)
	}
	return affected > 0, nil
}

// ForReport lists the collections containing a report.
func (s *CollectionService) ForReport(ctx context.Context, reportID int64) ([]database.CollectionRecord, error) {
	collections, err := s.collections.ForReport(ctx, reportID)
	if err != nil {
		return nil, storageError("list report collections", err)
	}
	return collections, nil
}
