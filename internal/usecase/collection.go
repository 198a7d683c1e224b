package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/services"
)

type Collection struct {
	collections *services.CollectionService
	reports     *services.ReportService
}

func NewCollection(dbCtx *database.Context) *Collection {
	return &Collection{
		collections: services.NewCollectionService(dbCtx),
		reports:     services.NewReportService(dbCtx),
	}
}

func (u *Collection) Create(ctx context.Context, name, description, color string) (*database.CollectionRecord, error) {
	return u.collections.Create(ctx, name, description, color)
}

func (u *Collection) List(ctx context.Context) ([]database.CollectionRecord, error) {
	return u.collections.List(ctx)
}

// CollectionDetail is a collection with one page of its reports.
type CollectionDetail struct {
	Collection database.CollectionRecord
	Reports    services.ReportPage
}

// Show resolves ref and lists the reports it contains, newest first.
func (u *Collection) Show(ctx context.Context, ref string, page, pageSize int) (*CollectionDetail, error) {
	collection, err := resolveCollection(ctx, u.collections, ref)
	if err != nil {
		return nil, err
	}
	reports, err := u.reports.List(ctx, database.ReportFilter{CollectionID: collection.ID}, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &CollectionDetail{Collection: *collection, Reports: reports}, nil
}

func (u *Collection) Update(ctx context.Context, ref string, changes services.CollectionChanges) (*database.CollectionRecord, error) {
	collection, err := resolveCollection(ctx, u.collections, ref)
	if err != nil {
		return nil, err
	}
	return u.collections.Update(ctx, collection.ID, changes)
}

// Delete removes the collection named or numbered by ref.
func (u *Collection) Delete(ctx context.Context, ref string) (*database.CollectionRecord, error) {
	collection, err := resolveCollection(ctx, u.collections, ref)
	if err != nil {
		return nil, err
	}
	return collection, u.collections.Delete(ctx, collection.ID)
}

func (u *Collection) Add(ctx context.Context, ref string, reportID int64) (*database.CollectionRecord, error) {
	collection, err := resolveCollection(ctx, u.collections, ref)
	if err != nil {
		return nil, err
	}
	return collection, u.collections.AddReport(ctx, collection.ID, reportID)
}

func (u *Collection) Remove(ctx context.Context, ref string, reportID int64) (bool, error) {
	collection, err := resolveCollection(ctx, u.collections, ref)
	if err != nil {
		return false, err
	}
	return u.collections.RemoveReport(ctx, collection.ID, reportID)
}

// resolveCollection accepts a numeric id or a case-insensitive name.
func resolveCollection(ctx context.Context, collections *services.CollectionService, ref string) (*database.CollectionRecord, error) {
	ref = strings.TrimSpace(ref)
	if id, ok := parseRefID(ref); ok {
		return collections.Get(ctx, id)
	}

	all, err := collections.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if strings.EqualFold(all[i].Name, ref) {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%w: collection %q", services.ErrNotFound, ref)
}
