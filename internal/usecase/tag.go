package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/choplin/cerebro/internal/database"
	"github.com/choplin/cerebro/internal/services"
)

type Tag struct {
	tags *services.TagService
}

func NewTag(dbCtx *database.Context) *Tag {
	return &Tag{tags: services.NewTagService(dbCtx)}
}

func (u *Tag) Create(ctx context.Context, name, color string) (*database.TagRecord, error) {
	return u.tags.Create(ctx, name, color)
}

func (u *Tag) List(ctx context.Context) ([]database.TagRecord, error) {
	return u.tags.List(ctx)
}

// Delete removes the tag named or numbered by ref.
func (u *Tag) Delete(ctx context.Context, ref string) (*database.TagRecord, error) {
	tag, err := resolveTag(ctx, u.tags, ref)
	if err != nil {
		return nil, err
	}
	return tag, u.tags.Delete(ctx, tag.ID)
}

// Update renames the tag and replaces its color. An empty name keeps the
// current one.
func (u *Tag) Update(ctx context.Context, ref, name, color string) (*database.TagRecord, error) {
	tag, err := resolveTag(ctx, u.tags, ref)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = tag.Name
	}
	if err := u.tags.Update(ctx, tag.ID, name, color); err != nil {
		return nil, err
	}
	return u.tags.Get(ctx, tag.ID)
}

// Attach links the tag to a report, creating the tag first when ref names
// one that does not exist yet.
func (u *Tag) Attach(ctx context.Context, reportID int64, ref string) (*database.TagRecord, error) {
	tag, err := resolveTag(ctx, u.tags, ref)
	if err != nil {
		if _, numeric := parseRefID(ref); numeric || !errors.Is(err, services.ErrNotFound) {
			return nil, err
		}
		if tag, err = u.tags.Create(ctx, ref, ""); err != nil {
			return nil, err
		}
	}
	return tag, u.tags.Attach(ctx, reportID, tag.ID)
}

func (u *Tag) Detach(ctx context.Context, reportID int64, ref string) (bool, error) {
	tag, err := resolveTag(ctx, u.tags, ref)
	if err != nil {
		return false, err
	}
	return u.tags.Detach(ctx, reportID, tag.ID)
}

// resolveTag accepts a numeric id or a case-insensitive name.
func resolveTag(ctx context.Context, tags *services.TagService, ref string) (*database.TagRecord, error) {
	ref = strings.TrimSpace(ref)
	if id, ok := parseRefID(ref); ok {
		return tags.Get(ctx, id)
	}

	all, err := tags.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if strings.EqualFold(all[i].Name, ref) {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%w: tag %q", services.ErrNotFound, ref)
}

func parseRefID(ref string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(ref), 10, 64)
	return id, err == nil && id > 0
}
