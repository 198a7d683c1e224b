package database

import (
	"database/sql"
	"time"

	sqldb "github.com/choplin/cerebro/internal/database/sqlc"
)

// Storage layouts. All times are stored as local wall-clock text so that
// lexical order matches chronological order.
const (
	TimestampLayout = "2006-01-02T15:04:05"
	ModTimeLayout   = "2006-01-02T15:04:05.999999999"
	DateLayout      = "2006-01-02"
)

// FormatTimestamp renders t in the layout used for created_at, indexed_at and reviewed_at.
func FormatTimestamp(t time.Time) string {
	return t.In(time.Local).Format(TimestampLayout)
}

// FormatModTime renders a file modification time with full precision so any
// change produces a different string.
func FormatModTime(t time.Time) string {
	return t.In(time.Local).Format(ModTimeLayout)
}

// FormatDate renders the calendar date of t.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(DateLayout)
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func optionalString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}

func parseTimestamp(value string) time.Time {
	for _, layout := range []string{ModTimeLayout, TimestampLayout, DateLayout} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseDate(value string) time.Time {
	t, err := time.ParseInLocation(DateLayout, value, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func optionalDate(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := parseDate(ns.String)
	return &t
}

func boolToInt64(value bool) int64 {
	if value {
		return 1
	}
	return 0
}

func queriesFromContext(ctx *Context) *sqldb.Queries {
	if ctx == nil {
		return nil
	}
	if ctx.Queries != nil {
		return ctx.Queries
	}
	if ctx.DB == nil {
		return nil
	}
	return sqldb.New(ctx.DB)
}
