// Package migrations embeds the SQL migrations for the report index schema.
package migrations

import "embed"

// Files exposes the compiled-in migrations to golang-migrate's iofs source.
//
//go:embed *.sql
var Files embed.FS
