package services

import (
	"context"
	"fmt"

	"github.com/choplin/cerebro/internal/database"
	sqldb "github.com/choplin/cerebro/internal/database/sqlc"
)

// withTx runs fn inside one transaction. Connections are opened with
// _txlock=immediate, so the write lock is taken at BEGIN and concurrent
// read-modify-write sequences on the same rows serialise.
func withTx(ctx context.Context, dbCtx *database.Context, name string, fn func(context.Context, *sqldb.Queries) error) error {
	if dbCtx == nil || dbCtx.DB == nil {
		return fmt.Errorf("%s: missing database context", name)
	}

	tx, err := dbCtx.DB.BeginTx(ctx, nil)
	if err != nil {
		return storageError(name+": begin", err)
	}

	queries := sqldb.New(tx)

	if err := fn(ctx, queries); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return storageError(name+": commit", err)
	}

	return nil
}

func queriesFor(dbCtx *database.Context, name string) (*sqldb.Queries, error) {
	if dbCtx == nil {
		return nil, fmt.Errorf("%s: missing database context", name)
	}
	if dbCtx.Queries == nil {
		if dbCtx.DB == nil {
			return nil, fmt.Errorf("%s: database handle not initialised", name)
		}
		dbCtx.Queries = sqldb.New(dbCtx.DB)
	}
	return dbCtx.Queries, nil
}
