// Package storage bootstraps the credential store: it locates or creates the
// store file, opens the configured backend and makes sure the schema exists.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/boltdb/bolt"
	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/config"
	"github.com/dmitrijs2005/credkeeper/internal/filex"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/repositories/users"

	_ "modernc.org/sqlite"
)

// sqliteMaxOpenConns caps the pool. SQLite allows one writer at a time, so
// more connections only add lock contention.
const sqliteMaxOpenConns = 4

// Open returns a ready-to-use repository for cfg and the handle that must be
// closed when the caller is done with it.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (users.Repository, io.Closer, error) {
	path := cfg.DatabasePath

	if err := filex.EnsureParentDir(path); err != nil {
		return nil, nil, common.NewStoreError("open", fmt.Errorf("create store directory: %w", err))
	}

	created, err := filex.Missing(path)
	if err != nil {
		return nil, nil, common.NewStoreError("open", err)
	}

	var (
		repo   users.Repository
		closer io.Closer
	)
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := OpenSQLite(ctx, path, cfg.StoreTimeout)
		if err != nil {
			return nil, nil, err
		}
		repo, closer = users.NewSQLiteRepository(db, cfg.StoreTimeout), db
	case config.BackendBolt:
		db, err := OpenBolt(path, cfg.StoreTimeout)
		if err != nil {
			return nil, nil, err
		}
		repo, closer = users.NewBoltRepository(db, cfg.StoreTimeout), db
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	if created {
		logger.Info(ctx, "database created", "path", path, "backend", cfg.Backend)
	}

	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error(ctx, logging.EventStoreError, "op", "ensure schema", "error", err)
		_ = closer.Close()
		return nil, nil, err
	}

	return repo, closer, nil
}

// OpenSQLite opens (creating if needed) the SQLite file at path. The busy
// timeout lets concurrent writers wait for the lock instead of failing.
func OpenSQLite(ctx context.Context, path string, busyTimeout time.Duration) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", path, busyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, common.NewStoreError("open", err)
	}
	db.SetMaxOpenConns(sqliteMaxOpenConns)

	pingCtx, cancel := context.WithTimeout(ctx, busyTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, common.NewStoreError("open", err)
	}
	return db, nil
}

// OpenBolt opens (creating if needed) the bolt file at path. lockTimeout
// bounds the wait for the file lock held by another process.
func OpenBolt(path string, lockTimeout time.Duration) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: lockTimeout})
	if err != nil {
		return nil, common.NewStoreError("open", err)
	}
	return db, nil
}
