package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"codeatlas/internal/storeerr"
)

// DefaultPoolSize is the number of pooled connections when none is configured.
const DefaultPoolSize = 4

// MemoryPath selects an ephemeral in-memory database.
const MemoryPath = ":memory:"

var memSeq atomic.Int64

// Options configures a database handle.
type Options struct {
	// Path is the database file path, or MemoryPath for an ephemeral store.
	Path string
	// PoolSize bounds concurrent connections; DefaultPoolSize when <= 0.
	PoolSize int
	// ReadOnly opens the store for serving only; schema changes are refused.
	ReadOnly bool
	// Reset deletes an existing file before opening. Ignored for in-memory
	// targets and rejected in read-only mode.
	Reset bool
	// Logger receives structured storage events; a discard logger is used when nil.
	Logger *slog.Logger
}

// DB is the pooled query adapter. All storage access flows through it:
// queries and transactions acquire one of the bounded connections (FIFO
// under contention) and release it on every exit path.
type DB struct {
	conn     *sql.DB
	sem      *semaphore.Weighted
	poolSize int
	readOnly bool
	memory   bool
	path     string
	logger   *slog.Logger
	queries  atomic.Int64
}

// Open opens the database and initializes the connection pool. It does not
// create or verify schema; see Manager.Ensure.
func Open(opts Options) (*DB, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	poolSize := opts.PoolSize
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}

	memory := opts.Path == "" || opts.Path == MemoryPath
	if memory && opts.ReadOnly {
		return nil, storeerr.Schema("open",
			"an in-memory store cannot be opened read-only: there is no schema to serve", nil)
	}

	if opts.Reset && !memory {
		if opts.ReadOnly {
			return nil, storeerr.Schema("open", "reset is not permitted in read-only mode", nil)
		}
		for _, p := range []string{opts.Path, opts.Path + "-wal", opts.Path + "-shm"} {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				return nil, storeerr.Schema("open", fmt.Sprintf("failed to reset %s", p), err)
			}
		}
	}

	dsn := opts.Path
	if memory {
		// A shared in-memory database so every pooled connection sees the
		// same data. The name is unique per handle so two ephemeral stores
		// in one process never alias each other.
		dsn = fmt.Sprintf("file:atlasmem%d?mode=memory&cache=shared", memSeq.Add(1))
	} else if opts.ReadOnly {
		dsn = "file:" + opts.Path + "?mode=ro"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, storeerr.Wrap(err, "open", "")
	}

	conn.SetMaxOpenConns(poolSize)
	conn.SetMaxIdleConns(poolSize)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	if opts.ReadOnly {
		pragmas = []string{"PRAGMA query_only=ON", "PRAGMA busy_timeout=5000"}
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, storeerr.Wrap(err, "open", "")
		}
	}

	db := &DB{
		conn:     conn,
		sem:      semaphore.NewWeighted(int64(poolSize)),
		poolSize: poolSize,
		readOnly: opts.ReadOnly,
		memory:   memory,
		path:     opts.Path,
		logger:   logger,
	}

	logger.Debug("database opened",
		"path", opts.Path,
		"pool_size", poolSize,
		"read_only", opts.ReadOnly,
		"memory", memory)

	return db, nil
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// ReadOnly reports whether the store refuses schema changes.
func (db *DB) ReadOnly() bool { return db.readOnly }

// Memory reports whether the store is ephemeral.
func (db *DB) Memory() bool { return db.memory }

// Path returns the configured database file path.
func (db *DB) Path() string { return db.path }

// PoolSize returns the configured connection bound.
func (db *DB) PoolSize() int { return db.poolSize }

// QueryCount returns the number of read queries issued so far. Used by
// tests to assert batch reads issue exactly one query.
func (db *DB) QueryCount() int64 { return db.queries.Load() }

// mustReady panics when the adapter is used before Open. Calling query or
// transaction primitives on an unopened handle is a programmer error, not
// a recoverable condition.
func (db *DB) mustReady() {
	if db == nil || db.conn == nil {
		panic("storage: adapter used before Open")
	}
}

// acquire blocks until a pooled connection slot frees up. Waiters are
// served in FIFO order and the pool never grows past its bound.
func (db *DB) acquire(ctx context.Context) error {
	db.mustReady()
	if err := db.sem.Acquire(ctx, 1); err != nil {
		return storeerr.Wrap(err, "acquire", "")
	}
	return nil
}

// Query executes a read statement and normalizes every row into a uniform
// string-keyed Row. The connection is released on every exit path.
func (db *DB) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	if err := db.acquire(ctx); err != nil {
		return nil, err
	}
	defer db.sem.Release(1)

	db.queries.Add(1)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	return out, rows.Err()
}

// Exec executes a write statement.
func (db *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if err := db.acquire(ctx); err != nil {
		return nil, err
	}
	defer db.sem.Release(1)

	return db.conn.ExecContext(ctx, query, args...)
}

// Tx reserves one connection for the duration of fn, issuing BEGIN first,
// COMMIT on success and ROLLBACK before returning on failure. Nested
// transactions are unsupported.
func (db *DB) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := db.acquire(ctx); err != nil {
		return err
	}
	defer db.sem.Release(1)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return storeerr.Transaction("begin", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error("rollback failed", "error", rbErr, "cause", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return storeerr.Transaction("commit", err)
	}
	return nil
}
