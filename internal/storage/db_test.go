package storage

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Options{Path: MemoryPath})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := NewManager(db).Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	return db
}

func TestQueryNormalizesRows(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(ctx,
		`INSERT INTO packages (id, name, version, description) VALUES (?, ?, ?, ?)`,
		"pkg1", "lodash", "4.17.21", nil)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	rows, err := db.Query(ctx, `SELECT id, name, description FROM packages`)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.String("name") != "lodash" {
		t.Errorf("name = %q", row.String("name"))
	}
	if !row.Null("description") {
		t.Error("description should be NULL")
	}
	if row.NullString("description") != nil {
		t.Error("NullString should return nil for NULL")
	}
}

func TestPoolBound(t *testing.T) {
	db, err := Open(Options{Path: MemoryPath, PoolSize: 2})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	var inFlight atomic.Int32
	var maxSeen atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Tx(ctx, func(tx *sql.Tx) error {
				n := inFlight.Add(1)
				for {
					cur := maxSeen.Load()
					if n <= cur || maxSeen.CompareAndSwap(cur, n) {
						break
					}
				}
				<-release
				inFlight.Add(-1)
				return nil
			})
			if err != nil {
				t.Errorf("Tx failed: %v", err)
			}
		}()
	}

	// Let the first wave saturate the pool, then free everyone.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := maxSeen.Load(); got > 2 {
		t.Errorf("pool of 2 had %d connections checked out concurrently", got)
	}
}

func TestBlockedRequestCompletesAfterRelease(t *testing.T) {
	db, err := Open(Options{Path: MemoryPath, PoolSize: 1})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	release := make(chan struct{})
	holding := make(chan struct{})

	go func() {
		_ = db.Tx(ctx, func(tx *sql.Tx) error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding

	done := make(chan error, 1)
	go func() {
		_, err := db.Query(ctx, "SELECT 1")
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("query completed while the only connection was held")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("query failed after release: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("query never completed after release")
	}
}

func TestTxRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	wantErr := sql.ErrNoRows // any sentinel
	err := db.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			`INSERT INTO packages (id, name, version) VALUES (?, ?, ?)`,
			"pkg1", "left", "1.0.0"); err != nil {
			return err
		}
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("Tx returned %v, want the callback error", err)
	}

	rows, err := db.Query(ctx, `SELECT id FROM packages`)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rollback left %d rows behind", len(rows))
	}
}

func TestUseBeforeOpenPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic when using the adapter before Open")
		}
	}()
	var db *DB
	_, _ = db.Query(context.Background(), "SELECT 1")
}

func TestReadOnlyMemoryRejected(t *testing.T) {
	_, err := Open(Options{Path: MemoryPath, ReadOnly: true})
	if err == nil {
		t.Fatal("expected read-only in-memory open to fail")
	}
}
