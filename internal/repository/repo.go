// Package repository provides the generic table repository and one
// entity repository per persisted kind. All repositories share the same
// contract: single-row create with hydration, chunked duplicate-tolerant
// batch insert, partial update, batched scoped reads, and cascading
// delete in referential order.
package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"codeatlas/internal/storage"
	"codeatlas/internal/storeerr"
)

// maxBatchParams caps bound parameters per multi-row insert, comfortably
// under sqlite's limit.
const maxBatchParams = 400

// tableSpec describes how one entity type maps onto its table.
type tableSpec[T any] struct {
	table   string
	columns []string
	id      func(T) string
	args    func(T) []any
	fromRow func(storage.Row) T
}

// repo is the generic repository base embedded by every entity repository.
type repo[T any] struct {
	db *storage.DB
	sp tableSpec[T]
}

func newRepo[T any](db *storage.DB, sp tableSpec[T]) *repo[T] {
	return &repo[T]{db: db, sp: sp}
}

// insertSQL builds a multi-row INSERT for n rows.
func (r *repo[T]) insertSQL(n int) string {
	row := "(" + placeholders(len(r.sp.columns)) + ")"
	rows := make([]string, n)
	for i := range rows {
		rows[i] = row
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		r.sp.table, strings.Join(r.sp.columns, ", "), strings.Join(rows, ", "))
}

// Create inserts one row and returns it re-read from the store. A
// constraint violation here is fatal, unlike in CreateBatch.
func (r *repo[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	if _, err := r.db.Exec(ctx, r.insertSQL(1), r.sp.args(item)...); err != nil {
		return zero, storeerr.Wrap(err, "create", r.sp.table)
	}
	got, err := r.ByID(ctx, r.sp.id(item))
	if err != nil {
		return zero, err
	}
	return got, nil
}

// CreateBatch inserts items in chunks. When a whole chunk fails on a
// constraint violation it falls back to per-row inserts, silently
// skipping rows that individually violate a uniqueness constraint; every
// other failure propagates from either path. Re-running CreateBatch with
// identical items is therefore a no-op, which is what makes re-ingestion
// idempotent.
func (r *repo[T]) CreateBatch(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return nil
	}

	chunkSize := maxBatchParams / len(r.sp.columns)
	if chunkSize < 1 {
		chunkSize = 1
	}

	for start := 0; start < len(items); start += chunkSize {
		end := start + chunkSize
		if end > len(items) {
			end = len(items)
		}
		chunk := items[start:end]

		args := make([]any, 0, len(chunk)*len(r.sp.columns))
		for _, item := range chunk {
			args = append(args, r.sp.args(item)...)
		}

		_, err := r.db.Exec(ctx, r.insertSQL(len(chunk)), args...)
		if err == nil {
			continue
		}
		if !storeerr.IsConstraintViolation(err) {
			return storeerr.Wrap(err, "createBatch", r.sp.table)
		}

		for _, item := range chunk {
			if _, err := r.db.Exec(ctx, r.insertSQL(1), r.sp.args(item)...); err != nil {
				if storeerr.IsConstraintViolation(err) {
					continue
				}
				return storeerr.Wrap(err, "createBatch", r.sp.table)
			}
		}
	}
	return nil
}

// Update builds a SET clause from only the supplied fields, then re-reads
// the row. Field names are sorted so the statement shape is deterministic.
func (r *repo[T]) Update(ctx context.Context, id string, fields map[string]any) (T, error) {
	var zero T
	if len(fields) == 0 {
		return zero, storeerr.NoFieldsToUpdate("update", r.sp.table)
	}

	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, col := range cols {
		sets[i] = col + " = ?"
		args = append(args, fields[col])
	}
	args = append(args, id)

	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", r.sp.table, strings.Join(sets, ", "))
	if _, err := r.db.Exec(ctx, stmt, args...); err != nil {
		return zero, storeerr.Wrap(err, "update", r.sp.table)
	}

	got, err := r.ByID(ctx, id)
	if err != nil {
		return zero, err
	}
	return got, nil
}

// ByID retrieves a single row or a NotFound error.
func (r *repo[T]) ByID(ctx context.Context, id string) (T, error) {
	var zero T
	rows, err := r.db.Query(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", strings.Join(r.sp.columns, ", "), r.sp.table),
		id)
	if err != nil {
		return zero, storeerr.Wrap(err, "retrieveById", r.sp.table)
	}
	if len(rows) == 0 {
		return zero, storeerr.NotFound("retrieveById", r.sp.table, id)
	}
	return r.sp.fromRow(rows[0]), nil
}

// List retrieves every row of the table.
func (r *repo[T]) List(ctx context.Context) ([]T, error) {
	return r.listWhere(ctx, "", "retrieve")
}

// listWhere runs a scoped select; where may be empty.
func (r *repo[T]) listWhere(ctx context.Context, where string, op string, args ...any) ([]T, error) {
	stmt := fmt.Sprintf("SELECT %s FROM %s", strings.Join(r.sp.columns, ", "), r.sp.table)
	if where != "" {
		stmt += " WHERE " + where
	}
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, storeerr.Wrap(err, op, r.sp.table)
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.sp.fromRow(row))
	}
	return out, nil
}

// listByColumn is the batched scoped read: zero queries for an empty id
// set, exactly one IN-list query otherwise, never one query per id.
func (r *repo[T]) listByColumn(ctx context.Context, col string, ids []string, op string) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return r.listWhere(ctx, fmt.Sprintf("%s IN (%s)", col, placeholders(len(ids))), op, args...)
}

// deleteWhere removes matching rows; removing nothing is not an error.
func (r *repo[T]) deleteWhere(ctx context.Context, where string, args ...any) error {
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s", r.sp.table, where)
	if _, err := r.db.Exec(ctx, stmt, args...); err != nil {
		return storeerr.Wrap(err, "delete", r.sp.table)
	}
	return nil
}

// placeholders renders "?, ?, ..." for n parameters.
func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// groupByKey distributes items across the requested parent ids. Every
// requested id is present in the result, with an empty child set when
// nothing matched.
func groupByKey[T any](ids []string, items []T, key func(T) string) map[string][]T {
	out := make(map[string][]T, len(ids))
	for _, id := range ids {
		out[id] = []T{}
	}
	for _, item := range items {
		out[key(item)] = append(out[key(item)], item)
	}
	return out
}

// boolArg stores Go bools as sqlite integers.
func boolArg(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// nullable stores "" as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
