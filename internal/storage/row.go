package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Row is an engine-agnostic row: column name to normalized value. Values
// are one of nil, string, int64, float64. Dates and byte blobs are
// stringified deterministically so repeated reads of the same row always
// compare equal.
type Row map[string]any

// String returns the column as a string, or "" when absent or NULL.
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// NullString returns the column as a *string, nil when NULL.
func (r Row) NullString(col string) *string {
	if r[col] == nil {
		return nil
	}
	s := r.String(col)
	return &s
}

// Int returns the column as an int64, 0 when absent or NULL.
func (r Row) Int(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// Bool interprets the column as a boolean (sqlite stores booleans as 0/1).
func (r Row) Bool(col string) bool {
	return r.Int(col) != 0
}

// Null reports whether the column is NULL or missing.
func (r Row) Null(col string) bool {
	v, ok := r[col]
	return !ok || v == nil
}

// scanRows drains sql.Rows into normalized Row maps.
func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = normalize(values[i])
		}
		out = append(out, row)
	}
	return out, nil
}

// normalize maps engine-native values onto the uniform Row value set.
func normalize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case bool:
		if val {
			return int64(1)
		}
		return int64(0)
	case int:
		return int64(val)
	case int64, float64, string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
