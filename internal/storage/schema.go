package storage

import (
	"context"
	"fmt"
	"strings"

	"codeatlas/internal/storeerr"
)

// schemaState tracks the manager's lifecycle.
type schemaState int

const (
	stateUninitialized schemaState = iota
	stateVerified
	stateReady
)

// Manager creates, verifies, and migrates the entity schema. Migration is
// additive-column-only, driven by a fixed ordered list; existing columns
// are never dropped or altered.
type Manager struct {
	db    *DB
	state schemaState
}

// NewManager creates a schema manager for the given handle.
func NewManager(db *DB) *Manager {
	return &Manager{db: db}
}

// requiredTables names every table the repositories depend on.
var requiredTables = []string{
	"packages", "modules", "classes", "interfaces", "methods", "properties",
	"parameters", "functions", "type_aliases", "enums", "variables",
	"imports", "exports", "symbol_references", "package_dependencies",
	"class_extends", "class_implements", "interface_extends",
	"code_issues", "ingest_runs",
}

// criticalColumns are columns whose absence makes the schema unusable even
// when the table exists: the parent-kind discriminators on the shared
// child tables.
var criticalColumns = map[string]string{
	"methods":    "parent_kind",
	"properties": "parent_kind",
}

// columnMigration appends one column to one table if it is missing.
type columnMigration struct {
	table  string
	column string
	ddl    string
}

// migrations is the fixed, ordered additive migration list. Entries are
// appended here when the schema grows; they are never reordered.
var migrations = []columnMigration{
	{"modules", "source_hash", "ALTER TABLE modules ADD COLUMN source_hash TEXT"},
	{"code_issues", "rule_id", "ALTER TABLE code_issues ADD COLUMN rule_id TEXT"},
	{"ingest_runs", "error_message", "ALTER TABLE ingest_runs ADD COLUMN error_message TEXT"},
}

// Ensure drives the schema to the ready state.
//
// In-memory targets always get a fresh schema: serving an ephemeral store
// read-only would mean serving no schema at all, so that combination is
// rejected at Open. File targets are verified first; DDL runs only when
// the schema is absent or verification fails, and is refused outright in
// read-only mode.
func (m *Manager) Ensure(ctx context.Context) error {
	if m.db.Memory() {
		if err := m.createSchema(ctx); err != nil {
			return err
		}
		m.state = stateReady
		return nil
	}

	ok, missing, err := m.verify(ctx)
	if err != nil {
		return err
	}
	m.state = stateVerified

	if !ok {
		if m.db.ReadOnly() {
			return storeerr.Schema("ensure",
				fmt.Sprintf("schema is missing or invalid (%s); open the store writable once to create it", missing),
				nil)
		}
		if err := m.createSchema(ctx); err != nil {
			return err
		}
	}

	if !m.db.ReadOnly() {
		if err := m.applyMigrations(ctx); err != nil {
			return err
		}
	}

	m.state = stateReady
	return nil
}

// Ready reports whether Ensure completed.
func (m *Manager) Ready() bool { return m.state == stateReady }

// verify probes for every required table and critical discriminator
// column. It returns ok=false with a description of the first gap found.
func (m *Manager) verify(ctx context.Context) (bool, string, error) {
	rows, err := m.db.Query(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return false, "", storeerr.Schema("verify", "failed to list tables", err)
	}

	present := make(map[string]bool, len(rows))
	for _, r := range rows {
		present[r.String("name")] = true
	}

	for _, table := range requiredTables {
		if !present[table] {
			return false, "missing table " + table, nil
		}
	}

	for table, column := range criticalColumns {
		has, err := m.hasColumn(ctx, table, column)
		if err != nil {
			return false, "", err
		}
		if !has {
			return false, fmt.Sprintf("table %s lacks column %s", table, column), nil
		}
	}

	return true, "", nil
}

// hasColumn inspects a table's columns via PRAGMA table_info.
func (m *Manager) hasColumn(ctx context.Context, table, column string) (bool, error) {
	rows, err := m.db.Query(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, storeerr.Schema("verify", "failed to inspect "+table, err)
	}
	for _, r := range rows {
		if r.String("name") == column {
			return true, nil
		}
	}
	return false, nil
}

// createSchema executes the full DDL. Statements that fail because the
// object already exists are treated as success; everything else propagates.
func (m *Manager) createSchema(ctx context.Context) error {
	if m.db.ReadOnly() {
		return storeerr.Schema("create", "schema changes are not permitted on a read-only store", nil)
	}
	if err := m.execDDL(ctx, schemaDDL); err != nil {
		return err
	}
	m.db.logger.Info("schema created", "tables", len(requiredTables))
	return nil
}

// execDDL strips comment lines, splits the script into statements, and
// executes each one.
func (m *Manager) execDDL(ctx context.Context, script string) error {
	var clean []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		clean = append(clean, line)
	}

	for _, stmt := range strings.Split(strings.Join(clean, "\n"), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := m.db.Exec(ctx, stmt); err != nil {
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return storeerr.Schema("ddl", "statement failed: "+firstLine(stmt), err)
		}
	}
	return nil
}

// applyMigrations appends any missing columns from the fixed list, in order.
func (m *Manager) applyMigrations(ctx context.Context) error {
	for _, mig := range migrations {
		has, err := m.hasColumn(ctx, mig.table, mig.column)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if _, err := m.db.Exec(ctx, mig.ddl); err != nil {
			return storeerr.Schema("migrate",
				fmt.Sprintf("failed to add %s.%s", mig.table, mig.column), err)
		}
		m.db.logger.Info("applied column migration", "table", mig.table, "column", mig.column)
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
