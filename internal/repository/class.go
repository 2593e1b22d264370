package repository

import (
	"context"
	"database/sql"

	"codeatlas/internal/model"
	"codeatlas/internal/storage"
	"codeatlas/internal/storeerr"
)

// ClassRepo persists Class rows.
type ClassRepo struct {
	*repo[model.Class]
}

func NewClassRepo(db *storage.DB) *ClassRepo {
	return &ClassRepo{newRepo(db, tableSpec[model.Class]{
		table: "classes",
		columns: []string{
			"id", "module_id", "name", "is_abstract", "is_exported", "extends_id", "line",
		},
		id: func(c model.Class) string { return c.ID },
		args: func(c model.Class) []any {
			return []any{
				c.ID, c.ModuleID, c.Name, boolArg(c.IsAbstract), boolArg(c.IsExported),
				nullable(c.ExtendsID), c.Line,
			}
		},
		fromRow: func(r storage.Row) model.Class {
			return model.Class{
				ID:         r.String("id"),
				ModuleID:   r.String("module_id"),
				Name:       r.String("name"),
				IsAbstract: r.Bool("is_abstract"),
				IsExported: r.Bool("is_exported"),
				ExtendsID:  r.String("extends_id"),
				Line:       r.Int("line"),
			}
		},
	})}
}

// ByModuleIDs retrieves classes for many modules in one query, keyed by
// module id with every requested module present.
func (r *ClassRepo) ByModuleIDs(ctx context.Context, moduleIDs []string) (map[string][]model.Class, error) {
	items, err := r.listByColumn(ctx, "module_id", moduleIDs, "retrieveByModuleIds")
	if err != nil {
		return nil, err
	}
	return groupByKey(moduleIDs, items, func(c model.Class) string { return c.ModuleID }), nil
}

// NameIndex loads the global class-name to id index in a single query.
// Names are deliberately package-unscoped; see the resolver for the policy.
func (r *ClassRepo) NameIndex(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Query(ctx, "SELECT id, name FROM classes")
	if err != nil {
		return nil, storeerr.Wrap(err, "nameIndex", "classes")
	}
	idx := make(map[string]string, len(rows))
	for _, row := range rows {
		idx[row.String("name")] = row.String("id")
	}
	return idx, nil
}

// SetExtends denormalizes the resolved parent id onto the child row.
func (r *ClassRepo) SetExtends(ctx context.Context, classID, parentID string) error {
	_, err := r.db.Exec(ctx, "UPDATE classes SET extends_id = ? WHERE id = ?", parentID, classID)
	return storeerr.Wrap(err, "setExtends", "classes")
}

// Delete removes a class with its edges, methods (and their parameters),
// and properties before the row itself. Idempotent.
func (r *ClassRepo) Delete(ctx context.Context, id string) error {
	return r.db.Tx(ctx, func(tx *sql.Tx) error {
		stmts := []string{
			"DELETE FROM class_extends WHERE class_id = ? OR parent_id = ?",
			"DELETE FROM class_implements WHERE class_id = ?",
			"UPDATE classes SET extends_id = NULL WHERE extends_id = ?",
			"DELETE FROM parameters WHERE method_id IN (SELECT id FROM methods WHERE parent_id = ? AND parent_kind = 'class')",
			"DELETE FROM methods WHERE parent_id = ? AND parent_kind = 'class'",
			"DELETE FROM properties WHERE parent_id = ? AND parent_kind = 'class'",
			"DELETE FROM classes WHERE id = ?",
		}
		for _, stmt := range stmts {
			if err := execRepeated(tx, stmt, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// InterfaceRepo persists Interface rows.
type InterfaceRepo struct {
	*repo[model.Interface]
}

func NewInterfaceRepo(db *storage.DB) *InterfaceRepo {
	return &InterfaceRepo{newRepo(db, tableSpec[model.Interface]{
		table: "interfaces",
		columns: []string{
			"id", "module_id", "name", "is_exported", "extends_id", "line",
		},
		id: func(i model.Interface) string { return i.ID },
		args: func(i model.Interface) []any {
			return []any{
				i.ID, i.ModuleID, i.Name, boolArg(i.IsExported), nullable(i.ExtendsID), i.Line,
			}
		},
		fromRow: func(r storage.Row) model.Interface {
			return model.Interface{
				ID:         r.String("id"),
				ModuleID:   r.String("module_id"),
				Name:       r.String("name"),
				IsExported: r.Bool("is_exported"),
				ExtendsID:  r.String("extends_id"),
				Line:       r.Int("line"),
			}
		},
	})}
}

// ByModuleIDs retrieves interfaces for many modules in one query.
func (r *InterfaceRepo) ByModuleIDs(ctx context.Context, moduleIDs []string) (map[string][]model.Interface, error) {
	items, err := r.listByColumn(ctx, "module_id", moduleIDs, "retrieveByModuleIds")
	if err != nil {
		return nil, err
	}
	return groupByKey(moduleIDs, items, func(i model.Interface) string { return i.ModuleID }), nil
}

// NameIndex loads the global interface-name to id index in a single query.
func (r *InterfaceRepo) NameIndex(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Query(ctx, "SELECT id, name FROM interfaces")
	if err != nil {
		return nil, storeerr.Wrap(err, "nameIndex", "interfaces")
	}
	idx := make(map[string]string, len(rows))
	for _, row := range rows {
		idx[row.String("name")] = row.String("id")
	}
	return idx, nil
}

// SetExtends denormalizes the first resolved parent onto the row.
func (r *InterfaceRepo) SetExtends(ctx context.Context, interfaceID, parentID string) error {
	_, err := r.db.Exec(ctx, "UPDATE interfaces SET extends_id = ? WHERE id = ?", parentID, interfaceID)
	return storeerr.Wrap(err, "setExtends", "interfaces")
}

// Delete removes an interface with its edges and members. Idempotent.
func (r *InterfaceRepo) Delete(ctx context.Context, id string) error {
	return r.db.Tx(ctx, func(tx *sql.Tx) error {
		stmts := []string{
			"DELETE FROM interface_extends WHERE interface_id = ? OR parent_id = ?",
			"DELETE FROM class_implements WHERE interface_id = ?",
			"UPDATE interfaces SET extends_id = NULL WHERE extends_id = ?",
			"DELETE FROM parameters WHERE method_id IN (SELECT id FROM methods WHERE parent_id = ? AND parent_kind = 'interface')",
			"DELETE FROM methods WHERE parent_id = ? AND parent_kind = 'interface'",
			"DELETE FROM properties WHERE parent_id = ? AND parent_kind = 'interface'",
			"DELETE FROM interfaces WHERE id = ?",
		}
		for _, stmt := range stmts {
			if err := execRepeated(tx, stmt, id); err != nil {
				return err
			}
		}
		return nil
	})
}
