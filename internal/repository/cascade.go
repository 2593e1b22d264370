package repository

import (
	"database/sql"
	"strings"

	"codeatlas/internal/storeerr"
)

// cascadeModules deletes every row that depends on the modules selected by
// modSel (a sub-select with exactly one bound parameter), in referential
// order: parameters, then members, then relationship edges, then the
// module-scoped entities, then the module rows themselves. Running it
// against an already-deleted target removes nothing and is not an error.
func cascadeModules(tx *sql.Tx, modSel string, arg any) error {
	classSel := "SELECT id FROM classes WHERE module_id IN (" + modSel + ")"
	ifaceSel := "SELECT id FROM interfaces WHERE module_id IN (" + modSel + ")"

	stmts := []string{
		"DELETE FROM parameters WHERE method_id IN (SELECT id FROM methods WHERE parent_id IN (" + classSel + ") OR parent_id IN (" + ifaceSel + "))",
		"DELETE FROM methods WHERE parent_id IN (" + classSel + ") OR parent_id IN (" + ifaceSel + ")",
		"DELETE FROM properties WHERE parent_id IN (" + classSel + ") OR parent_id IN (" + ifaceSel + ")",
		"DELETE FROM class_extends WHERE class_id IN (" + classSel + ") OR parent_id IN (" + classSel + ")",
		"DELETE FROM class_implements WHERE class_id IN (" + classSel + ") OR interface_id IN (" + ifaceSel + ")",
		"DELETE FROM interface_extends WHERE interface_id IN (" + ifaceSel + ") OR parent_id IN (" + ifaceSel + ")",
		"DELETE FROM classes WHERE module_id IN (" + modSel + ")",
		"DELETE FROM interfaces WHERE module_id IN (" + modSel + ")",
		"DELETE FROM functions WHERE module_id IN (" + modSel + ")",
		"DELETE FROM type_aliases WHERE module_id IN (" + modSel + ")",
		"DELETE FROM enums WHERE module_id IN (" + modSel + ")",
		"DELETE FROM variables WHERE module_id IN (" + modSel + ")",
		"DELETE FROM imports WHERE module_id IN (" + modSel + ")",
		"DELETE FROM exports WHERE module_id IN (" + modSel + ")",
		"DELETE FROM symbol_references WHERE module_id IN (" + modSel + ")",
		"DELETE FROM code_issues WHERE module_id IN (" + modSel + ")",
		"DELETE FROM modules WHERE id IN (" + modSel + ")",
	}

	for _, stmt := range stmts {
		if err := execRepeated(tx, stmt, arg); err != nil {
			return err
		}
	}
	return nil
}

// execRepeated binds arg once per placeholder in stmt.
func execRepeated(tx *sql.Tx, stmt string, arg any) error {
	n := strings.Count(stmt, "?")
	args := make([]any, n)
	for i := range args {
		args[i] = arg
	}
	if _, err := tx.Exec(stmt, args...); err != nil {
		return storeerr.Wrap(err, "delete", "")
	}
	return nil
}
