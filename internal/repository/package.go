package repository

import (
	"context"
	"database/sql"

	"codeatlas/internal/model"
	"codeatlas/internal/storage"
	"codeatlas/internal/storeerr"
)

// PackageRepo persists Package rows.
type PackageRepo struct {
	*repo[model.Package]
}

func NewPackageRepo(db *storage.DB) *PackageRepo {
	return &PackageRepo{newRepo(db, tableSpec[model.Package]{
		table:   "packages",
		columns: []string{"id", "name", "version", "description"},
		id:      func(p model.Package) string { return p.ID },
		args: func(p model.Package) []any {
			return []any{p.ID, p.Name, p.Version, nullable(p.Description)}
		},
		fromRow: func(r storage.Row) model.Package {
			return model.Package{
				ID:          r.String("id"),
				Name:        r.String("name"),
				Version:     r.String("version"),
				Description: r.String("description"),
			}
		},
	})}
}

// List returns every package ordered by name then version, so listings and
// graph output are stable across runs.
func (r *PackageRepo) List(ctx context.Context) ([]model.Package, error) {
	rows, err := r.db.Query(ctx,
		"SELECT id, name, version, description FROM packages ORDER BY name, version")
	if err != nil {
		return nil, storeerr.Wrap(err, "retrieve", "packages")
	}
	out := make([]model.Package, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.sp.fromRow(row))
	}
	return out, nil
}

// NameIndex loads a package-name to id index in a single query. When two
// versions of the same name are stored, the newest insert wins.
func (r *PackageRepo) NameIndex(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Query(ctx, "SELECT id, name FROM packages")
	if err != nil {
		return nil, storeerr.Wrap(err, "nameIndex", "packages")
	}
	idx := make(map[string]string, len(rows))
	for _, row := range rows {
		idx[row.String("name")] = row.String("id")
	}
	return idx, nil
}

// Delete removes a package and everything hanging off it: dependency
// edges touching it, its issues, its modules with all their children, and
// finally the package row. Deleting twice is not an error.
func (r *PackageRepo) Delete(ctx context.Context, id string) error {
	return r.db.Tx(ctx, func(tx *sql.Tx) error {
		steps := []string{
			"DELETE FROM package_dependencies WHERE source_package_id = ? OR target_package_id = ?",
			"DELETE FROM code_issues WHERE package_id = ?",
		}
		for _, stmt := range steps {
			if err := execRepeated(tx, stmt, id); err != nil {
				return err
			}
		}
		if err := cascadeModules(tx, "SELECT id FROM modules WHERE package_id = ?", id); err != nil {
			return err
		}
		return execRepeated(tx, "DELETE FROM packages WHERE id = ?", id)
	})
}

// ModuleRepo persists Module rows.
type ModuleRepo struct {
	*repo[model.Module]
}

func NewModuleRepo(db *storage.DB) *ModuleRepo {
	return &ModuleRepo{newRepo(db, tableSpec[model.Module]{
		table:   "modules",
		columns: []string{"id", "package_id", "path", "name", "source_hash"},
		id:      func(m model.Module) string { return m.ID },
		args: func(m model.Module) []any {
			return []any{m.ID, m.PackageID, m.Path, nullable(m.Name), nullable(m.SourceHash)}
		},
		fromRow: func(r storage.Row) model.Module {
			return model.Module{
				ID:         r.String("id"),
				PackageID:  r.String("package_id"),
				Path:       r.String("path"),
				Name:       r.String("name"),
				SourceHash: r.String("source_hash"),
			}
		},
	})}
}

// ByPackageID retrieves all modules of one package.
func (r *ModuleRepo) ByPackageID(ctx context.Context, packageID string) ([]model.Module, error) {
	return r.listWhere(ctx, "package_id = ?", "retrieveByPackageId", packageID)
}

// CountByPackage returns per-package module counts in one query.
func (r *ModuleRepo) CountByPackage(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx,
		"SELECT package_id, COUNT(*) AS n FROM modules GROUP BY package_id")
	if err != nil {
		return nil, storeerr.Wrap(err, "countByPackage", "modules")
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.String("package_id")] = int(row.Int("n"))
	}
	return counts, nil
}

// Delete removes one module and all of its dependent rows.
func (r *ModuleRepo) Delete(ctx context.Context, id string) error {
	return r.db.Tx(ctx, func(tx *sql.Tx) error {
		return cascadeModules(tx, "SELECT id FROM modules WHERE id = ?", id)
	})
}
