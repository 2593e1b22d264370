package repository

import (
	"context"

	"codeatlas/internal/model"
	"codeatlas/internal/storage"
)

// ImportRepo persists Import rows.
type ImportRepo struct {
	*repo[model.Import]
}

func NewImportRepo(db *storage.DB) *ImportRepo {
	return &ImportRepo{newRepo(db, tableSpec[model.Import]{
		table:   "imports",
		columns: []string{"id", "module_id", "name", "source", "is_default"},
		id:      func(i model.Import) string { return i.ID },
		args: func(i model.Import) []any {
			return []any{i.ID, i.ModuleID, i.Name, i.Source, boolArg(i.IsDefault)}
		},
		fromRow: func(r storage.Row) model.Import {
			return model.Import{
				ID:        r.String("id"),
				ModuleID:  r.String("module_id"),
				Name:      r.String("name"),
				Source:    r.String("source"),
				IsDefault: r.Bool("is_default"),
			}
		},
	})}
}

func (r *ImportRepo) ByModuleIDs(ctx context.Context, moduleIDs []string) (map[string][]model.Import, error) {
	items, err := r.listByColumn(ctx, "module_id", moduleIDs, "retrieveByModuleIds")
	if err != nil {
		return nil, err
	}
	return groupByKey(moduleIDs, items, func(i model.Import) string { return i.ModuleID }), nil
}

// ExportRepo persists Export rows.
type ExportRepo struct {
	*repo[model.Export]
}

func NewExportRepo(db *storage.DB) *ExportRepo {
	return &ExportRepo{newRepo(db, tableSpec[model.Export]{
		table:   "exports",
		columns: []string{"id", "module_id", "name", "is_default"},
		id:      func(e model.Export) string { return e.ID },
		args: func(e model.Export) []any {
			return []any{e.ID, e.ModuleID, e.Name, boolArg(e.IsDefault)}
		},
		fromRow: func(r storage.Row) model.Export {
			return model.Export{
				ID:        r.String("id"),
				ModuleID:  r.String("module_id"),
				Name:      r.String("name"),
				IsDefault: r.Bool("is_default"),
			}
		},
	})}
}

func (r *ExportRepo) ByModuleIDs(ctx context.Context, moduleIDs []string) (map[string][]model.Export, error) {
	items, err := r.listByColumn(ctx, "module_id", moduleIDs, "retrieveByModuleIds")
	if err != nil {
		return nil, err
	}
	return groupByKey(moduleIDs, items, func(e model.Export) string { return e.ModuleID }), nil
}

// SymbolReferenceRepo persists SymbolReference rows.
type SymbolReferenceRepo struct {
	*repo[model.SymbolReference]
}

func NewSymbolReferenceRepo(db *storage.DB) *SymbolReferenceRepo {
	return &SymbolReferenceRepo{newRepo(db, tableSpec[model.SymbolReference]{
		table:   "symbol_references",
		columns: []string{"id", "module_id", "name", "line", "context"},
		id:      func(s model.SymbolReference) string { return s.ID },
		args: func(s model.SymbolReference) []any {
			return []any{s.ID, s.ModuleID, s.Name, s.Line, nullable(s.Context)}
		},
		fromRow: func(r storage.Row) model.SymbolReference {
			return model.SymbolReference{
				ID:       r.String("id"),
				ModuleID: r.String("module_id"),
				Name:     r.String("name"),
				Line:     r.Int("line"),
				Context:  r.String("context"),
			}
		},
	})}
}

func (r *SymbolReferenceRepo) ByModuleIDs(ctx context.Context, moduleIDs []string) (map[string][]model.SymbolReference, error) {
	items, err := r.listByColumn(ctx, "module_id", moduleIDs, "retrieveByModuleIds")
	if err != nil {
		return nil, err
	}
	return groupByKey(moduleIDs, items, func(s model.SymbolReference) string { return s.ModuleID }), nil
}
