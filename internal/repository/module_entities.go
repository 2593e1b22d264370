package repository

import (
	"context"

	"codeatlas/internal/model"
	"codeatlas/internal/storage"
)

// FunctionRepo persists Function rows.
type FunctionRepo struct {
	*repo[model.Function]
}

func NewFunctionRepo(db *storage.DB) *FunctionRepo {
	return &FunctionRepo{newRepo(db, tableSpec[model.Function]{
		table: "functions",
		columns: []string{
			"id", "module_id", "name", "return_type", "is_exported", "is_async", "line",
		},
		id: func(f model.Function) string { return f.ID },
		args: func(f model.Function) []any {
			return []any{
				f.ID, f.ModuleID, f.Name, nullable(f.ReturnType),
				boolArg(f.IsExported), boolArg(f.IsAsync), f.Line,
			}
		},
		fromRow: func(r storage.Row) model.Function {
			return model.Function{
				ID:         r.String("id"),
				ModuleID:   r.String("module_id"),
				Name:       r.String("name"),
				ReturnType: r.String("return_type"),
				IsExported: r.Bool("is_exported"),
				IsAsync:    r.Bool("is_async"),
				Line:       r.Int("line"),
			}
		},
	})}
}

func (r *FunctionRepo) ByModuleIDs(ctx context.Context, moduleIDs []string) (map[string][]model.Function, error) {
	items, err := r.listByColumn(ctx, "module_id", moduleIDs, "retrieveByModuleIds")
	if err != nil {
		return nil, err
	}
	return groupByKey(moduleIDs, items, func(f model.Function) string { return f.ModuleID }), nil
}

// TypeAliasRepo persists TypeAlias rows.
type TypeAliasRepo struct {
	*repo[model.TypeAlias]
}

func NewTypeAliasRepo(db *storage.DB) *TypeAliasRepo {
	return &TypeAliasRepo{newRepo(db, tableSpec[model.TypeAlias]{
		table:   "type_aliases",
		columns: []string{"id", "module_id", "name", "aliased_type", "is_exported"},
		id:      func(t model.TypeAlias) string { return t.ID },
		args: func(t model.TypeAlias) []any {
			return []any{t.ID, t.ModuleID, t.Name, nullable(t.AliasedType), boolArg(t.IsExported)}
		},
		fromRow: func(r storage.Row) model.TypeAlias {
			return model.TypeAlias{
				ID:          r.String("id"),
				ModuleID:    r.String("module_id"),
				Name:        r.String("name"),
				AliasedType: r.String("aliased_type"),
				IsExported:  r.Bool("is_exported"),
			}
		},
	})}
}

func (r *TypeAliasRepo) ByModuleIDs(ctx context.Context, moduleIDs []string) (map[string][]model.TypeAlias, error) {
	items, err := r.listByColumn(ctx, "module_id", moduleIDs, "retrieveByModuleIds")
	if err != nil {
		return nil, err
	}
	return groupByKey(moduleIDs, items, func(t model.TypeAlias) string { return t.ModuleID }), nil
}

// EnumRepo persists Enum rows.
type EnumRepo struct {
	*repo[model.Enum]
}

func NewEnumRepo(db *storage.DB) *EnumRepo {
	return &EnumRepo{newRepo(db, tableSpec[model.Enum]{
		table:   "enums",
		columns: []string{"id", "module_id", "name", "is_const", "members_json"},
		id:      func(e model.Enum) string { return e.ID },
		args: func(e model.Enum) []any {
			return []any{e.ID, e.ModuleID, e.Name, boolArg(e.IsConst), nullable(e.MembersJSON)}
		},
		fromRow: func(r storage.Row) model.Enum {
			return model.Enum{
				ID:          r.String("id"),
				ModuleID:    r.String("module_id"),
				Name:        r.String("name"),
				IsConst:     r.Bool("is_const"),
				MembersJSON: r.String("members_json"),
			}
		},
	})}
}

func (r *EnumRepo) ByModuleIDs(ctx context.Context, moduleIDs []string) (map[string][]model.Enum, error) {
	items, err := r.listByColumn(ctx, "module_id", moduleIDs, "retrieveByModuleIds")
	if err != nil {
		return nil, err
	}
	return groupByKey(moduleIDs, items, func(e model.Enum) string { return e.ModuleID }), nil
}

// VariableRepo persists Variable rows.
type VariableRepo struct {
	*repo[model.Variable]
}

func NewVariableRepo(db *storage.DB) *VariableRepo {
	return &VariableRepo{newRepo(db, tableSpec[model.Variable]{
		table: "variables",
		columns: []string{
			"id", "module_id", "name", "value_type", "kind", "is_exported", "line",
		},
		id: func(v model.Variable) string { return v.ID },
		args: func(v model.Variable) []any {
			return []any{
				v.ID, v.ModuleID, v.Name, nullable(v.ValueType), nullable(v.Kind),
				boolArg(v.IsExported), v.Line,
			}
		},
		fromRow: func(r storage.Row) model.Variable {
			return model.Variable{
				ID:         r.String("id"),
				ModuleID:   r.String("module_id"),
				Name:       r.String("name"),
				ValueType:  r.String("value_type"),
				Kind:       r.String("kind"),
				IsExported: r.Bool("is_exported"),
				Line:       r.Int("line"),
			}
		},
	})}
}

func (r *VariableRepo) ByModuleIDs(ctx context.Context, moduleIDs []string) (map[string][]model.Variable, error) {
	items, err := r.listByColumn(ctx, "module_id", moduleIDs, "retrieveByModuleIds")
	if err != nil {
		return nil, err
	}
	return groupByKey(moduleIDs, items, func(v model.Variable) string { return v.ModuleID }), nil
}
