package repository

import (
	"context"

	"codeatlas/internal/model"
	"codeatlas/internal/storage"
)

// MethodRepo persists Method rows. Methods live in a shared child table:
// parent_kind disambiguates class from interface parents.
type MethodRepo struct {
	*repo[model.Method]
}

func NewMethodRepo(db *storage.DB) *MethodRepo {
	return &MethodRepo{newRepo(db, tableSpec[model.Method]{
		table: "methods",
		columns: []string{
			"id", "parent_id", "parent_kind", "name", "return_type",
			"visibility", "is_static", "is_async", "line",
		},
		id: func(m model.Method) string { return m.ID },
		args: func(m model.Method) []any {
			return []any{
				m.ID, m.ParentID, string(m.ParentKind), m.Name, nullable(m.ReturnType),
				nullable(m.Visibility), boolArg(m.IsStatic), boolArg(m.IsAsync), m.Line,
			}
		},
		fromRow: func(r storage.Row) model.Method {
			return model.Method{
				ID:         r.String("id"),
				ParentID:   r.String("parent_id"),
				ParentKind: model.ParentKind(r.String("parent_kind")),
				Name:       r.String("name"),
				ReturnType: r.String("return_type"),
				Visibility: r.String("visibility"),
				IsStatic:   r.Bool("is_static"),
				IsAsync:    r.Bool("is_async"),
				Line:       r.Int("line"),
			}
		},
	})}
}

// ByParentIDs distributes methods across many parents in one query. Every
// requested parent is present in the result, possibly with an empty set.
func (r *MethodRepo) ByParentIDs(ctx context.Context, parentIDs []string) (map[string][]model.Method, error) {
	items, err := r.listByColumn(ctx, "parent_id", parentIDs, "retrieveByParentIds")
	if err != nil {
		return nil, err
	}
	return groupByKey(parentIDs, items, func(m model.Method) string { return m.ParentID }), nil
}

// PropertyRepo persists Property rows.
type PropertyRepo struct {
	*repo[model.Property]
}

func NewPropertyRepo(db *storage.DB) *PropertyRepo {
	return &PropertyRepo{newRepo(db, tableSpec[model.Property]{
		table: "properties",
		columns: []string{
			"id", "parent_id", "parent_kind", "name", "value_type",
			"visibility", "is_static", "is_readonly", "line",
		},
		id: func(p model.Property) string { return p.ID },
		args: func(p model.Property) []any {
			return []any{
				p.ID, p.ParentID, string(p.ParentKind), p.Name, nullable(p.ValueType),
				nullable(p.Visibility), boolArg(p.IsStatic), boolArg(p.IsReadonly), p.Line,
			}
		},
		fromRow: func(r storage.Row) model.Property {
			return model.Property{
				ID:         r.String("id"),
				ParentID:   r.String("parent_id"),
				ParentKind: model.ParentKind(r.String("parent_kind")),
				Name:       r.String("name"),
				ValueType:  r.String("value_type"),
				Visibility: r.String("visibility"),
				IsStatic:   r.Bool("is_static"),
				IsReadonly: r.Bool("is_readonly"),
				Line:       r.Int("line"),
			}
		},
	})}
}

// ByParentIDs distributes properties across many parents in one query.
func (r *PropertyRepo) ByParentIDs(ctx context.Context, parentIDs []string) (map[string][]model.Property, error) {
	items, err := r.listByColumn(ctx, "parent_id", parentIDs, "retrieveByParentIds")
	if err != nil {
		return nil, err
	}
	return groupByKey(parentIDs, items, func(p model.Property) string { return p.ParentID }), nil
}

// ParameterRepo persists Parameter rows.
type ParameterRepo struct {
	*repo[model.Parameter]
}

func NewParameterRepo(db *storage.DB) *ParameterRepo {
	return &ParameterRepo{newRepo(db, tableSpec[model.Parameter]{
		table: "parameters",
		columns: []string{
			"id", "method_id", "name", "type_name", "position", "is_optional",
		},
		id: func(p model.Parameter) string { return p.ID },
		args: func(p model.Parameter) []any {
			return []any{
				p.ID, p.MethodID, p.Name, nullable(p.TypeName), p.Position, boolArg(p.IsOptional),
			}
		},
		fromRow: func(r storage.Row) model.Parameter {
			return model.Parameter{
				ID:         r.String("id"),
				MethodID:   r.String("method_id"),
				Name:       r.String("name"),
				TypeName:   r.String("type_name"),
				Position:   r.Int("position"),
				IsOptional: r.Bool("is_optional"),
			}
		},
	})}
}

// ByMethodIDs distributes parameters across many methods in one query.
func (r *ParameterRepo) ByMethodIDs(ctx context.Context, methodIDs []string) (map[string][]model.Parameter, error) {
	items, err := r.listByColumn(ctx, "method_id", methodIDs, "retrieveByMethodIds")
	if err != nil {
		return nil, err
	}
	return groupByKey(methodIDs, items, func(p model.Parameter) string { return p.MethodID }), nil
}
