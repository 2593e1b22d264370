package repository

import (
	"context"
	"fmt"

	"codeatlas/internal/storage"
	"codeatlas/internal/storeerr"
)

// RelationRepo persists resolved relationship edges into the junction
// tables. Edge ids are deterministic, so an edge inserted twice (by a
// retry or a concurrent resolver) conflicts on its primary key; that race
// is treated as success.
type RelationRepo struct {
	db *storage.DB
}

func NewRelationRepo(db *storage.DB) *RelationRepo {
	return &RelationRepo{db: db}
}

// junction table shapes: (id, <source column>, <target column>)
var junctions = map[string][3]string{
	"class_extends":     {"class_extends", "class_id", "parent_id"},
	"class_implements":  {"class_implements", "class_id", "interface_id"},
	"interface_extends": {"interface_extends", "interface_id", "parent_id"},
}

// Insert records one resolved edge. A duplicate insert is success.
func (r *RelationRepo) Insert(ctx context.Context, junction, edgeID, sourceID, targetID string) error {
	j, ok := junctions[junction]
	if !ok {
		return storeerr.New(storeerr.KindStorage, "insertEdge", junction, "unknown junction table")
	}
	stmt := fmt.Sprintf("INSERT INTO %s (id, %s, %s) VALUES (?, ?, ?)", j[0], j[1], j[2])
	if _, err := r.db.Exec(ctx, stmt, edgeID, sourceID, targetID); err != nil {
		if storeerr.IsConstraintViolation(err) {
			return nil
		}
		return storeerr.Wrap(err, "insertEdge", j[0])
	}
	return nil
}

// ImplementsByClassIDs loads interface ids implemented by each class in
// one joined query.
func (r *RelationRepo) ImplementsByClassIDs(ctx context.Context, classIDs []string) (map[string][]string, error) {
	return r.targetsBySource(ctx, "class_implements", "class_id", "interface_id", classIDs)
}

// ExtendsByClassIDs loads parent class ids for each class in one query.
func (r *RelationRepo) ExtendsByClassIDs(ctx context.Context, classIDs []string) (map[string][]string, error) {
	return r.targetsBySource(ctx, "class_extends", "class_id", "parent_id", classIDs)
}

// ExtendsByInterfaceIDs loads parent interface ids for each interface in
// one query.
func (r *RelationRepo) ExtendsByInterfaceIDs(ctx context.Context, interfaceIDs []string) (map[string][]string, error) {
	return r.targetsBySource(ctx, "interface_extends", "interface_id", "parent_id", interfaceIDs)
}

func (r *RelationRepo) targetsBySource(ctx context.Context, table, srcCol, dstCol string, ids []string) (map[string][]string, error) {
	out := make(map[string][]string, len(ids))
	for _, id := range ids {
		out[id] = nil
	}
	if len(ids) == 0 {
		return out, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	stmt := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s IN (%s)",
		srcCol, dstCol, table, srcCol, placeholders(len(ids)))
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, storeerr.Wrap(err, "retrieveEdges", table)
	}
	for _, row := range rows {
		src := row.String(srcCol)
		out[src] = append(out[src], row.String(dstCol))
	}
	return out, nil
}

// Store bundles one repository per entity kind over a single adapter. It
// is constructed explicitly by the process entry point and passed into
// the ingester, resolver, and assembler; nothing here is global.
type Store struct {
	DB           *storage.DB
	Packages     *PackageRepo
	Modules      *ModuleRepo
	Classes      *ClassRepo
	Interfaces   *InterfaceRepo
	Methods      *MethodRepo
	Properties   *PropertyRepo
	Parameters   *ParameterRepo
	Functions    *FunctionRepo
	TypeAliases  *TypeAliasRepo
	Enums        *EnumRepo
	Variables    *VariableRepo
	Imports      *ImportRepo
	Exports      *ExportRepo
	References   *SymbolReferenceRepo
	Dependencies *DependencyRepo
	Issues       *CodeIssueRepo
	Relations    *RelationRepo
	Runs         *RunRepo
}

// NewStore wires every repository to the given adapter.
func NewStore(db *storage.DB) *Store {
	return &Store{
		DB:           db,
		Packages:     NewPackageRepo(db),
		Modules:      NewModuleRepo(db),
		Classes:      NewClassRepo(db),
		Interfaces:   NewInterfaceRepo(db),
		Methods:      NewMethodRepo(db),
		Properties:   NewPropertyRepo(db),
		Parameters:   NewParameterRepo(db),
		Functions:    NewFunctionRepo(db),
		TypeAliases:  NewTypeAliasRepo(db),
		Enums:        NewEnumRepo(db),
		Variables:    NewVariableRepo(db),
		Imports:      NewImportRepo(db),
		Exports:      NewExportRepo(db),
		References:   NewSymbolReferenceRepo(db),
		Dependencies: NewDependencyRepo(db),
		Issues:       NewCodeIssueRepo(db),
		Relations:    NewRelationRepo(db),
		Runs:         NewRunRepo(db),
	}
}
