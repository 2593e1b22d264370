// Package resolve turns type references captured during ingestion into
// persisted inheritance and implementation edges.
//
// Parsers emit references either as already-resolved entity ids or as bare
// names. Name resolution happens here, after every entity of the ingest
// batch has been written, so that forward references within a package and
// references across previously ingested packages both land.
package resolve

import (
	"context"
	"log/slog"

	"codeatlas/internal/identity"
	"codeatlas/internal/model"
	"codeatlas/internal/repository"
)

// RefKind says which relationship a captured reference asserts.
type RefKind string

const (
	RefExtends    RefKind = "extends"
	RefImplements RefKind = "implements"
)

// SourceKind says what kind of entity captured the reference.
type SourceKind string

const (
	SourceClass     SourceKind = "class"
	SourceInterface SourceKind = "interface"
)

// CapturedRef is a pending relationship recorded while entities were being
// written. Target may be resolved (id known) or a bare name.
type CapturedRef struct {
	Kind       RefKind
	SourceID   string
	SourceKind SourceKind
	Target     model.TypeRef
}

// Stats summarizes one resolution pass.
type Stats struct {
	Resolved   int
	Unresolved int
	Dropped    int
}

// Resolver resolves captured references against the store.
type Resolver struct {
	store  *repository.Store
	logger *slog.Logger
}

func New(store *repository.Store, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Resolve looks up every captured reference and persists the surviving
// edges. Name lookup uses one global index per entity kind, loaded with a
// single query each. References that stay unresolved and self-edges are
// dropped without failing the pass; a write failure aborts it.
//
// Names are matched globally rather than per package. Cross-package
// inheritance by bare name is common in parser output and the global index
// keeps resolution to two queries total; a name claimed by several packages
// resolves to whichever row the index saw last.
func (r *Resolver) Resolve(ctx context.Context, refs []CapturedRef) (Stats, error) {
	var stats Stats
	if len(refs) == 0 {
		return stats, nil
	}

	classIdx, err := r.store.Classes.NameIndex(ctx)
	if err != nil {
		return stats, err
	}
	ifaceIdx, err := r.store.Interfaces.NameIndex(ctx)
	if err != nil {
		return stats, err
	}

	for _, ref := range refs {
		targetID := ref.Target.ID
		if !ref.Target.IsResolved() {
			targetID = r.lookup(ref, classIdx, ifaceIdx)
		}
		if targetID == "" {
			stats.Unresolved++
			r.logger.Debug("dropping unresolved reference",
				"kind", ref.Kind, "source", ref.SourceID, "target", ref.Target.Name)
			continue
		}
		if targetID == ref.SourceID {
			stats.Dropped++
			r.logger.Debug("dropping self edge", "kind", ref.Kind, "source", ref.SourceID)
			continue
		}
		if err := r.persist(ctx, ref, targetID); err != nil {
			return stats, err
		}
		stats.Resolved++
	}
	return stats, nil
}

// lookup picks the name index matching the relationship: a class extends a
// class, an interface extends an interface, and anything implemented is an
// interface.
func (r *Resolver) lookup(ref CapturedRef, classIdx, ifaceIdx map[string]string) string {
	switch {
	case ref.Kind == RefImplements:
		return ifaceIdx[ref.Target.Name]
	case ref.SourceKind == SourceInterface:
		return ifaceIdx[ref.Target.Name]
	default:
		return classIdx[ref.Target.Name]
	}
}

func (r *Resolver) persist(ctx context.Context, ref CapturedRef, targetID string) error {
	junction := r.junction(ref)
	edgeID := identity.Generate(identity.TypeRelationship,
		identity.RelationshipKey(string(ref.Kind), ref.SourceID, targetID))
	if err := r.store.Relations.Insert(ctx, junction, edgeID, ref.SourceID, targetID); err != nil {
		return err
	}

	// Extends edges are also denormalized onto the child row for cheap
	// single-parent traversal.
	if ref.Kind == RefExtends {
		if ref.SourceKind == SourceClass {
			return r.store.Classes.SetExtends(ctx, ref.SourceID, targetID)
		}
		return r.store.Interfaces.SetExtends(ctx, ref.SourceID, targetID)
	}
	return nil
}

func (r *Resolver) junction(ref CapturedRef) string {
	switch {
	case ref.Kind == RefImplements:
		return "class_implements"
	case ref.SourceKind == SourceInterface:
		return "interface_extends"
	default:
		return "class_extends"
	}
}
