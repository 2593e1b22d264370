package resolve

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"codeatlas/internal/identity"
	"codeatlas/internal/model"
	"codeatlas/internal/repository"
	"codeatlas/internal/storage"
)

func setup(t *testing.T) (*repository.Store, *Resolver) {
	t.Helper()
	db, err := storage.Open(storage.Options{Path: storage.MemoryPath})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.NewManager(db).Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	store := repository.NewStore(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return store, New(store, logger)
}

func seedClass(t *testing.T, store *repository.Store, modID, name string) model.Class {
	t.Helper()
	cls, err := store.Classes.Create(context.Background(), model.Class{
		ID:       identity.Generate(identity.TypeClass, identity.ModuleScopedKey("pkg", modID, name)),
		ModuleID: modID,
		Name:     name,
	})
	if err != nil {
		t.Fatalf("seed class %s: %v", name, err)
	}
	return cls
}

func seedInterface(t *testing.T, store *repository.Store, modID, name string) model.Interface {
	t.Helper()
	iface, err := store.Interfaces.Create(context.Background(), model.Interface{
		ID:       identity.Generate(identity.TypeInterface, identity.ModuleScopedKey("pkg", modID, name)),
		ModuleID: modID,
		Name:     name,
	})
	if err != nil {
		t.Fatalf("seed interface %s: %v", name, err)
	}
	return iface
}

func seedModule(t *testing.T, store *repository.Store, path string) model.Module {
	t.Helper()
	pkg, err := store.Packages.Create(context.Background(), model.Package{
		ID: identity.Generate(identity.TypePackage, identity.PackageKey("lib-"+path, "1.0.0")), Name: "lib-" + path, Version: "1.0.0",
	})
	if err != nil {
		t.Fatalf("seed package: %v", err)
	}
	mod, err := store.Modules.Create(context.Background(), model.Module{
		ID: identity.Generate(identity.TypeModule, identity.ModuleKey(pkg.ID, path)), PackageID: pkg.ID, Path: path,
	})
	if err != nil {
		t.Fatalf("seed module: %v", err)
	}
	return mod
}

func TestResolveByNameAcrossModules(t *testing.T) {
	store, resolver := setup(t)
	ctx := context.Background()
	modA := seedModule(t, store, "src/a.ts")
	modB := seedModule(t, store, "src/b.ts")
	child := seedClass(t, store, modA.ID, "Child")
	parent := seedClass(t, store, modB.ID, "Parent")

	stats, err := resolver.Resolve(ctx, []CapturedRef{{
		Kind:       RefExtends,
		SourceID:   child.ID,
		SourceKind: SourceClass,
		Target:     model.TypeRef{Name: "Parent"},
	}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if stats.Resolved != 1 {
		t.Errorf("resolved = %d, want 1", stats.Resolved)
	}

	got, err := store.Classes.ByID(ctx, child.ID)
	if err != nil {
		t.Fatalf("ByID failed: %v", err)
	}
	if got.ExtendsID != parent.ID {
		t.Errorf("extends_id = %q, want %q", got.ExtendsID, parent.ID)
	}

	edges, err := store.Relations.ExtendsByClassIDs(ctx, []string{child.ID})
	if err != nil {
		t.Fatalf("edge read failed: %v", err)
	}
	if len(edges[child.ID]) != 1 || edges[child.ID][0] != parent.ID {
		t.Errorf("class_extends edge missing, got %v", edges[child.ID])
	}
}

func TestResolvePreResolvedID(t *testing.T) {
	store, resolver := setup(t)
	ctx := context.Background()
	mod := seedModule(t, store, "src/a.ts")
	cls := seedClass(t, store, mod.ID, "Impl")
	iface := seedInterface(t, store, mod.ID, "Stringer")

	stats, err := resolver.Resolve(ctx, []CapturedRef{{
		Kind:       RefImplements,
		SourceID:   cls.ID,
		SourceKind: SourceClass,
		Target:     model.TypeRef{ID: iface.ID},
	}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if stats.Resolved != 1 {
		t.Errorf("resolved = %d, want 1", stats.Resolved)
	}

	edges, err := store.Relations.ImplementsByClassIDs(ctx, []string{cls.ID})
	if err != nil {
		t.Fatalf("edge read failed: %v", err)
	}
	if len(edges[cls.ID]) != 1 || edges[cls.ID][0] != iface.ID {
		t.Errorf("class_implements edge missing, got %v", edges[cls.ID])
	}
}

func TestResolveDropsUnresolvedAndSelfEdges(t *testing.T) {
	store, resolver := setup(t)
	ctx := context.Background()
	mod := seedModule(t, store, "src/a.ts")
	cls := seedClass(t, store, mod.ID, "Lonely")

	stats, err := resolver.Resolve(ctx, []CapturedRef{
		{Kind: RefExtends, SourceID: cls.ID, SourceKind: SourceClass, Target: model.TypeRef{Name: "NoSuchType"}},
		{Kind: RefExtends, SourceID: cls.ID, SourceKind: SourceClass, Target: model.TypeRef{ID: cls.ID}},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if stats.Unresolved != 1 || stats.Dropped != 1 || stats.Resolved != 0 {
		t.Errorf("stats = %+v, want 1 unresolved, 1 dropped, 0 resolved", stats)
	}

	got, err := store.Classes.ByID(ctx, cls.ID)
	if err != nil {
		t.Fatalf("ByID failed: %v", err)
	}
	if got.ExtendsID != "" {
		t.Errorf("extends_id set to %q for dropped references", got.ExtendsID)
	}
}

func TestResolveInterfaceExtendsUsesInterfaceIndex(t *testing.T) {
	store, resolver := setup(t)
	ctx := context.Background()
	mod := seedModule(t, store, "src/a.ts")
	// A class and an interface sharing a name: interface extends must pick
	// the interface.
	seedClass(t, store, mod.ID, "Reader")
	target := seedInterface(t, store, mod.ID, "Reader")
	child := seedInterface(t, store, mod.ID, "BufferedReader")

	stats, err := resolver.Resolve(ctx, []CapturedRef{{
		Kind:       RefExtends,
		SourceID:   child.ID,
		SourceKind: SourceInterface,
		Target:     model.TypeRef{Name: "Reader"},
	}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if stats.Resolved != 1 {
		t.Fatalf("resolved = %d, want 1", stats.Resolved)
	}

	edges, err := store.Relations.ExtendsByInterfaceIDs(ctx, []string{child.ID})
	if err != nil {
		t.Fatalf("edge read failed: %v", err)
	}
	if len(edges[child.ID]) != 1 || edges[child.ID][0] != target.ID {
		t.Errorf("interface_extends edge = %v, want [%s]", edges[child.ID], target.ID)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	store, resolver := setup(t)
	ctx := context.Background()
	mod := seedModule(t, store, "src/a.ts")
	child := seedClass(t, store, mod.ID, "Child")
	seedClass(t, store, mod.ID, "Parent")

	refs := []CapturedRef{{
		Kind:       RefExtends,
		SourceID:   child.ID,
		SourceKind: SourceClass,
		Target:     model.TypeRef{Name: "Parent"},
	}}
	for i := 0; i < 2; i++ {
		if _, err := resolver.Resolve(ctx, refs); err != nil {
			t.Fatalf("pass %d failed: %v", i+1, err)
		}
	}

	edges, err := store.Relations.ExtendsByClassIDs(ctx, []string{child.ID})
	if err != nil {
		t.Fatalf("edge read failed: %v", err)
	}
	if len(edges[child.ID]) != 1 {
		t.Errorf("duplicate resolution produced %d edges", len(edges[child.ID]))
	}
}
