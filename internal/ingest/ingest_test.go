package ingest

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"codeatlas/internal/model"
	"codeatlas/internal/repository"
	"codeatlas/internal/storage"
)

func setup(t *testing.T) (*repository.Store, *Service) {
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

func sampleBundle() *model.ParseResult {
	return &model.ParseResult{
		Package: model.PackageDescriptor{Name: "widgets", Version: "2.1.0"},
		Modules: []model.ModuleFacts{
			{
				Path: "src/base.ts",
				Classes: []model.ClassFact{{
					Name:       "BaseWidget",
					IsExported: true,
					Methods: []model.MethodFact{{
						Name:       "render",
						ReturnType: "void",
						Parameters: []model.ParameterFact{{Name: "depth", TypeName: "number"}},
					}},
					Properties: []model.PropertyFact{{Name: "id", ValueType: "string"}},
				}},
				Interfaces: []model.InterfaceFact{{Name: "Renderable", IsExported: true}},
			},
			{
				Path: "src/button.ts",
				Classes: []model.ClassFact{{
					Name:       "Button",
					IsExported: true,
					Extends:    model.TypeRef{Name: "BaseWidget"},
					Implements: []model.TypeRef{{Name: "Renderable"}},
				}},
				Functions: []model.FunctionFact{{Name: "makeButton", IsExported: true}},
			},
		},
		Dependencies: []model.DependencyFact{
			{TargetName: "left-pad", VersionRange: "^1.0.0", Kind: model.DepRuntime},
		},
		Issues: []model.IssueFact{
			{ModulePath: "src/button.ts", Severity: "warning", RuleID: "no-any", Message: "implicit any"},
		},
	}
}

func countRows(t *testing.T, store *repository.Store, table string) int {
	t.Helper()
	rows, err := store.DB.Query(context.Background(), "SELECT id FROM "+table)
	if err != nil {
		t.Fatalf("count %s failed: %v", table, err)
	}
	return len(rows)
}

func TestRunIngestsBundle(t *testing.T) {
	store, svc := setup(t)
	ctx := context.Background()

	summary, err := svc.Run(ctx, sampleBundle())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Modules != 2 {
		t.Errorf("modules = %d, want 2", summary.Modules)
	}
	if summary.RunID == "" {
		t.Error("run id missing")
	}

	for table, want := range map[string]int{
		"packages": 1, "modules": 2, "classes": 2, "interfaces": 1,
		"methods": 1, "properties": 1, "parameters": 1, "functions": 1,
		"package_dependencies": 1, "code_issues": 1, "ingest_runs": 1,
	} {
		if got := countRows(t, store, table); got != want {
			t.Errorf("%s has %d rows, want %d", table, got, want)
		}
	}
}

func TestRunResolvesCrossModuleReferences(t *testing.T) {
	store, svc := setup(t)
	ctx := context.Background()

	summary, err := svc.Run(ctx, sampleBundle())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Resolution.Resolved != 2 {
		t.Errorf("resolved = %d, want 2 (extends + implements)", summary.Resolution.Resolved)
	}

	// Button extends BaseWidget across modules; the denormalized parent id
	// and both junction edges must be in place.
	classes, err := store.Classes.List(ctx)
	if err != nil {
		t.Fatalf("class list failed: %v", err)
	}
	var button, base model.Class
	for _, c := range classes {
		switch c.Name {
		case "Button":
			button = c
		case "BaseWidget":
			base = c
		}
	}
	if button.ExtendsID != base.ID {
		t.Errorf("Button extends_id = %q, want %q", button.ExtendsID, base.ID)
	}
	impls, err := store.Relations.ImplementsByClassIDs(ctx, []string{button.ID})
	if err != nil {
		t.Fatalf("edge read failed: %v", err)
	}
	if len(impls[button.ID]) != 1 {
		t.Errorf("Button implements %d interfaces, want 1", len(impls[button.ID]))
	}
}

func TestRunIsIdempotent(t *testing.T) {
	store, svc := setup(t)
	ctx := context.Background()

	if _, err := svc.Run(ctx, sampleBundle()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if _, err := svc.Run(ctx, sampleBundle()); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	for table, want := range map[string]int{
		"packages": 1, "modules": 2, "classes": 2, "methods": 1,
		"class_extends": 1, "class_implements": 1,
		"package_dependencies": 1, "code_issues": 1,
	} {
		if got := countRows(t, store, table); got != want {
			t.Errorf("%s has %d rows after re-ingestion, want %d", table, got, want)
		}
	}

	// Each run is its own record even when the data is unchanged.
	if got := countRows(t, store, "ingest_runs"); got != 2 {
		t.Errorf("ingest_runs has %d rows, want 2", got)
	}
}

func TestRunLinksInternalDependency(t *testing.T) {
	store, svc := setup(t)
	ctx := context.Background()

	target := &model.ParseResult{
		Package: model.PackageDescriptor{Name: "left-pad", Version: "1.3.0"},
	}
	if _, err := svc.Run(ctx, target); err != nil {
		t.Fatalf("target run failed: %v", err)
	}
	summary, err := svc.Run(ctx, sampleBundle())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	deps, err := store.Dependencies.BySourceIDs(ctx, []string{summary.PackageID})
	if err != nil {
		t.Fatalf("dependency read failed: %v", err)
	}
	got := deps[summary.PackageID]
	if len(got) != 1 {
		t.Fatalf("got %d dependencies, want 1", len(got))
	}
	if got[0].TargetPackageID == "" {
		t.Error("dependency target should resolve to the stored package")
	}
}

func TestRunKeepsExternalDependencyUnresolved(t *testing.T) {
	store, svc := setup(t)
	ctx := context.Background()

	summary, err := svc.Run(ctx, sampleBundle())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	deps, err := store.Dependencies.BySourceIDs(ctx, []string{summary.PackageID})
	if err != nil {
		t.Fatalf("dependency read failed: %v", err)
	}
	got := deps[summary.PackageID]
	if len(got) != 1 {
		t.Fatalf("got %d dependencies, want 1", len(got))
	}
	if got[0].TargetPackageID != "" {
		t.Errorf("external target should stay unresolved, got %q", got[0].TargetPackageID)
	}
	if got[0].TargetName != "left-pad" {
		t.Errorf("target name = %q", got[0].TargetName)
	}
}

func TestRunDropsSelfDependency(t *testing.T) {
	store, svc := setup(t)
	ctx := context.Background()

	bundle := &model.ParseResult{
		Package: model.PackageDescriptor{Name: "selfish", Version: "1.0.0"},
		Dependencies: []model.DependencyFact{
			{TargetName: "selfish", Kind: model.DepRuntime},
		},
	}
	if _, err := svc.Run(ctx, bundle); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := countRows(t, store, "package_dependencies"); got != 0 {
		t.Errorf("self dependency was stored, %d rows", got)
	}
}
