package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"codeatlas/internal/ingest"
	"codeatlas/internal/model"
	"codeatlas/internal/storage"
)

func openCatalog(t *testing.T) *Catalog {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat, err := Open(context.Background(), Options{Path: storage.MemoryPath, Logger: logger})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = cat.Close() })
	return cat
}

func ingestBundle(t *testing.T, cat *Catalog, pr *model.ParseResult) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := ingest.New(cat.Store(), logger).Run(context.Background(), pr); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
}

func sampleBundle() *model.ParseResult {
	return &model.ParseResult{
		Package: model.PackageDescriptor{Name: "widgets", Version: "2.1.0"},
		Modules: []model.ModuleFacts{{
			Path: "src/index.ts",
			Classes: []model.ClassFact{{
				Name:       "Widget",
				IsExported: true,
				Methods:    []model.MethodFact{{Name: "render"}},
			}},
		}},
		Dependencies: []model.DependencyFact{
			{TargetName: "left-pad", Kind: model.DepRuntime},
			{TargetName: "jest", Kind: model.DepDev},
		},
		Issues: []model.IssueFact{
			{ModulePath: "src/index.ts", Severity: "error", RuleID: "no-any", Message: "implicit any"},
			{ModulePath: "src/index.ts", Severity: "warning", RuleID: "no-console", Message: "console usage"},
		},
	}
}

func TestListPackagesSummaries(t *testing.T) {
	cat := openCatalog(t)
	ingestBundle(t, cat, sampleBundle())

	got := cat.ListPackages(context.Background())
	if len(got) != 1 {
		t.Fatalf("got %d packages, want 1", len(got))
	}
	s := got[0]
	if s.Name != "widgets" || s.ModuleCount != 1 {
		t.Errorf("summary = %+v", s)
	}
	if len(s.Dependencies) != 1 || s.Dependencies[0] != "left-pad" {
		t.Errorf("runtime dependencies = %v", s.Dependencies)
	}
	if len(s.DevDependencies) != 1 || s.DevDependencies[0] != "jest" {
		t.Errorf("dev dependencies = %v", s.DevDependencies)
	}
}

func TestListPackagesEmptyStore(t *testing.T) {
	cat := openCatalog(t)
	got := cat.ListPackages(context.Background())
	if got == nil || len(got) != 0 {
		t.Errorf("empty store should yield an empty non-nil slice, got %v", got)
	}
}

func TestGraphHydratesPackage(t *testing.T) {
	cat := openCatalog(t)
	ingestBundle(t, cat, sampleBundle())

	views := cat.Graph(context.Background())
	if len(views) != 1 {
		t.Fatalf("got %d packages, want 1", len(views))
	}
	if len(views[0].Modules) != 1 || len(views[0].Modules[0].Classes) != 1 {
		t.Errorf("graph not hydrated: %+v", views[0])
	}
	if got := views[0].Modules[0].Classes[0].Methods; len(got) != 1 || got[0].Name != "render" {
		t.Errorf("methods not hydrated: %+v", got)
	}
}

func TestModulesByNameAndByID(t *testing.T) {
	cat := openCatalog(t)
	ingestBundle(t, cat, sampleBundle())
	ctx := context.Background()

	byName := cat.Modules(ctx, "widgets")
	if len(byName) != 1 {
		t.Fatalf("lookup by name returned %d modules", len(byName))
	}

	pkgs := cat.ListPackages(ctx)
	byID := cat.Modules(ctx, pkgs[0].ID)
	if len(byID) != 1 {
		t.Errorf("lookup by id returned %d modules", len(byID))
	}
}

func TestModulesUnknownPackageIsEmptyNotError(t *testing.T) {
	cat := openCatalog(t)
	got := cat.Modules(context.Background(), "no-such-package")
	if got == nil || len(got) != 0 {
		t.Errorf("unknown package should yield an empty non-nil slice, got %v", got)
	}
}

func TestCodeIssuesFiltering(t *testing.T) {
	cat := openCatalog(t)
	ingestBundle(t, cat, sampleBundle())
	ctx := context.Background()

	all := cat.CodeIssues(ctx, "", "")
	if len(all) != 2 {
		t.Fatalf("got %d issues, want 2", len(all))
	}
	errs := cat.CodeIssues(ctx, "widgets", "error")
	if len(errs) != 1 || errs[0].RuleID != "no-any" {
		t.Errorf("severity filter returned %+v", errs)
	}
	none := cat.CodeIssues(ctx, "no-such-package", "")
	if len(none) != 0 {
		t.Errorf("unknown package returned %d issues", len(none))
	}
}

func TestCodeIssueByID(t *testing.T) {
	cat := openCatalog(t)
	ingestBundle(t, cat, sampleBundle())
	ctx := context.Background()

	all := cat.CodeIssues(ctx, "", "")
	if len(all) == 0 {
		t.Fatal("no issues ingested")
	}
	if got := cat.CodeIssueByID(ctx, all[0].ID); got == nil || got.ID != all[0].ID {
		t.Errorf("lookup by id failed: %v", got)
	}
	if got := cat.CodeIssueByID(ctx, "missing"); got != nil {
		t.Errorf("missing id should yield nil, got %v", got)
	}
}

func TestRunsHistory(t *testing.T) {
	cat := openCatalog(t)
	ingestBundle(t, cat, sampleBundle())
	ingestBundle(t, cat, sampleBundle())

	runs := cat.Runs(context.Background(), "widgets")
	if len(runs) != 2 {
		t.Errorf("got %d runs, want 2", len(runs))
	}
}
