// Package catalog is the read facade over the store. Every read method
// degrades to an empty result instead of returning an error: callers render
// whatever the catalog gives them and failures surface only in the log.
package catalog

import (
	"context"
	"log/slog"

	"codeatlas/internal/assemble"
	"codeatlas/internal/model"
	"codeatlas/internal/repository"
	"codeatlas/internal/storage"
)

// Options configures an opened catalog.
type Options struct {
	Path     string
	PoolSize int
	ReadOnly bool
	Reset    bool
	Workers  int
	Logger   *slog.Logger
}

// Catalog bundles the adapter, the repositories, and the assembler behind
// a read surface that never fails outward.
type Catalog struct {
	db     *storage.DB
	store  *repository.Store
	asm    *assemble.Assembler
	logger *slog.Logger
}

// Open opens the store, ensures its schema, and wires the read surface.
func Open(ctx context.Context, opts Options) (*Catalog, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	db, err := storage.Open(storage.Options{
		Path:     opts.Path,
		PoolSize: opts.PoolSize,
		ReadOnly: opts.ReadOnly,
		Reset:    opts.Reset,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	if err := storage.NewManager(db).Ensure(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	store := repository.NewStore(db)
	return &Catalog{
		db:     db,
		store:  store,
		asm:    assemble.New(store, logger, opts.Workers),
		logger: logger,
	}, nil
}

// Store exposes the repositories for the write path.
func (c *Catalog) Store() *repository.Store { return c.store }

func (c *Catalog) Close() error { return c.db.Close() }

// ListPackages returns the stored packages as summaries with per-kind
// dependency collections. Internal targets appear as ids, external ones as
// bare names.
func (c *Catalog) ListPackages(ctx context.Context) []model.PackageSummary {
	pkgs, err := c.store.Packages.List(ctx)
	if err != nil {
		c.logger.Error("package listing failed", "error", err)
		return []model.PackageSummary{}
	}
	ids := make([]string, len(pkgs))
	for i, p := range pkgs {
		ids[i] = p.ID
	}

	counts, err := c.store.Modules.CountByPackage(ctx)
	if err != nil {
		c.logger.Error("module count failed", "error", err)
		counts = map[string]int{}
	}
	deps, err := c.store.Dependencies.BySourceIDs(ctx, ids)
	if err != nil {
		c.logger.Error("dependency listing failed", "error", err)
		deps = map[string][]model.Dependency{}
	}

	summaries := make([]model.PackageSummary, len(pkgs))
	for i, pkg := range pkgs {
		s := model.PackageSummary{Package: pkg, ModuleCount: counts[pkg.ID]}
		for _, d := range deps[pkg.ID] {
			target := d.TargetPackageID
			if target == "" {
				target = d.TargetName
			}
			switch d.Kind {
			case model.DepDev:
				s.DevDependencies = append(s.DevDependencies, target)
			case model.DepPeer:
				s.PeerDependencies = append(s.PeerDependencies, target)
			default:
				s.Dependencies = append(s.Dependencies, target)
			}
		}
		summaries[i] = s
	}
	return summaries
}

// Graph returns the fully hydrated package graph.
func (c *Catalog) Graph(ctx context.Context) []model.PackageView {
	views, err := c.asm.Graph(ctx)
	if err != nil {
		c.logger.Error("graph assembly failed", "error", err)
		return []model.PackageView{}
	}
	return views
}

// Modules returns the hydrated modules of one package, looked up by name
// or id. An unknown package yields an empty list.
func (c *Catalog) Modules(ctx context.Context, pkg string) []model.ModuleView {
	id := c.resolvePackage(ctx, pkg)
	if id == "" {
		return []model.ModuleView{}
	}
	mods, err := c.asm.Modules(ctx, id)
	if err != nil {
		c.logger.Error("module assembly failed", "package", pkg, "error", err)
		return []model.ModuleView{}
	}
	return mods
}

// CodeIssues returns issues filtered by package (name or id) and severity;
// empty filters match everything.
func (c *Catalog) CodeIssues(ctx context.Context, pkg, severity string) []model.CodeIssue {
	var packageID string
	if pkg != "" {
		packageID = c.resolvePackage(ctx, pkg)
		if packageID == "" {
			return []model.CodeIssue{}
		}
	}
	issues, err := c.store.Issues.Filtered(ctx, packageID, severity)
	if err != nil {
		c.logger.Error("issue listing failed", "error", err)
		return []model.CodeIssue{}
	}
	return issues
}

// CodeIssueByID returns one issue, or nil when it does not exist.
func (c *Catalog) CodeIssueByID(ctx context.Context, id string) *model.CodeIssue {
	issue, err := c.store.Issues.ByID(ctx, id)
	if err != nil {
		c.logger.Debug("issue lookup failed", "id", id, "error", err)
		return nil
	}
	return &issue
}

// Runs returns the ingestion history of one package.
func (c *Catalog) Runs(ctx context.Context, pkg string) []model.IngestRun {
	id := c.resolvePackage(ctx, pkg)
	if id == "" {
		return []model.IngestRun{}
	}
	runs, err := c.store.Runs.ByPackageID(ctx, id)
	if err != nil {
		c.logger.Error("run listing failed", "package", pkg, "error", err)
		return []model.IngestRun{}
	}
	return runs
}

// resolvePackage accepts a package id or a bare name.
func (c *Catalog) resolvePackage(ctx context.Context, pkg string) string {
	if _, err := c.store.Packages.ByID(ctx, pkg); err == nil {
		return pkg
	}
	names, err := c.store.Packages.NameIndex(ctx)
	if err != nil {
		c.logger.Error("package lookup failed", "package", pkg, "error", err)
		return ""
	}
	return names[pkg]
}
