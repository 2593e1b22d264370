package repository

import (
	"context"
	"strings"

	"codeatlas/internal/model"
	"codeatlas/internal/storage"
	"codeatlas/internal/storeerr"
)

// DependencyRepo persists package-to-package dependency edges.
type DependencyRepo struct {
	*repo[model.Dependency]
}

func NewDependencyRepo(db *storage.DB) *DependencyRepo {
	return &DependencyRepo{newRepo(db, tableSpec[model.Dependency]{
		table: "package_dependencies",
		columns: []string{
			"id", "source_package_id", "target_package_id", "target_name", "version_range", "kind",
		},
		id: func(d model.Dependency) string { return d.ID },
		args: func(d model.Dependency) []any {
			return []any{
				d.ID, d.SourcePackageID, nullable(d.TargetPackageID),
				d.TargetName, nullable(d.VersionRange), string(d.Kind),
			}
		},
		fromRow: func(r storage.Row) model.Dependency {
			return model.Dependency{
				ID:              r.String("id"),
				SourcePackageID: r.String("source_package_id"),
				TargetPackageID: r.String("target_package_id"),
				TargetName:      r.String("target_name"),
				VersionRange:    r.String("version_range"),
				Kind:            model.DependencyKind(r.String("kind")),
			}
		},
	})}
}

// Create rejects self-edges before touching the store.
func (r *DependencyRepo) Create(ctx context.Context, d model.Dependency) (model.Dependency, error) {
	if d.TargetPackageID != "" && d.TargetPackageID == d.SourcePackageID {
		return model.Dependency{}, storeerr.New(storeerr.KindConstraintViolation,
			"create", "package_dependencies", "a package cannot depend on itself")
	}
	return r.repo.Create(ctx, d)
}

// BySourceIDs retrieves dependency edges for many packages in one query.
func (r *DependencyRepo) BySourceIDs(ctx context.Context, packageIDs []string) (map[string][]model.Dependency, error) {
	items, err := r.listByColumn(ctx, "source_package_id", packageIDs, "retrieveBySourceIds")
	if err != nil {
		return nil, err
	}
	return groupByKey(packageIDs, items, func(d model.Dependency) string { return d.SourcePackageID }), nil
}

// CodeIssueRepo persists recorded findings.
type CodeIssueRepo struct {
	*repo[model.CodeIssue]
}

func NewCodeIssueRepo(db *storage.DB) *CodeIssueRepo {
	return &CodeIssueRepo{newRepo(db, tableSpec[model.CodeIssue]{
		table: "code_issues",
		columns: []string{
			"id", "package_id", "module_id", "severity", "category", "rule_id", "message", "line",
		},
		id: func(i model.CodeIssue) string { return i.ID },
		args: func(i model.CodeIssue) []any {
			return []any{
				i.ID, nullable(i.PackageID), nullable(i.ModuleID), i.Severity,
				nullable(i.Category), nullable(i.RuleID), i.Message, i.Line,
			}
		},
		fromRow: func(r storage.Row) model.CodeIssue {
			return model.CodeIssue{
				ID:        r.String("id"),
				PackageID: r.String("package_id"),
				ModuleID:  r.String("module_id"),
				Severity:  r.String("severity"),
				Category:  r.String("category"),
				RuleID:    r.String("rule_id"),
				Message:   r.String("message"),
				Line:      r.Int("line"),
			}
		},
	})}
}

// RunRepo persists ingestion run records.
type RunRepo struct {
	*repo[model.IngestRun]
}

func NewRunRepo(db *storage.DB) *RunRepo {
	return &RunRepo{newRepo(db, tableSpec[model.IngestRun]{
		table: "ingest_runs",
		columns: []string{
			"id", "package_id", "started_at", "finished_at", "entity_count", "error_message",
		},
		id: func(r model.IngestRun) string { return r.ID },
		args: func(run model.IngestRun) []any {
			return []any{
				run.ID, run.PackageID, run.StartedAt, nullable(run.FinishedAt),
				run.EntityCount, nullable(run.ErrorMessage),
			}
		},
		fromRow: func(r storage.Row) model.IngestRun {
			return model.IngestRun{
				ID:           r.String("id"),
				PackageID:    r.String("package_id"),
				StartedAt:    r.String("started_at"),
				FinishedAt:   r.String("finished_at"),
				EntityCount:  r.Int("entity_count"),
				ErrorMessage: r.String("error_message"),
			}
		},
	})}
}

// Filtered returns issues matching the given package and severity; either
// filter may be empty to match everything.
func (r *CodeIssueRepo) Filtered(ctx context.Context, packageID, severity string) ([]model.CodeIssue, error) {
	var clauses []string
	var args []any
	if packageID != "" {
		clauses = append(clauses, "package_id = ?")
		args = append(args, packageID)
	}
	if severity != "" {
		clauses = append(clauses, "severity = ?")
		args = append(args, severity)
	}
	return r.listWhere(ctx, strings.Join(clauses, " AND "), "retrieveFiltered", args...)
}

// ByPackageID returns the run history of one package, newest first.
func (r *RunRepo) ByPackageID(ctx context.Context, packageID string) ([]model.IngestRun, error) {
	rows, err := r.db.Query(ctx,
		"SELECT id, package_id, started_at, finished_at, entity_count, error_message FROM ingest_runs WHERE package_id = ? ORDER BY started_at DESC",
		packageID)
	if err != nil {
		return nil, storeerr.Wrap(err, "retrieveByPackageId", "ingest_runs")
	}
	out := make([]model.IngestRun, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.sp.fromRow(row))
	}
	return out, nil
}
