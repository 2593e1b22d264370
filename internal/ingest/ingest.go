// Package ingest turns parser output bundles into stored entities.
//
// A run derives deterministic ids for everything in the bundle, writes the
// entities in referential order through the duplicate-tolerant batch path,
// resolves captured type references, and records the run itself. Running
// the same bundle twice leaves the store unchanged.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"codeatlas/internal/identity"
	"codeatlas/internal/model"
	"codeatlas/internal/repository"
	"codeatlas/internal/resolve"
)

// Summary reports what one ingestion run did.
type Summary struct {
	RunID      string
	PackageID  string
	Entities   int
	Modules    int
	Resolution resolve.Stats
	Duration   time.Duration
}

// Service executes ingestion runs against one store.
type Service struct {
	store    *repository.Store
	resolver *resolve.Resolver
	logger   *slog.Logger
}

func New(store *repository.Store, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		resolver: resolve.New(store, logger),
		logger:   logger,
	}
}

// Run ingests one parse bundle. Entities are written parents before
// children so no row ever references a missing parent, duplicates from
// re-ingestion are silently tolerated, and captured type references are
// resolved after every entity of the bundle is in place. Any other
// failure halts the run; the run record then carries the error.
func (s *Service) Run(ctx context.Context, pr *model.ParseResult) (Summary, error) {
	started := time.Now().UTC()
	batch := buildBatch(pr)
	summary := Summary{
		RunID:     uuid.New().String(),
		PackageID: batch.pkg.ID,
		Entities:  batch.size(),
		Modules:   len(batch.modules),
	}

	s.logger.Info("ingesting package",
		"package", pr.Package.Name, "version", pr.Package.Version,
		"modules", summary.Modules, "entities", summary.Entities)

	err := s.write(ctx, batch)
	if err == nil {
		summary.Resolution, err = s.resolver.Resolve(ctx, batch.refs)
	}

	summary.Duration = time.Since(started)
	s.record(ctx, summary, started, err)
	if err != nil {
		return summary, fmt.Errorf("ingestion of %s failed: %w", pr.Package.Name, err)
	}

	s.logger.Info("ingestion complete",
		"package", pr.Package.Name,
		"resolved", summary.Resolution.Resolved,
		"unresolved", summary.Resolution.Unresolved,
		"duration", summary.Duration)
	return summary, nil
}

// write lands the batch in referential order.
func (s *Service) write(ctx context.Context, b *batch) error {
	if err := s.store.Packages.CreateBatch(ctx, []model.Package{b.pkg}); err != nil {
		return err
	}
	if err := s.store.Modules.CreateBatch(ctx, b.modules); err != nil {
		return err
	}
	if err := s.store.Classes.CreateBatch(ctx, b.classes); err != nil {
		return err
	}
	if err := s.store.Interfaces.CreateBatch(ctx, b.interfaces); err != nil {
		return err
	}
	if err := s.store.Methods.CreateBatch(ctx, b.methods); err != nil {
		return err
	}
	if err := s.store.Properties.CreateBatch(ctx, b.properties); err != nil {
		return err
	}
	if err := s.store.Parameters.CreateBatch(ctx, b.parameters); err != nil {
		return err
	}
	if err := s.store.Functions.CreateBatch(ctx, b.functions); err != nil {
		return err
	}
	if err := s.store.TypeAliases.CreateBatch(ctx, b.aliases); err != nil {
		return err
	}
	if err := s.store.Enums.CreateBatch(ctx, b.enums); err != nil {
		return err
	}
	if err := s.store.Variables.CreateBatch(ctx, b.variables); err != nil {
		return err
	}
	if err := s.store.Imports.CreateBatch(ctx, b.imports); err != nil {
		return err
	}
	if err := s.store.Exports.CreateBatch(ctx, b.exports); err != nil {
		return err
	}
	if err := s.store.References.CreateBatch(ctx, b.references); err != nil {
		return err
	}
	if err := s.store.Issues.CreateBatch(ctx, b.issues); err != nil {
		return err
	}
	return s.writeDependencies(ctx, b)
}

// writeDependencies resolves declared dependency targets against the
// stored package names. External targets keep an empty target id; a
// dependency on the package itself is dropped with a warning.
func (s *Service) writeDependencies(ctx context.Context, b *batch) error {
	if len(b.dependencies) == 0 {
		return nil
	}
	names, err := s.store.Packages.NameIndex(ctx)
	if err != nil {
		return err
	}

	edges := make([]model.Dependency, 0, len(b.dependencies))
	for _, fact := range b.dependencies {
		targetID := names[fact.TargetName]
		if targetID == b.pkg.ID {
			s.logger.Warn("dropping self dependency", "package", b.pkg.Name)
			continue
		}
		edges = append(edges, model.Dependency{
			ID: identity.Generate(identity.TypeDependency,
				b.pkg.ID+"."+fact.TargetName+"."+string(fact.Kind)),
			SourcePackageID: b.pkg.ID,
			TargetPackageID: targetID,
			TargetName:      fact.TargetName,
			VersionRange:    fact.VersionRange,
			Kind:            fact.Kind,
		})
	}
	return s.store.Dependencies.CreateBatch(ctx, edges)
}

// record persists the run row. A failure to record is logged, not
// propagated; the ingestion outcome matters more than its bookkeeping.
func (s *Service) record(ctx context.Context, summary Summary, started time.Time, runErr error) {
	run := model.IngestRun{
		ID:          summary.RunID,
		PackageID:   summary.PackageID,
		StartedAt:   started.Format(time.RFC3339),
		FinishedAt:  time.Now().UTC().Format(time.RFC3339),
		EntityCount: int64(summary.Entities),
	}
	if runErr != nil {
		run.ErrorMessage = runErr.Error()
	}
	if _, err := s.store.Runs.Create(ctx, run); err != nil {
		s.logger.Warn("failed to record ingest run", "run", run.ID, "error", err)
	}
}

// batch holds every entity derived from one parse bundle, plus the type
// references captured for the resolution pass.
type batch struct {
	pkg          model.Package
	modules      []model.Module
	classes      []model.Class
	interfaces   []model.Interface
	methods      []model.Method
	properties   []model.Property
	parameters   []model.Parameter
	functions    []model.Function
	aliases      []model.TypeAlias
	enums        []model.Enum
	variables    []model.Variable
	imports      []model.Import
	exports      []model.Export
	references   []model.SymbolReference
	issues       []model.CodeIssue
	dependencies []model.DependencyFact
	refs         []resolve.CapturedRef
}

func (b *batch) size() int {
	return 1 + len(b.modules) + len(b.classes) + len(b.interfaces) +
		len(b.methods) + len(b.properties) + len(b.parameters) +
		len(b.functions) + len(b.aliases) + len(b.enums) + len(b.variables) +
		len(b.imports) + len(b.exports) + len(b.references) + len(b.issues)
}

// buildBatch derives deterministic ids for the whole bundle up front.
func buildBatch(pr *model.ParseResult) *batch {
	b := &batch{dependencies: pr.Dependencies}
	b.pkg = model.Package{
		ID:          identity.Generate(identity.TypePackage, identity.PackageKey(pr.Package.Name, pr.Package.Version)),
		Name:        pr.Package.Name,
		Version:     pr.Package.Version,
		Description: pr.Package.Description,
	}

	moduleByPath := make(map[string]string, len(pr.Modules))
	for _, mf := range pr.Modules {
		mod := model.Module{
			ID:         identity.Generate(identity.TypeModule, identity.ModuleKey(b.pkg.ID, mf.Path)),
			PackageID:  b.pkg.ID,
			Path:       mf.Path,
			Name:       mf.Name,
			SourceHash: mf.SourceHash,
		}
		b.modules = append(b.modules, mod)
		moduleByPath[mf.Path] = mod.ID
		b.addModuleFacts(mod.ID, mf)
	}

	for _, issue := range pr.Issues {
		key := fmt.Sprintf("%s.%s.%s.%d.%s", b.pkg.ID, issue.ModulePath, issue.RuleID, issue.Line, issue.Message)
		b.issues = append(b.issues, model.CodeIssue{
			ID:        identity.Generate(identity.TypeCodeIssue, key),
			PackageID: b.pkg.ID,
			ModuleID:  moduleByPath[issue.ModulePath],
			Severity:  issue.Severity,
			Category:  issue.Category,
			RuleID:    issue.RuleID,
			Message:   issue.Message,
			Line:      issue.Line,
		})
	}
	return b
}

func (b *batch) addModuleFacts(modID string, mf model.ModuleFacts) {
	for _, cf := range mf.Classes {
		clsID := identity.Generate(identity.TypeClass, identity.ModuleScopedKey(b.pkg.ID, modID, cf.Name))
		b.classes = append(b.classes, model.Class{
			ID:         clsID,
			ModuleID:   modID,
			Name:       cf.Name,
			IsAbstract: cf.IsAbstract,
			IsExported: cf.IsExported,
			Line:       cf.Line,
		})
		b.addMembers(modID, clsID, model.ParentClass, cf.Methods, cf.Properties)

		if !cf.Extends.IsZero() {
			b.refs = append(b.refs, resolve.CapturedRef{
				Kind: resolve.RefExtends, SourceID: clsID,
				SourceKind: resolve.SourceClass, Target: cf.Extends,
			})
		}
		for _, impl := range cf.Implements {
			if impl.IsZero() {
				continue
			}
			b.refs = append(b.refs, resolve.CapturedRef{
				Kind: resolve.RefImplements, SourceID: clsID,
				SourceKind: resolve.SourceClass, Target: impl,
			})
		}
	}

	for _, ifc := range mf.Interfaces {
		ifcID := identity.Generate(identity.TypeInterface, identity.ModuleScopedKey(b.pkg.ID, modID, ifc.Name))
		b.interfaces = append(b.interfaces, model.Interface{
			ID:         ifcID,
			ModuleID:   modID,
			Name:       ifc.Name,
			IsExported: ifc.IsExported,
			Line:       ifc.Line,
		})
		b.addMembers(modID, ifcID, model.ParentInterface, ifc.Methods, ifc.Properties)

		for _, ext := range ifc.Extends {
			if ext.IsZero() {
				continue
			}
			b.refs = append(b.refs, resolve.CapturedRef{
				Kind: resolve.RefExtends, SourceID: ifcID,
				SourceKind: resolve.SourceInterface, Target: ext,
			})
		}
	}

	for _, ff := range mf.Functions {
		b.functions = append(b.functions, model.Function{
			ID:         identity.Generate(identity.TypeFunction, identity.ModuleScopedKey(b.pkg.ID, modID, ff.Name)),
			ModuleID:   modID,
			Name:       ff.Name,
			ReturnType: ff.ReturnType,
			IsExported: ff.IsExported,
			IsAsync:    ff.IsAsync,
			Line:       ff.Line,
		})
	}
	for _, af := range mf.TypeAliases {
		b.aliases = append(b.aliases, model.TypeAlias{
			ID:          identity.Generate(identity.TypeTypeAlias, identity.NameKey(modID, af.Name)),
			ModuleID:    modID,
			Name:        af.Name,
			AliasedType: af.AliasedType,
			IsExported:  af.IsExported,
		})
	}
	for _, ef := range mf.Enums {
		b.enums = append(b.enums, model.Enum{
			ID:          identity.Generate(identity.TypeEnum, identity.ModuleScopedKey(b.pkg.ID, modID, ef.Name)),
			ModuleID:    modID,
			Name:        ef.Name,
			IsConst:     ef.IsConst,
			MembersJSON: ef.MembersJSON,
		})
	}
	for _, vf := range mf.Variables {
		b.variables = append(b.variables, model.Variable{
			ID:         identity.Generate(identity.TypeVariable, identity.NameKey(modID, vf.Name)),
			ModuleID:   modID,
			Name:       vf.Name,
			ValueType:  vf.ValueType,
			Kind:       vf.Kind,
			IsExported: vf.IsExported,
			Line:       vf.Line,
		})
	}
	for _, imp := range mf.Imports {
		b.imports = append(b.imports, model.Import{
			ID:        identity.Generate(identity.TypeImport, identity.NameKey(modID, imp.Source+"#"+imp.Name)),
			ModuleID:  modID,
			Name:      imp.Name,
			Source:    imp.Source,
			IsDefault: imp.IsDefault,
		})
	}
	for _, exp := range mf.Exports {
		b.exports = append(b.exports, model.Export{
			ID:        identity.Generate(identity.TypeExport, identity.NameKey(modID, exp.Name)),
			ModuleID:  modID,
			Name:      exp.Name,
			IsDefault: exp.IsDefault,
		})
	}
	for _, ref := range mf.References {
		key := identity.NameKey(modID, fmt.Sprintf("%s@%d", ref.Name, ref.Line))
		b.references = append(b.references, model.SymbolReference{
			ID:       identity.Generate(identity.TypeSymbolReference, key),
			ModuleID: modID,
			Name:     ref.Name,
			Line:     ref.Line,
			Context:  ref.Context,
		})
	}
}

func (b *batch) addMembers(modID, parentID string, kind model.ParentKind, methods []model.MethodFact, properties []model.PropertyFact) {
	for _, mf := range methods {
		methodID := identity.Generate(identity.TypeMethod, identity.MethodKey(b.pkg.ID, modID, parentID, mf.Name))
		b.methods = append(b.methods, model.Method{
			ID:         methodID,
			ParentID:   parentID,
			ParentKind: kind,
			Name:       mf.Name,
			ReturnType: mf.ReturnType,
			Visibility: mf.Visibility,
			IsStatic:   mf.IsStatic,
			IsAsync:    mf.IsAsync,
			Line:       mf.Line,
		})
		for pos, pf := range mf.Parameters {
			b.parameters = append(b.parameters, model.Parameter{
				ID:         identity.Generate(identity.TypeParameter, identity.ParameterKey(methodID, pf.Name)),
				MethodID:   methodID,
				Name:       pf.Name,
				TypeName:   pf.TypeName,
				Position:   int64(pos),
				IsOptional: pf.IsOptional,
			})
		}
	}
	for _, pf := range properties {
		b.properties = append(b.properties, model.Property{
			ID:         identity.Generate(identity.TypeProperty, identity.PropertyKey(b.pkg.ID, modID, parentID, string(kind), pf.Name)),
			ParentID:   parentID,
			ParentKind: kind,
			Name:       pf.Name,
			ValueType:  pf.ValueType,
			Visibility: pf.Visibility,
			IsStatic:   pf.IsStatic,
			IsReadonly: pf.IsReadonly,
			Line:       pf.Line,
		})
	}
}
