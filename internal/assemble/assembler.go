// Package assemble hydrates stored rows into nested graph views.
//
// Assembly is strictly batched: one query per child kind across all parent
// ids of the current level, then in-memory stitching. Reading a package
// with a thousand modules costs the same number of queries as reading one
// with a single module.
package assemble

import (
	"context"
	"log/slog"
	"sync"

	"codeatlas/internal/model"
	"codeatlas/internal/repository"
)

// DefaultWorkers bounds the package fan-out of Graph.
const DefaultWorkers = 4

// Assembler reads entity rows and builds the nested views.
type Assembler struct {
	store   *repository.Store
	logger  *slog.Logger
	workers int
}

func New(store *repository.Store, logger *slog.Logger, workers int) *Assembler {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Assembler{store: store, logger: logger, workers: workers}
}

// Graph hydrates every stored package. Packages are assembled concurrently
// by a fixed pool of workers; a package whose assembly fails is returned
// with an empty module list rather than failing the whole read. Output
// order matches the package listing regardless of worker scheduling.
func (a *Assembler) Graph(ctx context.Context) ([]model.PackageView, error) {
	pkgs, err := a.store.Packages.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(pkgs))
	for i, p := range pkgs {
		ids[i] = p.ID
	}
	deps, err := a.store.Dependencies.BySourceIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	results := make([]model.PackageView, len(pkgs))
	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < a.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				pkg := pkgs[i]
				modules, err := a.Modules(ctx, pkg.ID)
				if err != nil {
					a.logger.Warn("package assembly failed, returning it empty",
						"package", pkg.Name, "error", err)
					modules = []model.ModuleView{}
				}
				results[i] = model.PackageView{
					Package:      pkg,
					Modules:      modules,
					Dependencies: deps[pkg.ID],
				}
			}
		}()
	}
	for i := range pkgs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return results, nil
}

// Modules hydrates every module of one package.
func (a *Assembler) Modules(ctx context.Context, packageID string) ([]model.ModuleView, error) {
	mods, err := a.store.Modules.ByPackageID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if len(mods) == 0 {
		return []model.ModuleView{}, nil
	}
	modIDs := make([]string, len(mods))
	for i, m := range mods {
		modIDs[i] = m.ID
	}

	classes, err := a.store.Classes.ByModuleIDs(ctx, modIDs)
	if err != nil {
		return nil, err
	}
	ifaces, err := a.store.Interfaces.ByModuleIDs(ctx, modIDs)
	if err != nil {
		return nil, err
	}
	functions, err := a.store.Functions.ByModuleIDs(ctx, modIDs)
	if err != nil {
		return nil, err
	}
	aliases, err := a.store.TypeAliases.ByModuleIDs(ctx, modIDs)
	if err != nil {
		return nil, err
	}
	enums, err := a.store.Enums.ByModuleIDs(ctx, modIDs)
	if err != nil {
		return nil, err
	}
	variables, err := a.store.Variables.ByModuleIDs(ctx, modIDs)
	if err != nil {
		return nil, err
	}
	imports, err := a.store.Imports.ByModuleIDs(ctx, modIDs)
	if err != nil {
		return nil, err
	}
	exports, err := a.store.Exports.ByModuleIDs(ctx, modIDs)
	if err != nil {
		return nil, err
	}
	references, err := a.store.References.ByModuleIDs(ctx, modIDs)
	if err != nil {
		return nil, err
	}

	members, err := a.loadMembers(ctx, classes, ifaces)
	if err != nil {
		return nil, err
	}

	views := make([]model.ModuleView, 0, len(mods))
	for _, mod := range mods {
		view := model.ModuleView{
			Module:      mod,
			Functions:   functions[mod.ID],
			TypeAliases: aliases[mod.ID],
			Enums:       enums[mod.ID],
			Variables:   variables[mod.ID],
			Imports:     imports[mod.ID],
			Exports:     exports[mod.ID],
			References:  references[mod.ID],
		}
		for _, cls := range classes[mod.ID] {
			view.Classes = append(view.Classes, model.ClassView{
				Class:      cls,
				Methods:    members.methodViews(cls.ID),
				Properties: members.properties[cls.ID],
				Implements: members.implements[cls.ID],
				Extends:    members.classExtends[cls.ID],
			})
		}
		for _, iface := range ifaces[mod.ID] {
			view.Interfaces = append(view.Interfaces, model.InterfaceView{
				Interface:  iface,
				Methods:    members.methodViews(iface.ID),
				Properties: members.properties[iface.ID],
				Extends:    members.ifaceExtends[iface.ID],
			})
		}
		views = append(views, view)
	}
	return views, nil
}

// memberSets holds the member-level batches keyed by their parents.
type memberSets struct {
	methods      map[string][]model.Method
	properties   map[string][]model.Property
	parameters   map[string][]model.Parameter
	implements   map[string][]string
	classExtends map[string][]string
	ifaceExtends map[string][]string
}

func (m *memberSets) methodViews(parentID string) []model.MethodView {
	methods := m.methods[parentID]
	if len(methods) == 0 {
		return nil
	}
	views := make([]model.MethodView, len(methods))
	for i, method := range methods {
		views[i] = model.MethodView{Method: method, Parameters: m.parameters[method.ID]}
	}
	return views
}

// loadMembers batches the method, property, parameter, and edge reads
// across every class and interface of the module set. Class and interface
// ids share one methods query and one properties query; ids never collide
// across kinds.
func (a *Assembler) loadMembers(ctx context.Context, classes map[string][]model.Class, ifaces map[string][]model.Interface) (*memberSets, error) {
	var classIDs, ifaceIDs []string
	for _, group := range classes {
		for _, c := range group {
			classIDs = append(classIDs, c.ID)
		}
	}
	for _, group := range ifaces {
		for _, i := range group {
			ifaceIDs = append(ifaceIDs, i.ID)
		}
	}
	parentIDs := append(append([]string{}, classIDs...), ifaceIDs...)

	out := &memberSets{}
	var err error
	if out.methods, err = a.store.Methods.ByParentIDs(ctx, parentIDs); err != nil {
		return nil, err
	}
	if out.properties, err = a.store.Properties.ByParentIDs(ctx, parentIDs); err != nil {
		return nil, err
	}

	var methodIDs []string
	for _, group := range out.methods {
		for _, m := range group {
			methodIDs = append(methodIDs, m.ID)
		}
	}
	if out.parameters, err = a.store.Parameters.ByMethodIDs(ctx, methodIDs); err != nil {
		return nil, err
	}

	if out.implements, err = a.store.Relations.ImplementsByClassIDs(ctx, classIDs); err != nil {
		return nil, err
	}
	if out.classExtends, err = a.store.Relations.ExtendsByClassIDs(ctx, classIDs); err != nil {
		return nil, err
	}
	if out.ifaceExtends, err = a.store.Relations.ExtendsByInterfaceIDs(ctx, ifaceIDs); err != nil {
		return nil, err
	}
	return out, nil
}
