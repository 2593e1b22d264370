package model

// MethodView is a method with its parameters attached.
type MethodView struct {
	Method
	Parameters []Parameter `json:"parameters,omitempty"`
}

// ClassView is a class with members and resolved relationships attached.
type ClassView struct {
	Class
	Methods    []MethodView `json:"methods,omitempty"`
	Properties []Property   `json:"properties,omitempty"`
	Implements []string     `json:"implements,omitempty"`
	Extends    []string     `json:"extends,omitempty"`
}

// InterfaceView is an interface with members and extended parents attached.
type InterfaceView struct {
	Interface
	Methods    []MethodView `json:"methods,omitempty"`
	Properties []Property   `json:"properties,omitempty"`
	Extends    []string     `json:"extends,omitempty"`
}

// ModuleView is one fully hydrated module.
type ModuleView struct {
	Module
	Classes    []ClassView       `json:"classes,omitempty"`
	Interfaces []InterfaceView   `json:"interfaces,omitempty"`
	Functions  []Function        `json:"functions,omitempty"`
	TypeAliases []TypeAlias      `json:"typeAliases,omitempty"`
	Enums      []Enum            `json:"enums,omitempty"`
	Variables  []Variable        `json:"variables,omitempty"`
	Imports    []Import          `json:"imports,omitempty"`
	Exports    []Export          `json:"exports,omitempty"`
	References []SymbolReference `json:"references,omitempty"`
}

// PackageView is one fully hydrated package.
type PackageView struct {
	Package
	Modules      []ModuleView `json:"modules"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
}

// PackageSummary is the light listing shape: per-dependency-kind
// collections of target ids (or bare names for external targets).
type PackageSummary struct {
	Package
	ModuleCount      int      `json:"moduleCount"`
	Dependencies     []string `json:"dependencies,omitempty"`
	DevDependencies  []string `json:"devDependencies,omitempty"`
	PeerDependencies []string `json:"peerDependencies,omitempty"`
}
