// Package model defines the row-backed domain entities, the hydrated
// graph views served by the read surface, and the parser boundary types
// consumed on the ingestion path.
package model

// Package is a top-level distributable unit.
type Package struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// Module is one source file belonging to exactly one package.
type Module struct {
	ID         string `json:"id"`
	PackageID  string `json:"packageId"`
	Path       string `json:"path"`
	Name       string `json:"name,omitempty"`
	SourceHash string `json:"sourceHash,omitempty"`
}

// ParentKind discriminates which entity kind owns a shared child-table row.
type ParentKind string

const (
	ParentClass     ParentKind = "class"
	ParentInterface ParentKind = "interface"
)

// Class is a class declaration owned by one module. ExtendsID is the
// denormalized resolved parent, empty until relationship resolution runs.
type Class struct {
	ID         string `json:"id"`
	ModuleID   string `json:"moduleId"`
	Name       string `json:"name"`
	IsAbstract bool   `json:"isAbstract,omitempty"`
	IsExported bool   `json:"isExported,omitempty"`
	ExtendsID  string `json:"extendsId,omitempty"`
	Line       int64  `json:"line,omitempty"`
}

// Interface is an interface declaration owned by one module.
type Interface struct {
	ID         string `json:"id"`
	ModuleID   string `json:"moduleId"`
	Name       string `json:"name"`
	IsExported bool   `json:"isExported,omitempty"`
	ExtendsID  string `json:"extendsId,omitempty"`
	Line       int64  `json:"line,omitempty"`
}

// Method belongs to exactly one class or interface; ParentKind says which.
type Method struct {
	ID         string     `json:"id"`
	ParentID   string     `json:"parentId"`
	ParentKind ParentKind `json:"parentKind"`
	Name       string     `json:"name"`
	ReturnType string     `json:"returnType,omitempty"`
	Visibility string     `json:"visibility,omitempty"`
	IsStatic   bool       `json:"isStatic,omitempty"`
	IsAsync    bool       `json:"isAsync,omitempty"`
	Line       int64      `json:"line,omitempty"`
}

// Property belongs to exactly one class or interface.
type Property struct {
	ID         string     `json:"id"`
	ParentID   string     `json:"parentId"`
	ParentKind ParentKind `json:"parentKind"`
	Name       string     `json:"name"`
	ValueType  string     `json:"valueType,omitempty"`
	Visibility string     `json:"visibility,omitempty"`
	IsStatic   bool       `json:"isStatic,omitempty"`
	IsReadonly bool       `json:"isReadonly,omitempty"`
	Line       int64      `json:"line,omitempty"`
}

// Parameter belongs to one method.
type Parameter struct {
	ID         string `json:"id"`
	MethodID   string `json:"methodId"`
	Name       string `json:"name"`
	TypeName   string `json:"typeName,omitempty"`
	Position   int64  `json:"position"`
	IsOptional bool   `json:"isOptional,omitempty"`
}

// Function is a free function owned by one module.
type Function struct {
	ID         string `json:"id"`
	ModuleID   string `json:"moduleId"`
	Name       string `json:"name"`
	ReturnType string `json:"returnType,omitempty"`
	IsExported bool   `json:"isExported,omitempty"`
	IsAsync    bool   `json:"isAsync,omitempty"`
	Line       int64  `json:"line,omitempty"`
}

// TypeAlias is a named type alias owned by one module.
type TypeAlias struct {
	ID          string `json:"id"`
	ModuleID    string `json:"moduleId"`
	Name        string `json:"name"`
	AliasedType string `json:"aliasedType,omitempty"`
	IsExported  bool   `json:"isExported,omitempty"`
}

// Enum is an enumeration owned by one module. Members are stored as a
// serialized JSON document; they are never queried individually.
type Enum struct {
	ID          string `json:"id"`
	ModuleID    string `json:"moduleId"`
	Name        string `json:"name"`
	IsConst     bool   `json:"isConst,omitempty"`
	MembersJSON string `json:"membersJson,omitempty"`
}

// Variable is a module-level variable or constant.
type Variable struct {
	ID         string `json:"id"`
	ModuleID   string `json:"moduleId"`
	Name       string `json:"name"`
	ValueType  string `json:"valueType,omitempty"`
	Kind       string `json:"kind,omitempty"`
	IsExported bool   `json:"isExported,omitempty"`
	Line       int64  `json:"line,omitempty"`
}

// Import records one imported binding and its source specifier.
type Import struct {
	ID        string `json:"id"`
	ModuleID  string `json:"moduleId"`
	Name      string `json:"name"`
	Source    string `json:"source"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// Export records one exported binding.
type Export struct {
	ID        string `json:"id"`
	ModuleID  string `json:"moduleId"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// SymbolReference records a usage of a named symbol inside a module.
type SymbolReference struct {
	ID       string `json:"id"`
	ModuleID string `json:"moduleId"`
	Name     string `json:"name"`
	Line     int64  `json:"line,omitempty"`
	Context  string `json:"context,omitempty"`
}

// DependencyKind tags a package dependency edge.
type DependencyKind string

const (
	DepRuntime DependencyKind = "dependency"
	DepDev     DependencyKind = "devDependency"
	DepPeer    DependencyKind = "peerDependency"
)

// Dependency is a package-to-package edge. TargetPackageID is empty when
// the target package is external and not present in the store.
type Dependency struct {
	ID              string         `json:"id"`
	SourcePackageID string         `json:"sourcePackageId"`
	TargetPackageID string         `json:"targetPackageId,omitempty"`
	TargetName      string         `json:"targetName"`
	VersionRange    string         `json:"versionRange,omitempty"`
	Kind            DependencyKind `json:"kind"`
}

// CodeIssue is a recorded code-quality finding.
type CodeIssue struct {
	ID        string `json:"id"`
	PackageID string `json:"packageId,omitempty"`
	ModuleID  string `json:"moduleId,omitempty"`
	Severity  string `json:"severity"`
	Category  string `json:"category,omitempty"`
	RuleID    string `json:"ruleId,omitempty"`
	Message   string `json:"message"`
	Line      int64  `json:"line,omitempty"`
}

// IngestRun records one ingestion run.
type IngestRun struct {
	ID           string `json:"id"`
	PackageID    string `json:"packageId"`
	StartedAt    string `json:"startedAt"`
	FinishedAt   string `json:"finishedAt,omitempty"`
	EntityCount  int64  `json:"entityCount"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}
