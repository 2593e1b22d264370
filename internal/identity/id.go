package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// EntityType namespaces generated ids so that identical contextual keys
// under different types never collide.
type EntityType string

const (
	TypePackage         EntityType = "package"
	TypeModule          EntityType = "module"
	TypeClass           EntityType = "class"
	TypeInterface       EntityType = "interface"
	TypeMethod          EntityType = "method"
	TypeProperty        EntityType = "property"
	TypeParameter       EntityType = "parameter"
	TypeFunction        EntityType = "function"
	TypeTypeAlias       EntityType = "typeAlias"
	TypeEnum            EntityType = "enum"
	TypeVariable        EntityType = "variable"
	TypeImport          EntityType = "import"
	TypeExport          EntityType = "export"
	TypeSymbolReference EntityType = "symbolRef"
	TypeDependency      EntityType = "dependency"
	TypeCodeIssue       EntityType = "codeIssue"
	TypeRelationship    EntityType = "relationship"
	TypeIngestRun       EntityType = "ingestRun"
)

// Generate derives a deterministic id from an entity type and its
// contextual key. The same (type, key) pair always yields the same id;
// the type is part of the hashed material and the rendered prefix, so
// two types can never collide on the same key.
func Generate(entityType EntityType, contextualKey string) string {
	sum := sha256.Sum256([]byte(string(entityType) + "|" + contextualKey))
	return fmt.Sprintf("atlas:%s:%s", entityType, hex.EncodeToString(sum[:16]))
}

// PackageKey builds the contextual key for a package: name@version.
func PackageKey(name, version string) string {
	return name + "@" + version
}

// ModuleKey builds the contextual key for a module within a package.
func ModuleKey(packageID, path string) string {
	return packageID + "." + path
}

// ModuleScopedKey builds the key for entities owned directly by a module
// (class, interface, enum, function).
func ModuleScopedKey(packageID, moduleID, name string) string {
	return packageID + "." + moduleID + "." + name
}

// MethodKey builds the key for a method under a class or interface.
func MethodKey(packageID, moduleID, parentID, name string) string {
	return packageID + "." + moduleID + "." + parentID + "." + name
}

// PropertyKey builds the key for a property; the parent kind participates
// because methods and properties share parent tables across two kinds.
func PropertyKey(packageID, moduleID, parentID, parentKind, name string) string {
	return packageID + "." + moduleID + "." + parentID + "." + parentKind + "." + name
}

// ParameterKey builds the key for a parameter of a method.
func ParameterKey(methodID, name string) string {
	return methodID + "." + name
}

// NameKey builds the key for entities identified by name within a module
// (import, export, type alias).
func NameKey(moduleID, name string) string {
	return moduleID + "." + name
}

// RelationshipKey builds the key for a resolved relationship edge.
func RelationshipKey(relType, sourceID, targetID string) string {
	return fmt.Sprintf("rel:%s:%s:%s", relType, sourceID, targetID)
}
