package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// TypeRef is a tagged reference to another declared type. The parser emits
// either a resolved id (target was in the same batch) or a bare name
// (target defined elsewhere, resolved later against the whole corpus).
// Exactly one field is set.
type TypeRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// IsResolved reports whether the reference already carries an id.
func (r TypeRef) IsResolved() bool { return r.ID != "" }

// IsZero reports whether the reference is absent.
func (r TypeRef) IsZero() bool { return r.ID == "" && r.Name == "" }

// ParameterFact is a parser-observed parameter.
type ParameterFact struct {
	Name       string `json:"name"`
	TypeName   string `json:"typeName,omitempty"`
	IsOptional bool   `json:"isOptional,omitempty"`
}

// MethodFact is a parser-observed method.
type MethodFact struct {
	Name       string          `json:"name"`
	ReturnType string          `json:"returnType,omitempty"`
	Visibility string          `json:"visibility,omitempty"`
	IsStatic   bool            `json:"isStatic,omitempty"`
	IsAsync    bool            `json:"isAsync,omitempty"`
	Line       int64           `json:"line,omitempty"`
	Parameters []ParameterFact `json:"parameters,omitempty"`
}

// PropertyFact is a parser-observed property.
type PropertyFact struct {
	Name       string `json:"name"`
	ValueType  string `json:"valueType,omitempty"`
	Visibility string `json:"visibility,omitempty"`
	IsStatic   bool   `json:"isStatic,omitempty"`
	IsReadonly bool   `json:"isReadonly,omitempty"`
	Line       int64  `json:"line,omitempty"`
}

// ClassFact is a parser-observed class with captured relationships.
type ClassFact struct {
	Name       string         `json:"name"`
	IsAbstract bool           `json:"isAbstract,omitempty"`
	IsExported bool           `json:"isExported,omitempty"`
	Line       int64          `json:"line,omitempty"`
	Extends    TypeRef        `json:"extends,omitempty"`
	Implements []TypeRef      `json:"implements,omitempty"`
	Methods    []MethodFact   `json:"methods,omitempty"`
	Properties []PropertyFact `json:"properties,omitempty"`
}

// InterfaceFact is a parser-observed interface.
type InterfaceFact struct {
	Name       string         `json:"name"`
	IsExported bool           `json:"isExported,omitempty"`
	Line       int64          `json:"line,omitempty"`
	Extends    []TypeRef      `json:"extends,omitempty"`
	Methods    []MethodFact   `json:"methods,omitempty"`
	Properties []PropertyFact `json:"properties,omitempty"`
}

// FunctionFact is a parser-observed free function.
type FunctionFact struct {
	Name       string `json:"name"`
	ReturnType string `json:"returnType,omitempty"`
	IsExported bool   `json:"isExported,omitempty"`
	IsAsync    bool   `json:"isAsync,omitempty"`
	Line       int64  `json:"line,omitempty"`
}

// TypeAliasFact is a parser-observed type alias.
type TypeAliasFact struct {
	Name        string `json:"name"`
	AliasedType string `json:"aliasedType,omitempty"`
	IsExported  bool   `json:"isExported,omitempty"`
}

// EnumFact is a parser-observed enum.
type EnumFact struct {
	Name        string `json:"name"`
	IsConst     bool   `json:"isConst,omitempty"`
	MembersJSON string `json:"membersJson,omitempty"`
}

// VariableFact is a parser-observed module-level variable.
type VariableFact struct {
	Name       string `json:"name"`
	ValueType  string `json:"valueType,omitempty"`
	Kind       string `json:"kind,omitempty"`
	IsExported bool   `json:"isExported,omitempty"`
	Line       int64  `json:"line,omitempty"`
}

// ImportFact is a parser-observed import binding with its serialized
// source specifier.
type ImportFact struct {
	Name      string `json:"name"`
	Source    string `json:"source"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// ExportFact is a parser-observed export binding.
type ExportFact struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// ReferenceFact is a parser-observed symbol usage.
type ReferenceFact struct {
	Name    string `json:"name"`
	Line    int64  `json:"line,omitempty"`
	Context string `json:"context,omitempty"`
}

// ModuleFacts bundles everything the parser observed in one source file.
type ModuleFacts struct {
	Path        string          `json:"path"`
	Name        string          `json:"name,omitempty"`
	SourceHash  string          `json:"sourceHash,omitempty"`
	Classes     []ClassFact     `json:"classes,omitempty"`
	Interfaces  []InterfaceFact `json:"interfaces,omitempty"`
	Functions   []FunctionFact  `json:"functions,omitempty"`
	TypeAliases []TypeAliasFact `json:"typeAliases,omitempty"`
	Enums       []EnumFact      `json:"enums,omitempty"`
	Variables   []VariableFact  `json:"variables,omitempty"`
	Imports     []ImportFact    `json:"imports,omitempty"`
	Exports     []ExportFact    `json:"exports,omitempty"`
	References  []ReferenceFact `json:"references,omitempty"`
}

// DependencyFact is one declared package dependency.
type DependencyFact struct {
	TargetName   string         `json:"targetName"`
	VersionRange string         `json:"versionRange,omitempty"`
	Kind         DependencyKind `json:"kind"`
}

// IssueFact is one parser- or linter-reported finding.
type IssueFact struct {
	ModulePath string `json:"modulePath,omitempty"`
	Severity   string `json:"severity"`
	Category   string `json:"category,omitempty"`
	RuleID     string `json:"ruleId,omitempty"`
	Message    string `json:"message"`
	Line       int64  `json:"line,omitempty"`
}

// PackageDescriptor identifies the package a parse run covered.
type PackageDescriptor struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// ParseResult is the full bundle a parser run produces for one package.
type ParseResult struct {
	Package      PackageDescriptor `json:"package"`
	Modules      []ModuleFacts     `json:"modules"`
	Dependencies []DependencyFact  `json:"dependencies,omitempty"`
	Issues       []IssueFact       `json:"issues,omitempty"`
}

// LoadParseResult reads a parser-produced bundle from a JSON file.
func LoadParseResult(path string) (*ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parse bundle: %w", err)
	}
	var pr ParseResult
	if err := json.Unmarshal(data, &pr); err != nil {
		return nil, fmt.Errorf("failed to decode parse bundle: %w", err)
	}
	if pr.Package.Name == "" {
		return nil, fmt.Errorf("parse bundle has no package name")
	}
	return &pr, nil
}
