package identity

import (
	"strings"
	"testing"
)

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(TypeClass, "pkg.mod.Widget")
	b := Generate(TypeClass, "pkg.mod.Widget")

	if a != b {
		t.Errorf("same (type, key) produced different ids: %s vs %s", a, b)
	}
}

func TestGenerateSeparatesTypes(t *testing.T) {
	key := "pkg.mod.Widget"

	types := []EntityType{
		TypePackage, TypeModule, TypeClass, TypeInterface, TypeMethod,
		TypeProperty, TypeParameter, TypeFunction, TypeTypeAlias, TypeEnum,
		TypeVariable, TypeImport, TypeExport, TypeSymbolReference,
		TypeDependency, TypeCodeIssue, TypeRelationship,
	}

	seen := make(map[string]EntityType)
	for _, et := range types {
		id := Generate(et, key)
		if prev, ok := seen[id]; ok {
			t.Errorf("types %s and %s collided on key %q", prev, et, key)
		}
		seen[id] = et
	}
}

func TestGenerateWellFormed(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty key", ""},
		{"unicode key", "пакет@1.0.0/模块"},
		{"path-like key", "src/nested/dir/module.ts"},
		{"key with separators", "a|b:c@d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := Generate(TypeModule, tt.key)
			if !strings.HasPrefix(id, "atlas:module:") {
				t.Errorf("id %q missing type namespace prefix", id)
			}
			parts := strings.SplitN(id, ":", 3)
			if len(parts) != 3 || len(parts[2]) != 32 {
				t.Errorf("id %q is not well-formed", id)
			}
		})
	}
}

func TestKeyBuilders(t *testing.T) {
	if got := PackageKey("lodash", "4.17.21"); got != "lodash@4.17.21" {
		t.Errorf("PackageKey = %q", got)
	}
	if got := ModuleKey("pkg1", "src/index.ts"); got != "pkg1.src/index.ts" {
		t.Errorf("ModuleKey = %q", got)
	}
	if got := PropertyKey("p", "m", "c1", "class", "count"); got != "p.m.c1.class.count" {
		t.Errorf("PropertyKey = %q", got)
	}
	if got := RelationshipKey("implements", "c1", "i1"); got != "rel:implements:c1:i1" {
		t.Errorf("RelationshipKey = %q", got)
	}
}

func TestPropertyKeyDisambiguatesParentKind(t *testing.T) {
	onClass := Generate(TypeProperty, PropertyKey("p", "m", "x", "class", "name"))
	onIface := Generate(TypeProperty, PropertyKey("p", "m", "x", "interface", "name"))

	if onClass == onIface {
		t.Error("property ids under different parent kinds collided")
	}
}
