package storage

// schemaDDL defines one table per entity kind, junction tables for
// resolved edges, the parent-kind discriminator on the shared child
// tables, and the denormalized extends_id columns. Uniqueness constraints
// mirror the deterministic identity keys so re-ingesting identical source
// material conflicts instead of duplicating.
const schemaDDL = `
-- Entity tables

CREATE TABLE IF NOT EXISTS packages (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	version TEXT NOT NULL,
	description TEXT,
	UNIQUE(name, version)
);

CREATE TABLE IF NOT EXISTS modules (
	id TEXT PRIMARY KEY,
	package_id TEXT NOT NULL,
	path TEXT NOT NULL,
	name TEXT,
	UNIQUE(package_id, path)
);
CREATE INDEX IF NOT EXISTS idx_modules_package ON modules(package_id);

CREATE TABLE IF NOT EXISTS classes (
	id TEXT PRIMARY KEY,
	module_id TEXT NOT NULL,
	name TEXT NOT NULL,
	is_abstract INTEGER NOT NULL DEFAULT 0,
	is_exported INTEGER NOT NULL DEFAULT 0,
	-- Denormalized resolved parent for O(1) extends lookup
	extends_id TEXT,
	line INTEGER,
	UNIQUE(module_id, name)
);
CREATE INDEX IF NOT EXISTS idx_classes_module ON classes(module_id);
CREATE INDEX IF NOT EXISTS idx_classes_name ON classes(name);

CREATE TABLE IF NOT EXISTS interfaces (
	id TEXT PRIMARY KEY,
	module_id TEXT NOT NULL,
	name TEXT NOT NULL,
	is_exported INTEGER NOT NULL DEFAULT 0,
	extends_id TEXT,
	line INTEGER,
	UNIQUE(module_id, name)
);
CREATE INDEX IF NOT EXISTS idx_interfaces_module ON interfaces(module_id);
CREATE INDEX IF NOT EXISTS idx_interfaces_name ON interfaces(name);

-- Methods and properties are shared child tables: parent_kind
-- disambiguates whether parent_id points at a class or an interface.

CREATE TABLE IF NOT EXISTS methods (
	id TEXT PRIMARY KEY,
	parent_id TEXT NOT NULL,
	parent_kind TEXT NOT NULL CHECK(parent_kind IN ('class', 'interface')),
	name TEXT NOT NULL,
	return_type TEXT,
	visibility TEXT,
	is_static INTEGER NOT NULL DEFAULT 0,
	is_async INTEGER NOT NULL DEFAULT 0,
	line INTEGER,
	UNIQUE(parent_id, parent_kind, name)
);
CREATE INDEX IF NOT EXISTS idx_methods_parent ON methods(parent_id);

CREATE TABLE IF NOT EXISTS properties (
	id TEXT PRIMARY KEY,
	parent_id TEXT NOT NULL,
	parent_kind TEXT NOT NULL CHECK(parent_kind IN ('class', 'interface')),
	name TEXT NOT NULL,
	value_type TEXT,
	visibility TEXT,
	is_static INTEGER NOT NULL DEFAULT 0,
	is_readonly INTEGER NOT NULL DEFAULT 0,
	line INTEGER,
	UNIQUE(parent_id, parent_kind, name)
);
CREATE INDEX IF NOT EXISTS idx_properties_parent ON properties(parent_id);

CREATE TABLE IF NOT EXISTS parameters (
	id TEXT PRIMARY KEY,
	method_id TEXT NOT NULL,
	name TEXT NOT NULL,
	type_name TEXT,
	position INTEGER NOT NULL DEFAULT 0,
	is_optional INTEGER NOT NULL DEFAULT 0,
	UNIQUE(method_id, name)
);
CREATE INDEX IF NOT EXISTS idx_parameters_method ON parameters(method_id);

CREATE TABLE IF NOT EXISTS functions (
	id TEXT PRIMARY KEY,
	module_id TEXT NOT NULL,
	name TEXT NOT NULL,
	return_type TEXT,
	is_exported INTEGER NOT NULL DEFAULT 0,
	is_async INTEGER NOT NULL DEFAULT 0,
	line INTEGER,
	UNIQUE(module_id, name)
);
CREATE INDEX IF NOT EXISTS idx_functions_module ON functions(module_id);

CREATE TABLE IF NOT EXISTS type_aliases (
	id TEXT PRIMARY KEY,
	module_id TEXT NOT NULL,
	name TEXT NOT NULL,
	aliased_type TEXT,
	is_exported INTEGER NOT NULL DEFAULT 0,
	UNIQUE(module_id, name)
);
CREATE INDEX IF NOT EXISTS idx_type_aliases_module ON type_aliases(module_id);

CREATE TABLE IF NOT EXISTS enums (
	id TEXT PRIMARY KEY,
	module_id TEXT NOT NULL,
	name TEXT NOT NULL,
	is_const INTEGER NOT NULL DEFAULT 0,
	members_json TEXT,
	UNIQUE(module_id, name)
);
CREATE INDEX IF NOT EXISTS idx_enums_module ON enums(module_id);

CREATE TABLE IF NOT EXISTS variables (
	id TEXT PRIMARY KEY,
	module_id TEXT NOT NULL,
	name TEXT NOT NULL,
	value_type TEXT,
	kind TEXT,
	is_exported INTEGER NOT NULL DEFAULT 0,
	line INTEGER,
	UNIQUE(module_id, name)
);
CREATE INDEX IF NOT EXISTS idx_variables_module ON variables(module_id);

CREATE TABLE IF NOT EXISTS imports (
	id TEXT PRIMARY KEY,
	module_id TEXT NOT NULL,
	name TEXT NOT NULL,
	source TEXT NOT NULL,
	is_default INTEGER NOT NULL DEFAULT 0,
	UNIQUE(module_id, name)
);
CREATE INDEX IF NOT EXISTS idx_imports_module ON imports(module_id);

CREATE TABLE IF NOT EXISTS exports (
	id TEXT PRIMARY KEY,
	module_id TEXT NOT NULL,
	name TEXT NOT NULL,
	is_default INTEGER NOT NULL DEFAULT 0,
	UNIQUE(module_id, name)
);
CREATE INDEX IF NOT EXISTS idx_exports_module ON exports(module_id);

CREATE TABLE IF NOT EXISTS symbol_references (
	id TEXT PRIMARY KEY,
	module_id TEXT NOT NULL,
	name TEXT NOT NULL,
	line INTEGER,
	context TEXT
);
CREATE INDEX IF NOT EXISTS idx_symbol_references_module ON symbol_references(module_id);

-- Package-to-package dependency edges. target_package_id is NULL when the
-- target is an external package not present in the store.

CREATE TABLE IF NOT EXISTS package_dependencies (
	id TEXT PRIMARY KEY,
	source_package_id TEXT NOT NULL,
	target_package_id TEXT,
	target_name TEXT NOT NULL,
	version_range TEXT,
	kind TEXT NOT NULL CHECK(kind IN ('dependency', 'devDependency', 'peerDependency')),
	UNIQUE(source_package_id, target_name, kind)
);
CREATE INDEX IF NOT EXISTS idx_package_dependencies_source ON package_dependencies(source_package_id);

-- Junction tables for resolved cross-entity relationships

CREATE TABLE IF NOT EXISTS class_extends (
	id TEXT PRIMARY KEY,
	class_id TEXT NOT NULL,
	parent_id TEXT NOT NULL,
	UNIQUE(class_id, parent_id)
);
CREATE INDEX IF NOT EXISTS idx_class_extends_class ON class_extends(class_id);

CREATE TABLE IF NOT EXISTS class_implements (
	id TEXT PRIMARY KEY,
	class_id TEXT NOT NULL,
	interface_id TEXT NOT NULL,
	UNIQUE(class_id, interface_id)
);
CREATE INDEX IF NOT EXISTS idx_class_implements_class ON class_implements(class_id);

CREATE TABLE IF NOT EXISTS interface_extends (
	id TEXT PRIMARY KEY,
	interface_id TEXT NOT NULL,
	parent_id TEXT NOT NULL,
	UNIQUE(interface_id, parent_id)
);
CREATE INDEX IF NOT EXISTS idx_interface_extends_interface ON interface_extends(interface_id);

CREATE TABLE IF NOT EXISTS code_issues (
	id TEXT PRIMARY KEY,
	package_id TEXT,
	module_id TEXT,
	severity TEXT NOT NULL,
	category TEXT,
	message TEXT NOT NULL,
	line INTEGER
);
CREATE INDEX IF NOT EXISTS idx_code_issues_package ON code_issues(package_id);

CREATE TABLE IF NOT EXISTS ingest_runs (
	id TEXT PRIMARY KEY,
	package_id TEXT NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT,
	entity_count INTEGER NOT NULL DEFAULT 0
);
`
