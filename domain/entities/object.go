package entities

// BehaviorHints carry optional collection-time behavior for an object:
// recursive scan, max depth, hidden-file inclusion, symlink following,
// binary mode, and a per-object command timeout override.
type BehaviorHints struct {
	Recursive      bool
	MaxDepth       int
	IncludeHidden  bool
	FollowSymlinks bool
	BinaryMode     bool
	TimeoutSeconds int // 0 means "use the collector/executor default"
}

// FieldValue is a raw (possibly variable-referencing) object field. Fields
// are substituted during resolution (spec.md §4.2 step 3) before reaching a
// collector.
type FieldValue struct {
	// Literal holds a literal value; VarRef, when non-empty, names a
	// variable whose bound value replaces this field during resolution.
	Literal Value
	VarRef  string
}

// Object is a uniquely identified set of (field-name, value) pairs plus
// optional behavior hints. Field requirements are determined by the
// contract of the consuming CTN type, not by Object itself.
type Object struct {
	ID       string
	Fields   map[string]FieldValue
	Behavior BehaviorHints
}

// ResolvedObject is an Object after variable substitution: fields are plain
// Values, ready to hand to a collector.
type ResolvedObject struct {
	ID       string
	Fields   map[string]Value
	Behavior BehaviorHints
}
