package entities

// Operation enumerates the comparison operations a field predicate may
// request. Not every operation is valid for every value kind; validity is
// enforced by application/comparison (spec.md §4.5).
type Operation string

const (
	OpEquals        Operation = "="
	OpNotEqual      Operation = "!="
	OpContains      Operation = "contains"
	OpNotContains   Operation = "not_contains"
	OpStartsWith    Operation = "starts"
	OpEndsWith      Operation = "ends"
	OpNotStartsWith Operation = "not_starts"
	OpNotEndsWith   Operation = "not_ends"
	OpIEquals       Operation = "ieq"
	OpINotEqual     Operation = "ine"
	OpPatternMatch  Operation = "pattern_match"
	OpMatches       Operation = "matches" // alias of pattern_match
	OpGreaterThan   Operation = ">"
	OpLessThan      Operation = "<"
	OpGreaterEqual  Operation = ">="
	OpLessEqual     Operation = "<="
)

// Operand is the right-hand side of a field predicate: a literal value, a
// variable reference, or a nested record check.
type Operand struct {
	Literal     *Value
	VarRef      string
	RecordCheck *RecordCheck
}

// FieldPredicate is one predicate of a State: (field_name, declared_type,
// operation, operand).
type FieldPredicate struct {
	Field        string
	DeclaredType ValueKind
	Op           Operation
	Operand      Operand
}

// State is an ordered list of field predicates.
type State struct {
	Name       string
	Predicates []FieldPredicate
}

// EntityCheck governs how multiple record-path matches are aggregated
// (spec.md §3 Record check, §4.4).
type EntityCheck string

const (
	EntityCheckAll        EntityCheck = "all"
	EntityCheckAtLeastOne EntityCheck = "at_least_one"
	EntityCheckNone       EntityCheck = "none"
	EntityCheckOnlyOne    EntityCheck = "only_one"
)

// RecordCheck is a triple (field_path, predicate, entity_check) used as a
// nested operand inside a field predicate, or directly against a collected
// RecordData value.
type RecordCheck struct {
	FieldPath   string
	Predicate   FieldPredicate
	EntityCheck EntityCheck // EntityCheckAll when unset
}

// EffectiveEntityCheck returns the entity check, defaulting to "all" per
// spec.md §3.
func (r *RecordCheck) EffectiveEntityCheck() EntityCheck {
	if r.EntityCheck == "" {
		return EntityCheckAll
	}
	return r.EntityCheck
}
