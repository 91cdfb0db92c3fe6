package entities

// ExistenceCheck governs Phase B of criterion evaluation (spec.md §4.3).
type ExistenceCheck string

const (
	ExistenceAll        ExistenceCheck = "all"
	ExistenceAny        ExistenceCheck = "any"
	ExistenceNone       ExistenceCheck = "none"
	ExistenceAtLeastOne ExistenceCheck = "at_least_one"
	ExistenceOnlyOne    ExistenceCheck = "only_one"
)

// ItemCheck governs Phase C aggregation of per-object state validation.
type ItemCheck string

const (
	ItemAll         ItemCheck = "all"
	ItemAtLeastOne  ItemCheck = "at_least_one"
	ItemOnlyOne     ItemCheck = "only_one"
	ItemNoneSatisfy ItemCheck = "none_satisfy"
)

// StateOperator combines the field predicates of one object's states into a
// single pass/fail (spec.md §4.3 Phase C).
type StateOperator string

const (
	StateOperatorAND StateOperator = "AND"
	StateOperatorOR  StateOperator = "OR"
	StateOperatorONE StateOperator = "ONE"
)

// TestSpec is a criterion's TEST clause.
type TestSpec struct {
	Existence     ExistenceCheck
	Item          ItemCheck
	StateOperator StateOperator // defaults to AND
}

// EffectiveStateOperator returns the configured operator, defaulting to AND.
func (t TestSpec) EffectiveStateOperator() StateOperator {
	if t.StateOperator == "" {
		return StateOperatorAND
	}
	return t.StateOperator
}

// Criterion is a tuple (ctn_type, test_spec, state_refs, object_refs,
// set_refs) as it appears in the AST, before resolution.
type Criterion struct {
	ID         string
	CtnType    string
	Test       TestSpec
	StateRefs  []string
	ObjectRefs []string
	SetRefs    []string
}

// ExecutableCriterion is a Criterion after resolution: its object list is
// fully expanded (from direct refs and set expansion) and its state
// predicates have had variable substitution applied.
type ExecutableCriterion struct {
	ID      string
	CtnType string
	Test    TestSpec
	Objects []ResolvedObject
	States  []State
}

// CRIKind distinguishes a criterion leaf from a boolean combinator node.
type CRIKind string

const (
	CRILeaf CRIKind = "leaf"
	CRIAnd  CRIKind = "AND"
	CRIOr   CRIKind = "OR"
)

// CRINode is either a criterion leaf or a boolean combinator over a
// non-empty ordered list of children (spec.md §3 CRI node).
type CRINode struct {
	Kind      CRIKind
	Criterion *ExecutableCriterion // set when Kind == CRILeaf
	Children  []*CRINode           // set when Kind == CRIAnd or CRIOr
}
