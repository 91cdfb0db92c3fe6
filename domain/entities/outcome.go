package entities

// CriterionStatus is the pass/fail/error result of one criterion.
type CriterionStatus string

const (
	CriterionPass  CriterionStatus = "pass"
	CriterionFail  CriterionStatus = "fail"
	CriterionError CriterionStatus = "error"
)

// FieldResult is the outcome of evaluating one field predicate against one
// object's collected data (spec.md §3 FieldResult).
type FieldResult struct {
	Field     string
	Expected  string
	Actual    string
	Operation Operation
	Passed    bool
	Message   string
}

// ObjectResult is the state-validation outcome for one object within a
// criterion.
type ObjectResult struct {
	ObjectID     string
	FieldResults []FieldResult
	Combined     bool
}

// Finding is a structured, human-surfaceable record of one failure
// (spec.md §7): "every failing criterion emits at least one structured
// finding".
type Finding struct {
	FindingID string
	Title     string
	ObjectID  string
	Field     string
	Expected  string
	Actual    string
	Operation Operation
}

// CriterionOutcome is the full record of evaluating one criterion
// (spec.md §3 CriterionOutcome).
type CriterionOutcome struct {
	CtnType       string
	Status        CriterionStatus
	Phase         string // "collection", "existence", "item", "" on success
	ObjectResults []ObjectResult
	Findings      []Finding
	CollectedData []CollectedData
	Message       string
}

// Criticality is a policy's declared severity level.
type Criticality string

const (
	CriticalityCritical Criticality = "critical"
	CriticalityHigh     Criticality = "high"
	CriticalityMedium   Criticality = "medium"
	CriticalityLow      Criticality = "low"
	CriticalityInfo     Criticality = "info"
)

// DefaultWeight returns the criticality-to-weight mapping used when a
// policy does not declare an explicit weight (spec.md §6).
func (c Criticality) DefaultWeight() float64 {
	switch c {
	case CriticalityCritical:
		return 1.0
	case CriticalityHigh:
		return 0.8
	case CriticalityMedium:
		return 0.5
	case CriticalityLow:
		return 0.3
	case CriticalityInfo:
		return 0.1
	default:
		return 0.1
	}
}

// ControlMapping is one "FRAMEWORK:ID" compliance-control reference.
type ControlMapping struct {
	Framework string
	ID        string
}

// String renders the mapping in "FRAMEWORK:ID" form.
func (c ControlMapping) String() string {
	return c.Framework + ":" + c.ID
}

// PolicyIdentity binds one policy's metadata for reporting and weighting.
type PolicyIdentity struct {
	EspScanID   string
	Platform    string
	Criticality Criticality
	Controls    []ControlMapping
	Weight      float64 // resolved: explicit or Criticality.DefaultWeight()
	Version     string
	Author      string
	Title       string
	Description string
	Tags        []string
}

// PolicyResult is the pass/fail/error disposition of one policy.
type PolicyResult string

const (
	PolicyPass  PolicyResult = "pass"
	PolicyFail  PolicyResult = "fail"
	PolicyError PolicyResult = "error"
)

// PolicyOutcome is the top-level result of running one policy's CRI tree
// (spec.md §3 PolicyOutcome).
type PolicyOutcome struct {
	Identity   PolicyIdentity
	Outcome    PolicyResult
	Findings   []Finding
	Evidence   []CollectedData
	TreePassed bool
	Criteria   []CriterionOutcome
}
