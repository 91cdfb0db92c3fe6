package entities

// CollectorKind names the transport a collection strategy uses.
type CollectorKind string

const (
	CollectorCommand  CollectorKind = "command"
	CollectorAPI      CollectorKind = "api"
	CollectorFileRead CollectorKind = "file_read"
	CollectorComputed CollectorKind = "computed"
)

// ObjectFieldSpec describes one field an Object may or must carry for a
// given CTN type.
type ObjectFieldSpec struct {
	Name     string
	Type     ValueKind
	Required bool
	Example  string
}

// StateFieldSpec describes one field a State predicate may address, along
// with the operations permitted against it.
type StateFieldSpec struct {
	Name           string
	Type           ValueKind
	AllowedOps     []Operation
	CollectedField string // name in CollectedData.Fields; falls back to Name
}

// FieldMappings carries the three mapping tables a contract defines
// (spec.md §3 Contract (c)).
type FieldMappings struct {
	// ObjectToCollectionParam maps an object field name to the parameter
	// name a collector expects.
	ObjectToCollectionParam map[string]string
	// RequiredCollectedFields lists fields a collector must populate for
	// this CTN type to be usable.
	RequiredCollectedFields []string
	// StateToDataField maps a state field name to the name it is stored
	// under in CollectedData.Fields; absent entries fall back to the
	// field name itself.
	StateToDataField map[string]string
}

// DataField resolves the collected-data field name backing a state field.
func (m FieldMappings) DataField(stateField string) string {
	if name, ok := m.StateToDataField[stateField]; ok {
		return name
	}
	return stateField
}

// CollectionStrategy describes how a CTN type's data is obtained.
type CollectionStrategy struct {
	Collector            CollectorKind
	Mode                 string // e.g. "metadata", "content", "record", "batch"
	RequiredCapabilities []string
	PerformanceHints     PerformanceHints
}

// PerformanceHints informs the engine and batch scheduler about the
// relative cost of a collection strategy; advisory only.
type PerformanceHints struct {
	Cacheable       bool
	BatchSupported  bool
	EstimatedCostMS int
}

// SupportedBehavior names a behavior hint a collector honors, along with
// any parameter constraints.
type SupportedBehavior struct {
	Name      string
	ParamSpec string
}

// Contract is the full, validated description of one CTN type: object
// field spec, state field spec, field mappings, collection strategy, and
// supported behaviors (spec.md §3 Contract).
type Contract struct {
	CtnType            string
	ObjectFields       []ObjectFieldSpec
	StateFields        []StateFieldSpec
	FieldMappings      FieldMappings
	CollectionStrategy CollectionStrategy
	SupportedBehaviors []SupportedBehavior

	// Grants is the capability grant the host assigns this CTN type before
	// a scan begins. The registry checks it covers CollectionStrategy's
	// RequiredCapabilities at Register time, and the execution engine
	// re-checks it against the actual resource (path, command) each
	// collection attempt touches.
	Grants GrantSet
}

// ObjectFieldSpecByName finds a declared object field spec by name.
func (c *Contract) ObjectFieldSpecByName(name string) (ObjectFieldSpec, bool) {
	for _, f := range c.ObjectFields {
		if f.Name == name {
			return f, true
		}
	}
	return ObjectFieldSpec{}, false
}

// StateFieldSpecByName finds a declared state field spec by name.
func (c *Contract) StateFieldSpecByName(name string) (StateFieldSpec, bool) {
	for _, f := range c.StateFields {
		if f.Name == name {
			return f, true
		}
	}
	return StateFieldSpec{}, false
}

// OperationAllowed reports whether op is permitted against the named state
// field, per this contract's state field spec. Unknown fields allow
// nothing.
func (c *Contract) OperationAllowed(field string, op Operation) bool {
	spec, ok := c.StateFieldSpecByName(field)
	if !ok {
		return false
	}
	for _, allowed := range spec.AllowedOps {
		if allowed == op {
			return true
		}
	}
	return false
}
