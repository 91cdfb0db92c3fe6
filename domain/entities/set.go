package entities

// SetOp is the set algebra operator a Set combines its members under.
type SetOp string

const (
	SetUnion        SetOp = "union"
	SetIntersection SetOp = "intersection"
	SetComplement   SetOp = "complement"
)

// FilterMode governs whether a Filter retains objects whose predicate
// passes (include) or objects whose predicate fails (exclude).
type FilterMode string

const (
	FilterInclude FilterMode = "include"
	FilterExclude FilterMode = "exclude"
)

// Filter is a predicate over objects expressed as a state reference and an
// include/exclude mode (spec.md §3 Filter).
type Filter struct {
	Mode     FilterMode
	StateRef string
	CtnType  string // the CTN type whose collector+executor evaluates StateRef
}

// SetMember references either a direct object or a nested set by name.
type SetMember struct {
	ObjectRef string
	SetRef    string
}

// Set is a named combination of object references under one of
// {union, intersection, complement} with an optional filter.
type Set struct {
	Name    string
	Op      SetOp
	Members []SetMember
	Filter  *Filter
}
