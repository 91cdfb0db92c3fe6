// Package entities holds the core data model of the execution core: the
// tagged value system, the policy graph (variables, objects, sets, states,
// criteria), collection results, and the evidence envelope.
package entities

import "fmt"

// ValueKind tags the concrete type carried by a Value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInt
	KindFloat
	KindBool
	KindBinary
	KindVersion
	KindEVR
	KindRecord
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindBinary:
		return "binary"
	case KindVersion:
		return "version"
	case KindEVR:
		return "evr"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Value is a tagged value of one of the kinds supported by the policy
// language: string, 64-bit integer, 64-bit float, boolean, binary blob,
// semantic version, EVR, or record data.
type Value struct {
	Kind    ValueKind
	Str     string
	Int     int64
	Float   float64
	Bool    bool
	Binary  []byte
	Version string // raw semantic-version string; ordered by comparison.Compare
	EVR     string // raw "epoch:version-release" string; ordered by comparison.Compare
	Record  *RecordData
}

func StringValue(s string) Value  { return Value{Kind: KindString, Str: s} }
func IntValue(i int64) Value      { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value  { return Value{Kind: KindFloat, Float: f} }
func BoolValue(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func BinaryValue(b []byte) Value  { return Value{Kind: KindBinary, Binary: b} }
func VersionValue(v string) Value { return Value{Kind: KindVersion, Version: v} }
func EVRValue(v string) Value     { return Value{Kind: KindEVR, EVR: v} }
func RecordValue(r *RecordData) Value {
	return Value{Kind: KindRecord, Record: r}
}

// String renders the value for diagnostics (findings, log attrs). It is not
// used for comparisons.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindBinary:
		return fmt.Sprintf("<%d bytes>", len(v.Binary))
	case KindVersion:
		return v.Version
	case KindEVR:
		return v.EVR
	case KindRecord:
		return v.Record.String()
	default:
		return "<invalid value>"
	}
}

// RecordKind distinguishes the two shapes RecordData can take.
type RecordKind int

const (
	RecordKindMap RecordKind = iota
	RecordKindSeq
)

// RecordField is one (name, value) pair of an ordered map-shaped RecordData.
type RecordField struct {
	Name  string
	Value Value
}

// RecordData is the recursive JSON-like value used for structured collected
// data: an ordered mapping from field name to value, or an ordered sequence
// of values. Order is preserved for map fields so canonicalization and
// record-path wildcard traversal are deterministic.
type RecordData struct {
	Kind   RecordKind
	Fields []RecordField // valid when Kind == RecordKindMap
	Items  []Value       // valid when Kind == RecordKindSeq
}

func NewRecordMap() *RecordData {
	return &RecordData{Kind: RecordKindMap}
}

func NewRecordSeq() *RecordData {
	return &RecordData{Kind: RecordKindSeq}
}

// Set inserts or replaces a field in a map-shaped record, preserving the
// existing position on replace and appending on insert.
func (r *RecordData) Set(name string, v Value) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			r.Fields[i].Value = v
			return
		}
	}
	r.Fields = append(r.Fields, RecordField{Name: name, Value: v})
}

// Get looks up a field by name in a map-shaped record.
func (r *RecordData) Get(name string) (Value, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Append adds an element to a sequence-shaped record.
func (r *RecordData) Append(v Value) {
	r.Items = append(r.Items, v)
}

func (r *RecordData) String() string {
	if r == nil {
		return "<nil record>"
	}
	if r.Kind == RecordKindSeq {
		return fmt.Sprintf("<seq len=%d>", len(r.Items))
	}
	return fmt.Sprintf("<map fields=%d>", len(r.Fields))
}
