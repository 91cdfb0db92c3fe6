// Package recordpath implements the dot-separated field-path evaluator of
// spec.md §4.4: given RecordData and a field path, return the set of
// addressed values, then aggregate predicate results by entity check.
package recordpath

import (
	"strconv"
	"strings"

	"github.com/escanio/escan-core/domain/entities"
)

// Segment is one parsed path component.
type Segment struct {
	Name     string // set when this is a name segment
	Index    int    // set when this is an index segment
	Wildcard bool
}

// ParsePath splits a dot-separated field path into segments. Each segment
// is a name, a non-negative integer index, or the wildcard "*".
func ParsePath(path string) []Segment {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	segments := make([]Segment, 0, len(parts))
	for _, p := range parts {
		switch {
		case p == "*":
			segments = append(segments, Segment{Wildcard: true})
		default:
			if n, err := strconv.Atoi(p); err == nil && n >= 0 {
				segments = append(segments, Segment{Index: n})
			} else {
				segments = append(segments, Segment{Name: p})
			}
		}
	}
	return segments
}

// Resolve addresses the set of values a path selects out of a RecordData
// value. An empty path selects root itself; a segment applied to a value
// that is not a record selects nothing.
func Resolve(root entities.Value, path string) []entities.Value {
	segments := ParsePath(path)
	current := []entities.Value{root}
	for _, seg := range segments {
		current = stepSegment(current, seg)
	}
	return current
}

func stepSegment(values []entities.Value, seg Segment) []entities.Value {
	var out []entities.Value
	for _, v := range values {
		if v.Kind != entities.KindRecord || v.Record == nil {
			continue
		}
		switch {
		case seg.Wildcard:
			switch v.Record.Kind {
			case entities.RecordKindSeq:
				out = append(out, v.Record.Items...)
			case entities.RecordKindMap:
				for _, f := range v.Record.Fields {
					out = append(out, f.Value)
				}
			}
		case seg.Name != "":
			if v.Record.Kind != entities.RecordKindMap {
				continue
			}
			if val, ok := v.Record.Get(seg.Name); ok {
				out = append(out, val)
			}
		default:
			if v.Record.Kind != entities.RecordKindSeq {
				continue
			}
			if seg.Index >= 0 && seg.Index < len(v.Record.Items) {
				out = append(out, v.Record.Items[seg.Index])
			}
		}
	}
	return out
}

// Evaluate resolves fieldPath against root, applies predicate to each
// addressed value via compareFn, and aggregates the boolean results
// according to entityCheck (spec.md §4.4). compareFn returns the
// predicate's pass/fail for one value and an error for a type mismatch,
// which counts as "does not pass" without aborting the others.
func Evaluate(root entities.Value, fieldPath string, entityCheck entities.EntityCheck, compareFn func(entities.Value) (bool, error)) (passed bool, matched, total int, lastErr error) {
	values := Resolve(root, fieldPath)
	total = len(values)
	for _, v := range values {
		ok, err := compareFn(v)
		if err != nil {
			lastErr = err
			continue
		}
		if ok {
			matched++
		}
	}

	switch entityCheck {
	case entities.EntityCheckAll:
		return matched == total && total >= 1, matched, total, lastErr
	case entities.EntityCheckAtLeastOne:
		return matched >= 1, matched, total, lastErr
	case entities.EntityCheckNone:
		return matched == 0, matched, total, lastErr
	case entities.EntityCheckOnlyOne:
		return matched == 1, matched, total, lastErr
	default:
		return matched == total && total >= 1, matched, total, lastErr
	}
}
