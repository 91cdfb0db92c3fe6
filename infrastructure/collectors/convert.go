// Package collectors implements the reference collection primitives of
// spec.md §4.7: filesystem and command, plus the concrete collectors
// layered on them (TCP listener, Kubernetes resource, JSON record,
// computed values).
package collectors

import (
	"encoding/json"

	"github.com/escanio/escan-core/domain/entities"
)

// decodeGenericJSON unmarshals raw JSON bytes into the generic any tree
// jsonToValue expects.
func decodeGenericJSON(raw []byte) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// jsonToValue converts a decoded encoding/json tree (map[string]any,
// []any, string, float64, bool, nil) into the policy value model,
// preserving map key order is not possible from encoding/json output —
// RecordData.Set appends in first-seen order of the walk instead.
func jsonToValue(v any) entities.Value {
	switch t := v.(type) {
	case nil:
		return entities.StringValue("")
	case string:
		return entities.StringValue(t)
	case bool:
		return entities.BoolValue(t)
	case float64:
		if t == float64(int64(t)) {
			return entities.IntValue(int64(t))
		}
		return entities.FloatValue(t)
	case map[string]any:
		rec := entities.NewRecordMap()
		for k, val := range t {
			rec.Set(k, jsonToValue(val))
		}
		return entities.RecordValue(rec)
	case []any:
		rec := entities.NewRecordSeq()
		for _, item := range t {
			rec.Append(jsonToValue(item))
		}
		return entities.RecordValue(rec)
	default:
		return entities.StringValue("")
	}
}
