package resolution

import "github.com/escanio/escan-core/domain/entities"

// resolveObjects substitutes variable references in each Object's fields,
// enforcing identifier uniqueness (spec.md §4.2 step 3).
func resolveObjects(policyID string, objects []entities.Object, vars entities.VariableMap) (map[string]entities.ResolvedObject, error) {
	resolved := make(map[string]entities.ResolvedObject, len(objects))
	for _, obj := range objects {
		if _, dup := resolved[obj.ID]; dup {
			return nil, &entities.ResolutionError{Kind: "UnknownObject", PolicyID: policyID, Detail: "duplicate object id " + obj.ID}
		}

		fields := make(map[string]entities.Value, len(obj.Fields))
		for name, fv := range obj.Fields {
			if fv.VarRef == "" {
				fields[name] = fv.Literal
				continue
			}
			val, ok := vars[fv.VarRef]
			if !ok {
				return nil, &entities.ResolutionError{Kind: "UnknownVariable", PolicyID: policyID, Detail: "object " + obj.ID + " field " + name + " references unknown variable " + fv.VarRef}
			}
			fields[name] = val
		}

		resolved[obj.ID] = entities.ResolvedObject{ID: obj.ID, Fields: fields, Behavior: obj.Behavior}
	}
	return resolved, nil
}
