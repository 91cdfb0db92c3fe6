package resolution

import "github.com/escanio/escan-core/domain/entities"

// resolveStates substitutes variable references in every predicate
// operand of the named states, returning a lookup table by state name.
func resolveStates(policyID string, states []entities.State, vars entities.VariableMap) (map[string]entities.State, error) {
	out := make(map[string]entities.State, len(states))
	for _, s := range states {
		predicates := make([]entities.FieldPredicate, len(s.Predicates))
		for i, p := range s.Predicates {
			resolvedOperand, err := resolveOperand(policyID, p.Operand, vars)
			if err != nil {
				return nil, err
			}
			predicates[i] = entities.FieldPredicate{Field: p.Field, DeclaredType: p.DeclaredType, Op: p.Op, Operand: resolvedOperand}
		}
		out[s.Name] = entities.State{Name: s.Name, Predicates: predicates}
	}
	return out, nil
}

func resolveOperand(policyID string, op entities.Operand, vars entities.VariableMap) (entities.Operand, error) {
	if op.VarRef == "" {
		return op, nil
	}
	val, ok := vars[op.VarRef]
	if !ok {
		return entities.Operand{}, &entities.ResolutionError{Kind: "UnknownVariable", PolicyID: policyID, Detail: "state operand references unknown variable " + op.VarRef}
	}
	return entities.Operand{Literal: &val}, nil
}

// flattenCriteria turns every raw Criterion into an ExecutableCriterion
// carrying its fully resolved object list and state list (spec.md §4.2
// step 6).
func flattenCriteria(policyID string, criteria []entities.Criterion, resolvedObjects map[string]entities.ResolvedObject, resolvedSets map[string][]string, resolvedStates map[string]entities.State) (map[string]*entities.ExecutableCriterion, error) {
	out := make(map[string]*entities.ExecutableCriterion, len(criteria))

	for _, c := range criteria {
		seen := make(map[string]struct{})
		var objs []entities.ResolvedObject

		for _, ref := range c.ObjectRefs {
			obj, ok := resolvedObjects[ref]
			if !ok {
				return nil, &entities.ResolutionError{Kind: "UnknownObject", PolicyID: policyID, Detail: "criterion " + c.ID + " references unknown object " + ref}
			}
			if _, dup := seen[obj.ID]; dup {
				continue
			}
			seen[obj.ID] = struct{}{}
			objs = append(objs, obj)
		}

		for _, ref := range c.SetRefs {
			ids, ok := resolvedSets[ref]
			if !ok {
				return nil, &entities.ResolutionError{Kind: "UnknownSet", PolicyID: policyID, Detail: "criterion " + c.ID + " references unknown set " + ref}
			}
			for _, id := range ids {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				objs = append(objs, resolvedObjects[id])
			}
		}

		var states []entities.State
		for _, ref := range c.StateRefs {
			state, ok := resolvedStates[ref]
			if !ok {
				return nil, &entities.ResolutionError{Kind: "UnknownObject", PolicyID: policyID, Detail: "criterion " + c.ID + " references unknown state " + ref}
			}
			states = append(states, state)
		}

		out[c.ID] = &entities.ExecutableCriterion{
			ID:      c.ID,
			CtnType: c.CtnType,
			Test:    c.Test,
			Objects: objs,
			States:  states,
		}
	}
	return out, nil
}

// flattenTree preserves the CRI tree's shape, replacing each leaf's
// placeholder criterion (identified by ID) with the executable criterion
// built by flattenCriteria (spec.md §4.2 step 7).
func flattenTree(policyID string, node *entities.CRINode, criteria map[string]*entities.ExecutableCriterion) (*entities.CRINode, error) {
	if node == nil {
		return nil, nil
	}

	switch node.Kind {
	case entities.CRILeaf:
		if node.Criterion == nil {
			return nil, &entities.ResolutionError{Kind: "UnknownObject", PolicyID: policyID, Detail: "CRI leaf carries no criterion reference"}
		}
		resolved, ok := criteria[node.Criterion.ID]
		if !ok {
			return nil, &entities.ResolutionError{Kind: "UnknownObject", PolicyID: policyID, Detail: "CRI leaf references unknown criterion " + node.Criterion.ID}
		}
		return &entities.CRINode{Kind: entities.CRILeaf, Criterion: resolved}, nil
	case entities.CRIAnd, entities.CRIOr:
		children := make([]*entities.CRINode, 0, len(node.Children))
		for _, child := range node.Children {
			resolvedChild, err := flattenTree(policyID, child, criteria)
			if err != nil {
				return nil, err
			}
			children = append(children, resolvedChild)
		}
		return &entities.CRINode{Kind: node.Kind, Children: children}, nil
	default:
		return nil, &entities.ResolutionError{Kind: "UnknownObject", PolicyID: policyID, Detail: "unknown CRI node kind"}
	}
}
