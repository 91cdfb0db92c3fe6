package resolution

import (
	"context"
	"log/slog"

	"github.com/escanio/escan-core/application/registry"
	"github.com/escanio/escan-core/domain/entities"
)

// resolveSets expands every named Set, in declaration order, against the
// already-resolved object table, applying set algebra then any filter
// (spec.md §4.2 steps 4-5). Nested set references are resolved
// recursively with cycle protection via the visiting set.
func resolveSets(ctx context.Context, policyID string, sets []entities.Set, objects map[string]entities.ResolvedObject, states map[string]entities.State, reg *registry.Registry, logger *slog.Logger) (map[string][]string, error) {
	byName := make(map[string]entities.Set, len(sets))
	for _, s := range sets {
		byName[s.Name] = s
	}

	resolved := make(map[string][]string, len(sets))
	visiting := make(map[string]bool, len(sets))

	var resolveOne func(name string) ([]string, error)
	resolveOne = func(name string) ([]string, error) {
		if ids, ok := resolved[name]; ok {
			return ids, nil
		}
		if visiting[name] {
			return nil, &entities.ResolutionError{Kind: "UnknownSet", PolicyID: policyID, Detail: "cyclic set reference involving " + name}
		}
		set, ok := byName[name]
		if !ok {
			return nil, &entities.ResolutionError{Kind: "UnknownSet", PolicyID: policyID, Detail: "unknown set " + name}
		}
		visiting[name] = true
		defer func() { visiting[name] = false }()

		memberLists := make([][]string, 0, len(set.Members))
		for _, m := range set.Members {
			if m.ObjectRef != "" {
				if _, exists := objects[m.ObjectRef]; !exists {
					return nil, &entities.ResolutionError{Kind: "UnknownObject", PolicyID: policyID, Detail: "set " + name + " references unknown object " + m.ObjectRef}
				}
				memberLists = append(memberLists, []string{m.ObjectRef})
				continue
			}
			nested, err := resolveOne(m.SetRef)
			if err != nil {
				return nil, err
			}
			memberLists = append(memberLists, nested)
		}

		combined := applySetAlgebra(set.Op, memberLists)
		if len(combined) == 0 {
			return nil, &entities.ResolutionError{Kind: "EmptySet", PolicyID: policyID, Detail: "set " + name + " resolved to no objects"}
		}

		if set.Filter != nil {
			filtered, err := applyFilter(ctx, policyID, combined, objects, states, *set.Filter, reg, logger)
			if err != nil {
				return nil, err
			}
			combined = filtered
		}

		resolved[name] = combined
		return combined, nil
	}

	for _, s := range sets {
		if _, err := resolveOne(s.Name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func applySetAlgebra(op entities.SetOp, memberLists [][]string) []string {
	switch op {
	case entities.SetUnion:
		seen := make(map[string]struct{})
		var out []string
		for _, list := range memberLists {
			for _, id := range list {
				if _, dup := seen[id]; !dup {
					seen[id] = struct{}{}
					out = append(out, id)
				}
			}
		}
		return out
	case entities.SetIntersection:
		if len(memberLists) == 0 {
			return nil
		}
		counts := make(map[string]int)
		for _, list := range memberLists {
			seenInList := make(map[string]struct{})
			for _, id := range list {
				if _, dup := seenInList[id]; dup {
					continue
				}
				seenInList[id] = struct{}{}
				counts[id]++
			}
		}
		var out []string
		for _, id := range memberLists[0] {
			if counts[id] == len(memberLists) {
				out = append(out, id)
			}
		}
		return dedupe(out)
	case entities.SetComplement:
		if len(memberLists) == 0 {
			return nil
		}
		exclude := make(map[string]struct{})
		for _, list := range memberLists[1:] {
			for _, id := range list {
				exclude[id] = struct{}{}
			}
		}
		var out []string
		for _, id := range memberLists[0] {
			if _, excluded := exclude[id]; !excluded {
				out = append(out, id)
			}
		}
		return dedupe(out)
	default:
		return nil
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// applyFilter evaluates filter.StateRef against each candidate via the
// registered collector+executor for filter.CtnType, retaining candidates
// per the filter's include/exclude mode (spec.md §4.2 step 5). Errors on
// one candidate drop it from the result with a logged warning rather than
// failing resolution.
func applyFilter(ctx context.Context, policyID string, candidates []string, objects map[string]entities.ResolvedObject, states map[string]entities.State, filter entities.Filter, reg *registry.Registry, logger *slog.Logger) ([]string, error) {
	state, ok := states[filter.StateRef]
	if !ok {
		return nil, &entities.ResolutionError{Kind: "UnknownObject", PolicyID: policyID, Detail: "filter references unknown state " + filter.StateRef}
	}

	entry, err := reg.Lookup(filter.CtnType)
	if err != nil {
		return nil, &entities.ResolutionError{Kind: "UnknownObject", PolicyID: policyID, Detail: "filter references unknown ctn type " + filter.CtnType, Cause: err}
	}

	var kept []string
	for _, id := range candidates {
		obj, ok := objects[id]
		if !ok {
			continue
		}

		data, err := entry.Collector.Collect(ctx, obj, entry.Contract)
		if err != nil {
			if logger != nil {
				logger.Warn("filter predicate errored; dropping candidate", "object_id", id, "error", err)
			}
			continue
		}

		_, passed := entry.Executor.Evaluate(data, []entities.State{state}, entities.StateOperatorAND)

		retain := (filter.Mode == entities.FilterInclude && passed) || (filter.Mode == entities.FilterExclude && !passed)
		if retain {
			kept = append(kept, id)
		}
	}
	return kept, nil
}
