// Package resolution implements the resolution engine of spec.md §4.2:
// it transforms a compiled policy AST into a list of executable criteria
// plus a CRI tree whose leaves reference them, eliminating variables,
// sets, filters, and RUN operations along the way.
package resolution

import (
	"context"
	"log/slog"

	"github.com/escanio/escan-core/application/registry"
	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
)

// Resolved is the output of resolving one policy: its flattened, ordered
// executable criteria and a CRI tree whose leaves point into that list.
type Resolved struct {
	Criteria []*entities.ExecutableCriterion
	Tree     *entities.CRINode
}

// Engine resolves policy ASTs against a shared strategy registry, used
// only to evaluate set filters (spec.md §4.2 step 5); the registry is
// read-only for this purpose.
type Engine struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// New builds a resolution Engine. logger may be nil.
func New(reg *registry.Registry, logger *slog.Logger) *Engine {
	return &Engine{registry: reg, logger: logger}
}

// Resolve runs the seven-step algorithm of spec.md §4.2 against ast.
// Resolution errors are returned as *entities.ResolutionError and are
// fatal for this policy, not for a surrounding batch.
func (e *Engine) Resolve(ctx context.Context, policyID string, ast *ports.PolicyAST) (*Resolved, error) {
	vars, err := bindVariables(policyID, ast.Variables)
	if err != nil {
		return nil, err
	}

	if err := evaluateRuns(policyID, ast.Runs, vars); err != nil {
		return nil, err
	}

	resolvedObjects, err := resolveObjects(policyID, ast.Objects, vars)
	if err != nil {
		return nil, err
	}

	resolvedStates, err := resolveStates(policyID, ast.States, vars)
	if err != nil {
		return nil, err
	}

	resolvedSets, err := resolveSets(ctx, policyID, ast.Sets, resolvedObjects, resolvedStates, e.registry, e.logger)
	if err != nil {
		return nil, err
	}

	criteriaByID, err := flattenCriteria(policyID, ast.Criteria, resolvedObjects, resolvedSets, resolvedStates)
	if err != nil {
		return nil, err
	}

	tree, err := flattenTree(policyID, ast.Tree, criteriaByID)
	if err != nil {
		return nil, err
	}

	ordered := make([]*entities.ExecutableCriterion, 0, len(ast.Criteria))
	for _, c := range ast.Criteria {
		ordered = append(ordered, criteriaByID[c.ID])
	}

	return &Resolved{Criteria: ordered, Tree: tree}, nil
}
