// Package execution implements the execution engine of spec.md §4.3:
// per-criterion three-phase evaluation (collection, existence check,
// per-object state validation) and the CRI tree boolean combinator that
// aggregates criterion outcomes into a PolicyOutcome.
package execution

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/escanio/escan-core/application/registry"
	"github.com/escanio/escan-core/application/resolution"
	"github.com/escanio/escan-core/domain/entities"
)

// Engine evaluates a resolved policy against the live system using the
// strategies held in a shared, read-only registry.
type Engine struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// New builds an execution Engine. logger may be nil.
func New(reg *registry.Registry, logger *slog.Logger) *Engine {
	return &Engine{registry: reg, logger: logger}
}

// Run evaluates every criterion in resolved.Criteria, then combines their
// outcomes via resolved.Tree to produce the final PolicyOutcome (spec.md
// §4.3 "Policy outcome").
func (e *Engine) Run(ctx context.Context, identity entities.PolicyIdentity, resolved *resolution.Resolved) *entities.PolicyOutcome {
	outcomesByID := make(map[string]entities.CriterionOutcome, len(resolved.Criteria))
	var orderedOutcomes []entities.CriterionOutcome
	var findings []entities.Finding
	var evidence []entities.CollectedData

	for _, crit := range resolved.Criteria {
		outcome := e.evaluateCriterion(ctx, identity.EspScanID, crit)
		outcomesByID[crit.ID] = outcome
		orderedOutcomes = append(orderedOutcomes, outcome)
		findings = append(findings, outcome.Findings...)
		evidence = append(evidence, outcome.CollectedData...)
	}

	treePassed := evaluateTree(resolved.Tree, outcomesByID)

	result := entities.PolicyPass
	if !treePassed {
		result = entities.PolicyFail
	}
	for _, o := range orderedOutcomes {
		if o.Status == entities.CriterionError {
			result = entities.PolicyError
			break
		}
	}

	return &entities.PolicyOutcome{
		Identity:   identity,
		Outcome:    result,
		Findings:   findings,
		Evidence:   evidence,
		TreePassed: treePassed,
		Criteria:   orderedOutcomes,
	}
}

// evaluateTree combines leaf criterion outcomes by AND/OR; AND passes
// iff every child passes, OR passes iff at least one child passes. Every
// child is evaluated (the outcomes are already computed) so findings
// remain complete regardless of short-circuiting (spec.md §4.3).
func evaluateTree(node *entities.CRINode, outcomes map[string]entities.CriterionOutcome) bool {
	if node == nil {
		return false
	}
	switch node.Kind {
	case entities.CRILeaf:
		if node.Criterion == nil {
			return false
		}
		return outcomes[node.Criterion.ID].Status == entities.CriterionPass
	case entities.CRIAnd:
		passed := true
		for _, child := range node.Children {
			if !evaluateTree(child, outcomes) {
				passed = false
			}
		}
		return passed
	case entities.CRIOr:
		passed := false
		for _, child := range node.Children {
			if evaluateTree(child, outcomes) {
				passed = true
			}
		}
		return passed
	default:
		return false
	}
}

func findingID(policyID, criterionID, objectID, field string) string {
	return fmt.Sprintf("%s/%s/%s/%s", policyID, criterionID, objectID, field)
}
