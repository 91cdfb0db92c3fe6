package execution

import (
	"context"
	"fmt"

	"github.com/escanio/escan-core/domain/entities"
)

// evaluateCriterion runs the full three-phase evaluation of spec.md §4.3
// for one executable criterion.
func (e *Engine) evaluateCriterion(ctx context.Context, policyID string, crit *entities.ExecutableCriterion) entities.CriterionOutcome {
	entry, err := e.registry.Lookup(crit.CtnType)
	if err != nil {
		return entities.CriterionOutcome{
			CtnType: crit.CtnType,
			Status:  entities.CriterionError,
			Phase:   "collection",
			Message: err.Error(),
		}
	}

	if err := entry.Executor.Validate(crit.States); err != nil {
		return entities.CriterionOutcome{
			CtnType: crit.CtnType,
			Status:  entities.CriterionError,
			Phase:   "collection",
			Message: "state validation failed: " + err.Error(),
		}
	}

	// Phase A: collection.
	results := collectAll(ctx, entry, crit.Objects)
	for _, r := range results {
		if r.Kind == entities.CollectionAborted {
			return entities.CriterionOutcome{
				CtnType: crit.CtnType,
				Status:  entities.CriterionError,
				Phase:   "collection",
				Message: r.Err.Error(),
			}
		}
	}

	t := tallyResults(results)

	// Phase B: existence check.
	if !checkExistence(crit.Test.Existence, t, len(crit.Objects)) {
		outcome := entities.CriterionOutcome{
			CtnType: crit.CtnType,
			Status:  entities.CriterionFail,
			Phase:   "existence",
			Message: fmt.Sprintf("existence_check %s not satisfied: found=%d absent=%d errored=%d of %d",
				crit.Test.Existence, t.found, t.absent, t.errored, len(crit.Objects)),
		}
		outcome.Findings = []entities.Finding{{
			FindingID: findingID(policyID, crit.ID, "", "existence"),
			Title:     fmt.Sprintf("%s: existence check %s failed", crit.CtnType, crit.Test.Existence),
			Field:     "existence",
		}}
		return outcome
	}

	// Phase C: per-object state validation, over found objects only.
	var objectResults []entities.ObjectResult
	var collected []entities.CollectedData
	op := crit.Test.EffectiveStateOperator()

	for _, r := range results {
		if r.Kind != entities.CollectionOK {
			continue
		}
		collected = append(collected, *r.Data)
		fieldResults, combined := entry.Executor.Evaluate(r.Data, crit.States, op)
		objectResults = append(objectResults, entities.ObjectResult{
			ObjectID:     r.ObjectID,
			FieldResults: fieldResults,
			Combined:     combined,
		})
	}

	itemPassed := checkItems(crit.Test.Item, objectResults)

	outcome := entities.CriterionOutcome{
		CtnType:       crit.CtnType,
		Phase:         "item",
		ObjectResults: objectResults,
		CollectedData: collected,
	}

	if itemPassed {
		outcome.Status = entities.CriterionPass
		outcome.Phase = ""
		return outcome
	}

	outcome.Status = entities.CriterionFail
	outcome.Message = fmt.Sprintf("item_check %s not satisfied", crit.Test.Item)
	outcome.Findings = findingsFromObjectResults(policyID, crit, objectResults)
	return outcome
}

// findingsFromObjectResults emits one finding per failing field predicate,
// satisfying spec.md §7's guarantee that every failing criterion produces
// at least one structured finding.
func findingsFromObjectResults(policyID string, crit *entities.ExecutableCriterion, results []entities.ObjectResult) []entities.Finding {
	var findings []entities.Finding
	for _, obj := range results {
		if obj.Combined {
			continue
		}
		emitted := false
		for _, fr := range obj.FieldResults {
			if fr.Passed {
				continue
			}
			findings = append(findings, entities.Finding{
				FindingID: findingID(policyID, crit.ID, obj.ObjectID, fr.Field),
				Title:     fmt.Sprintf("%s: %s failed on %s", crit.CtnType, fr.Field, obj.ObjectID),
				ObjectID:  obj.ObjectID,
				Field:     fr.Field,
				Expected:  fr.Expected,
				Actual:    fr.Actual,
				Operation: fr.Operation,
			})
			emitted = true
		}
		if !emitted {
			findings = append(findings, entities.Finding{
				FindingID: findingID(policyID, crit.ID, obj.ObjectID, ""),
				Title:     fmt.Sprintf("%s: object %s failed state validation", crit.CtnType, obj.ObjectID),
				ObjectID:  obj.ObjectID,
			})
		}
	}
	if len(findings) == 0 {
		findings = append(findings, entities.Finding{
			FindingID: findingID(policyID, crit.ID, "", ""),
			Title:     fmt.Sprintf("%s: criterion failed", crit.CtnType),
		})
	}
	return findings
}
