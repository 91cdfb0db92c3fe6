// Package executors provides contract-bound ports.Executor implementations
// shared across CTN types: a flat field-predicate evaluator and a
// record-path variant for nested JSON-shaped data.
package executors

import (
	"fmt"

	"github.com/escanio/escan-core/application/comparison"
	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
)

// Generic evaluates flat field predicates — where DeclaredType is not
// KindRecord and Field names a key directly under CollectedData.Fields —
// against one contract (spec.md §4.3 Phase C, §4.5).
type Generic struct {
	ctnType  string
	contract *entities.Contract
}

// NewGeneric builds a Generic executor bound to contract. contract.CtnType
// must equal ctnType.
func NewGeneric(ctnType string, contract *entities.Contract) *Generic {
	return &Generic{ctnType: ctnType, contract: contract}
}

func (g *Generic) CtnType() string             { return g.ctnType }
func (g *Generic) Contract() *entities.Contract { return g.contract }

// Validate checks that every predicate's field is declared in the contract
// and its operation is permitted against that field.
func (g *Generic) Validate(states []entities.State) error {
	for _, s := range states {
		for _, p := range s.Predicates {
			if !g.contract.OperationAllowed(p.Field, p.Op) {
				return fmt.Errorf("executors: field %q does not allow operation %q under contract %s", p.Field, p.Op, g.ctnType)
			}
		}
	}
	return nil
}

// Evaluate compares each state's predicates against data.Fields, combining
// the predicate results of all states together with op (spec.md §4.3
// "state_operator").
func (g *Generic) Evaluate(data *entities.CollectedData, states []entities.State, op entities.StateOperator) ([]entities.FieldResult, bool) {
	var results []entities.FieldResult
	for _, state := range states {
		for _, p := range state.Predicates {
			results = append(results, g.evaluatePredicate(data, p))
		}
	}
	return results, combine(op, results)
}

func (g *Generic) evaluatePredicate(data *entities.CollectedData, p entities.FieldPredicate) entities.FieldResult {
	dataField := g.contract.FieldMappings.DataField(p.Field)
	actual, ok := data.Fields[dataField]
	if !ok {
		return entities.FieldResult{
			Field:     p.Field,
			Operation: p.Op,
			Passed:    false,
			Message:   (&entities.ValidationError{Kind: "MissingDataField", Field: p.Field, Detail: "collected data has no field " + dataField}).Error(),
		}
	}

	expected := p.Operand.Literal
	if expected == nil {
		return entities.FieldResult{
			Field:     p.Field,
			Actual:    actual.String(),
			Operation: p.Op,
			Passed:    false,
			Message:   "predicate operand was not resolved to a literal before execution",
		}
	}

	passed, err := comparison.Compare(actual, *expected, p.Op)
	result := entities.FieldResult{
		Field:     p.Field,
		Expected:  expected.String(),
		Actual:    actual.String(),
		Operation: p.Op,
		Passed:    passed,
	}
	if err != nil {
		result.Message = err.Error()
	}
	return result
}

// combine folds per-predicate results under op (spec.md §4.3).
func combine(op entities.StateOperator, results []entities.FieldResult) bool {
	if len(results) == 0 {
		return true
	}
	switch op {
	case entities.StateOperatorOR:
		for _, r := range results {
			if r.Passed {
				return true
			}
		}
		return false
	case entities.StateOperatorONE:
		count := 0
		for _, r := range results {
			if r.Passed {
				count++
			}
		}
		return count == 1
	default: // AND
		for _, r := range results {
			if !r.Passed {
				return false
			}
		}
		return true
	}
}

var _ ports.Executor = (*Generic)(nil)
