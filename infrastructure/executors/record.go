package executors

import (
	"fmt"

	"github.com/escanio/escan-core/application/comparison"
	"github.com/escanio/escan-core/application/recordpath"
	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
)

// Record evaluates record-path predicates against one top-level record
// field of collected data (spec.md §4.4), for CTN types whose data is
// nested JSON-shaped structures rather than flat fields.
type Record struct {
	ctnType   string
	contract  *entities.Contract
	rootField string // name in CollectedData.Fields holding the root record
}

// NewRecord builds a Record executor. rootField names the collected field
// holding the record value that field paths are evaluated against.
func NewRecord(ctnType string, contract *entities.Contract, rootField string) *Record {
	return &Record{ctnType: ctnType, contract: contract, rootField: rootField}
}

func (r *Record) CtnType() string             { return r.ctnType }
func (r *Record) Contract() *entities.Contract { return r.contract }

func (r *Record) Validate(states []entities.State) error {
	for _, s := range states {
		for _, p := range s.Predicates {
			if p.Operand.RecordCheck == nil && p.Operand.Literal == nil {
				return fmt.Errorf("executors: record predicate on field %q has neither a record check nor a literal operand", p.Field)
			}
		}
	}
	return nil
}

func (r *Record) Evaluate(data *entities.CollectedData, states []entities.State, op entities.StateOperator) ([]entities.FieldResult, bool) {
	root, ok := data.Fields[r.rootField]
	if !ok {
		msg := (&entities.ValidationError{Kind: "MissingDataField", Field: r.rootField, Detail: "collected data has no record root field"}).Error()
		fr := []entities.FieldResult{{Field: r.rootField, Passed: false, Message: msg}}
		return fr, false
	}

	var results []entities.FieldResult
	for _, state := range states {
		for _, p := range state.Predicates {
			results = append(results, r.evaluatePredicate(root, p))
		}
	}
	return results, combine(op, results)
}

func (r *Record) evaluatePredicate(root entities.Value, p entities.FieldPredicate) entities.FieldResult {
	check := p.Operand.RecordCheck
	if check == nil {
		// A plain field path against a literal operand, entity check "all".
		check = &entities.RecordCheck{FieldPath: p.Field, Predicate: p}
	}

	expected := check.Predicate.Operand.Literal
	if expected == nil {
		return entities.FieldResult{Field: p.Field, Operation: p.Op, Passed: false, Message: "record predicate operand was not resolved to a literal"}
	}

	passed, matched, total, lastErr := recordpath.Evaluate(root, check.FieldPath, check.EffectiveEntityCheck(), func(v entities.Value) (bool, error) {
		return comparison.Compare(v, *expected, check.Predicate.Op)
	})

	result := entities.FieldResult{
		Field:     check.FieldPath,
		Expected:  expected.String(),
		Operation: check.Predicate.Op,
		Passed:    passed,
		Actual:    fmt.Sprintf("%d/%d matched", matched, total),
	}
	if lastErr != nil {
		result.Message = lastErr.Error()
	}
	return result
}

var _ ports.Executor = (*Record)(nil)
