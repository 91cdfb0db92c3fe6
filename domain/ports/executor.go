package ports

import "github.com/escanio/escan-core/domain/entities"

// Executor evaluates State predicates for one CTN type against data a
// Collector produced. It owns the contract describing what it accepts.
type Executor interface {
	// CtnType names the single CTN type this executor evaluates.
	CtnType() string

	// Contract returns the contract this executor was constructed with.
	Contract() *entities.Contract

	// Validate checks a criterion's state refs against this executor's
	// contract before any collection occurs, catching field/operation
	// mismatches early.
	Validate(states []entities.State) error

	// Evaluate combines one object's collected fields against a list of
	// states under the given state operator, producing the field-level
	// results and the combined pass/fail for that object.
	Evaluate(data *entities.CollectedData, states []entities.State, op entities.StateOperator) ([]entities.FieldResult, bool)
}
