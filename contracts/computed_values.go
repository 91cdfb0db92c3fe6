package contracts

import (
	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
	"github.com/escanio/escan-core/infrastructure/collectors"
	"github.com/escanio/escan-core/infrastructure/executors"
)

const CtnComputedValues = "computed_values"

// ComputedValues passes a resolved object's own fields straight through
// as collected data, for CTN types whose "state" is entirely derived
// during resolution (RUN ops, literals) rather than collected live
// (spec.md §4.7).
func ComputedValues() (ports.Collector, ports.Executor) {
	contract := &entities.Contract{
		CtnType: CtnComputedValues,
		ObjectFields: []entities.ObjectFieldSpec{
			{Name: "value", Type: entities.KindString, Required: false},
		},
		StateFields: []entities.StateFieldSpec{
			{Name: "value", Type: entities.KindString, AllowedOps: []entities.Operation{
				entities.OpEquals, entities.OpNotEqual, entities.OpContains, entities.OpGreaterThan, entities.OpLessThan,
			}},
		},
		CollectionStrategy: entities.CollectionStrategy{
			Collector: entities.CollectorComputed,
			Mode:      "computed",
			PerformanceHints: entities.PerformanceHints{
				Cacheable: true, BatchSupported: true, EstimatedCostMS: 0,
			},
		},
	}
	collector := collectors.NewComputed(CtnComputedValues)
	executor := executors.NewGeneric(CtnComputedValues, contract)
	return collector, executor
}
