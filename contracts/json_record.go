package contracts

import (
	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
	"github.com/escanio/escan-core/infrastructure/collectors"
	"github.com/escanio/escan-core/infrastructure/executors"
)

const CtnJSONRecord = "json_record"

// JSONRecord describes a JSON document read from a filesystem path, with
// predicates evaluated via nested record paths against the decoded
// document (spec.md §4.4, §4.7).
func JSONRecord() (ports.Collector, ports.Executor) {
	contract := &entities.Contract{
		CtnType: CtnJSONRecord,
		ObjectFields: []entities.ObjectFieldSpec{
			{Name: "path", Type: entities.KindString, Required: true, Example: "/etc/app/config.json"},
		},
		StateFields: []entities.StateFieldSpec{
			{Name: "document", Type: entities.KindRecord, AllowedOps: []entities.Operation{
				entities.OpEquals, entities.OpNotEqual, entities.OpContains, entities.OpPatternMatch,
			}, CollectedField: "document"},
		},
		FieldMappings: entities.FieldMappings{
			RequiredCollectedFields: []string{"document"},
		},
		CollectionStrategy: entities.CollectionStrategy{
			Collector:            entities.CollectorFileRead,
			Mode:                 "record",
			RequiredCapabilities: []string{"fs:read"},
			PerformanceHints: entities.PerformanceHints{
				Cacheable: false, BatchSupported: true, EstimatedCostMS: 6,
			},
		},
	}
	collector := collectors.NewJSONRecord(CtnJSONRecord)
	executor := executors.NewRecord(CtnJSONRecord, contract, "document")
	return collector, executor
}
