package contracts

import (
	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
	"github.com/escanio/escan-core/infrastructure/collectors"
	"github.com/escanio/escan-core/infrastructure/executors"
)

const CtnK8sResource = "k8s_resource"

// K8sResource describes a Kubernetes object fetched via `kubectl get -o
// json`, with predicates evaluated via nested record paths against the
// decoded resource document (spec.md §4.4, §4.7). exec takes the
// sandboxed command executor the scan was configured with.
func K8sResource(exec ports.CommandExecutor, timeoutSec int) (ports.Collector, ports.Executor) {
	contract := &entities.Contract{
		CtnType: CtnK8sResource,
		ObjectFields: []entities.ObjectFieldSpec{
			{Name: "kind", Type: entities.KindString, Required: true, Example: "Pod"},
			{Name: "name", Type: entities.KindString, Required: true, Example: "nginx-7d9"},
			{Name: "namespace", Type: entities.KindString, Required: false, Example: "default"},
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
			Collector:            entities.CollectorCommand,
			Mode:                 "record",
			RequiredCapabilities: []string{"exec:kubectl"},
			PerformanceHints: entities.PerformanceHints{
				Cacheable: false, BatchSupported: false, EstimatedCostMS: 200,
			},
		},
	}
	collector := collectors.NewK8sResource(CtnK8sResource, exec, timeoutSec)
	executor := executors.NewRecord(CtnK8sResource, contract, "document")
	return collector, executor
}
