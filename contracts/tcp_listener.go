package contracts

import (
	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
	"github.com/escanio/escan-core/infrastructure/collectors"
	"github.com/escanio/escan-core/infrastructure/executors"
)

const CtnTCPListener = "tcp_listener"

// TCPListener describes whether a port is bound by a socket in the LISTEN
// state, read from /proc/net/tcp (spec.md §4.7).
func TCPListener() (ports.Collector, ports.Executor) {
	contract := &entities.Contract{
		CtnType: CtnTCPListener,
		ObjectFields: []entities.ObjectFieldSpec{
			{Name: "port", Type: entities.KindInt, Required: true, Example: "22"},
		},
		StateFields: []entities.StateFieldSpec{
			{Name: "listening", Type: entities.KindBool, AllowedOps: []entities.Operation{entities.OpEquals, entities.OpNotEqual}},
			{Name: "port", Type: entities.KindInt, AllowedOps: []entities.Operation{entities.OpEquals, entities.OpNotEqual}},
		},
		FieldMappings: entities.FieldMappings{
			RequiredCollectedFields: []string{"listening"},
		},
		CollectionStrategy: entities.CollectionStrategy{
			Collector: entities.CollectorFileRead,
			Mode:      "metadata",
			PerformanceHints: entities.PerformanceHints{
				Cacheable: false, BatchSupported: true, EstimatedCostMS: 3,
			},
		},
	}
	collector := collectors.NewTCPListener(CtnTCPListener)
	executor := executors.NewGeneric(CtnTCPListener, contract)
	return collector, executor
}
