package contracts

import (
	"fmt"

	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
	"github.com/escanio/escan-core/infrastructure/collectors"
	"github.com/escanio/escan-core/infrastructure/executors"
)

const CtnRPMPackage = "rpm_package"

const rpmQueryFormat = "%{NAME}-%{VERSION}-%{RELEASE}.%{ARCH}\n"

// RPMPackage describes an installed RPM package's name, version, release,
// architecture, and EVR, queried via `rpm -q` and parsed the way
// contract_kit's parse_rpm_output does (spec.md §9.5). exec takes the
// sandboxed command executor the scan was configured with.
func RPMPackage(exec ports.CommandExecutor, timeoutSec int) (ports.Collector, ports.Executor) {
	contract := &entities.Contract{
		CtnType: CtnRPMPackage,
		ObjectFields: []entities.ObjectFieldSpec{
			{Name: "name", Type: entities.KindString, Required: true, Example: "openssh-server"},
		},
		StateFields: []entities.StateFieldSpec{
			{Name: "name", Type: entities.KindString, AllowedOps: []entities.Operation{entities.OpEquals, entities.OpNotEqual}},
			{Name: "version", Type: entities.KindVersion, AllowedOps: []entities.Operation{
				entities.OpEquals, entities.OpNotEqual, entities.OpGreaterThan, entities.OpLessThan, entities.OpGreaterEqual, entities.OpLessEqual,
			}},
			{Name: "release", Type: entities.KindString, AllowedOps: []entities.Operation{entities.OpEquals, entities.OpNotEqual}},
			{Name: "arch", Type: entities.KindString, AllowedOps: []entities.Operation{entities.OpEquals, entities.OpNotEqual}},
			{Name: "evr", Type: entities.KindEVR, AllowedOps: []entities.Operation{
				entities.OpEquals, entities.OpNotEqual, entities.OpGreaterThan, entities.OpLessThan, entities.OpGreaterEqual, entities.OpLessEqual,
			}},
		},
		FieldMappings: entities.FieldMappings{
			RequiredCollectedFields: []string{"name", "version", "release", "arch", "evr"},
		},
		CollectionStrategy: entities.CollectionStrategy{
			Collector:            entities.CollectorCommand,
			Mode:                 "record",
			RequiredCapabilities: []string{"exec:rpm"},
			PerformanceHints: entities.PerformanceHints{
				Cacheable: true, BatchSupported: false, EstimatedCostMS: 50,
			},
		},
	}

	argv := func(object entities.ResolvedObject) ([]string, error) {
		nameVal, ok := object.Fields["name"]
		if !ok || nameVal.Str == "" {
			return nil, fmt.Errorf("rpm_package: object %s has no package name", object.ID)
		}
		return []string{"rpm", "-q", "--qf", rpmQueryFormat, nameVal.Str}, nil
	}

	collector := collectors.NewCommand(CtnRPMPackage, exec, argv, collectors.ParseRPMQueryOutput, timeoutSec)
	executor := executors.NewGeneric(CtnRPMPackage, contract)
	return collector, executor
}
