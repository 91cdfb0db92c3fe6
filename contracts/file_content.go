package contracts

import (
	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
	"github.com/escanio/escan-core/infrastructure/collectors"
	"github.com/escanio/escan-core/infrastructure/executors"
)

const CtnFileContent = "file_content"

// FileContent describes a filesystem path's contents, returned as a UTF-8
// string unless the object's binary_mode behavior hint is set, in which
// case the content is collected as a binary value (spec.md §4.7).
func FileContent() (ports.Collector, ports.Executor) {
	contract := &entities.Contract{
		CtnType: CtnFileContent,
		ObjectFields: []entities.ObjectFieldSpec{
			{Name: "path", Type: entities.KindString, Required: true, Example: "/etc/passwd"},
		},
		StateFields: []entities.StateFieldSpec{
			{Name: "content", Type: entities.KindString, AllowedOps: []entities.Operation{
				entities.OpEquals, entities.OpNotEqual, entities.OpContains, entities.OpNotContains,
				entities.OpStartsWith, entities.OpEndsWith, entities.OpPatternMatch,
			}},
			{Name: "exists", Type: entities.KindBool, AllowedOps: []entities.Operation{entities.OpEquals, entities.OpNotEqual}},
			{Name: "size", Type: entities.KindInt, AllowedOps: []entities.Operation{entities.OpEquals, entities.OpGreaterThan, entities.OpLessThan}},
		},
		FieldMappings: entities.FieldMappings{
			RequiredCollectedFields: []string{"content"},
		},
		CollectionStrategy: entities.CollectionStrategy{
			Collector:            entities.CollectorFileRead,
			Mode:                 "content",
			RequiredCapabilities: []string{"fs:read"},
			PerformanceHints: entities.PerformanceHints{
				Cacheable: false, BatchSupported: true, EstimatedCostMS: 5,
			},
		},
		SupportedBehaviors: []entities.SupportedBehavior{
			{Name: "follow_symlinks"},
			{Name: "binary_mode"},
		},
	}
	collector := collectors.NewFilesystem(CtnFileContent, collectors.FilesystemContent)
	executor := executors.NewGeneric(CtnFileContent, contract)
	return collector, executor
}
