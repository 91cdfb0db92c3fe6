// Package contracts provides concrete CTN contracts — file_metadata,
// file_content, tcp_listener, json_record, k8s_resource, computed_values,
// rpm_package — each pairing a domain Contract with the collector and
// executor that serve it, ready to hand to registry.Register (spec.md
// §4.7, §9.5).
package contracts

import (
	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
	"github.com/escanio/escan-core/infrastructure/collectors"
	"github.com/escanio/escan-core/infrastructure/executors"
)

const CtnFileMetadata = "file_metadata"

// FileMetadata describes a filesystem path's stat-derived state: existence,
// permissions, ownership, size, and the portable is_directory/writable
// fields supplemented from original_source/ (spec.md §4.7, §9.5).
func FileMetadata() (ports.Collector, ports.Executor) {
	contract := &entities.Contract{
		CtnType: CtnFileMetadata,
		ObjectFields: []entities.ObjectFieldSpec{
			{Name: "path", Type: entities.KindString, Required: true, Example: "/etc/ssh/sshd_config"},
		},
		StateFields: []entities.StateFieldSpec{
			{Name: "exists", Type: entities.KindBool, AllowedOps: []entities.Operation{entities.OpEquals, entities.OpNotEqual}},
			{Name: "is_directory", Type: entities.KindBool, AllowedOps: []entities.Operation{entities.OpEquals, entities.OpNotEqual}},
			{Name: "readable", Type: entities.KindBool, AllowedOps: []entities.Operation{entities.OpEquals, entities.OpNotEqual}},
			{Name: "writable", Type: entities.KindBool, AllowedOps: []entities.Operation{entities.OpEquals, entities.OpNotEqual}},
			{Name: "size", Type: entities.KindInt, AllowedOps: []entities.Operation{entities.OpEquals, entities.OpNotEqual, entities.OpGreaterThan, entities.OpLessThan, entities.OpGreaterEqual, entities.OpLessEqual}},
			{Name: "permissions", Type: entities.KindString, AllowedOps: []entities.Operation{entities.OpEquals, entities.OpNotEqual}},
			{Name: "owner", Type: entities.KindString, AllowedOps: []entities.Operation{entities.OpEquals, entities.OpNotEqual}},
			{Name: "group", Type: entities.KindString, AllowedOps: []entities.Operation{entities.OpEquals, entities.OpNotEqual}},
		},
		FieldMappings: entities.FieldMappings{
			RequiredCollectedFields: []string{"exists", "readable", "size", "permissions"},
		},
		CollectionStrategy: entities.CollectionStrategy{
			Collector:            entities.CollectorFileRead,
			Mode:                 "metadata",
			RequiredCapabilities: []string{"fs:read"},
			PerformanceHints: entities.PerformanceHints{
				Cacheable: false, BatchSupported: true, EstimatedCostMS: 2,
			},
		},
		SupportedBehaviors: []entities.SupportedBehavior{
			{Name: "follow_symlinks"},
		},
	}
	collector := collectors.NewFilesystem(CtnFileMetadata, collectors.FilesystemMetadata)
	executor := executors.NewGeneric(CtnFileMetadata, contract)
	return collector, executor
}
