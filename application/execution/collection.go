package execution

import (
	"context"
	"strings"

	"github.com/escanio/escan-core/application/capability"
	"github.com/escanio/escan-core/application/registry"
	"github.com/escanio/escan-core/domain/entities"
)

// capabilityGate re-checks the capability grant a registered contract
// carries against the concrete resource (a command name, a filesystem
// path) each collection attempt touches. It holds no mutable state — its
// Check methods only read the GrantSet passed to them — so one instance
// is shared across every concurrent batch.Runner invocation (spec.md §5
// "No mutable global state").
var capabilityGate = capability.New(nil)

// collectAll runs Phase A (spec.md §4.3) for one criterion's resolved
// objects, preferring CollectBatch when the contract advertises batch
// support and more than one object is pending. Before dispatching to the
// collector it gates access against the contract's declared
// RequiredCapabilities and Grants: a command contract whose exec
// capability isn't granted never runs, and a file-based contract's
// per-object path is checked individually so one denied object doesn't
// block its siblings.
func collectAll(ctx context.Context, entry registry.Entry, objects []entities.ResolvedObject) []entities.CollectionResult {
	if !execCapabilityGranted(entry) {
		return denyAll(entry, objects, "exec capability not granted for "+entry.Contract.CtnType)
	}

	out := make([]entities.CollectionResult, len(objects))
	pending := make([]entities.ResolvedObject, 0, len(objects))
	pendingIdx := make([]int, 0, len(objects))

	for i, obj := range objects {
		if granted, path := fileSystemCapabilityGranted(entry, obj); !granted {
			out[i] = entities.CollectionResult{
				ObjectID: obj.ID,
				Kind:     entities.CollectionError,
				Err:      &entities.CollectionObjectError{Kind: "AccessDenied", ObjectID: obj.ID, CtnType: entry.Contract.CtnType, Reason: path},
			}
			continue
		}
		pending = append(pending, obj)
		pendingIdx = append(pendingIdx, i)
	}

	if len(pending) == 0 {
		return out
	}

	if entry.Contract.CollectionStrategy.PerformanceHints.BatchSupported && len(pending) > 1 {
		results, err := entry.Collector.CollectBatch(ctx, pending, entry.Contract)
		if err != nil {
			for j, obj := range pending {
				out[pendingIdx[j]] = entities.CollectionResult{ObjectID: obj.ID, Kind: entities.CollectionError, Err: err}
			}
			return out
		}
		for j, r := range results {
			out[pendingIdx[j]] = r
		}
		return out
	}

	for j, obj := range pending {
		data, err := entry.Collector.Collect(ctx, obj, entry.Contract)
		out[pendingIdx[j]] = classifyCollection(obj.ID, data, err)
	}
	return out
}

// execCapabilityGranted checks a command contract's "exec:<name>"
// RequiredCapabilities tags against its Grants once per criterion, since
// the command itself doesn't vary per object. Non-command contracts and
// contracts with no exec tag have nothing to check.
func execCapabilityGranted(entry registry.Entry) bool {
	if entry.Contract.CollectionStrategy.Collector != entities.CollectorCommand {
		return true
	}
	for _, tag := range entry.Contract.CollectionStrategy.RequiredCapabilities {
		kind, resource, ok := strings.Cut(tag, ":")
		if !ok || kind != "exec" {
			continue
		}
		if !capabilityGate.CheckExec(resource, entry.Contract.Grants) {
			return false
		}
	}
	return true
}

// fileSystemCapabilityGranted checks one object's path against a
// file-based contract's Grants, but only when the contract actually
// declares an "fs:read" requirement; contracts that don't (e.g.
// computed_values) are left ungated.
func fileSystemCapabilityGranted(entry registry.Entry, obj entities.ResolvedObject) (bool, string) {
	if entry.Contract.CollectionStrategy.Collector != entities.CollectorFileRead {
		return true, ""
	}
	if !hasCapabilityTag(entry.Contract.CollectionStrategy.RequiredCapabilities, "fs:read") {
		return true, ""
	}
	path, ok := obj.Fields["path"]
	if !ok {
		// A missing path field is the collector's own InvalidObjectConfiguration
		// error to raise, not a capability decision.
		return true, ""
	}
	return capabilityGate.CheckFileSystem(path.Str, false, entry.Contract.Grants), path.Str
}

func hasCapabilityTag(required []string, tag string) bool {
	for _, t := range required {
		if t == tag {
			return true
		}
	}
	return false
}

func denyAll(entry registry.Entry, objects []entities.ResolvedObject, reason string) []entities.CollectionResult {
	out := make([]entities.CollectionResult, len(objects))
	for i, obj := range objects {
		out[i] = entities.CollectionResult{
			ObjectID: obj.ID,
			Kind:     entities.CollectionError,
			Err:      &entities.CollectionObjectError{Kind: "AccessDenied", ObjectID: obj.ID, CtnType: entry.Contract.CtnType, Reason: reason},
		}
	}
	return out
}

// classifyCollection turns a single Collect call's return into a
// CollectionResult, distinguishing absence from error per spec.md §4.3
// Phase A.
func classifyCollection(objectID string, data *entities.CollectedData, err error) entities.CollectionResult {
	if err == nil {
		return entities.CollectionResult{ObjectID: objectID, Kind: entities.CollectionOK, Data: data}
	}

	var collErr *entities.CollectionObjectError
	if as, ok := err.(*entities.CollectionObjectError); ok {
		collErr = as
	}

	switch {
	case collErr != nil && collErr.IsAbsent():
		return entities.CollectionResult{ObjectID: objectID, Kind: entities.CollectionAbsent, Err: err}
	case collErr != nil && collErr.AbortsCriterion():
		return entities.CollectionResult{ObjectID: objectID, Kind: entities.CollectionAborted, Err: err}
	default:
		return entities.CollectionResult{ObjectID: objectID, Kind: entities.CollectionError, Err: err}
	}
}
