package collectors

import (
	"context"
	"fmt"
	"strings"

	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
)

// K8sResource collects a Kubernetes resource's JSON representation via
// `kubectl get ... -o json`, layered on the sandboxed command executor
// (spec.md §4.7).
type K8sResource struct {
	ctnType  string
	executor ports.CommandExecutor
	timeout  int
}

// NewK8sResource builds a K8sResource collector invoking kubectl through
// executor.
func NewK8sResource(ctnType string, executor ports.CommandExecutor, timeoutSec int) *K8sResource {
	return &K8sResource{ctnType: ctnType, executor: executor, timeout: timeoutSec}
}

func (k *K8sResource) SupportedCtnTypes() []string { return []string{k.ctnType} }

func (k *K8sResource) ValidateCtnCompatibility(contract *entities.Contract) error {
	for _, name := range []string{"kind", "name", "namespace"} {
		if _, ok := contract.ObjectFieldSpecByName(name); !ok {
			return fmt.Errorf("collectors: contract %s has no %q object field for the k8s_resource primitive", contract.CtnType, name)
		}
	}
	return nil
}

func (k *K8sResource) Collect(ctx context.Context, object entities.ResolvedObject, contract *entities.Contract) (*entities.CollectedData, error) {
	kindVal, okKind := object.Fields["kind"]
	nameVal, okName := object.Fields["name"]
	if !okKind || !okName {
		return nil, &entities.CollectionObjectError{Kind: "InvalidObjectConfiguration", ObjectID: object.ID, CtnType: k.ctnType, Reason: "object requires kind and name fields"}
	}

	argv := []string{"kubectl", "get", kindVal.Str, nameVal.Str, "-o", "json"}
	if ns, ok := object.Fields["namespace"]; ok && ns.Str != "" {
		argv = append(argv, "-n", ns.Str)
	}

	result, err := k.executor.Run(ctx, ports.CommandRequest{Program: argv[0], Args: argv[1:], TimeoutSec: k.timeout})
	if err != nil {
		return nil, &entities.CollectionObjectError{Kind: "CollectionFailed", ObjectID: object.ID, CtnType: k.ctnType, Reason: "kubectl invocation failed", Cause: err}
	}
	if result.ExitCode != 0 {
		if isNotFoundMessage(result.Stderr) {
			return nil, &entities.CollectionObjectError{Kind: "ObjectNotFound", ObjectID: object.ID, CtnType: k.ctnType, Reason: string(result.Stderr)}
		}
		return nil, &entities.CollectionObjectError{Kind: "CollectionFailed", ObjectID: object.ID, CtnType: k.ctnType, Reason: string(result.Stderr)}
	}

	doc, err := decodeGenericJSON(result.Stdout)
	if err != nil {
		return nil, &entities.CollectionObjectError{Kind: "CollectionFailed", ObjectID: object.ID, CtnType: k.ctnType, Reason: "invalid JSON from kubectl", Cause: err}
	}

	return &entities.CollectedData{
		ObjectID:    object.ID,
		CtnType:     k.ctnType,
		CollectorID: "k8s_resource",
		Fields:      map[string]entities.Value{"document": jsonToValue(doc)},
		Method:      entities.CollectionMethod{Type: entities.MethodCommand, Description: "kubectl get -o json", Target: nameVal.Str, Command: argv},
	}, nil
}

func (k *K8sResource) CollectBatch(ctx context.Context, objects []entities.ResolvedObject, contract *entities.Contract) ([]entities.CollectionResult, error) {
	out := make([]entities.CollectionResult, 0, len(objects))
	for _, obj := range objects {
		data, err := k.Collect(ctx, obj, contract)
		if err != nil {
			out = append(out, entities.CollectionResult{ObjectID: obj.ID, Kind: entities.CollectionError, Err: err})
			continue
		}
		out = append(out, entities.CollectionResult{ObjectID: obj.ID, Kind: entities.CollectionOK, Data: data})
	}
	return out, nil
}

func isNotFoundMessage(stderr []byte) bool {
	s := string(stderr)
	return strings.Contains(s, "NotFound") || strings.Contains(s, "not found")
}

var _ ports.Collector = (*K8sResource)(nil)
