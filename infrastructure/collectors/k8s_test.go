package collectors_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
	"github.com/escanio/escan-core/infrastructure/collectors"
)

type stubCommandExecutor struct {
	stdout   []byte
	stderr   []byte
	exitCode int
	err      error
}

func (s *stubCommandExecutor) Run(ctx context.Context, req ports.CommandRequest) (*ports.CommandResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ports.CommandResult{ExitCode: s.exitCode, Stdout: s.stdout, Stderr: s.stderr}, nil
}

func TestK8sResource_Collect_ParsesKubectlOutput(t *testing.T) {
	exec := &stubCommandExecutor{stdout: []byte(`{"kind":"Pod","metadata":{"name":"web-1"}}`)}
	c := collectors.NewK8sResource("k8s_resource", exec, 5)

	object := entities.ResolvedObject{ID: "obj1", Fields: map[string]entities.Value{
		"kind":      entities.StringValue("pod"),
		"name":      entities.StringValue("web-1"),
		"namespace": entities.StringValue("default"),
	}}

	data, err := c.Collect(context.Background(), object, &entities.Contract{CtnType: "k8s_resource"})
	require.NoError(t, err)

	doc := data.Fields["document"]
	kind, ok := doc.Record.Get("kind")
	require.True(t, ok)
	assert.Equal(t, "Pod", kind.Str)
}

func TestK8sResource_Collect_NotFoundBecomesObjectNotFound(t *testing.T) {
	exec := &stubCommandExecutor{exitCode: 1, stderr: []byte(`Error from server (NotFound): pods "web-1" not found`)}
	c := collectors.NewK8sResource("k8s_resource", exec, 5)

	object := entities.ResolvedObject{ID: "obj1", Fields: map[string]entities.Value{
		"kind": entities.StringValue("pod"),
		"name": entities.StringValue("web-1"),
	}}

	_, err := c.Collect(context.Background(), object, &entities.Contract{CtnType: "k8s_resource"})
	require.Error(t, err)
	var collErr *entities.CollectionObjectError
	require.ErrorAs(t, err, &collErr)
	assert.Equal(t, "ObjectNotFound", collErr.Kind)
}
