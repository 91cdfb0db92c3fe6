package contracts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escanio/escan-core/application/registry"
	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
)

type nopExecutor struct{}

func (nopExecutor) Run(ctx context.Context, req ports.CommandRequest) (*ports.CommandResult, error) {
	return &ports.CommandResult{ExitCode: 0}, nil
}

// fullGrants covers every RequiredCapabilities tag this package's
// contracts declare, so Register succeeds against a host that trusts all
// of them.
var fullGrants = entities.GrantSet{
	FS:   entities.FileSystemRule{Read: []string{"**"}},
	Exec: entities.ExecCapability{Commands: []string{"kubectl", "rpm"}},
}

func TestRegister_InstallsEveryContract(t *testing.T) {
	reg := registry.New()
	err := Register(reg, nopExecutor{}, 10, fullGrants, nil)
	require.NoError(t, err)

	want := []string{
		CtnFileMetadata, CtnFileContent, CtnTCPListener,
		CtnJSONRecord, CtnComputedValues, CtnK8sResource, CtnRPMPackage,
	}
	for _, ctn := range want {
		_, err := reg.Contract(ctn)
		assert.NoError(t, err, "expected %s to be registered", ctn)
	}
}

func TestRegister_RejectsDoubleRegistration(t *testing.T) {
	reg := registry.New()
	require.NoError(t, Register(reg, nopExecutor{}, 10, fullGrants, nil))
	err := Register(reg, nopExecutor{}, 10, fullGrants, nil)
	assert.Error(t, err)
}

func TestRegister_RejectsUngrantedExecCapability(t *testing.T) {
	reg := registry.New()
	err := Register(reg, nopExecutor{}, 10, entities.GrantSet{FS: entities.FileSystemRule{Read: []string{"**"}}}, nil)
	require.Error(t, err)
	var regErr *entities.RegistryError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, "CapabilityNotGranted", regErr.Kind)
}
