package capability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/escanio/escan-core/application/capability"
	"github.com/escanio/escan-core/domain/entities"
)

func TestPolicy_FileSystem(t *testing.T) {
	p := capability.New(nil)
	grants := entities.GrantSet{FS: entities.FileSystemRule{Read: []string{"/data/**"}}}

	assert.True(t, p.EvaluateFileSystem("/data/app/config.yaml", false, grants))
	assert.False(t, p.EvaluateFileSystem("/etc/passwd", false, grants))
	assert.False(t, p.EvaluateFileSystem("/data/app/config.yaml", true, grants), "no write grant")
}

func TestPolicy_Network(t *testing.T) {
	p := capability.New(nil)
	grants := entities.GrantSet{Network: entities.NetworkRule{Hosts: []string{"*.internal.example.com"}, Ports: []int{443}}}

	assert.True(t, p.EvaluateNetwork("svc.internal.example.com", 443, grants))
	assert.False(t, p.EvaluateNetwork("svc.internal.example.com", 80, grants))
	assert.False(t, p.EvaluateNetwork("evil.example.com", 443, grants))
}

func TestPolicy_Exec(t *testing.T) {
	p := capability.New(nil)
	grants := entities.GrantSet{Exec: entities.ExecCapability{Commands: []string{"/usr/bin/rpm"}}}

	assert.True(t, p.EvaluateExec("/usr/bin/rpm", grants))
	assert.False(t, p.EvaluateExec("/bin/sh", grants))
}

func TestPolicy_KeyValue(t *testing.T) {
	p := capability.New(nil)
	grants := entities.GrantSet{KV: entities.KeyValueCapability{Rules: []entities.KeyValueRule{
		{Keys: []string{"app/*"}, Operation: entities.KVOperationRead},
	}}}

	assert.True(t, p.EvaluateKeyValue("app/db_host", false, grants))
	assert.False(t, p.EvaluateKeyValue("app/db_host", true, grants), "no write rule")
	assert.False(t, p.EvaluateKeyValue("other/key", false, grants))
}

func TestRequiredCapabilitiesGranted(t *testing.T) {
	grants := entities.GrantSet{
		FS:   entities.FileSystemRule{Read: []string{"/etc/**"}},
		Exec: entities.ExecCapability{Commands: []string{"rpm", "kubectl"}},
	}

	assert.True(t, capability.RequiredCapabilitiesGranted([]string{"exec:rpm"}, grants))
	assert.True(t, capability.RequiredCapabilitiesGranted([]string{"exec:kubectl", "fs:read"}, grants))
	assert.False(t, capability.RequiredCapabilitiesGranted([]string{"exec:yum"}, grants))
	assert.False(t, capability.RequiredCapabilitiesGranted([]string{"fs:write"}, grants))
	assert.False(t, capability.RequiredCapabilitiesGranted([]string{"network:any"}, grants))
	assert.True(t, capability.RequiredCapabilitiesGranted(nil, entities.GrantSet{}), "no requirements always pass")
}
