package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escanio/escan-core/application/config"
)

func TestFromEnv_RequiresAgentAndHostID(t *testing.T) {
	t.Setenv("ESCAN_AGENT_ID", "")
	t.Setenv("ESCAN_HOST_ID", "")
	t.Setenv("ESCAN_SANDBOX_WHITELIST", "/usr/bin/rpm")

	_, err := config.FromEnv()
	require.Error(t, err)
}

func TestFromEnv_AppliesDefaults(t *testing.T) {
	t.Setenv("ESCAN_AGENT_ID", "agent-1")
	t.Setenv("ESCAN_HOST_ID", "host-1")
	t.Setenv("ESCAN_SANDBOX_WHITELIST", "/usr/bin/rpm,/bin/ls")
	t.Setenv("ESCAN_MAX_CONCURRENCY", "")
	t.Setenv("ESCAN_COMMAND_TIMEOUT", "")
	t.Setenv("ESCAN_LOG_FORMAT", "")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.ElementsMatch(t, []string{"/usr/bin/rpm", "/bin/ls"}, cfg.SandboxWhitelist)
}

func TestFromFile_LoadsYAMLAndLetsEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := "agent_id: file-agent\nhost_id: file-host\nmax_concurrency: 8\nsandbox_whitelist:\n  - /usr/bin/rpm\nlog_format: text\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))

	t.Setenv("ESCAN_AGENT_ID", "")
	t.Setenv("ESCAN_HOST_ID", "")
	t.Setenv("ESCAN_MAX_CONCURRENCY", "")
	t.Setenv("ESCAN_SANDBOX_WHITELIST", "")
	t.Setenv("ESCAN_COMMAND_TIMEOUT", "")
	t.Setenv("ESCAN_LOG_FORMAT", "")

	cfg, err := config.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file-agent", cfg.AgentID)
	assert.Equal(t, "file-host", cfg.HostID)
	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.Equal(t, "text", cfg.LogFormat)

	t.Setenv("ESCAN_LOG_FORMAT", "json")
	cfg, err = config.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat, "env must override the file value")
}

func TestFromFile_MissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("ESCAN_AGENT_ID", "agent-1")
	t.Setenv("ESCAN_HOST_ID", "host-1")
	t.Setenv("ESCAN_SANDBOX_WHITELIST", "/usr/bin/rpm")

	cfg, err := config.FromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "agent-1", cfg.AgentID)
}
