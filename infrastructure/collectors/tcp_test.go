package collectors_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/infrastructure/collectors"
)

// fakeProcNetTable writes a minimal /proc/net/tcp-shaped file with one
// listening socket on port 23 (0x0017) and returns its path.
func fakeProcNetTable(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	content := "  sl  local_address rem_address   st\n" +
		"   0: 00000000:0017 00000000:0000 0A 00000000:00000000 00:00000000 00000000     0        0 12345 1 0000000000000000 100 0 0 10 0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// emptyProcNetTable writes a header-only table with no listening sockets.
func emptyProcNetTable(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("  sl  local_address rem_address   st\n"), 0644))
	return path
}

func TestTCPListener_Collect_DetectsListeningPort(t *testing.T) {
	c := collectors.NewTCPListenerForTest("tcp_listener", fakeProcNetTable(t, "tcp"), emptyProcNetTable(t, "tcp6"))
	object := entities.ResolvedObject{ID: "obj1", Fields: map[string]entities.Value{"port": entities.IntValue(23)}}

	data, err := c.Collect(context.Background(), object, &entities.Contract{CtnType: "tcp_listener"})
	require.NoError(t, err)
	assert.True(t, data.Fields["listening"].Bool)
}

func TestTCPListener_Collect_PortNotListening(t *testing.T) {
	c := collectors.NewTCPListenerForTest("tcp_listener", fakeProcNetTable(t, "tcp"), emptyProcNetTable(t, "tcp6"))
	object := entities.ResolvedObject{ID: "obj1", Fields: map[string]entities.Value{"port": entities.IntValue(8080)}}

	data, err := c.Collect(context.Background(), object, &entities.Contract{CtnType: "tcp_listener"})
	require.NoError(t, err)
	assert.False(t, data.Fields["listening"].Bool)
}

func TestTCPListener_Collect_DetectsListeningPortOnIPv6Table(t *testing.T) {
	c := collectors.NewTCPListenerForTest("tcp_listener", emptyProcNetTable(t, "tcp"), fakeProcNetTable(t, "tcp6"))
	object := entities.ResolvedObject{ID: "obj1", Fields: map[string]entities.Value{"port": entities.IntValue(23)}}

	data, err := c.Collect(context.Background(), object, &entities.Contract{CtnType: "tcp_listener"})
	require.NoError(t, err)
	assert.True(t, data.Fields["listening"].Bool, "a port listening only on the tcp6 table must still be detected")
}

func TestTCPListener_Collect_MissingIPv6TableIsNotAnError(t *testing.T) {
	c := collectors.NewTCPListenerForTest("tcp_listener", fakeProcNetTable(t, "tcp"), filepath.Join(t.TempDir(), "does-not-exist"))
	object := entities.ResolvedObject{ID: "obj1", Fields: map[string]entities.Value{"port": entities.IntValue(23)}}

	data, err := c.Collect(context.Background(), object, &entities.Contract{CtnType: "tcp_listener"})
	require.NoError(t, err, "IPv6 disabled on the host must not fail collection of an IPv4-only listener")
	assert.True(t, data.Fields["listening"].Bool)
}
