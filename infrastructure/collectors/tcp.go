package collectors

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
)

// TCPListener collects whether any process is listening on a given port
// by opening and parsing /proc/net/tcp and /proc/net/tcp6 directly
// (spec.md §4.7).
type TCPListener struct {
	ctnType   string
	procPath  string // "/proc/net/tcp" by default; overridable for tests
	proc6Path string // "/proc/net/tcp6" by default; overridable for tests
}

// NewTCPListener builds a TCPListener collector reading from the standard
// /proc/net/tcp and /proc/net/tcp6 locations.
func NewTCPListener(ctnType string) *TCPListener {
	return &TCPListener{ctnType: ctnType, procPath: "/proc/net/tcp", proc6Path: "/proc/net/tcp6"}
}

// NewTCPListenerForTest builds a TCPListener reading from arbitrary paths,
// letting tests substitute fixtures for /proc/net/tcp and /proc/net/tcp6.
func NewTCPListenerForTest(ctnType, procPath, proc6Path string) *TCPListener {
	return &TCPListener{ctnType: ctnType, procPath: procPath, proc6Path: proc6Path}
}

func (t *TCPListener) SupportedCtnTypes() []string { return []string{t.ctnType} }

func (t *TCPListener) ValidateCtnCompatibility(contract *entities.Contract) error {
	if _, ok := contract.ObjectFieldSpecByName("port"); !ok {
		return fmt.Errorf("collectors: contract %s has no \"port\" object field for the tcp_listener primitive", contract.CtnType)
	}
	return nil
}

// tcpStateListen is the /proc/net/tcp st field value (0A) of a socket in
// the LISTEN state.
const tcpStateListen = "0A"

func (t *TCPListener) Collect(ctx context.Context, object entities.ResolvedObject, contract *entities.Contract) (*entities.CollectedData, error) {
	portVal, ok := object.Fields["port"]
	if !ok {
		return nil, &entities.CollectionObjectError{Kind: "InvalidObjectConfiguration", ObjectID: object.ID, CtnType: t.ctnType, Reason: "object has no port field"}
	}

	listening, err := t.isListening(int(portVal.Int))
	if err != nil {
		return nil, &entities.CollectionObjectError{Kind: "CollectionFailed", ObjectID: object.ID, CtnType: t.ctnType, Reason: t.procPath, Cause: err}
	}

	return &entities.CollectedData{
		ObjectID:    object.ID,
		CtnType:     t.ctnType,
		CollectorID: "tcp_listener",
		Fields: map[string]entities.Value{
			"listening": entities.BoolValue(listening),
			"port":      entities.IntValue(portVal.Int),
		},
		Method: entities.CollectionMethod{Type: entities.MethodFileRead, Description: "parse /proc/net/tcp and /proc/net/tcp6", Target: t.procPath},
	}, nil
}

func (t *TCPListener) CollectBatch(ctx context.Context, objects []entities.ResolvedObject, contract *entities.Contract) ([]entities.CollectionResult, error) {
	out := make([]entities.CollectionResult, 0, len(objects))
	for _, obj := range objects {
		data, err := t.Collect(ctx, obj, contract)
		if err != nil {
			out = append(out, entities.CollectionResult{ObjectID: obj.ID, Kind: entities.CollectionError, Err: err})
			continue
		}
		out = append(out, entities.CollectionResult{ObjectID: obj.ID, Kind: entities.CollectionOK, Data: data})
	}
	return out, nil
}

// isListening scans procPath and proc6Path for a LISTEN-state entry bound
// to port, on any local address. A missing tcp6 table (IPv6 disabled) is
// not an error — only the tcp4 table is required to exist.
func (t *TCPListener) isListening(port int) (bool, error) {
	found, err := scanListenTable(t.procPath, port)
	if err != nil {
		return false, err
	}
	if found {
		return true, nil
	}

	found, err = scanListenTable(t.proc6Path, port)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	return found, nil
}

// scanListenTable scans one /proc/net/tcp-shaped table for a LISTEN-state
// entry bound to port, on any local address.
func scanListenTable(path string, port int) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	want := fmt.Sprintf("%04X", port)

	scanner := bufio.NewScanner(f)
	scanner.Scan() // header line
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		localAddr := fields[1] // "ADDR:PORT" in hex
		state := fields[3]
		parts := strings.SplitN(localAddr, ":", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(parts[1], want) && state == tcpStateListen {
			return true, nil
		}
	}
	return false, scanner.Err()
}

var _ ports.Collector = (*TCPListener)(nil)
