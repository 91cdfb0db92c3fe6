package ports

import "github.com/escanio/escan-core/domain/entities"

// CapabilityPolicy enforces a policy's GrantSet against the access a
// collector attempts during collection: filesystem paths, network
// endpoints, environment variables, command names, and key-value keys.
//
// Check methods log a denial as a side effect (via the configured
// logger); Evaluate methods return the same decision silently, for
// callers that want to decide what to do with a denial themselves (e.g.
// the risk analyzer, or a dry-run validator).
type CapabilityPolicy interface {
	CheckFileSystem(path string, write bool, grants entities.GrantSet) bool
	CheckNetwork(host string, port int, grants entities.GrantSet) bool
	CheckExec(command string, grants entities.GrantSet) bool
	CheckEnv(variable string, grants entities.GrantSet) bool
	CheckKeyValue(key string, write bool, grants entities.GrantSet) bool

	EvaluateFileSystem(path string, write bool, grants entities.GrantSet) bool
	EvaluateNetwork(host string, port int, grants entities.GrantSet) bool
	EvaluateExec(command string, grants entities.GrantSet) bool
	EvaluateEnv(variable string, grants entities.GrantSet) bool
	EvaluateKeyValue(key string, write bool, grants entities.GrantSet) bool
}
