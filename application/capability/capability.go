// Package capability enforces the access a collector attempts —
// filesystem paths, network endpoints, commands, environment variables,
// and key-value keys — against the GrantSet a policy's contract declares
// it needs (spec.md §5 "no mutable global state"; adapted from the
// plugin capability model this module's collectors now gate instead of
// WASM guests).
package capability

import (
	"log/slog"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
)

// Policy is the default CapabilityPolicy implementation: glob matching
// (an exact match always counts) over filesystem paths, hosts, exec
// commands, environment variable names, and key-value keys.
type Policy struct {
	logger *slog.Logger
}

// New builds a Policy that logs denials via logger. A nil logger disables
// logging.
func New(logger *slog.Logger) *Policy {
	return &Policy{logger: logger}
}

func (p *Policy) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Policy) CheckFileSystem(path string, write bool, grants entities.GrantSet) bool {
	ok := p.EvaluateFileSystem(path, write, grants)
	if !ok {
		p.warn("capability denied", "resource", "filesystem", "path", path, "write", write)
	}
	return ok
}

func (p *Policy) EvaluateFileSystem(path string, write bool, grants entities.GrantSet) bool {
	patterns := grants.FS.Read
	if write {
		patterns = grants.FS.Write
	}
	return matchesAny(patterns, path)
}

func (p *Policy) CheckNetwork(host string, port int, grants entities.GrantSet) bool {
	ok := p.EvaluateNetwork(host, port, grants)
	if !ok {
		p.warn("capability denied", "resource", "network", "host", host, "port", port)
	}
	return ok
}

func (p *Policy) EvaluateNetwork(host string, port int, grants entities.GrantSet) bool {
	if !matchesAny(grants.Network.Hosts, host) {
		return false
	}
	if len(grants.Network.Ports) == 0 {
		return true
	}
	for _, allowed := range grants.Network.Ports {
		if allowed == port {
			return true
		}
	}
	return false
}

func (p *Policy) CheckExec(command string, grants entities.GrantSet) bool {
	ok := p.EvaluateExec(command, grants)
	if !ok {
		p.warn("capability denied", "resource", "exec", "command", command)
	}
	return ok
}

func (p *Policy) EvaluateExec(command string, grants entities.GrantSet) bool {
	return matchesAny(grants.Exec.Commands, command)
}

func (p *Policy) CheckEnv(variable string, grants entities.GrantSet) bool {
	ok := p.EvaluateEnv(variable, grants)
	if !ok {
		p.warn("capability denied", "resource", "env", "variable", variable)
	}
	return ok
}

func (p *Policy) EvaluateEnv(variable string, grants entities.GrantSet) bool {
	return matchesAny(grants.Env.Variables, variable)
}

func (p *Policy) CheckKeyValue(key string, write bool, grants entities.GrantSet) bool {
	ok := p.EvaluateKeyValue(key, write, grants)
	if !ok {
		p.warn("capability denied", "resource", "kv", "key", key, "write", write)
	}
	return ok
}

func (p *Policy) EvaluateKeyValue(key string, write bool, grants entities.GrantSet) bool {
	wantOp := entities.KVOperationRead
	if write {
		wantOp = entities.KVOperationWrite
	}
	for _, rule := range grants.KV.Rules {
		if rule.Operation != wantOp {
			continue
		}
		if matchesAny(rule.Keys, key) {
			return true
		}
	}
	return false
}

// RequiredCapabilitiesGranted reports whether every tag a contract's
// CollectionStrategy.RequiredCapabilities lists is covered by grants. Tags
// take the form "<resource-kind>:<identifier>" — "exec:kubectl",
// "env:HOME" — naming a specific resource, or "fs:read"/"fs:write"/
// "network"/"kv" naming a capability class whose concrete resource (an
// object's path, a command's host) is only known once collection starts
// and is re-checked then instead. registry.Register calls this so
// RequiredCapabilities is enforced before a contract is ever installed,
// not left declared-but-unread.
func RequiredCapabilitiesGranted(required []string, grants entities.GrantSet) bool {
	for _, tag := range required {
		kind, resource, _ := strings.Cut(tag, ":")
		switch kind {
		case "exec":
			if !matchesAny(grants.Exec.Commands, resource) {
				return false
			}
		case "fs":
			switch resource {
			case "read":
				if len(grants.FS.Read) == 0 {
					return false
				}
			case "write":
				if len(grants.FS.Write) == 0 {
					return false
				}
			default:
				if !matchesAny(grants.FS.Read, resource) && !matchesAny(grants.FS.Write, resource) {
					return false
				}
			}
		case "network":
			switch resource {
			case "", "connect":
				if len(grants.Network.Hosts) == 0 {
					return false
				}
			default:
				if !matchesAny(grants.Network.Hosts, resource) {
					return false
				}
			}
		case "env":
			if !matchesAny(grants.Env.Variables, resource) {
				return false
			}
		case "kv":
			if len(grants.KV.Rules) == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// matchesAny reports whether candidate matches any glob pattern in
// patterns. A literal "*" or "0.0.0.0" pattern is treated as an exact
// match too, since doublestar.Match on those hosts would otherwise
// require path-separator semantics that don't apply to hostnames.
func matchesAny(patterns []string, candidate string) bool {
	for _, pattern := range patterns {
		if pattern == candidate {
			return true
		}
		ok, err := doublestar.Match(pattern, candidate)
		if err == nil && ok {
			return true
		}
	}
	return false
}

var _ ports.CapabilityPolicy = (*Policy)(nil)
