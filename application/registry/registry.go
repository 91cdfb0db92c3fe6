// Package registry maps each CTN type to a validated (collector,
// executor, contract) triple (spec.md §4.1).
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/escanio/escan-core/application/capability"
	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
)

// Entry is one registered strategy.
type Entry struct {
	CtnType   string
	Collector ports.Collector
	Executor  ports.Executor
	Contract  *entities.Contract
}

// Registry is shared, read-only during a scan. Registration must complete
// before any scan begins. Register takes the write lock and lookups take
// the read lock, so a Register call is serialized against concurrent
// lookups.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register validates and installs one (collector, executor) pair under
// executor.CtnType(). See spec.md §4.1 for the validation order.
func (r *Registry) Register(collector ports.Collector, executor ports.Executor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctnType := executor.CtnType()
	contract := executor.Contract()

	if contract == nil || contract.CtnType != ctnType {
		return &entities.RegistryError{
			Kind:    "MismatchedCtnType",
			CtnType: ctnType,
			Reason:  "executor.Contract().CtnType does not equal executor.CtnType()",
		}
	}

	if !containsString(collector.SupportedCtnTypes(), ctnType) {
		return &entities.RegistryError{
			Kind:    "IncompatibleCollector",
			CtnType: ctnType,
			Reason:  "collector does not declare support for this CTN type",
		}
	}

	if err := collector.ValidateCtnCompatibility(contract); err != nil {
		return &entities.RegistryError{
			Kind:    "IncompatibleCollector",
			CtnType: ctnType,
			Reason:  err.Error(),
		}
	}

	if _, exists := r.entries[ctnType]; exists {
		return &entities.RegistryError{
			Kind:    "DuplicateRegistration",
			CtnType: ctnType,
			Reason:  fmt.Sprintf("a strategy for %q is already registered", ctnType),
		}
	}

	if !capability.RequiredCapabilitiesGranted(contract.CollectionStrategy.RequiredCapabilities, contract.Grants) {
		return &entities.RegistryError{
			Kind:    "CapabilityNotGranted",
			CtnType: ctnType,
			Reason:  fmt.Sprintf("contract requires %v but its Grants do not cover them", contract.CollectionStrategy.RequiredCapabilities),
		}
	}

	r.entries[ctnType] = Entry{
		CtnType:   ctnType,
		Collector: collector,
		Executor:  executor,
		Contract:  contract,
	}
	return nil
}

// Lookup returns the strategy registered for ctnType.
func (r *Registry) Lookup(ctnType string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[ctnType]
	if !ok {
		return Entry{}, &entities.RegistryError{Kind: "UnknownCtn", CtnType: ctnType, Reason: "no strategy registered"}
	}
	return entry, nil
}

// Contract returns the contract registered for ctnType, for policy-side
// validation ahead of a scan.
func (r *Registry) Contract(ctnType string) (*entities.Contract, error) {
	entry, err := r.Lookup(ctnType)
	if err != nil {
		return nil, err
	}
	return entry.Contract, nil
}

// CtnTypes returns the sorted list of registered CTN types.
func (r *Registry) CtnTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
