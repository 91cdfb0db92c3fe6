package ports

import (
	"context"

	"github.com/escanio/escan-core/domain/entities"
)

// Collector obtains CollectedData for one or more resolved objects under a
// given contract. Implementations must not mutate the Object or Contract
// passed to them.
type Collector interface {
	// Collect gathers data for a single object. behaviorHints are the
	// object's own hints, already merged with any contract defaults.
	Collect(ctx context.Context, object entities.ResolvedObject, contract *entities.Contract) (*entities.CollectedData, error)

	// CollectBatch gathers data for multiple objects in one call when the
	// collector declares batch support in its contract's performance
	// hints. Results must be indistinguishable, object for object, from
	// calling Collect individually, including order.
	CollectBatch(ctx context.Context, objects []entities.ResolvedObject, contract *entities.Contract) ([]entities.CollectionResult, error)

	// SupportedCtnTypes lists the CTN types this collector can serve.
	SupportedCtnTypes() []string

	// ValidateCtnCompatibility checks that this collector can satisfy the
	// given contract (field mappings it can populate, capabilities it
	// requires), returning an error describing the mismatch otherwise.
	ValidateCtnCompatibility(contract *entities.Contract) error
}
