package collectors

import (
	"context"

	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
)

// Computed is the pass-through collector for computed_values: the
// resolved object's fields (already populated by RUN operations or
// literals during resolution) become the collected data verbatim
// (spec.md §4.7 "computed values via pass-through").
type Computed struct {
	ctnType string
}

// NewComputed builds a Computed collector for ctnType.
func NewComputed(ctnType string) *Computed {
	return &Computed{ctnType: ctnType}
}

func (c *Computed) SupportedCtnTypes() []string { return []string{c.ctnType} }

func (c *Computed) ValidateCtnCompatibility(contract *entities.Contract) error { return nil }

func (c *Computed) Collect(ctx context.Context, object entities.ResolvedObject, contract *entities.Contract) (*entities.CollectedData, error) {
	fields := make(map[string]entities.Value, len(object.Fields))
	for k, v := range object.Fields {
		fields[k] = v
	}
	return &entities.CollectedData{
		ObjectID:    object.ID,
		CtnType:     c.ctnType,
		CollectorID: "computed",
		Fields:      fields,
		Method:      entities.CollectionMethod{Type: entities.MethodComputed, Description: "pass-through of resolved object fields"},
	}, nil
}

func (c *Computed) CollectBatch(ctx context.Context, objects []entities.ResolvedObject, contract *entities.Contract) ([]entities.CollectionResult, error) {
	out := make([]entities.CollectionResult, 0, len(objects))
	for _, obj := range objects {
		data, _ := c.Collect(ctx, obj, contract)
		out = append(out, entities.CollectionResult{ObjectID: obj.ID, Kind: entities.CollectionOK, Data: data})
	}
	return out, nil
}

var _ ports.Collector = (*Computed)(nil)
