package execution_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escanio/escan-core/application/execution"
	"github.com/escanio/escan-core/application/registry"
	"github.com/escanio/escan-core/application/resolution"
	"github.com/escanio/escan-core/domain/entities"
)

// fakeCollector returns a canned CollectedData per object ID, or an
// ObjectNotFound CollectionObjectError for IDs listed as missing.
type fakeCollector struct {
	ctnType string
	data    map[string]map[string]entities.Value
	missing map[string]struct{}
}

func (f *fakeCollector) Collect(ctx context.Context, object entities.ResolvedObject, contract *entities.Contract) (*entities.CollectedData, error) {
	if _, absent := f.missing[object.ID]; absent {
		return nil, &entities.CollectionObjectError{Kind: "ObjectNotFound", ObjectID: object.ID, CtnType: f.ctnType}
	}
	return &entities.CollectedData{ObjectID: object.ID, CtnType: f.ctnType, Fields: f.data[object.ID]}, nil
}

func (f *fakeCollector) CollectBatch(ctx context.Context, objects []entities.ResolvedObject, contract *entities.Contract) ([]entities.CollectionResult, error) {
	out := make([]entities.CollectionResult, 0, len(objects))
	for _, obj := range objects {
		data, err := f.Collect(ctx, obj, contract)
		if err != nil {
			out = append(out, entities.CollectionResult{ObjectID: obj.ID, Kind: entities.CollectionAbsent, Err: err})
			continue
		}
		out = append(out, entities.CollectionResult{ObjectID: obj.ID, Kind: entities.CollectionOK, Data: data})
	}
	return out, nil
}

func (f *fakeCollector) SupportedCtnTypes() []string { return []string{f.ctnType} }

func (f *fakeCollector) ValidateCtnCompatibility(contract *entities.Contract) error { return nil }

// fakeExecutor considers an object "combined-passing" when its "exists"
// field equals true.
type fakeExecutor struct {
	ctnType  string
	contract *entities.Contract
}

func (f *fakeExecutor) CtnType() string                        { return f.ctnType }
func (f *fakeExecutor) Contract() *entities.Contract            { return f.contract }
func (f *fakeExecutor) Validate(states []entities.State) error { return nil }

func (f *fakeExecutor) Evaluate(data *entities.CollectedData, states []entities.State, op entities.StateOperator) ([]entities.FieldResult, bool) {
	v, ok := data.Fields["exists"]
	passed := ok && v.Bool
	return []entities.FieldResult{{
		Field:    "exists",
		Expected: "true",
		Actual:   data.Fields["exists"].String(),
		Passed:   passed,
	}}, passed
}

func buildEngine(t *testing.T, ctnType string, collector *fakeCollector) *execution.Engine {
	t.Helper()
	reg := registry.New()
	contract := &entities.Contract{CtnType: ctnType}
	executor := &fakeExecutor{ctnType: ctnType, contract: contract}
	require.NoError(t, reg.Register(collector, executor))
	return execution.New(reg, nil)
}

func resolvedCriterion(ctnType string, objectIDs []string, test entities.TestSpec) *resolution.Resolved {
	var objs []entities.ResolvedObject
	for _, id := range objectIDs {
		objs = append(objs, entities.ResolvedObject{ID: id, Fields: map[string]entities.Value{}})
	}
	crit := &entities.ExecutableCriterion{ID: "crit1", CtnType: ctnType, Test: test, Objects: objs}
	return &resolution.Resolved{
		Criteria: []*entities.ExecutableCriterion{crit},
		Tree:     &entities.CRINode{Kind: entities.CRILeaf, Criterion: crit},
	}
}

func TestEngine_Run_AllObjectsPassAndExist(t *testing.T) {
	collector := &fakeCollector{
		ctnType: "file_metadata",
		data: map[string]map[string]entities.Value{
			"obj1": {"exists": entities.BoolValue(true)},
		},
	}
	eng := buildEngine(t, "file_metadata", collector)

	resolved := resolvedCriterion("file_metadata", []string{"obj1"}, entities.TestSpec{
		Existence: entities.ExistenceAll,
		Item:      entities.ItemAll,
	})

	outcome := eng.Run(context.Background(), entities.PolicyIdentity{EspScanID: "p1"}, resolved)
	require.NotNil(t, outcome)
	assert.True(t, outcome.TreePassed)
	assert.Equal(t, entities.PolicyPass, outcome.Outcome)
	assert.Empty(t, outcome.Findings)
}

func TestEngine_Run_ExistenceCheckFailsWhenObjectMissing(t *testing.T) {
	collector := &fakeCollector{
		ctnType: "file_metadata",
		missing: map[string]struct{}{"obj1": {}},
	}
	eng := buildEngine(t, "file_metadata", collector)

	resolved := resolvedCriterion("file_metadata", []string{"obj1"}, entities.TestSpec{
		Existence: entities.ExistenceAll,
		Item:      entities.ItemAll,
	})

	outcome := eng.Run(context.Background(), entities.PolicyIdentity{EspScanID: "p1"}, resolved)
	assert.False(t, outcome.TreePassed)
	assert.Equal(t, entities.PolicyFail, outcome.Outcome)
	require.Len(t, outcome.Criteria, 1)
	assert.Equal(t, "existence", outcome.Criteria[0].Phase)
	assert.NotEmpty(t, outcome.Findings)
}

func TestEngine_Run_ItemCheckFailsOnMismatchedField(t *testing.T) {
	collector := &fakeCollector{
		ctnType: "file_metadata",
		data: map[string]map[string]entities.Value{
			"obj1": {"exists": entities.BoolValue(false)},
		},
	}
	eng := buildEngine(t, "file_metadata", collector)

	resolved := resolvedCriterion("file_metadata", []string{"obj1"}, entities.TestSpec{
		Existence: entities.ExistenceAll,
		Item:      entities.ItemAll,
	})

	outcome := eng.Run(context.Background(), entities.PolicyIdentity{EspScanID: "p1"}, resolved)
	assert.False(t, outcome.TreePassed)
	require.Len(t, outcome.Findings, 1)
	assert.Equal(t, "exists", outcome.Findings[0].Field)
	assert.Equal(t, "obj1", outcome.Findings[0].ObjectID)
}
