package batch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escanio/escan-core/application/batch"
	"github.com/escanio/escan-core/application/registry"
	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
)

type alwaysOKCollector struct{ ctnType string }

func (c *alwaysOKCollector) Collect(ctx context.Context, object entities.ResolvedObject, contract *entities.Contract) (*entities.CollectedData, error) {
	return &entities.CollectedData{ObjectID: object.ID, CtnType: c.ctnType, Fields: map[string]entities.Value{}}, nil
}
func (c *alwaysOKCollector) CollectBatch(ctx context.Context, objects []entities.ResolvedObject, contract *entities.Contract) ([]entities.CollectionResult, error) {
	return nil, nil
}
func (c *alwaysOKCollector) SupportedCtnTypes() []string                           { return []string{c.ctnType} }
func (c *alwaysOKCollector) ValidateCtnCompatibility(contract *entities.Contract) error { return nil }

type alwaysPassExecutor struct {
	ctnType  string
	contract *entities.Contract
}

func (e *alwaysPassExecutor) CtnType() string                        { return e.ctnType }
func (e *alwaysPassExecutor) Contract() *entities.Contract            { return e.contract }
func (e *alwaysPassExecutor) Validate(states []entities.State) error { return nil }
func (e *alwaysPassExecutor) Evaluate(data *entities.CollectedData, states []entities.State, op entities.StateOperator) ([]entities.FieldResult, bool) {
	return nil, true
}

func buildAST(objectID, critID string) *ports.PolicyAST {
	return &ports.PolicyAST{
		Objects:  []entities.Object{{ID: objectID, Fields: map[string]entities.FieldValue{}}},
		Criteria: []entities.Criterion{{ID: critID, CtnType: "computed_values", ObjectRefs: []string{objectID}, Test: entities.TestSpec{Existence: entities.ExistenceAll, Item: entities.ItemAll}}},
		Tree:     &entities.CRINode{Kind: entities.CRILeaf, Criterion: &entities.ExecutableCriterion{ID: critID}},
	}
}

func TestRunner_Run_ReturnsOneResultPerPolicyInOrder(t *testing.T) {
	reg := registry.New()
	contract := &entities.Contract{CtnType: "computed_values"}
	require.NoError(t, reg.Register(&alwaysOKCollector{ctnType: "computed_values"}, &alwaysPassExecutor{ctnType: "computed_values", contract: contract}))

	policies := []batch.Policy{
		{Identity: entities.PolicyIdentity{EspScanID: "p1"}, AST: buildAST("o1", "c1")},
		{Identity: entities.PolicyIdentity{EspScanID: "p2"}, AST: buildAST("o2", "c2")},
		{Identity: entities.PolicyIdentity{EspScanID: "p3"}, AST: buildAST("o3", "c3")},
	}

	runner := batch.New(reg, 2, nil)
	results := runner.Run(context.Background(), policies)

	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, policies[i].Identity.EspScanID, r.PolicyID)
		require.NoError(t, r.Err)
		require.NotNil(t, r.Outcome)
		assert.Equal(t, entities.PolicyPass, r.Outcome.Outcome)
	}
}

func TestRunner_Run_UnregisteredCtnTypeFailsOnlyThatPolicy(t *testing.T) {
	reg := registry.New()
	contract := &entities.Contract{CtnType: "computed_values"}
	require.NoError(t, reg.Register(&alwaysOKCollector{ctnType: "computed_values"}, &alwaysPassExecutor{ctnType: "computed_values", contract: contract}))

	good := buildAST("o1", "c1")
	bad := &ports.PolicyAST{
		Objects:  []entities.Object{{ID: "o2", Fields: map[string]entities.FieldValue{}}},
		Criteria: []entities.Criterion{{ID: "c2", CtnType: "unknown_type", ObjectRefs: []string{"o2"}}},
		Tree:     &entities.CRINode{Kind: entities.CRILeaf, Criterion: &entities.ExecutableCriterion{ID: "c2"}},
	}

	policies := []batch.Policy{
		{Identity: entities.PolicyIdentity{EspScanID: "p1"}, AST: good},
		{Identity: entities.PolicyIdentity{EspScanID: "p2"}, AST: bad},
	}

	runner := batch.New(reg, 0, nil)
	results := runner.Run(context.Background(), policies)

	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	require.NotNil(t, results[1].Outcome, "unknown ctn type surfaces as a criterion error, not a resolution failure")
	assert.Equal(t, entities.PolicyError, results[1].Outcome.Outcome)
}

func TestRunner_Run_ResolutionFailureStillProducesAnErrorOutcome(t *testing.T) {
	reg := registry.New()

	bad := &ports.PolicyAST{
		Objects:  []entities.Object{{ID: "o1", Fields: map[string]entities.FieldValue{}}},
		Criteria: []entities.Criterion{{ID: "c1", CtnType: "computed_values", ObjectRefs: []string{"does_not_exist"}}},
		Tree:     &entities.CRINode{Kind: entities.CRILeaf, Criterion: &entities.ExecutableCriterion{ID: "c1"}},
	}

	policies := []batch.Policy{
		{Identity: entities.PolicyIdentity{EspScanID: "p1"}, AST: bad},
	}

	runner := batch.New(reg, 0, nil)
	results := runner.Run(context.Background(), policies)

	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].PolicyID)
	require.Error(t, results[0].Err)
	require.NotNil(t, results[0].Outcome, "a resolution failure must still produce a PolicyOutcome (invariant: one outcome per input policy)")
	assert.Equal(t, entities.PolicyError, results[0].Outcome.Outcome)
	require.Len(t, results[0].Outcome.Findings, 1)
	assert.Equal(t, "p1", results[0].Outcome.Identity.EspScanID)
}
