package resolution_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escanio/escan-core/application/registry"
	"github.com/escanio/escan-core/application/resolution"
	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
)

func strLit(s string) *entities.Value {
	v := entities.StringValue(s)
	return &v
}

func TestEngine_Resolve_VariablesAndObjects(t *testing.T) {
	ast := &ports.PolicyAST{
		Variables: []ports.VarDecl{
			{Name: "base_path", Literal: strLit("/etc")},
			{Name: "target_path", VarRef: "base_path"},
		},
		Objects: []entities.Object{
			{ID: "obj1", Fields: map[string]entities.FieldValue{"path": {VarRef: "target_path"}}},
		},
		States: []entities.State{
			{Name: "state1", Predicates: []entities.FieldPredicate{
				{Field: "exists", DeclaredType: entities.KindBool, Op: entities.OpEquals, Operand: entities.Operand{Literal: boolLit(true)}},
			}},
		},
		Criteria: []entities.Criterion{
			{ID: "crit1", CtnType: "file_metadata", ObjectRefs: []string{"obj1"}, StateRefs: []string{"state1"},
				Test: entities.TestSpec{Existence: entities.ExistenceAll, Item: entities.ItemAll}},
		},
		Tree: &entities.CRINode{Kind: entities.CRILeaf, Criterion: &entities.ExecutableCriterion{ID: "crit1"}},
	}

	eng := resolution.New(registry.New(), nil)
	resolved, err := eng.Resolve(context.Background(), "policy-1", ast)
	require.NoError(t, err)
	require.Len(t, resolved.Criteria, 1)

	crit := resolved.Criteria[0]
	require.Len(t, crit.Objects, 1)
	assert.Equal(t, "/etc", crit.Objects[0].Fields["path"].Str)

	require.NotNil(t, resolved.Tree)
	assert.Equal(t, entities.CRILeaf, resolved.Tree.Kind)
	assert.Same(t, crit, resolved.Tree.Criterion)
}

func TestEngine_Resolve_UnknownVariableFails(t *testing.T) {
	ast := &ports.PolicyAST{
		Objects: []entities.Object{
			{ID: "obj1", Fields: map[string]entities.FieldValue{"path": {VarRef: "missing"}}},
		},
		Criteria: []entities.Criterion{{ID: "crit1", CtnType: "file_metadata", ObjectRefs: []string{"obj1"}}},
		Tree:     &entities.CRINode{Kind: entities.CRILeaf, Criterion: &entities.ExecutableCriterion{ID: "crit1"}},
	}

	eng := resolution.New(registry.New(), nil)
	_, err := eng.Resolve(context.Background(), "policy-1", ast)
	require.Error(t, err)
	var resErr *entities.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "UnknownVariable", resErr.Kind)
}

func TestEngine_Resolve_SetUnion(t *testing.T) {
	ast := &ports.PolicyAST{
		Objects: []entities.Object{
			{ID: "a", Fields: map[string]entities.FieldValue{}},
			{ID: "b", Fields: map[string]entities.FieldValue{}},
		},
		Sets: []entities.Set{
			{Name: "both", Op: entities.SetUnion, Members: []entities.SetMember{{ObjectRef: "a"}, {ObjectRef: "b"}, {ObjectRef: "a"}}},
		},
		Criteria: []entities.Criterion{
			{ID: "crit1", CtnType: "file_metadata", SetRefs: []string{"both"}},
		},
		Tree: &entities.CRINode{Kind: entities.CRILeaf, Criterion: &entities.ExecutableCriterion{ID: "crit1"}},
	}

	eng := resolution.New(registry.New(), nil)
	resolved, err := eng.Resolve(context.Background(), "policy-1", ast)
	require.NoError(t, err)
	require.Len(t, resolved.Criteria, 1)
	assert.Len(t, resolved.Criteria[0].Objects, 2, "union deduplicates by identifier")
}

func boolLit(b bool) *entities.Value {
	v := entities.BoolValue(b)
	return &v
}
