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

func runAST(run ports.RunBlock, objectVarRef string) *ports.PolicyAST {
	return &ports.PolicyAST{
		Runs: []ports.RunBlock{run},
		Objects: []entities.Object{
			{ID: "obj1", Fields: map[string]entities.FieldValue{"value": {VarRef: objectVarRef}}},
		},
		Criteria: []entities.Criterion{{ID: "crit1", CtnType: "computed_values", ObjectRefs: []string{"obj1"}}},
		Tree:     &entities.CRINode{Kind: entities.CRILeaf, Criterion: &entities.ExecutableCriterion{ID: "crit1"}},
	}
}

func TestEngine_Resolve_RunConcat(t *testing.T) {
	ast := runAST(ports.RunBlock{
		OutputName: "combined",
		Operation:  "concat",
		Inputs:     []ports.RunInput{{Literal: strLit("hello-")}, {Literal: strLit("world")}},
	}, "combined")

	eng := resolution.New(registry.New(), nil)
	resolved, err := eng.Resolve(context.Background(), "p1", ast)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", resolved.Criteria[0].Objects[0].Fields["value"].Str)
}

func TestEngine_Resolve_RunArithmeticDivisionByZeroFails(t *testing.T) {
	intLit := func(i int64) *entities.Value { v := entities.IntValue(i); return &v }
	ast := runAST(ports.RunBlock{
		OutputName: "ratio",
		Operation:  "arithmetic",
		Inputs:     []ports.RunInput{{Literal: intLit(1)}, {Literal: strLit("/")}, {Literal: intLit(0)}},
	}, "ratio")

	eng := resolution.New(registry.New(), nil)
	_, err := eng.Resolve(context.Background(), "p1", ast)
	require.Error(t, err)
	var resErr *entities.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "RunError", resErr.Kind)
}
