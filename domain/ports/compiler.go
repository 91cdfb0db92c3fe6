package ports

import "github.com/escanio/escan-core/domain/entities"

// PolicyAST is the compiled policy document the execution core consumes.
// It mirrors spec.md §6's "compiled policy AST" input shape: one metadata
// block plus a definition block of VARs, OBJECTs, STATEs, SETs, RUNs, and
// exactly one top-level CRI tree.
type PolicyAST struct {
	Metadata  entities.PolicyIdentity
	Variables []VarDecl
	Objects   []entities.Object
	States    []entities.State
	Sets      []entities.Set
	Runs      []RunBlock
	Criteria  []entities.Criterion
	Tree      *entities.CRINode
}

// VarDecl is one VAR declaration in source order: either a literal value
// or a reference to an earlier-bound variable or RUN output.
type VarDecl struct {
	Name    string
	Type    entities.ValueKind
	Literal *entities.Value
	VarRef  string
}

// RunBlock is one (output_name, operation, inputs) RUN declaration
// (spec.md §4.2 step 2), carried as an AST node prior to evaluation.
type RunBlock struct {
	OutputName string
	Operation  string
	Inputs     []RunInput
}

// RunInput is one input to a RUN block: a literal value or a reference to
// a previously bound variable or RUN output.
type RunInput struct {
	Literal *entities.Value
	VarRef  string
}

// PolicyCompiler is the external boundary that turns policy source text
// into a PolicyAST. The execution core depends only on this interface;
// the compiler itself lives outside this module.
type PolicyCompiler interface {
	Compile(source []byte) (*PolicyAST, error)
}
