package resolution

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
)

// bindVariables builds a name -> value map from VAR declarations by
// single-pass substitution at reference sites, in source order (spec.md
// §4.2 step 1). A VarRef naming a variable not yet bound is either
// unknown or, if it appears later in decls, cyclic/forward (rejected the
// same way: no recursion is attempted).
func bindVariables(policyID string, decls []ports.VarDecl) (entities.VariableMap, error) {
	bound := entities.NewVariableMap()
	declaredLater := make(map[string]struct{}, len(decls))
	for _, d := range decls {
		declaredLater[d.Name] = struct{}{}
	}

	for _, d := range decls {
		if d.Literal != nil {
			bound[d.Name] = *d.Literal
			continue
		}
		if d.VarRef == "" {
			return nil, &entities.ResolutionError{Kind: "UnknownVariable", PolicyID: policyID, Detail: "VAR " + d.Name + " has neither a literal nor a reference"}
		}
		val, ok := bound[d.VarRef]
		if !ok {
			if _, willExist := declaredLater[d.VarRef]; willExist {
				return nil, &entities.ResolutionError{Kind: "CyclicVariable", PolicyID: policyID, Detail: "VAR " + d.Name + " references " + d.VarRef + " before it is bound"}
			}
			return nil, &entities.ResolutionError{Kind: "UnknownVariable", PolicyID: policyID, Detail: "VAR " + d.Name + " references unknown variable " + d.VarRef}
		}
		bound[d.Name] = val
	}
	return bound, nil
}

// evaluateRuns evaluates each RUN block in source order against vars,
// mutating vars in place with each RUN's output binding (spec.md §4.2
// step 2). Later RUNs see earlier outputs because they share the same
// map.
func evaluateRuns(policyID string, runs []ports.RunBlock, vars entities.VariableMap) error {
	for _, run := range runs {
		inputs := make([]entities.Value, 0, len(run.Inputs))
		for _, in := range run.Inputs {
			v, err := resolveRunInput(policyID, run.OutputName, in, vars)
			if err != nil {
				return err
			}
			inputs = append(inputs, v)
		}

		result, err := evaluateRun(policyID, run.OutputName, run.Operation, inputs)
		if err != nil {
			return err
		}
		vars[run.OutputName] = result
	}
	return nil
}

func resolveRunInput(policyID, output string, in ports.RunInput, vars entities.VariableMap) (entities.Value, error) {
	if in.Literal != nil {
		return *in.Literal, nil
	}
	v, ok := vars[in.VarRef]
	if !ok {
		return entities.Value{}, &entities.ResolutionError{Kind: "UnknownVariable", PolicyID: policyID, Detail: "RUN " + output + " references unknown variable " + in.VarRef}
	}
	return v, nil
}

func evaluateRun(policyID, output, operation string, inputs []entities.Value) (entities.Value, error) {
	switch operation {
	case "concat":
		return runConcat(policyID, output, inputs)
	case "split":
		return runSplit(policyID, output, inputs)
	case "substring":
		return runSubstring(policyID, output, inputs)
	case "regex_capture":
		return runRegexCapture(policyID, output, inputs)
	case "arithmetic":
		return runArithmetic(policyID, output, inputs)
	case "count":
		return runCount(policyID, output, inputs)
	case "extract":
		return runExtract(policyID, output, inputs)
	default:
		return entities.Value{}, entities.NewRunError(policyID, output, entities.RunErrorKind(operation), "unknown RUN operation", nil)
	}
}

func runConcat(policyID, output string, inputs []entities.Value) (entities.Value, error) {
	var sb strings.Builder
	for _, in := range inputs {
		if in.Kind != entities.KindString {
			return entities.Value{}, entities.NewRunError(policyID, output, entities.RunErrorConcat, "non-string input", &entities.ValidationError{Kind: "TypeMismatch"})
		}
		sb.WriteString(in.Str)
	}
	return entities.StringValue(sb.String()), nil
}

func runSplit(policyID, output string, inputs []entities.Value) (entities.Value, error) {
	if len(inputs) != 2 || inputs[0].Kind != entities.KindString || inputs[1].Kind != entities.KindString {
		return entities.Value{}, entities.NewRunError(policyID, output, entities.RunErrorSplit, "requires (string, separator)", nil)
	}
	parts := strings.Split(inputs[0].Str, inputs[1].Str)
	seq := entities.NewRecordSeq()
	for _, p := range parts {
		seq.Append(entities.StringValue(p))
	}
	return entities.RecordValue(seq), nil
}

func runSubstring(policyID, output string, inputs []entities.Value) (entities.Value, error) {
	if len(inputs) != 3 || inputs[0].Kind != entities.KindString {
		return entities.Value{}, entities.NewRunError(policyID, output, entities.RunErrorSubstring, "requires (string, start, end)", nil)
	}
	s := inputs[0].Str
	start := int(inputs[1].Int)
	end := int(inputs[2].Int)
	if start < 0 || end > len(s) || start > end {
		return entities.Value{}, entities.NewRunError(policyID, output, entities.RunErrorSubstring, "start/end out of range", nil)
	}
	return entities.StringValue(s[start:end]), nil
}

func runRegexCapture(policyID, output string, inputs []entities.Value) (entities.Value, error) {
	if len(inputs) < 2 || inputs[0].Kind != entities.KindString || inputs[1].Kind != entities.KindString {
		return entities.Value{}, entities.NewRunError(policyID, output, entities.RunErrorRegex, "requires (string, pattern, [capture_name])", nil)
	}
	re, err := regexp.Compile(inputs[1].Str)
	if err != nil {
		return entities.Value{}, entities.NewRunError(policyID, output, entities.RunErrorRegex, "invalid pattern", err)
	}
	match := re.FindStringSubmatch(inputs[0].Str)
	if match == nil {
		return entities.StringValue(""), nil
	}
	if len(inputs) == 3 && inputs[2].Kind == entities.KindString {
		for i, name := range re.SubexpNames() {
			if name == inputs[2].Str && i < len(match) {
				return entities.StringValue(match[i]), nil
			}
		}
		return entities.StringValue(""), nil
	}
	return entities.StringValue(match[0]), nil
}

func runArithmetic(policyID, output string, inputs []entities.Value) (entities.Value, error) {
	if len(inputs) < 3 || len(inputs)%2 != 1 {
		return entities.Value{}, entities.NewRunError(policyID, output, entities.RunErrorArithmetic, "requires operand op operand [op operand ...]", nil)
	}

	acc := inputs[0]
	for i := 1; i < len(inputs); i += 2 {
		opVal := inputs[i]
		rhs := inputs[i+1]
		if opVal.Kind != entities.KindString {
			return entities.Value{}, entities.NewRunError(policyID, output, entities.RunErrorArithmetic, "operator must be a string", nil)
		}
		var err error
		acc, err = applyArithmeticOp(acc, opVal.Str, rhs)
		if err != nil {
			return entities.Value{}, entities.NewRunError(policyID, output, entities.RunErrorArithmetic, err.Error(), err)
		}
	}
	return acc, nil
}

func applyArithmeticOp(lhs entities.Value, op string, rhs entities.Value) (entities.Value, error) {
	if lhs.Kind == entities.KindFloat || rhs.Kind == entities.KindFloat {
		l, r := asFloat(lhs), asFloat(rhs)
		switch op {
		case "+":
			return entities.FloatValue(l + r), nil
		case "-":
			return entities.FloatValue(l - r), nil
		case "*":
			return entities.FloatValue(l * r), nil
		case "/":
			if r == 0 {
				return entities.Value{}, fmt.Errorf("division by zero")
			}
			return entities.FloatValue(l / r), nil
		case "%":
			if r == 0 {
				return entities.Value{}, fmt.Errorf("division by zero")
			}
			return entities.FloatValue(float64(int64(l) % int64(r))), nil
		default:
			return entities.Value{}, fmt.Errorf("unknown operator %q", op)
		}
	}

	l, r := lhs.Int, rhs.Int
	switch op {
	case "+":
		return entities.IntValue(l + r), nil
	case "-":
		return entities.IntValue(l - r), nil
	case "*":
		return entities.IntValue(l * r), nil
	case "/":
		if r == 0 {
			return entities.Value{}, fmt.Errorf("division by zero")
		}
		return entities.IntValue(l / r), nil
	case "%":
		if r == 0 {
			return entities.Value{}, fmt.Errorf("division by zero")
		}
		return entities.IntValue(l % r), nil
	default:
		return entities.Value{}, fmt.Errorf("unknown operator %q", op)
	}
}

func asFloat(v entities.Value) float64 {
	if v.Kind == entities.KindFloat {
		return v.Float
	}
	return float64(v.Int)
}

func runCount(policyID, output string, inputs []entities.Value) (entities.Value, error) {
	if len(inputs) != 1 || inputs[0].Kind != entities.KindRecord || inputs[0].Record == nil {
		return entities.Value{}, entities.NewRunError(policyID, output, entities.RunErrorCount, "requires a sequence or record-data array", nil)
	}
	switch inputs[0].Record.Kind {
	case entities.RecordKindSeq:
		return entities.IntValue(int64(len(inputs[0].Record.Items))), nil
	case entities.RecordKindMap:
		return entities.IntValue(int64(len(inputs[0].Record.Fields))), nil
	default:
		return entities.Value{}, entities.NewRunError(policyID, output, entities.RunErrorCount, "unknown record kind", nil)
	}
}

func runExtract(policyID, output string, inputs []entities.Value) (entities.Value, error) {
	if len(inputs) != 2 || inputs[0].Kind != entities.KindRecord || inputs[1].Kind != entities.KindString {
		return entities.Value{}, entities.NewRunError(policyID, output, entities.RunErrorExtract, "requires (record, field_path)", nil)
	}
	// walked here, not by the record-path evaluator: a numeric segment
	// indexes a sequence, any other segment names a map field, and there
	// is no wildcard. A step that finds nothing yields an empty string.
	path := strings.Split(inputs[1].Str, ".")
	current := inputs[0]
	for _, seg := range path {
		if current.Kind != entities.KindRecord || current.Record == nil {
			return entities.StringValue(""), nil
		}
		if idx, err := strconv.Atoi(seg); err == nil && current.Record.Kind == entities.RecordKindSeq {
			if idx < 0 || idx >= len(current.Record.Items) {
				return entities.StringValue(""), nil
			}
			current = current.Record.Items[idx]
			continue
		}
		val, ok := current.Record.Get(seg)
		if !ok {
			return entities.StringValue(""), nil
		}
		current = val
	}
	return current, nil
}
