// Package comparison implements the value-kind-specific comparison
// primitives of spec.md §4.5: string, numeric, boolean, semantic-version,
// EVR, and binary operators.
package comparison

import (
	"regexp"
	"strings"
	"sync"

	hashiversion "github.com/hashicorp/go-version"
	rpmversion "github.com/knqyf263/go-rpm-version"

	"github.com/escanio/escan-core/domain/entities"
)

// patternCache avoids recompiling the same regex across many objects in
// one criterion. Compilation errors are cached too, as a non-nil error.
// Safe for concurrent use: application/batch runs many policies'
// executors against this package's Compare concurrently (spec.md §5), so
// the cache is guarded by a mutex rather than left as bare maps.
type patternCache struct {
	mu       sync.Mutex
	compiled map[string]*regexp.Regexp
	errs     map[string]error
}

func newPatternCache() *patternCache {
	return &patternCache{compiled: make(map[string]*regexp.Regexp), errs: make(map[string]error)}
}

func (c *patternCache) compile(pattern string) (*regexp.Regexp, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if re, ok := c.compiled[pattern]; ok {
		return re, nil
	}
	if err, ok := c.errs[pattern]; ok {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		c.errs[pattern] = err
		return nil, err
	}
	c.compiled[pattern] = re
	return re, nil
}

var defaultPatterns = newPatternCache()

// Compare evaluates op against actual and expected. It returns the
// boolean result and, for a result of false caused by an unsupported
// operation or an invalid pattern, a diagnostic error — callers record
// that error's message on the FieldResult but still treat the predicate
// as "does not pass" rather than aborting.
func Compare(actual, expected entities.Value, op entities.Operation) (bool, error) {
	if actual.Kind != expected.Kind {
		return false, &entities.ValidationError{
			Kind:   "TypeMismatch",
			Field:  "",
			Detail: "actual kind " + actual.Kind.String() + " does not match expected kind " + expected.Kind.String(),
		}
	}

	switch actual.Kind {
	case entities.KindString:
		return compareString(actual.Str, expected.Str, op)
	case entities.KindInt:
		return compareOrdered(float64(actual.Int), float64(expected.Int), op)
	case entities.KindFloat:
		return compareOrdered(actual.Float, expected.Float, op)
	case entities.KindBool:
		return compareBool(actual.Bool, expected.Bool, op)
	case entities.KindVersion:
		return compareVersion(actual.Version, expected.Version, op)
	case entities.KindEVR:
		return compareEVR(actual.EVR, expected.EVR, op)
	case entities.KindBinary:
		return compareBinary(actual.Binary, expected.Binary, op)
	default:
		return false, &entities.ValidationError{
			Kind:   "UnsupportedOperation",
			Detail: "value kind " + actual.Kind.String() + " has no comparison primitives",
		}
	}
}

func unsupported(op entities.Operation, kind string) error {
	return &entities.ValidationError{
		Kind:   "UnsupportedOperation",
		Detail: "operation " + string(op) + " is not valid for kind " + kind,
	}
}

func compareString(actual, expected string, op entities.Operation) (bool, error) {
	switch op {
	case entities.OpEquals:
		return actual == expected, nil
	case entities.OpNotEqual:
		return actual != expected, nil
	case entities.OpContains:
		return strings.Contains(actual, expected), nil
	case entities.OpNotContains:
		return !strings.Contains(actual, expected), nil
	case entities.OpStartsWith:
		return strings.HasPrefix(actual, expected), nil
	case entities.OpEndsWith:
		return strings.HasSuffix(actual, expected), nil
	case entities.OpNotStartsWith:
		return !strings.HasPrefix(actual, expected), nil
	case entities.OpNotEndsWith:
		return !strings.HasSuffix(actual, expected), nil
	case entities.OpIEquals:
		return strings.EqualFold(actual, expected), nil
	case entities.OpINotEqual:
		return !strings.EqualFold(actual, expected), nil
	case entities.OpPatternMatch, entities.OpMatches:
		re, err := defaultPatterns.compile(expected)
		if err != nil {
			return false, &entities.ValidationError{Kind: "InvalidPattern", Detail: err.Error(), Cause: err}
		}
		// search semantics, per spec.md §4.5, not full-match.
		return re.MatchString(actual), nil
	default:
		return false, unsupported(op, "string")
	}
}

func compareOrdered(actual, expected float64, op entities.Operation) (bool, error) {
	switch op {
	case entities.OpEquals:
		return actual == expected, nil
	case entities.OpNotEqual:
		return actual != expected, nil
	case entities.OpGreaterThan:
		return actual > expected, nil
	case entities.OpLessThan:
		return actual < expected, nil
	case entities.OpGreaterEqual:
		return actual >= expected, nil
	case entities.OpLessEqual:
		return actual <= expected, nil
	default:
		return false, unsupported(op, "numeric")
	}
}

func compareBool(actual, expected bool, op entities.Operation) (bool, error) {
	switch op {
	case entities.OpEquals:
		return actual == expected, nil
	case entities.OpNotEqual:
		return actual != expected, nil
	default:
		return false, unsupported(op, "boolean")
	}
}

// compareVersion orders two version strings using semantic-version rules
// (spec.md §4.5: "2.10.0 > 2.9.0"), grounded on hashicorp/go-version.
func compareVersion(actual, expected string, op entities.Operation) (bool, error) {
	av, err := hashiversion.NewVersion(actual)
	if err != nil {
		return false, &entities.ValidationError{Kind: "TypeMismatch", Detail: "actual is not a valid version: " + err.Error(), Cause: err}
	}
	ev, err := hashiversion.NewVersion(expected)
	if err != nil {
		return false, &entities.ValidationError{Kind: "TypeMismatch", Detail: "expected is not a valid version: " + err.Error(), Cause: err}
	}
	cmp := av.Compare(ev)
	return orderedFromCompare(cmp, op)
}

// compareEVR orders two epoch:version-release strings using RPM-style
// rules (epoch dominates, segment-wise version/release comparison),
// grounded on github.com/knqyf263/go-rpm-version.
func compareEVR(actual, expected string, op entities.Operation) (bool, error) {
	av := rpmversion.NewVersion(actual)
	ev := rpmversion.NewVersion(expected)
	cmp := av.Compare(ev)
	return orderedFromCompare(cmp, op)
}

func orderedFromCompare(cmp int, op entities.Operation) (bool, error) {
	switch op {
	case entities.OpEquals:
		return cmp == 0, nil
	case entities.OpNotEqual:
		return cmp != 0, nil
	case entities.OpGreaterThan:
		return cmp > 0, nil
	case entities.OpLessThan:
		return cmp < 0, nil
	case entities.OpGreaterEqual:
		return cmp >= 0, nil
	case entities.OpLessEqual:
		return cmp <= 0, nil
	default:
		return false, unsupported(op, "version")
	}
}

func compareBinary(actual, expected []byte, op entities.Operation) (bool, error) {
	switch op {
	case entities.OpEquals:
		return string(actual) == string(expected), nil
	case entities.OpNotEqual:
		return string(actual) != string(expected), nil
	default:
		return false, unsupported(op, "binary")
	}
}
