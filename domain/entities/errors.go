package entities

import "fmt"

// Error kinds named in spec.md §7, implemented as distinct Go types that
// carry source-location context (policy id, CTN type, object id, field)
// where known. Each wraps an underlying cause where one exists so
// errors.As/errors.Is keep working across layers, mirroring the teacher's
// structured-error convention (see the adapted NetworkError/TimeoutError
// taxonomy this file replaces).

// RegistryError covers contract/registry failures, which are fatal for the
// whole scan (configuration bugs, not data problems).
type RegistryError struct {
	Kind    string // "UnknownCtn" | "DuplicateRegistration" | "MismatchedCtnType" | "IncompatibleCollector" | "ContractValidationFailed" | "CapabilityNotGranted"
	CtnType string
	Reason  string
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry: %s for ctn type %q: %s", e.Kind, e.CtnType, e.Reason)
}

// ResolutionError covers failures in the resolution engine. These are fatal
// for the policy being resolved but not for the batch.
type ResolutionError struct {
	Kind     string // "CyclicVariable" | "UnknownVariable" | "UnknownObject" | "UnknownSet" | "EmptySet" | "RunError"
	PolicyID string
	Detail   string
	Cause    error
}

func (e *ResolutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resolution: %s (policy %s): %s: %v", e.Kind, e.PolicyID, e.Detail, e.Cause)
	}
	return fmt.Sprintf("resolution: %s (policy %s): %s", e.Kind, e.PolicyID, e.Detail)
}

func (e *ResolutionError) Unwrap() error { return e.Cause }

// RunErrorKind enumerates the RUN operation failure sub-kinds (spec.md §7:
// RunError{concat|split|substring|regex|arithmetic|count|extract}).
type RunErrorKind string

const (
	RunErrorConcat     RunErrorKind = "concat"
	RunErrorSplit      RunErrorKind = "split"
	RunErrorSubstring  RunErrorKind = "substring"
	RunErrorRegex      RunErrorKind = "regex"
	RunErrorArithmetic RunErrorKind = "arithmetic"
	RunErrorCount      RunErrorKind = "count"
	RunErrorExtract    RunErrorKind = "extract"
)

// NewRunError builds a ResolutionError for a failing RUN operation.
func NewRunError(policyID, output string, sub RunErrorKind, detail string, cause error) *ResolutionError {
	return &ResolutionError{
		Kind:     "RunError",
		PolicyID: policyID,
		Detail:   fmt.Sprintf("RUN %s -> %s: %s", sub, output, detail),
		Cause:    cause,
	}
}

// CollectionObjectError covers per-object collection outcomes. ObjectNotFound and
// the rest downgrade to absent/error status at the criterion level rather
// than aborting the scan; InvalidObjectConfiguration and UnsupportedCtnType
// abort only the criterion that triggered them.
type CollectionObjectError struct {
	Kind     string // "ObjectNotFound" | "AccessDenied" | "CollectionFailed" | "InvalidObjectConfiguration" | "UnsupportedCtnType" | "CommandNotAllowed" | "Timeout"
	ObjectID string
	CtnType  string
	Reason   string
	Cause    error
}

func (e *CollectionObjectError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("collection: %s object=%s ctn=%s: %s: %v", e.Kind, e.ObjectID, e.CtnType, e.Reason, e.Cause)
	}
	return fmt.Sprintf("collection: %s object=%s ctn=%s: %s", e.Kind, e.ObjectID, e.CtnType, e.Reason)
}

func (e *CollectionObjectError) Unwrap() error { return e.Cause }

// IsAbsent reports whether this error should be treated as "object absent"
// rather than a hard per-object error (spec.md §4.3 Phase A).
func (e *CollectionObjectError) IsAbsent() bool { return e.Kind == "ObjectNotFound" }

// AbortsCriterion reports whether this error aborts the whole criterion
// rather than just marking one object as errored.
func (e *CollectionObjectError) AbortsCriterion() bool {
	return e.Kind == "InvalidObjectConfiguration" || e.Kind == "UnsupportedCtnType"
}

// ValidationError covers predicate-evaluation failures. These set the
// offending predicate to false with diagnostic text; they never poison
// sibling predicates.
type ValidationError struct {
	Kind   string // "TypeMismatch" | "UnsupportedOperation" | "InvalidPattern" | "MissingDataField"
	Field  string
	Detail string
	Cause  error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation: %s field=%s: %s: %v", e.Kind, e.Field, e.Detail, e.Cause)
	}
	return fmt.Sprintf("validation: %s field=%s: %s", e.Kind, e.Field, e.Detail)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// EnvelopeError covers evidence assembly failures.
type EnvelopeError struct {
	Kind   string // "SerializationFailed" | "HashingFailed"
	Detail string
	Cause  error
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("envelope: %s: %s: %v", e.Kind, e.Detail, e.Cause)
}

func (e *EnvelopeError) Unwrap() error { return e.Cause }

// SandboxError covers sandboxed command executor rejections (spec.md §4.6).
type SandboxError struct {
	Kind    string // "CommandNotAllowed" | "Timeout" | "SpawnFailed"
	Command string
	Detail  string
	Cause   error
}

func (e *SandboxError) Error() string {
	return fmt.Sprintf("sandbox: %s command=%s: %s", e.Kind, e.Command, e.Detail)
}

func (e *SandboxError) Unwrap() error { return e.Cause }

func (e *SandboxError) Timeout() bool { return e.Kind == "Timeout" }
