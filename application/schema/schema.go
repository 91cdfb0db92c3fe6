// Package schema generates and validates JSON Schemas for contracts and
// policy manifests, adapting the SDK's plugin-manifest schema machinery
// (application/plugin's definition.go, application/validation's
// CapabilityValidator) to CTN contract validation.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// GenerateSchema reflects a Go value into a JSON Schema document, used to
// publish a contract's object/state field shape for assessor tooling.
func GenerateSchema(v any) ([]byte, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	doc := reflector.Reflect(v)
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("schema: generate: %w", err)
	}
	return b, nil
}

// Validator compiles and caches named JSON Schemas, validating documents
// against them on demand.
type Validator struct {
	mu       sync.Mutex
	compiler *sjsonschema.Compiler
	compiled map[string]*sjsonschema.Schema
}

// NewValidator returns a Validator with no schemas registered.
func NewValidator() *Validator {
	return &Validator{
		compiler: sjsonschema.NewCompiler(),
		compiled: make(map[string]*sjsonschema.Schema),
	}
}

// Register adds a named schema document, available to Validate under name.
// Re-registering the same name with the same bytes is a no-op.
func (v *Validator) Register(name string, schemaJSON []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.compiler.AddResource(name, strings.NewReader(string(schemaJSON))); err != nil {
		if !strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("schema: register %s: %w", name, err)
		}
	}

	compiled, err := v.compiler.Compile(name)
	if err != nil {
		return fmt.Errorf("schema: compile %s: %w", name, err)
	}
	v.compiled[name] = compiled
	return nil
}

// Validate checks doc (any JSON-marshalable value) against the schema
// registered under name.
func (v *Validator) Validate(name string, doc any) error {
	v.mu.Lock()
	compiled, ok := v.compiled[name]
	v.mu.Unlock()
	if !ok {
		return fmt.Errorf("schema: no schema registered for %q", name)
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("schema: marshal document for %s: %w", name, err)
	}
	var obj any
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("schema: unmarshal document for %s: %w", name, err)
	}

	if err := compiled.Validate(obj); err != nil {
		var ve *sjsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("schema: %s: %s", name, ve.Error())
		}
		return fmt.Errorf("schema: %s: %w", name, err)
	}
	return nil
}
