package validation

import (
	"fmt"
	"sort"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Messages flattens the result into "field: message" strings.
func (r *ValidationResult) Messages() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Field+": "+e.Message)
	}
	return out
}

// Validator holds compiled input schemas keyed by task type.
type Validator struct {
	mu      sync.RWMutex
	schemas map[string]*gojsonschema.Schema
}

func NewValidator() *Validator {
	return &Validator{schemas: make(map[string]*gojsonschema.Schema)}
}

// NewValidatorFromSchemas compiles every schema up front so a bad registry fails at startup.
func NewValidatorFromSchemas(schemas map[string]map[string]interface{}) (*Validator, error) {
	v := NewValidator()
	taskTypes := make([]string, 0, len(schemas))
	for t := range schemas {
		taskTypes = append(taskTypes, t)
	}
	sort.Strings(taskTypes)

	for _, t := range taskTypes {
		if err := v.Register(t, schemas[t]); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (v *Validator) Register(taskType string, schema map[string]interface{}) error {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return fmt.Errorf("compile input schema for %s: %w", taskType, err)
	}
	v.mu.Lock()
	v.schemas[taskType] = compiled
	v.mu.Unlock()
	return nil
}

func (v *Validator) Has(taskType string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.schemas[taskType]
	return ok
}

// Validate checks input against the schema registered for taskType.
// Task types without a schema always pass.
func (v *Validator) Validate(taskType string, input interface{}) (*ValidationResult, error) {
	v.mu.RLock()
	schema, ok := v.schemas[taskType]
	v.mu.RUnlock()
	if !ok {
		return &ValidationResult{Valid: true}, nil
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(input))
	if err != nil {
		return nil, fmt.Errorf("validate %s input: %w", taskType, err)
	}
	return toResult(result), nil
}

// ValidateInput validates a single document against an uncompiled schema.
func ValidateInput(input interface{}, schema map[string]interface{}) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(input))
	if err != nil {
		return nil, err
	}
	return toResult(result), nil
}

func toResult(result *gojsonschema.Result) *ValidationResult {
	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    e.Type(),
		})
	}
	return out
}
