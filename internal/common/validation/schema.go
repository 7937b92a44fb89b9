package validation

import (
	"github.com/xeipuuv/gojsonschema"
)

// ValidationResult carries the outcome of validating a request body against
// a task input schema.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateDocument validates an already-decoded JSON document against a JSON
// schema expressed as a Go map. Schema evaluation errors surface as a single
// schema-level validation error rather than a panic or a false pass.
func ValidateDocument(document interface{}, schema map[string]interface{}) *ValidationResult {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(schema)",
				Message: err.Error(),
				Code:    "SCHEMA_ERROR",
			}},
		}
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "(root)" && desc.Details() != nil {
			if property, ok := desc.Details()["property"].(string); ok {
				field = property
			}
		}
		errs = append(errs, ValidationError{
			Field:   field,
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}

	return &ValidationResult{Valid: false, Errors: errs}
}

// FieldErrors flattens a failed result into the field-to-messages mapping the
// HTTP 400 payload carries.
func (r *ValidationResult) FieldErrors() map[string][]string {
	if r.Valid {
		return nil
	}
	out := make(map[string][]string, len(r.Errors))
	for _, e := range r.Errors {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}
