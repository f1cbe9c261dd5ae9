package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// QueryParamsSchema bounds the filter inputs accepted by the HTTP API and
// the job workers. Both filters are optional.
const QueryParamsSchema = `{
  "type": "object",
  "properties": {
    "providerName": {"type": "string", "maxLength": 200},
    "state":        {"type": "string", "maxLength": 100},
    "field":        {"type": "string", "pattern": "^[A-Za-z0-9 _-]{1,64}$"},
    "n":            {"type": "integer", "minimum": 1, "maximum": 1000}
  },
  "additionalProperties": false
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Schema is a compiled JSON schema, safe for concurrent use.
type Schema struct {
	schema *gojsonschema.Schema
}

// Compile parses and compiles a JSON schema document.
func Compile(schemaJSON []byte) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// MustCompile is Compile for schemas embedded in the binary.
func MustCompile(schemaJSON string) *Schema {
	s, err := Compile([]byte(schemaJSON))
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks a Go value (struct, map or slice) against the schema.
func (s *Schema) Validate(doc interface{}) *ValidationResult {
	return collect(s.schema.Validate(gojsonschema.NewGoLoader(doc)))
}

// ValidateBytes checks a raw JSON document against the schema.
func (s *Schema) ValidateBytes(doc []byte) *ValidationResult {
	return collect(s.schema.Validate(gojsonschema.NewBytesLoader(doc)))
}

func collect(result *gojsonschema.Result, err error) *ValidationResult {
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "INVALID_DOCUMENT",
			}},
		}
	}

	errors := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if prop, ok := desc.Details()["property"].(string); ok && field == "(root)" {
			field = prop
		}
		errors = append(errors, ValidationError{
			Field:   field,
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}

	return &ValidationResult{
		Valid:  result.Valid(),
		Errors: errors,
	}
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a specific field
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") || strings.HasPrefix(err.Field, field+"[") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}
