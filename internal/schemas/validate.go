// Package schemas provides JSON Schema validation for structured payloads
// recovered from model output.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// optimizedListingSchema is the shape contract for the optimized-listing
// payload. It is embedded rather than loaded from disk so validation works
// regardless of the working directory.
const optimizedListingSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "OptimizedListing",
  "type": "object",
  "required": ["title", "bullets", "description", "keywords"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "bullets": {
      "type": "array",
      "items": {"type": "string"},
      "minItems": 1
    },
    "description": {"type": "string"},
    "keywords": {
      "type": "array",
      "items": {"type": "string"},
      "minItems": 1
    }
  }
}`

// ValidationError represents a schema validation failure with field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for _, fe := range ve.Errors {
		sb.WriteString(fmt.Sprintf("\n  %s: %s", fe.Field, fe.Message))
	}
	return sb.String()
}

// ValidateOptimized checks a JSON payload against the optimized-listing
// schema. It returns nil when the payload conforms, a *ValidationError
// listing each violated field otherwise.
func ValidateOptimized(payload []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(optimizedListingSchema)
	documentLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &ValidationError{Errors: []FieldError{{
			Field:   "(document)",
			Message: err.Error(),
		}}}
	}

	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}
