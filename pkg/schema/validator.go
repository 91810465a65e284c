package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator validates data against a schema
type Validator interface {
	// Validate validates data against the schema
	// Returns an error if validation fails
	Validate(data interface{}) error

	// JSONSchema returns the JSON Schema representation of this validator
	// This is used when sending schemas to AI providers
	JSONSchema() map[string]interface{}
}

// Schema represents a validation schema
// Can be implemented as JSON Schema or Go struct-based schema
type Schema interface {
	// Validator returns the validator for this schema
	Validator() Validator
}

// JSONSchemaValidator validates using JSON Schema, compiled lazily on first
// use via github.com/santhosh-tekuri/jsonschema/v6.
type JSONSchemaValidator struct {
	schema map[string]interface{}

	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
}

// NewJSONSchema creates a new JSON Schema validator
func NewJSONSchema(schema map[string]interface{}) *JSONSchemaValidator {
	return &JSONSchemaValidator{schema: schema}
}

func (v *JSONSchemaValidator) compile() (*jsonschema.Schema, error) {
	v.compileOnce.Do(func() {
		if len(v.schema) == 0 {
			return
		}
		// Callers build schema maps with arbitrary Go slice/map types (e.g.
		// []string for "required"); jsonschema/v6 expects the plain JSON
		// types encoding/json decodes into, so normalize via a round-trip.
		normalized, err := toJSONInstance(v.schema)
		if err != nil {
			v.compileErr = fmt.Errorf("normalize schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		resourceURL := fmt.Sprintf("schema-%p.json", v)
		if err := c.AddResource(resourceURL, normalized); err != nil {
			v.compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiled, err := c.Compile(resourceURL)
		if err != nil {
			v.compileErr = fmt.Errorf("compile schema: %w", err)
			return
		}
		v.compiled = compiled
	})
	return v.compiled, v.compileErr
}

// Validate validates data against the JSON Schema. An empty schema accepts
// anything.
func (v *JSONSchemaValidator) Validate(data interface{}) error {
	compiled, err := v.compile()
	if err != nil {
		return err
	}
	if compiled == nil {
		return nil
	}

	// jsonschema/v6 validates decoded JSON values (map[string]any, []any,
	// string, float64, bool, nil), so round-trip typed Go values through
	// encoding/json first.
	instance, err := toJSONInstance(data)
	if err != nil {
		return fmt.Errorf("encode instance for validation: %w", err)
	}
	return compiled.Validate(instance)
}

// JSONSchema returns the JSON Schema
func (v *JSONSchemaValidator) JSONSchema() map[string]interface{} {
	return v.schema
}

func toJSONInstance(data interface{}) (interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var instance interface{}
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// StructValidator validates using Go struct tags (`validate:"..."`) via
// github.com/go-playground/validator/v10, and can generate a JSON Schema
// from the struct's `json`/`validate` tags via reflection.
type StructValidator struct {
	targetType reflect.Type
	validate   *validator.Validate
}

// NewStructSchema creates a new struct-based schema validator
func NewStructSchema(targetType reflect.Type) *StructValidator {
	return &StructValidator{
		targetType: targetType,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate validates data against the struct's `validate` tags. data must be
// a struct or pointer to a struct of (or assignable to) the target type.
func (v *StructValidator) Validate(data interface{}) error {
	if err := v.validate.Struct(data); err != nil {
		if _, ok := err.(*validator.InvalidValidationError); ok {
			// Not a struct (e.g. nil, a scalar) - nothing to validate.
			return nil
		}
		return err
	}
	return nil
}

// JSONSchema generates a JSON Schema from the struct's field types, `json`
// tags (for property naming and omission), and `validate:"required"` tags
// (for the "required" list).
func (v *StructValidator) JSONSchema() map[string]interface{} {
	return structJSONSchema(v.targetType)
}

func structJSONSchema(t reflect.Type) map[string]interface{} {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return map[string]interface{}{"type": jsonSchemaTypeOf(t)}
	}

	properties := map[string]interface{}{}
	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}

		name, omit := jsonFieldName(field)
		if omit {
			continue
		}

		properties[name] = fieldJSONSchema(field.Type)

		if strings.Contains(field.Tag.Get("validate"), "required") {
			required = append(required, name)
		}
	}

	result := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		result["required"] = required
	}
	return result
}

func fieldJSONSchema(t reflect.Type) map[string]interface{} {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		return structJSONSchema(t)
	case reflect.Slice, reflect.Array:
		return map[string]interface{}{
			"type":  "array",
			"items": fieldJSONSchema(t.Elem()),
		}
	default:
		return map[string]interface{}{"type": jsonSchemaTypeOf(t)}
	}
}

func jsonSchemaTypeOf(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "object"
	}
}

func jsonFieldName(field reflect.StructField) (name string, omit bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		return parts[0], false
	}
	return field.Name, false
}

// SimpleJSONSchema is a simple implementation of Schema
type SimpleJSONSchema struct {
	validator *JSONSchemaValidator
}

// NewSimpleJSONSchema creates a simple JSON Schema
func NewSimpleJSONSchema(schema map[string]interface{}) *SimpleJSONSchema {
	return &SimpleJSONSchema{
		validator: NewJSONSchema(schema),
	}
}

// Validator returns the validator
func (s *SimpleJSONSchema) Validator() Validator {
	return s.validator
}

// SimpleStructSchema is a simple implementation of Schema using structs
type SimpleStructSchema struct {
	validator *StructValidator
}

// NewSimpleStructSchema creates a simple struct schema
func NewSimpleStructSchema(targetType reflect.Type) *SimpleStructSchema {
	return &SimpleStructSchema{
		validator: NewStructSchema(targetType),
	}
}

// Validator returns the validator
func (s *SimpleStructSchema) Validator() Validator {
	return s.validator
}
