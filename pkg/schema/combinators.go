package schema

// Builder builds a JSON Schema fragment without requiring a Go struct type,
// for tool parameter schemas assembled ad hoc at call time.
type Builder struct {
	doc map[string]interface{}
}

// Build returns the assembled schema, as a *SimpleJSONSchema ready to hand
// to NewJSONSchema/Validator callers.
func (b Builder) Build() *SimpleJSONSchema {
	return NewSimpleJSONSchema(b.doc)
}

// Schema returns the raw map form, for embedding inside a larger Object()/
// Array() call.
func (b Builder) Schema() map[string]interface{} {
	return b.doc
}

// Description sets the schema's "description" field.
func (b Builder) Description(desc string) Builder {
	b.doc["description"] = desc
	return b
}

// String builds a {"type": "string"} schema fragment.
func String() Builder {
	return Builder{doc: map[string]interface{}{"type": "string"}}
}

// Number builds a {"type": "number"} schema fragment.
func Number() Builder {
	return Builder{doc: map[string]interface{}{"type": "number"}}
}

// Integer builds a {"type": "integer"} schema fragment.
func Integer() Builder {
	return Builder{doc: map[string]interface{}{"type": "integer"}}
}

// Boolean builds a {"type": "boolean"} schema fragment.
func Boolean() Builder {
	return Builder{doc: map[string]interface{}{"type": "boolean"}}
}

// Enum builds a {"enum": [...]} string schema fragment restricted to the
// given values.
func Enum(values ...string) Builder {
	anyValues := make([]interface{}, len(values))
	for i, v := range values {
		anyValues[i] = v
	}
	return Builder{doc: map[string]interface{}{"type": "string", "enum": anyValues}}
}

// Array builds a {"type": "array", "items": ...} schema fragment wrapping
// items.
func Array(items Builder) Builder {
	return Builder{doc: map[string]interface{}{
		"type":  "array",
		"items": items.Schema(),
	}}
}

// PropertySpec names one property of an Object() schema and whether it is
// required.
type PropertySpec struct {
	Name     string
	Schema   Builder
	Required bool
}

// Prop is a convenience constructor for PropertySpec.
func Prop(name string, schema Builder, required bool) PropertySpec {
	return PropertySpec{Name: name, Schema: schema, Required: required}
}

// Object builds a {"type": "object", "properties": {...}, "required": [...]}
// schema fragment from the given property specs.
func Object(props ...PropertySpec) Builder {
	properties := make(map[string]interface{}, len(props))
	var required []string
	for _, p := range props {
		properties[p.Name] = p.Schema.Schema()
		if p.Required {
			required = append(required, p.Name)
		}
	}
	doc := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		anyRequired := make([]interface{}, len(required))
		for i, r := range required {
			anyRequired[i] = r
		}
		doc["required"] = anyRequired
	}
	return Builder{doc: doc}
}
