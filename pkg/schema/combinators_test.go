package schema

import "testing"

func TestString_Builder(t *testing.T) {
	t.Parallel()

	s := String().Schema()
	if s["type"] != "string" {
		t.Errorf("expected type 'string', got %v", s["type"])
	}
}

func TestEnum_Builder(t *testing.T) {
	t.Parallel()

	s := Enum("a", "b", "c").Schema()
	values, ok := s["enum"].([]interface{})
	if !ok || len(values) != 3 {
		t.Fatalf("expected 3-element enum, got %v", s["enum"])
	}
}

func TestArray_Builder(t *testing.T) {
	t.Parallel()

	s := Array(Number()).Schema()
	if s["type"] != "array" {
		t.Errorf("expected type 'array', got %v", s["type"])
	}
	items, ok := s["items"].(map[string]interface{})
	if !ok || items["type"] != "number" {
		t.Errorf("expected items type 'number', got %v", s["items"])
	}
}

func TestObject_Builder(t *testing.T) {
	t.Parallel()

	s := Object(
		Prop("name", String(), true),
		Prop("age", Integer(), false),
	).Schema()

	if s["type"] != "object" {
		t.Errorf("expected type 'object', got %v", s["type"])
	}
	props, ok := s["properties"].(map[string]interface{})
	if !ok {
		t.Fatal("expected properties map")
	}
	if _, ok := props["name"]; !ok {
		t.Error("expected 'name' property")
	}
	required, ok := s["required"].([]interface{})
	if !ok || len(required) != 1 || required[0] != "name" {
		t.Errorf("expected required=['name'], got %v", s["required"])
	}
}

func TestObject_Builder_ValidatesThroughJSONSchemaValidator(t *testing.T) {
	t.Parallel()

	v := Object(
		Prop("name", String(), true),
	).Build().Validator()

	if err := v.Validate(map[string]interface{}{"name": "ok"}); err != nil {
		t.Errorf("unexpected error for valid payload: %v", err)
	}
	if err := v.Validate(map[string]interface{}{}); err == nil {
		t.Error("expected error for missing required property")
	}
}

func TestDescription(t *testing.T) {
	t.Parallel()

	s := String().Description("a name").Schema()
	if s["description"] != "a name" {
		t.Errorf("expected description 'a name', got %v", s["description"])
	}
}
