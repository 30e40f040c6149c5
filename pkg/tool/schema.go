package tool

import (
	"encoding/json"
	"fmt"
	"math"
)

// JSONSchema captures the subset of JSON Schema we require for tool input
// validation and for advertising the catalog to the backend.
type JSONSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Required   []string       `json:"required"`
}

// Check reports whether input satisfies the schema: every required field is
// present, and fields whose property declares a type or an enum match it.
// Unknown fields pass through untouched; tools decide what to do with them.
func (s *JSONSchema) Check(input map[string]any) error {
	if s == nil {
		return nil
	}

	for _, field := range s.Required {
		if _, ok := input[field]; !ok {
			return fmt.Errorf("missing required field: %s", field)
		}
	}

	for name, value := range input {
		prop, ok := s.Properties[name].(map[string]any)
		if !ok {
			continue
		}
		if err := checkProperty(prop, value); err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
	}
	return nil
}

func checkProperty(prop map[string]any, value any) error {
	if kind, ok := prop["type"].(string); ok {
		if err := checkKind(kind, value); err != nil {
			return err
		}
	}
	if choices, ok := prop["enum"].([]any); ok {
		if err := checkEnum(choices, value); err != nil {
			return err
		}
	}
	return nil
}

func checkKind(kind string, value any) error {
	var ok bool
	switch kind {
	case "string":
		_, ok = value.(string)
	case "boolean":
		_, ok = value.(bool)
	case "number":
		_, ok = numeric(value)
	case "integer":
		f, isNum := numeric(value)
		ok = isNum && math.Trunc(f) == f
	case "object":
		_, ok = value.(map[string]any)
	case "array":
		_, ok = value.([]any)
	case "null":
		ok = value == nil
	default:
		return fmt.Errorf("unsupported schema type %q", kind)
	}
	if !ok {
		return fmt.Errorf("expected %s but got %T", kind, value)
	}
	return nil
}

func checkEnum(choices []any, value any) error {
	for _, choice := range choices {
		if choice == value {
			return nil
		}
	}
	return fmt.Errorf("value %v is not one of %v", value, choices)
}

// numeric normalizes the value shapes a decoded JSON input can carry.
func numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}
