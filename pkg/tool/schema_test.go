package tool

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemaCheckTypes(t *testing.T) {
	schema := &JSONSchema{
		Type: "object",
		Properties: map[string]any{
			"name":    map[string]any{"type": "string"},
			"count":   map[string]any{"type": "integer"},
			"ratio":   map[string]any{"type": "number"},
			"dry_run": map[string]any{"type": "boolean"},
			"tags":    map[string]any{"type": "array"},
			"extra":   map[string]any{"type": "object"},
		},
	}

	require.NoError(t, schema.Check(map[string]any{
		"name":    "a",
		"count":   3,
		"ratio":   1.5,
		"dry_run": true,
		"tags":    []any{"x"},
		"extra":   map[string]any{},
	}))

	// Decoded JSON carries numbers as float64 or json.Number.
	require.NoError(t, schema.Check(map[string]any{"count": float64(7)}))
	require.NoError(t, schema.Check(map[string]any{"count": json.Number("7")}))
	require.Error(t, schema.Check(map[string]any{"count": 1.5}))
	require.Error(t, schema.Check(map[string]any{"name": 42}))
	require.Error(t, schema.Check(map[string]any{"dry_run": "yes"}))

	// Fields without a property definition pass through.
	require.NoError(t, schema.Check(map[string]any{"unknown": struct{}{}}))
}

func TestSchemaCheckEnum(t *testing.T) {
	schema := &JSONSchema{
		Type: "object",
		Properties: map[string]any{
			"operation": map[string]any{
				"type": "string",
				"enum": []any{"add_days", "weekday"},
			},
		},
		Required: []string{"operation"},
	}

	require.NoError(t, schema.Check(map[string]any{"operation": "weekday"}))

	err := schema.Check(map[string]any{"operation": "subtract"})
	require.ErrorContains(t, err, "not one of")

	err = schema.Check(map[string]any{})
	require.ErrorContains(t, err, "missing required field: operation")
}

func TestSchemaCheckNilAndUnsupported(t *testing.T) {
	var schema *JSONSchema
	require.NoError(t, schema.Check(map[string]any{"anything": 1}))

	bad := &JSONSchema{
		Type:       "object",
		Properties: map[string]any{"field": map[string]any{"type": "tuple"}},
	}
	require.ErrorContains(t, bad.Check(map[string]any{"field": 1}), "unsupported schema type")
}
