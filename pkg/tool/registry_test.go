package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func noopExecute(ctx context.Context, input map[string]any) (string, error) {
	return "", nil
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()

	require.Error(t, reg.Register(nil))
	require.Error(t, reg.Register(&Definition{Name: "", Execute: noopExecute}))
	require.Error(t, reg.Register(&Definition{Name: "no_exec"}))

	require.NoError(t, reg.Register(&Definition{Name: "read_file", Execute: noopExecute}))
	require.Error(t, reg.Register(&Definition{Name: "read_file", Execute: noopExecute}))
}

func TestRegistryListSortedByName(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"write_file", "bash", "read_file"} {
		require.NoError(t, reg.Register(&Definition{Name: name, Execute: noopExecute}))
	}

	defs := reg.List()
	require.Len(t, defs, 3)
	require.Equal(t, "bash", defs[0].Name)
	require.Equal(t, "read_file", defs[1].Name)
	require.Equal(t, "write_file", defs[2].Name)
}

func TestRegistryValidate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&Definition{
		Name:    "read_file",
		Execute: noopExecute,
		Schema: &JSONSchema{
			Type: "object",
			Properties: map[string]any{
				"path": map[string]any{"type": "string"},
			},
			Required: []string{"path"},
		},
	}))

	require.NoError(t, reg.Validate("read_file", map[string]any{"path": "a.txt"}))

	err := reg.Validate("read_file", map[string]any{})
	require.ErrorContains(t, err, "missing required field: path")

	err = reg.Validate("read_file", map[string]any{"path": 42})
	require.ErrorContains(t, err, "field path")

	err = reg.Validate("unknown", nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistrySpecs(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&Definition{
		Name:        "current_time",
		Description: "Report the current time",
		Execute:     noopExecute,
		Schema: &JSONSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}))

	specs := reg.Specs()
	require.Len(t, specs, 1)
	require.Equal(t, "current_time", specs[0].Name)
	require.Equal(t, "Report the current time", specs[0].Description)
}
