// Package tool defines the tool contract, the registry that holds the
// catalog, and the supervisor that executes backend-requested invocations.
package tool

import (
	"context"

	"github.com/cexll/termagent/pkg/model"
)

// Definition describes a single capability exposed to the backend. The
// zero-value fields NeedsApproval and Prompt are optional; tools that never
// touch the operator leave them nil.
type Definition struct {
	Name        string
	Description string
	Schema      *JSONSchema

	// NeedsApproval reports whether this invocation must be confirmed by
	// the operator before Execute runs.
	NeedsApproval func(input map[string]any) bool

	// Prompt renders the question shown to the operator when approval is
	// required.
	Prompt func(input map[string]any) string

	Execute func(ctx context.Context, input map[string]any) (string, error)
}

// Spec converts the definition into the shape advertised to the backend.
func (d *Definition) Spec() model.ToolSpec {
	spec := model.ToolSpec{
		Name:        d.Name,
		Description: d.Description,
	}
	if d.Schema != nil {
		spec.Properties = d.Schema.Properties
		spec.Required = d.Schema.Required
	}
	return spec
}

// Request is one tool invocation demanded by the backend.
type Request struct {
	ID    string
	Name  string
	Input map[string]any
}

// Result is the outcome of one Request. Content is never truncated here;
// display capping happens at the console boundary.
type Result struct {
	ID      string
	Content string
	IsError bool
}
