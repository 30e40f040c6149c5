package model

import "context"

// Stop reasons reported by a Backend alongside its response content.
const (
	// StopToolUse means the response contains tool_use blocks whose results
	// the backend expects before it can continue the turn.
	StopToolUse = "tool_use"

	// StopEndTurn means the response is a final answer.
	StopEndTurn = "end_turn"
)

// ToolSpec is the catalog entry shape advertised to the backend: a name, a
// human description and a JSON-schema-like input declaration.
type ToolSpec struct {
	Name        string
	Description string
	Properties  map[string]any
	Required    []string
}

// Response is one backend completion: ordered content blocks plus the stop
// reason distinguishing "more tool use requested" from a final answer.
type Response struct {
	Blocks     []ContentBlock
	StopReason string
}

// WantsTools reports whether the backend requested tool execution.
func (r *Response) WantsTools() bool {
	return r != nil && r.StopReason == StopToolUse
}

// Backend is the opaque language-model capability consumed by the
// orchestrator: given the bounded message history, a system prompt and the
// tool catalog, it returns either text or tool-invocation requests. Wire
// format and transport are implementation details.
type Backend interface {
	Complete(ctx context.Context, messages []Message, system string, catalog []ToolSpec) (*Response, error)
}
