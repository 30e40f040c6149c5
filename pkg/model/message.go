package model

// Message roles. The backend only ever sees user and assistant turns; tool
// results travel inside a user message as tool_result blocks.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Block types carried by a Message.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// ContentBlock is the tagged union making up message content: a text block,
// a tool-invocation (tool_use) block, or a tool-result block. The JSON shape
// follows the Anthropic Messages wire format so transcripts stay readable
// with standard tooling.
type ContentBlock struct {
	Type string `json:"type"`

	// Text is set for text blocks.
	Text string `json:"text,omitempty"`

	// ID, Name and Input are set for tool_use blocks.
	ID    string         `json:"id,omitempty"`
	Name  string         `json:"name,omitempty"`
	Input map[string]any `json:"input,omitempty"`

	// ToolUseID, Content and IsError are set for tool_result blocks.
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
}

// Message is a single conversational turn.
//
// Invariant: a message containing tool_use blocks must be immediately
// followed by a user message whose blocks are the matching tool_result
// blocks. History truncation and persistence preserve this pairing.
type Message struct {
	Role   string         `json:"role"`
	Blocks []ContentBlock `json:"content"`
}

// NewTextMessage builds a plain text message for the given role.
func NewTextMessage(role, text string) Message {
	return Message{Role: role, Blocks: []ContentBlock{{Type: BlockText, Text: text}}}
}

// Text concatenates the text blocks of the message.
func (m Message) Text() string {
	var out string
	for _, b := range m.Blocks {
		if b.Type == BlockText {
			out += b.Text
		}
	}
	return out
}

// ToolUses returns the tool_use blocks of the message in order.
func (m Message) ToolUses() []ContentBlock {
	var uses []ContentBlock
	for _, b := range m.Blocks {
		if b.Type == BlockToolUse {
			uses = append(uses, b)
		}
	}
	return uses
}

// IsPlainUserText reports whether the message is a user turn carrying only
// text blocks. Such messages are the only safe truncation boundaries.
func (m Message) IsPlainUserText() bool {
	if m.Role != RoleUser || len(m.Blocks) == 0 {
		return false
	}
	for _, b := range m.Blocks {
		if b.Type != BlockText {
			return false
		}
	}
	return true
}
