package anthropic

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/require"

	"github.com/cexll/termagent/pkg/model"
)

func TestNewValidatesArguments(t *testing.T) {
	_, err := New("", "claude-sonnet-4-20250514")
	require.Error(t, err)

	_, err = New("sk-test", "  ")
	require.Error(t, err)

	client, err := New("sk-test", "claude-sonnet-4-20250514")
	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestMapStopReason(t *testing.T) {
	require.Equal(t, model.StopToolUse, mapStopReason(anthropic.StopReason("tool_use")))
	require.Equal(t, model.StopEndTurn, mapStopReason(anthropic.StopReason("end_turn")))
	require.Equal(t, model.StopEndTurn, mapStopReason(anthropic.StopReason("max_tokens")))
}

func TestToMessageParamsKeepsRolesAndSkipsEmpty(t *testing.T) {
	messages := []model.Message{
		model.NewTextMessage(model.RoleUser, "hello"),
		{Role: model.RoleAssistant, Blocks: []model.ContentBlock{
			{Type: model.BlockToolUse, ID: "call_1", Name: "read_file", Input: map[string]any{"path": "a.txt"}},
		}},
		{Role: model.RoleUser, Blocks: []model.ContentBlock{
			{Type: model.BlockToolResult, ToolUseID: "call_1", Content: "contents"},
		}},
		{Role: model.RoleUser},
	}

	params := toMessageParams(messages)
	require.Len(t, params, 3)
	require.Equal(t, anthropic.MessageParamRoleUser, params[0].Role)
	require.Equal(t, anthropic.MessageParamRoleAssistant, params[1].Role)
	require.Equal(t, anthropic.MessageParamRoleUser, params[2].Role)
}

func TestToToolParamsCarriesSchema(t *testing.T) {
	specs := []model.ToolSpec{{
		Name:        "edit_file",
		Description: "Edit a file in place",
		Properties: map[string]any{
			"path": map[string]any{"type": "string"},
		},
		Required: []string{"path"},
	}}

	params := toToolParams(specs)
	require.Len(t, params, 1)
	require.NotNil(t, params[0].OfTool)
	require.Equal(t, "edit_file", params[0].OfTool.Name)
	require.Equal(t, []string{"path"}, params[0].OfTool.InputSchema.Required)
}
