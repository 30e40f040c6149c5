// Package anthropic implements the model.Backend capability on top of the
// official Anthropic SDK.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/cexll/termagent/pkg/model"
)

const defaultMaxTokens = 4096

// Ensure Client satisfies the Backend interface at compile time.
var _ model.Backend = (*Client)(nil)

// Client is a model.Backend backed by the Anthropic Messages API.
type Client struct {
	api       anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// New constructs a Client for the given credentials and model name.
func New(apiKey, modelName string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("anthropic: api key is required")
	}
	if strings.TrimSpace(modelName) == "" {
		return nil, errors.New("anthropic: model name is required")
	}
	return &Client{
		api:       anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     anthropic.Model(modelName),
		maxTokens: defaultMaxTokens,
	}, nil
}

// Complete performs one blocking Messages API call and converts the result
// back into the domain model.
func (c *Client) Complete(ctx context.Context, messages []model.Message, system string, catalog []model.ToolSpec) (*model.Response, error) {
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  toMessageParams(messages),
		Tools:     toToolParams(catalog),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: complete: %w", err)
	}
	return convertMessage(msg), nil
}

func toMessageParams(messages []model.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Blocks))
		for _, b := range msg.Blocks {
			switch b.Type {
			case model.BlockText:
				blocks = append(blocks, anthropic.NewTextBlock(b.Text))
			case model.BlockToolUse:
				blocks = append(blocks, anthropic.NewToolUseBlock(b.ID, b.Input, b.Name))
			case model.BlockToolResult:
				blocks = append(blocks, anthropic.NewToolResultBlock(b.ToolUseID, b.Content, b.IsError))
			}
		}
		if len(blocks) == 0 {
			continue
		}
		if msg.Role == model.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		} else {
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}

func toToolParams(catalog []model.ToolSpec) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(catalog))
	for _, spec := range catalog {
		tool := anthropic.ToolParam{
			Name:        spec.Name,
			Description: anthropic.String(spec.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Type:       "object",
				Properties: spec.Properties,
				Required:   spec.Required,
			},
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return out
}

func convertMessage(msg *anthropic.Message) *model.Response {
	resp := &model.Response{StopReason: mapStopReason(msg.StopReason)}
	for _, block := range msg.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			resp.Blocks = append(resp.Blocks, model.ContentBlock{
				Type: model.BlockText,
				Text: variant.Text,
			})
		case anthropic.ToolUseBlock:
			input := map[string]any{}
			if len(variant.Input) > 0 {
				_ = json.Unmarshal(variant.Input, &input)
			}
			resp.Blocks = append(resp.Blocks, model.ContentBlock{
				Type:  model.BlockToolUse,
				ID:    variant.ID,
				Name:  variant.Name,
				Input: input,
			})
		}
	}
	return resp
}

func mapStopReason(reason anthropic.StopReason) string {
	if string(reason) == "tool_use" {
		return model.StopToolUse
	}
	return model.StopEndTurn
}
