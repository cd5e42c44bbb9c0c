// Package provider adapts the Anthropic Messages API, reached directly or
// through AWS Bedrock, to the conversation model the rest of the program
// speaks.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/sidekick-cli/sidekick/internal/chat"
	"github.com/sidekick-cli/sidekick/internal/config"
	"github.com/sidekick-cli/sidekick/tools"
)

// Client calls one Claude model with fixed sampling settings.
type Client struct {
	api         anthropic.Client
	model       anthropic.Model
	temperature float64
	maxTokens   int64
}

// New returns a client for the Anthropic API authenticated with the
// configured key. Extra request options are appended after the key, so
// tests can swap the HTTP transport.
func New(cfg config.Config, opts ...option.RequestOption) *Client {
	all := append([]option.RequestOption{option.WithAPIKey(cfg.AnthropicAPIKey)}, opts...)
	return &Client{
		api:         anthropic.NewClient(all...),
		model:       anthropic.Model(cfg.AnthropicModel),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// NewBedrock returns a client that reaches Claude through AWS Bedrock,
// signing requests with the given AWS credentials.
func NewBedrock(awsCfg aws.Config, cfg config.Config, opts ...option.RequestOption) *Client {
	all := append([]option.RequestOption{bedrock.WithConfig(awsCfg)}, opts...)
	return &Client{
		api:         anthropic.NewClient(all...),
		model:       anthropic.Model(cfg.BedrockModel),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Complete sends the conversation and returns the assistant reply.
func (c *Client) Complete(ctx context.Context, history []chat.Message, defs []tools.ToolDefinition) (chat.Message, error) {
	params, err := c.params(history, defs)
	if err != nil {
		return chat.Message{}, err
	}
	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return chat.Message{}, fmt.Errorf("model call: %w", err)
	}
	return fromAPI(msg), nil
}

// params converts the portable history into Messages API form. System
// messages move to the top-level system param, tool results ride inside
// user messages, and consecutive tool results collapse into a single user
// message because the API wants every result for one assistant turn in
// one place.
func (c *Client) params(history []chat.Message, defs []tools.ToolDefinition) (anthropic.MessageNewParams, error) {
	var system []anthropic.TextBlockParam
	msgs := make([]anthropic.MessageParam, 0, len(history))

	for i := 0; i < len(history); {
		m := history[i]
		switch m.Role {
		case chat.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content.Flat()})
			i++
		case chat.RoleUser:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content.Flat())))
			i++
		case chat.RoleAssistant:
			if blocks := assistantBlocks(m); len(blocks) > 0 {
				msgs = append(msgs, anthropic.NewAssistantMessage(blocks...))
			}
			i++
		case chat.RoleTool:
			var results []anthropic.ContentBlockParamUnion
			for i < len(history) && history[i].Role == chat.RoleTool {
				t := history[i]
				results = append(results, anthropic.NewToolResultBlock(t.ToolCallID, t.Content.Flat(), t.IsError))
				i++
			}
			msgs = append(msgs, anthropic.NewUserMessage(results...))
		default:
			return anthropic.MessageNewParams{}, fmt.Errorf("provider: unknown role %q at index %d", m.Role, i)
		}
	}

	params := anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		Messages:    msgs,
	}
	if len(system) > 0 {
		params.System = system
	}
	if len(defs) > 0 {
		params.Tools = toolUnion(defs)
	}
	return params, nil
}

func assistantBlocks(m chat.Message) []anthropic.ContentBlockParamUnion {
	var blocks []anthropic.ContentBlockParamUnion
	if !m.Content.Empty() {
		blocks = append(blocks, anthropic.NewTextBlock(m.Content.Flat()))
	}
	for _, tc := range m.ToolCalls {
		args := tc.Args
		if len(args) == 0 {
			args = json.RawMessage(`{}`)
		}
		blocks = append(blocks, anthropic.ContentBlockParamUnion{OfToolUse: &anthropic.ToolUseBlockParam{
			Type:  "tool_use",
			ID:    tc.ID,
			Name:  tc.Name,
			Input: args,
		}})
	}
	return blocks
}

func toolUnion(defs []tools.ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, d := range defs {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        d.Name,
			Description: anthropic.String(d.Description),
			InputSchema: d.InputSchema,
		}})
	}
	return out
}

// fromAPI folds response blocks back into one assistant message: text
// blocks concatenate and tool_use blocks become calls with their raw JSON
// input preserved untouched.
func fromAPI(msg *anthropic.Message) chat.Message {
	var text strings.Builder
	var calls []chat.ToolCall
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			if text.Len() > 0 {
				text.WriteString("\n")
			}
			text.WriteString(v.Text)
		case anthropic.ToolUseBlock:
			calls = append(calls, chat.ToolCall{
				ID:   v.ID,
				Name: v.Name,
				Args: json.RawMessage(v.JSON.Input.Raw()),
			})
		}
	}
	out := chat.Assistant(text.String())
	out.ToolCalls = calls
	return out
}
