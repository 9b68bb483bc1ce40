package ai

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	DefaultAnthropicURL   = "https://api.anthropic.com"
	DefaultAnthropicModel = "claude-sonnet-4-5"
	anthropicVersion      = "2023-06-01"
	anthropicMaxTokens    = 8192
)

// AnthropicClient uses the messages API with a forced tool_use block.
type AnthropicClient struct {
	opts Options
}

func NewAnthropicClient(opts Options) *AnthropicClient {
	return &AnthropicClient{opts: opts.withDefaults(DefaultAnthropicURL, DefaultAnthropicModel)}
}

func (c *AnthropicClient) Name() string  { return "anthropic" }
func (c *AnthropicClient) Model() string { return c.opts.Model }

type anthropicTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicMsgReq struct {
	Model      string             `json:"model"`
	MaxTokens  int                `json:"max_tokens"`
	System     string             `json:"system"`
	Messages   []anthropicMessage `json:"messages"`
	Tools      []anthropicTool    `json:"tools"`
	ToolChoice map[string]string  `json:"tool_choice"`
}

type anthropicMsgResp struct {
	Content []struct {
		Type  string          `json:"type"`
		Name  string          `json:"name"`
		Input json.RawMessage `json:"input"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (c *AnthropicClient) Extract(ctx context.Context, text string) (Result, error) {
	text, err := PrepareText(text, c.opts.MaxInputChars)
	if err != nil {
		return Result{}, err
	}
	key, err := c.opts.Credentials.Credential(ctx)
	if err != nil {
		return Result{}, err
	}

	rid := uuid.NewString()
	start := time.Now()

	payload := anthropicMsgReq{
		Model:     c.opts.Model,
		MaxTokens: anthropicMaxTokens,
		System:    systemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: userMessage(text)}},
		Tools: []anthropicTool{{
			Name:        ToolName,
			Description: ToolDescription,
			InputSchema: ToolSchema(),
		}},
		ToolChoice: map[string]string{"type": "tool", "name": ToolName},
	}
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	endpoint := strings.TrimRight(c.opts.BaseURL, "/") + "/v1/messages"
	raw, err := postJSON(ctx, c.opts.HTTPClient, c.Name(), endpoint, map[string]string{
		"x-api-key":         key,
		"anthropic-version": anthropicVersion,
	}, payload)
	if err != nil {
		log.Warn().Err(err).Str("req_id", rid).Str("provider", c.Name()).
			Dur("elapsed", time.Since(start)).Msg("backend extract failed")
		return Result{}, err
	}

	var r anthropicMsgResp
	if err := json.Unmarshal(raw, &r); err != nil {
		return Result{}, &ParseError{Provider: c.Name(), Err: err}
	}
	var args json.RawMessage
	for _, block := range r.Content {
		if block.Type == "tool_use" {
			args = block.Input
			break
		}
	}
	if args == nil {
		return Result{}, ErrNoToolCall
	}

	res, err := decodeArguments(c.Name(), args, c.opts.StrictSchema)
	if err != nil {
		return Result{}, err
	}
	res.Model = c.opts.Model
	res.TokensIn = r.Usage.InputTokens
	res.TokensOut = r.Usage.OutputTokens

	log.Debug().Str("req_id", rid).Str("provider", c.Name()).Int("tokens_in", res.TokensIn).
		Int("tokens_out", res.TokensOut).Dur("elapsed", time.Since(start)).Msg("backend extract ok")
	return res, nil
}
