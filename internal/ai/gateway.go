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
	DefaultGatewayURL   = "https://ai.gateway.lovable.dev/v1"
	DefaultGatewayModel = "google/gemini-2.5-flash"
)

// GatewayClient talks to an OpenAI-compatible chat completions endpoint and
// forces the extraction tool through tool_choice.
type GatewayClient struct {
	opts Options
}

func NewGatewayClient(opts Options) *GatewayClient {
	return &GatewayClient{opts: opts.withDefaults(DefaultGatewayURL, DefaultGatewayModel)}
}

func (c *GatewayClient) Name() string  { return "gateway" }
func (c *GatewayClient) Model() string { return c.opts.Model }

type gatewayMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type gatewayFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type gatewayTool struct {
	Type     string          `json:"type"`
	Function gatewayFunction `json:"function"`
}

type gatewayChatReq struct {
	Model      string           `json:"model"`
	Messages   []gatewayMessage `json:"messages"`
	Tools      []gatewayTool    `json:"tools"`
	ToolChoice gatewayTool      `json:"tool_choice"`
}

type gatewayChatResp struct {
	Choices []struct {
		Message struct {
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (c *GatewayClient) Extract(ctx context.Context, text string) (Result, error) {
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
	log.Debug().Str("req_id", rid).Str("provider", c.Name()).Str("model", c.opts.Model).
		Int("text_len", len(text)).Msg("backend extract start")

	payload := gatewayChatReq{
		Model: c.opts.Model,
		Messages: []gatewayMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage(text)},
		},
		Tools: []gatewayTool{{
			Type:     "function",
			Function: gatewayFunction{Name: ToolName, Description: ToolDescription, Parameters: ToolSchema()},
		}},
		ToolChoice: gatewayTool{Type: "function", Function: gatewayFunction{Name: ToolName}},
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	endpoint := strings.TrimRight(c.opts.BaseURL, "/") + "/chat/completions"
	raw, err := postJSON(ctx, c.opts.HTTPClient, c.Name(), endpoint,
		map[string]string{"Authorization": "Bearer " + key}, payload)
	if err != nil {
		log.Warn().Err(err).Str("req_id", rid).Str("provider", c.Name()).
			Dur("elapsed", time.Since(start)).Msg("backend extract failed")
		return Result{}, err
	}

	var r gatewayChatResp
	if err := json.Unmarshal(raw, &r); err != nil {
		return Result{}, &ParseError{Provider: c.Name(), Err: err}
	}
	if len(r.Choices) == 0 || len(r.Choices[0].Message.ToolCalls) == 0 {
		return Result{}, ErrNoToolCall
	}

	res, err := decodeArguments(c.Name(), []byte(r.Choices[0].Message.ToolCalls[0].Function.Arguments), c.opts.StrictSchema)
	if err != nil {
		return Result{}, err
	}
	res.Model = c.opts.Model
	res.TokensIn = r.Usage.PromptTokens
	res.TokensOut = r.Usage.CompletionTokens

	log.Debug().Str("req_id", rid).Str("provider", c.Name()).Int("tokens_in", res.TokensIn).
		Int("tokens_out", res.TokensOut).Dur("elapsed", time.Since(start)).Msg("backend extract ok")
	return res, nil
}
