// Package ai asks a language-model backend for a CourseData candidate
// through a forced structured tool call.
package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Default limits for backend requests.
const (
	DefaultMaxInputChars = 50000
	MinInputChars        = 50
	DefaultTimeout       = 60 * time.Second
)

// Result is a successful tool call. Candidate is the decoded argument
// object and has not been normalized.
type Result struct {
	Candidate map[string]any
	Arguments json.RawMessage
	Provider  string
	Model     string
	TokensIn  int
	TokensOut int
	// SchemaErr is set when the arguments did not match the tool schema and
	// strict checking is off.
	SchemaErr error
}

// Client is a structured-output backend such as the chat gateway or the
// Anthropic messages API.
type Client interface {
	Name() string
	Model() string
	Extract(ctx context.Context, text string) (Result, error)
}

// Options configures either backend client.
type Options struct {
	BaseURL       string
	Model         string
	Credentials   CredentialProvider
	Timeout       time.Duration
	MaxInputChars int
	// StrictSchema turns schema mismatches into parse errors.
	StrictSchema bool
	HTTPClient   *http.Client
}

func (o Options) withDefaults(baseURL, model string) Options {
	if o.BaseURL == "" {
		o.BaseURL = baseURL
	}
	if o.Model == "" {
		o.Model = model
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxInputChars <= 0 {
		o.MaxInputChars = DefaultMaxInputChars
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}
	if o.Credentials == nil {
		o.Credentials = StaticCredential("")
	}
	return o
}
