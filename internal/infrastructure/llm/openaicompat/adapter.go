package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"gurney/internal/application/port/output"
)

var _ output.LLMPort = (*Adapter)(nil)

// Adapter talks to any OpenAI-compatible chat completion endpoint.
type Adapter struct {
	client *openai.Client
	model  string
	logger output.LoggerPort
}

type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Logger  output.LoggerPort
}

type loggingTransport struct {
	base   http.RoundTripper
	logger output.LoggerPort
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.logger != nil {
		var bodyBytes []byte
		if req.Body != nil {
			bodyBytes, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		var requestData map[string]interface{}
		if len(bodyBytes) > 0 {
			json.Unmarshal(bodyBytes, &requestData)
		}

		t.logger.Debug("HTTP Request",
			"method", req.Method,
			"url", req.URL.String(),
			"body", requestData,
		)
	}

	resp, err := t.base.RoundTrip(req)

	if t.logger != nil && resp != nil {
		t.logger.Debug("HTTP Response",
			"status", resp.Status,
			"statusCode", resp.StatusCode,
		)
	}

	return resp, err
}

func NewAdapter(cfg Config) *Adapter {
	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL

	if cfg.Logger != nil {
		config.HTTPClient = &http.Client{
			Transport: &loggingTransport{
				base:   http.DefaultTransport,
				logger: cfg.Logger,
			},
		}
	}

	return &Adapter{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

func (a *Adapter) Complete(ctx context.Context, req output.CompletionRequest) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: 0.0,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}
