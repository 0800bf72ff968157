package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-haiku-20240307"
	maxTokens      = 1500
	temperature    = 0.7
)

// AnthropicClient calls the Anthropic Messages API through the official SDK.
// The SDK retries 408, 409, 429 and 5xx up to Retries times.
type AnthropicClient struct {
	Model   string
	Retries int
	HTTP    *http.Client

	client anthropic.Client
}

// NewAnthropic builds a client. Empty model or baseURL fall back to the defaults;
// a nil httpClient gets a 15s timeout.
func NewAnthropic(apiKey, model, baseURL string, httpClient *http.Client, retries int) *AnthropicClient {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if retries < 0 {
		retries = 0
	}
	return &AnthropicClient{
		Model:   model,
		Retries: retries,
		HTTP:    httpClient,
		client: anthropic.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"),
			option.WithHTTPClient(httpClient),
			option.WithMaxRetries(retries),
		),
	}
}

// Complete sends prompt as a single user message and returns the text of the
// first text block. An empty string means the model produced nothing.
func (c *AnthropicClient) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.Model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", nil
}
