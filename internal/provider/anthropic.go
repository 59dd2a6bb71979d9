package provider

import (
	"context"
	"io"
	"net/http"
	"strings"
)

const (
	anthropicName = "anthropic"

	// anthropicVersion pins the wire format independently of the URL.
	anthropicVersion = "2023-06-01"

	// maxTokensToSample is required by the completion endpoint; there is no
	// inbound knob for it, so it is fixed here.
	maxTokensToSample = 1000
)

var anthropicConfig = ClientConfig{
	Scheme:   "https",
	Host:     "api.anthropic.com",
	ChatPath: "/v1/complete",
}

// AnthropicClient speaks the Anthropic text-completion wire format, which
// takes a single flattened prompt instead of a message list.
type AnthropicClient struct {
	Client
	apiKey string
}

// NewAnthropicClient creates an Anthropic adapter. Credential handling is the
// same as for OpenAI: attached as-is, never pre-validated.
func NewAnthropicClient(apiKey, baseURL string, httpClient *http.Client) *AnthropicClient {
	cc := anthropicConfig
	applyBaseURL(&cc, baseURL)
	return &AnthropicClient{
		Client: *NewClient(cc, httpClient),
		apiKey: apiKey,
	}
}

type anthropicCompletionRequest struct {
	Prompt            string `json:"prompt"`
	Model             string `json:"model"`
	MaxTokensToSample int    `json:"max_tokens_to_sample"`
	Stream            bool   `json:"stream"` // Always true for streaming
}

// BuildPrompt flattens a conversation into the completion-style prompt:
// one "{role}: {content}" line per message, with a trailing "assistant:" cue
// so the model continues the conversation rather than the last message.
func BuildPrompt(messages []Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	b.WriteString("\nassistant:")
	return b.String()
}

// Stream issues the completion request and returns the raw SSE body.
func (c *AnthropicClient) Stream(ctx context.Context, messages []Message, model string) (io.ReadCloser, error) {
	apiReq := anthropicCompletionRequest{
		Prompt:            BuildPrompt(messages),
		Model:             model,
		MaxTokensToSample: maxTokensToSample,
		Stream:            true,
	}

	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": anthropicVersion,
		"Accept":            "text/event-stream",
	}

	return c.postStream(ctx, anthropicName, apiReq, headers)
}
