package provider

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

const openAIName = "openai"

var openAIConfig = ClientConfig{
	Scheme:   "https",
	Host:     "api.openai.com",
	ChatPath: "/v1/chat/completions",
}

// OpenAIClient speaks the OpenAI chat-completions wire format. Any model
// identifier that is not routed elsewhere ends up here.
type OpenAIClient struct {
	Client
	apiKey string
}

// NewOpenAIClient creates an OpenAI adapter. The credential is attached to
// every request as-is, empty included; a missing key is the upstream's
// rejection to report, not ours. baseURL overrides the production endpoint
// host, which tests and proxies rely on.
func NewOpenAIClient(apiKey, baseURL string, httpClient *http.Client) *OpenAIClient {
	cc := openAIConfig
	applyBaseURL(&cc, baseURL)
	return &OpenAIClient{
		Client: *NewClient(cc, httpClient),
		apiKey: apiKey,
	}
}

type openAIChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"` // Always true for streaming
}

// Stream issues the chat-completions request and returns the raw SSE body.
func (c *OpenAIClient) Stream(ctx context.Context, messages []Message, model string) (io.ReadCloser, error) {
	apiReq := openAIChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   true,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
		"Accept":        "text/event-stream",
	}

	return c.postStream(ctx, openAIName, apiReq, headers)
}

// applyBaseURL rewrites the config's scheme and host from an override URL,
// leaving the chat path alone. Malformed overrides are ignored.
func applyBaseURL(cc *ClientConfig, baseURL string) {
	if baseURL == "" {
		return
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return
	}
	cc.Scheme = u.Scheme
	cc.Host = u.Host
}
