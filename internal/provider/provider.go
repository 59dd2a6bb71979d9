// Package provider contains the upstream LLM adapters and the dispatcher
// that routes a conversation to one of them. Whatever upstream answers, the
// caller gets the same thing back: the raw response body as an open,
// unbuffered byte stream.
package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// maxErrorBody caps how much of an upstream error response is read.
const maxErrorBody = 32 * 1024

// Message is one entry of a conversation, oldest first.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Streamer is the capability every provider adapter exposes: translate the
// conversation to the provider's wire format, issue the streaming request,
// and hand back the open response body. The caller owns the stream and must
// close it.
type Streamer interface {
	Stream(ctx context.Context, messages []Message, model string) (io.ReadCloser, error)
}

// UpstreamError is a non-success status from a provider, as opposed to a
// connection-level failure. Message carries the upstream's own description
// when one could be extracted.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// Client is the shared base for provider adapters.
type Client struct {
	base    *url.URL
	http    *http.Client
	chatURL *url.URL
}

// ClientConfig holds the endpoint layout for a provider.
type ClientConfig struct {
	Scheme   string
	Host     string
	ChatPath string
}

// NewClient creates an adapter base with a resolved chat endpoint. A nil
// httpClient falls back to a default client with no timeout.
func NewClient(config ClientConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	baseURL := &url.URL{Scheme: config.Scheme, Host: config.Host}
	return &Client{
		base:    baseURL,
		http:    httpClient,
		chatURL: baseURL.ResolveReference(&url.URL{Path: config.ChatPath}),
	}
}

func (c *Client) ChatURL() string {
	return c.chatURL.String()
}

// postStream marshals payload, POSTs it to the chat endpoint and returns the
// response body still open. Connection failures come back wrapped; non-2xx
// statuses come back as *UpstreamError with the error body drained and
// closed. The request inherits ctx, so a caller disconnect tears down the
// upstream connection as well.
func (c *Client) postStream(ctx context.Context, name string, payload interface{}, headers map[string]string) (io.ReadCloser, error) {
	bts, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ChatURL(), bytes.NewReader(bts))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		request.Header.Set(k, v)
	}

	response, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("contacting %s: %w", name, err)
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		defer response.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
		message := gjson.GetBytes(body, "error.message").String()
		if message == "" {
			message = response.Status
		}
		return nil, &UpstreamError{Provider: name, StatusCode: response.StatusCode, Message: message}
	}

	return response.Body, nil
}
