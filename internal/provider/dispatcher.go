package provider

import (
	"context"
	"io"
	"strings"

	"github.com/chatmux/chatmux/internal/registry"
)

// claudePrefix classifies model identifiers by naming convention: anything in
// the claude family goes to Anthropic, everything else goes to OpenAI.
const claudePrefix = "claude"

// Dispatcher routes a conversation to the adapter matching the model
// identifier. It is stateless; every call is an independent one-shot relay.
type Dispatcher struct {
	openAI    Streamer
	anthropic Streamer
}

func NewDispatcher(openAI, anthropic Streamer) *Dispatcher {
	return &Dispatcher{
		openAI:    openAI,
		anthropic: anthropic,
	}
}

// Dispatch classifies model, substitutes the registry default for an empty
// identifier, and returns the selected adapter's open stream. Errors from
// the adapter pass through untouched so callers can tell an upstream
// rejection (*UpstreamError) from a connectivity failure.
func (d *Dispatcher) Dispatch(ctx context.Context, messages []Message, model string) (io.ReadCloser, error) {
	if strings.HasPrefix(model, claudePrefix) {
		return d.anthropic.Stream(ctx, messages, model)
	}
	if model == "" {
		model = registry.Default().ID
	}
	return d.openAI.Stream(ctx, messages, model)
}
