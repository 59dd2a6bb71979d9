package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/chatmux/chatmux/internal/logger"
	"github.com/chatmux/chatmux/internal/provider"
	"github.com/chatmux/chatmux/internal/registry"
)

// Dispatcher is what the chat handler needs from the routing layer.
type Dispatcher interface {
	Dispatch(ctx context.Context, messages []provider.Message, model string) (io.ReadCloser, error)
}

type Handler struct {
	dispatcher Dispatcher
}

func NewHandler(dispatcher Dispatcher) *Handler {
	return &Handler{
		dispatcher: dispatcher,
	}
}

// ChatRequest is the inbound payload from the frontend. Model is optional;
// an empty value gets the catalog default substituted downstream.
type ChatRequest struct {
	Messages []provider.Message `json:"messages"`
	Model    string             `json:"model"`
}

// Chat decodes the payload, dispatches to the matching provider and relays
// the upstream body chunk by chunk, flushing as bytes arrive so the first
// token reaches the browser immediately.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	localLogger := logger.NewLogger("chat handler")

	allowCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var clientReq ChatRequest
	err := json.NewDecoder(r.Body).Decode(&clientReq)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := validateMessages(clientReq.Messages); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	localLogger = localLogger.With("request_id", uuid.NewString())

	stream, err := h.dispatcher.Dispatch(r.Context(), clientReq.Messages, clientReq.Model)
	if err != nil {
		var upstreamErr *provider.UpstreamError
		if errors.As(err, &upstreamErr) {
			localLogger.Error("Upstream rejected request: ", err)
			http.Error(w, "upstream error: "+err.Error(), http.StatusBadGateway)
		} else {
			localLogger.Error("Upstream unreachable: ", err)
			http.Error(w, "failed to reach upstream: "+err.Error(), http.StatusBadGateway)
		}
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Raw relay: whatever the upstream produced goes out unmodified. A
	// mid-stream failure just ends the response; bytes already sent stand.
	buf := make([]byte, 4096)
	for {
		n, err := stream.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return
			}
			flusher.Flush()
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			localLogger.Error("Stream interrupted: ", err)
			return
		}
	}
}

// Models returns the static catalog for the frontend's model dropdown.
func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(registry.List()); err != nil {
		http.Error(w, "Failed to encode response: "+err.Error(), http.StatusInternalServerError)
	}
}

// Status is a liveness probe.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)
	status := struct {
		ServerWorking bool `json:"server_working"`
	}{
		ServerWorking: true,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		http.Error(w, "Failed to encode response: "+err.Error(), http.StatusInternalServerError)
	}
}

func validateMessages(messages []provider.Message) error {
	if messages == nil {
		return errors.New("messages is required")
	}
	for i, m := range messages {
		if m.Role != provider.RoleUser && m.Role != provider.RoleAssistant {
			return fmt.Errorf("message %d has invalid role %q", i, m.Role)
		}
	}
	return nil
}

func allowCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
}
