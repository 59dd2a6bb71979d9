package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatmux/chatmux/internal/provider"
	"github.com/chatmux/chatmux/internal/registry"
)

type mockDispatcher struct {
	calls       int
	gotMessages []provider.Message
	gotModel    string
	stream      io.ReadCloser
	err         error
}

func (m *mockDispatcher) Dispatch(ctx context.Context, messages []provider.Message, model string) (io.ReadCloser, error) {
	m.calls++
	m.gotMessages = messages
	m.gotModel = model
	if m.err != nil {
		return nil, m.err
	}
	if m.stream != nil {
		return m.stream, nil
	}
	return io.NopCloser(strings.NewReader("")), nil
}

func postChat(handler *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Chat(rec, req)
	return rec
}

func TestChatRejectsMalformedPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "hello"},
		{name: "messages missing", body: `{"model":"gpt-4"}`},
		{name: "messages not a list", body: `{"messages":42}`},
		{name: "unknown role", body: `{"messages":[{"role":"system","content":"be nice"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := &mockDispatcher{}
			rec := postChat(NewHandler(dispatcher), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, 0, dispatcher.calls, "no upstream call may be attempted for a malformed payload")
		})
	}
}

func TestChatAllowsEmptyMessageList(t *testing.T) {
	dispatcher := &mockDispatcher{}
	rec := postChat(NewHandler(dispatcher), `{"messages":[],"model":"gpt-4"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, dispatcher.calls)
}

func TestChatRelaysStreamUnmodified(t *testing.T) {
	payload := "Hello from upstream, relayed byte for byte.\n"
	dispatcher := &mockDispatcher{stream: io.NopCloser(strings.NewReader(payload))}

	rec := postChat(NewHandler(dispatcher), `{"messages":[{"role":"user","content":"Hello"}],"model":""}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, payload, rec.Body.String())
	assert.True(t, rec.Flushed)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))

	assert.Equal(t, "", dispatcher.gotModel, "default substitution happens in the dispatcher, not here")
	assert.Equal(t, []provider.Message{{Role: provider.RoleUser, Content: "Hello"}}, dispatcher.gotMessages)
}

func TestChatMapsUpstreamRejection(t *testing.T) {
	dispatcher := &mockDispatcher{
		err: &provider.UpstreamError{Provider: "openai", StatusCode: http.StatusUnauthorized, Message: "bad key"},
	}

	rec := postChat(NewHandler(dispatcher), `{"messages":[{"role":"user","content":"Hello"}]}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream error")
	assert.Contains(t, rec.Body.String(), "bad key")
}

func TestChatMapsConnectivityFailure(t *testing.T) {
	dispatcher := &mockDispatcher{err: errors.New("dial tcp: connection refused")}

	rec := postChat(NewHandler(dispatcher), `{"messages":[{"role":"user","content":"Hello"}]}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to reach upstream")
}

type interruptedReader struct {
	data string
	read bool
}

func (r *interruptedReader) Read(p []byte) (int, error) {
	if !r.read {
		r.read = true
		return copy(p, r.data), nil
	}
	return 0, errors.New("unexpected EOF")
}

func (r *interruptedReader) Close() error { return nil }

func TestChatMidStreamFailureKeepsPartialOutput(t *testing.T) {
	dispatcher := &mockDispatcher{stream: &interruptedReader{data: "partial "}}

	rec := postChat(NewHandler(dispatcher), `{"messages":[{"role":"user","content":"Hello"}]}`)

	// Headers were already sent; the response just ends where the upstream died.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partial ", rec.Body.String())
}

func TestChatMethodNotAllowed(t *testing.T) {
	dispatcher := &mockDispatcher{}
	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	rec := httptest.NewRecorder()
	NewHandler(dispatcher).Chat(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, 0, dispatcher.calls)
}

func TestChatPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	rec := httptest.NewRecorder()
	NewHandler(&mockDispatcher{}).Chat(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestModelsReturnsCatalog(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	rec := httptest.NewRecorder()
	NewHandler(&mockDispatcher{}).Models(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var models []registry.Model
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &models))
	assert.Equal(t, registry.List(), models)
}

func TestStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	NewHandler(&mockDispatcher{}).Status(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"server_working":true}`, rec.Body.String())
}
