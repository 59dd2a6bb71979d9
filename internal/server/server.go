package server

import (
	"net/http"

	"github.com/chatmux/chatmux/internal/config"
	"github.com/chatmux/chatmux/internal/logger"
	"github.com/chatmux/chatmux/internal/provider"
	"github.com/chatmux/chatmux/internal/server/handlers"
)

// Server wires the provider adapters, the dispatcher and the HTTP routes.
type Server struct {
	addr string
	mux  *http.ServeMux
	log  *logger.Logger
}

func New(cfg *config.Config) *Server {
	localLogger := logger.NewLogger("Server")

	if cfg.OpenAIKey == "" {
		localLogger.Warn("OpenAI API key not provided; requests will be rejected upstream")
	}
	if cfg.AnthropicKey == "" {
		localLogger.Warn("Anthropic API key not provided; requests will be rejected upstream")
	}

	// One shared transport for both adapters. The timeout bounds the wait
	// for the upstream to start answering, not the stream itself.
	httpClient := &http.Client{
		Transport: &http.Transport{
			ResponseHeaderTimeout: cfg.UpstreamTimeout,
		},
	}

	openAIClient := provider.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, httpClient)
	anthropicClient := provider.NewAnthropicClient(cfg.AnthropicKey, cfg.AnthropicBaseURL, httpClient)
	dispatcher := provider.NewDispatcher(openAIClient, anthropicClient)

	mux := http.NewServeMux()
	registerRoutes(mux, handlers.NewHandler(dispatcher))

	return &Server{
		addr: cfg.Addr,
		mux:  mux,
		log:  localLogger,
	}
}

func (s *Server) Run() error {
	s.log.Info("Server started on http://localhost" + s.addr + "/")
	return http.ListenAndServe(s.addr, s.mux)
}
