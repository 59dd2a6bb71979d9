package server

import (
	"net/http"

	"github.com/chatmux/chatmux/internal/server/handlers"
)

func registerRoutes(mux *http.ServeMux, handler *handlers.Handler) {
	mux.HandleFunc("/chat", handler.Chat)
	mux.HandleFunc("/models", handler.Models)
	mux.HandleFunc("/status", handler.Status)
}
