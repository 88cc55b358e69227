// Package server exposes a greeting handler.
package server

import (
	"fmt"
	"net/http"
)

// Config holds handler settings.
type Config struct {
	// Port to listen on.
	Port    int
	Timeout int
}

type Handler struct {
	config *Config
}

func NewHandler(config *Config) *Handler {
	// keep a reference, not a copy
	return &Handler{config: config}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// TODO: honour the configured timeout
	fmt.Fprintf(w, "Hello, World!")
}

func pair(a, b int, rest ...string) func() int {
	return func() int {
		// closure body
		return a + b + len(rest)
	}
}
