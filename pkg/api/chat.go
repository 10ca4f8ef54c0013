// Package api holds the JSON shapes of the HTTP boundary.
package api

// ChatRequest is the body of POST /api/chat. Every field is optional; the
// gateway fills in defaults and reports what is still missing.
type ChatRequest struct {
	Provider    string        `json:"provider,omitempty"`
	Model       string        `json:"model,omitempty"`
	APIKey      string        `json:"api_key,omitempty"`
	Temperature *Float        `json:"temperature,omitempty"`
	TopP        *Float        `json:"top_p,omitempty"`
	History     []ChatMessage `json:"history,omitempty" binding:"omitempty,dive"`
	Message     string        `json:"message,omitempty"`
}

type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant system"`
	Content string `json:"content"`
}

// ChatResponse carries the normalized completion. Usage is whatever the
// provider reported and is null when it reported nothing.
type ChatResponse struct {
	Message string `json:"message"`
	Usage   any    `json:"usage"`
}

type ModelsResponse struct {
	Models []string `json:"models"`
}
