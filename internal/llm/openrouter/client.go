// Package openrouter speaks the OpenRouter chat-completions protocol.
//
// Every remote provider in the catalog (OpenRouter itself plus the Gemini,
// Claude and Qwen families it proxies) goes through this client with the
// same bearer credential.
package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Sahiljangra115/Aurora-chat/internal/httpclient"
	"github.com/Sahiljangra115/Aurora-chat/internal/llm"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultReferer = "localhost"
	DefaultTitle   = "Aurora Chat"

	chatTimeout = 60 * time.Second
)

// errMissingCredential is returned before any request is built.
const errMissingCredential = "credential required for remote providers"

type Config struct {
	BaseURL string
	// Referer and Title identify this client to OpenRouter.
	Referer string
	Title   string
}

type Client struct {
	config Config
	client *http.Client
	logger *zap.Logger
}

func New(config Config, logger *zap.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Referer == "" {
		config.Referer = DefaultReferer
	}
	if config.Title == "" {
		config.Title = DefaultTitle
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config: config,
		client: &http.Client{Timeout: chatTimeout},
		logger: logger,
	}
}

type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type ChatResponse struct {
	ID      string   `json:"id,omitempty"`
	Model   string   `json:"model,omitempty"`
	Choices []Choice `json:"choices"`
	// Usage is kept verbatim; callers pass it through without interpreting it.
	Usage json.RawMessage `json:"usage,omitempty"`
	// OpenRouter occasionally reports failures inside a 200 response.
	Error *ErrorBody `json:"error,omitempty"`
}

type Choice struct {
	Index        int            `json:"index"`
	Message      *ChoiceMessage `json:"message"`
	FinishReason string         `json:"finish_reason,omitempty"`
}

type ChoiceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Code    any    `json:"code,omitempty"`
}

// Chat sends a single non-streaming completion request.
//
// An empty credential fails with a validation error without touching the
// network. A success status without choices is a transport error; an error
// object embedded in such a body is logged but not returned to the caller.
func (c *Client) Chat(ctx context.Context, req *ChatRequest, credential string) (*ChatResponse, error) {
	if credential == "" {
		return nil, llm.ValidationError(errMissingCredential)
	}

	headers := map[string]string{
		"Authorization": "Bearer " + credential,
		"HTTP-Referer":  c.config.Referer,
		"X-Title":       c.config.Title,
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(c.config.BaseURL, "/"))

	var resp ChatResponse
	if err := httpclient.SendRequest(ctx, c.client, http.MethodPost, url, headers, req, &resp); err != nil {
		return nil, c.handleUpstreamError(err)
	}

	if len(resp.Choices) == 0 {
		fields := []zap.Field{zap.String("model", req.Model)}
		if resp.Error != nil {
			fields = append(fields,
				zap.Any("code", resp.Error.Code),
				zap.String("upstream_error", resp.Error.Message),
			)
		}
		c.logger.Error("OpenRouter returned no choices", fields...)
		return nil, llm.TransportError("no choices returned", nil)
	}

	if resp.Choices[0].Message == nil {
		return nil, llm.TransportError("malformed response: first choice has no message", nil)
	}

	return &resp, nil
}

func (c *Client) handleUpstreamError(err error) error {
	var upstreamErr *httpclient.UpstreamError
	if errors.As(err, &upstreamErr) {
		c.logger.Error("OpenRouter request failed",
			zap.Int("status", upstreamErr.StatusCode),
			zap.String("url", upstreamErr.URL),
		)
		return llm.TransportError(upstreamErr.Reason("OpenRouter request failed"), err)
	}

	c.logger.Error("OpenRouter request failed", zap.Error(err))

	switch {
	case httpclient.IsTimeout(err):
		return llm.TransportError("OpenRouter request timed out", err)
	case errors.Is(err, httpclient.ErrDecode):
		return llm.TransportError("OpenRouter returned an invalid response", err)
	default:
		return llm.TransportError("Unable to reach OpenRouter", err)
	}
}
