// Package ollama talks to a local Ollama server using its native API.
package ollama

import (
	"context"
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
	DefaultBaseURL = "http://localhost:11434"

	chatTimeout = 120 * time.Second
	listTimeout = 10 * time.Second
)

const errUnreachable = "Unable to reach local model server. Is it running?"

type Client struct {
	baseURL string
	// chat and list use separate clients so each call keeps its own deadline
	chat   *http.Client
	list   *http.Client
	logger *zap.Logger
}

func New(baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		chat:    &http.Client{Timeout: chatTimeout},
		list:    &http.Client{Timeout: listTimeout},
		logger:  logger,
	}
}

type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Options  Options       `json:"options"`
	// Always false; the gateway has no incremental delivery path.
	Stream bool `json:"stream"`
}

type Options struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type ChatResponse struct {
	Model     string           `json:"model,omitempty"`
	Message   *ResponseMessage `json:"message,omitempty"`
	Done      bool             `json:"done"`
	EvalCount *int             `json:"eval_count,omitempty"`
}

type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat sends a non-streaming chat request to /api/chat.
func (c *Client) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	body := *req
	body.Stream = false

	url := fmt.Sprintf("%s/api/chat", c.baseURL)

	var resp ChatResponse
	if err := httpclient.SendRequest(ctx, c.chat, http.MethodPost, url, nil, &body, &resp); err != nil {
		return nil, c.handleUpstreamError(err)
	}

	return &resp, nil
}

// ListModels returns the names of the models installed on the server, in
// the order the server reports them. Entries without a name are skipped.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	url := fmt.Sprintf("%s/api/tags", c.baseURL)

	var resp struct {
		Models []struct {
			Name       string `json:"name"`
			ModifiedAt string `json:"modified_at"`
			Size       int64  `json:"size"`
		} `json:"models"`
	}

	if err := httpclient.SendRequest(ctx, c.list, http.MethodGet, url, nil, nil, &resp); err != nil {
		c.logger.Error("Failed to list Ollama models", zap.String("url", url), zap.Error(err))
		return nil, llm.TransportError(errUnreachable, err)
	}

	models := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		if m.Name == "" {
			continue
		}
		models = append(models, m.Name)
	}

	return models, nil
}

func (c *Client) handleUpstreamError(err error) error {
	var upstreamErr *httpclient.UpstreamError
	if errors.As(err, &upstreamErr) {
		c.logger.Error("Ollama chat failed",
			zap.Int("status", upstreamErr.StatusCode),
			zap.String("url", upstreamErr.URL),
		)
		return llm.TransportError(upstreamErr.Reason("Ollama request failed"), err)
	}

	c.logger.Error("Ollama chat failed", zap.Error(err))

	switch {
	case httpclient.IsTimeout(err):
		return llm.TransportError("Local model server timed out", err)
	case errors.Is(err, httpclient.ErrDecode):
		return llm.TransportError("Local model server returned an invalid response", err)
	default:
		return llm.TransportError(errUnreachable, err)
	}
}
