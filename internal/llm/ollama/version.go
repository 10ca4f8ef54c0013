package ollama

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Sahiljangra115/Aurora-chat/internal/httpclient"
	"github.com/hashicorp/go-version"
)

// MinimumVersion is the first Ollama release that serves /api/chat.
const MinimumVersion = "0.1.14"

// Version asks the server which release it is running.
func (c *Client) Version(ctx context.Context) (*version.Version, error) {
	url := fmt.Sprintf("%s/api/version", c.baseURL)

	var resp struct {
		Version string `json:"version"`
	}
	if err := httpclient.SendRequest(ctx, c.list, http.MethodGet, url, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("ollama version request: %w", err)
	}

	v, err := version.NewVersion(resp.Version)
	if err != nil {
		return nil, fmt.Errorf("ollama reported unparsable version %q: %w", resp.Version, err)
	}
	return v, nil
}

// CheckVersion compares the running server against minimum and returns an
// error describing why the server is not usable for chat.
func (c *Client) CheckVersion(ctx context.Context, minimum string) (*version.Version, error) {
	if minimum == "" {
		minimum = MinimumVersion
	}
	required, err := version.NewVersion(minimum)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum ollama version %q: %w", minimum, err)
	}

	current, err := c.Version(ctx)
	if err != nil {
		return nil, err
	}

	if current.LessThan(required) {
		return current, fmt.Errorf("ollama %s is older than the required %s", current, required)
	}
	return current, nil
}
