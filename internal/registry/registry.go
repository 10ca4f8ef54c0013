// Package registry holds the static catalog of chat providers.
package registry

import (
	"fmt"

	"github.com/Sahiljangra115/Aurora-chat/internal/config"
	"github.com/Sahiljangra115/Aurora-chat/internal/llm"
)

// Provider describes one selectable chat provider.
type Provider struct {
	ID           string   `json:"id"`
	Label        string   `json:"label"`
	Kind         llm.Kind `json:"type"`
	DefaultModel string   `json:"default_model"`
	Description  string   `json:"description"`
}

// Registry is read-only after New returns, so it needs no locking.
type Registry struct {
	ordered []Provider
	byID    map[string]Provider
}

// New builds the catalog: the four aggregator-proxied families first, then
// the local provider when allowLocal is set.
func New(catalog config.CatalogConfig, allowLocal bool) (*Registry, error) {
	specs := []Provider{
		{
			ID:           catalog.OpenRouter.ID,
			Label:        "OpenRouter",
			Kind:         llm.Remote,
			DefaultModel: catalog.OpenRouter.DefaultModel,
			Description:  "Use any OpenRouter-compatible model by providing your OpenRouter API key.",
		},
		{
			ID:           catalog.Gemini.ID,
			Label:        "Gemini via OpenRouter",
			Kind:         llm.Remote,
			DefaultModel: catalog.Gemini.DefaultModel,
			Description:  "Gemini access proxied through OpenRouter. Requires an OpenRouter key.",
		},
		{
			ID:           catalog.Claude.ID,
			Label:        "Claude via OpenRouter",
			Kind:         llm.Remote,
			DefaultModel: catalog.Claude.DefaultModel,
			Description:  "Claude models served through OpenRouter with the same API key.",
		},
		{
			ID:           catalog.Qwen.ID,
			Label:        "Qwen via OpenRouter",
			Kind:         llm.Remote,
			DefaultModel: catalog.Qwen.DefaultModel,
			Description:  "Qwen models via OpenRouter for multilingual tasks.",
		},
	}

	if allowLocal {
		specs = append(specs, Provider{
			ID:           catalog.Ollama.ID,
			Label:        "Ollama (Local)",
			Kind:         llm.Local,
			DefaultModel: catalog.Ollama.DefaultModel,
			Description:  "Use any model available in your local Ollama installation.",
		})
	}

	r := &Registry{
		ordered: make([]Provider, 0, len(specs)),
		byID:    make(map[string]Provider, len(specs)),
	}
	for _, p := range specs {
		if p.ID == "" {
			return nil, fmt.Errorf("provider %q has an empty id", p.Label)
		}
		if _, exists := r.byID[p.ID]; exists {
			return nil, fmt.Errorf("provider id %q registered twice", p.ID)
		}
		r.ordered = append(r.ordered, p)
		r.byID[p.ID] = p
	}

	return r, nil
}

// List returns the providers in display order.
func (r *Registry) List() []Provider {
	out := make([]Provider, len(r.ordered))
	copy(out, r.ordered)
	return out
}

func (r *Registry) Lookup(id string) (Provider, bool) {
	p, ok := r.byID[id]
	return p, ok
}
