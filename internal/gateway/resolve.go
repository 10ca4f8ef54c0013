package gateway

import (
	"github.com/Sahiljangra115/Aurora-chat/internal/llm"
	"github.com/Sahiljangra115/Aurora-chat/internal/registry"
)

// ChatInput is an unresolved chat request as received at the boundary.
// Every field is optional.
type ChatInput struct {
	ProviderID string
	Model      string
	// Credential comes from the request body, HeaderCredential from X-Api-Key.
	Credential       string
	HeaderCredential string
	Temperature      *float64
	TopP             *float64
	History          []llm.Message
	Message          string
}

// ResolvedRequest is what gets sent to a transport. Model and History are
// never empty.
type ResolvedRequest struct {
	Provider   registry.Provider
	Model      string
	Credential string
	Params     llm.Params
	History    []llm.Message
}

// Resolve turns a ChatInput into a ResolvedRequest. It depends only on the
// input and the immutable configuration, so identical inputs always resolve
// identically, and it never touches the network.
func (s *service) Resolve(in ChatInput) (*ResolvedRequest, error) {
	providerID := in.ProviderID
	if providerID == "" {
		providerID = s.defaultProvider
	}
	provider, ok := s.registry.Lookup(providerID)
	if !ok {
		return nil, llm.ValidationError("Unknown provider '%s'", providerID)
	}

	model := in.Model
	if model == "" {
		model = provider.DefaultModel
	}
	if model == "" {
		return nil, llm.ValidationError("Model is required")
	}

	history := in.History
	if len(history) == 0 {
		if in.Message == "" {
			return nil, llm.ValidationError("Message is required")
		}
		history = []llm.Message{{Role: llm.User, Content: in.Message}}
	}

	params := llm.Params{Temperature: llm.DefaultTemperature, TopP: llm.DefaultTopP}
	if in.Temperature != nil {
		params.Temperature = *in.Temperature
	}
	if in.TopP != nil {
		params.TopP = *in.TopP
	}

	resolved := &ResolvedRequest{
		Provider: provider,
		Model:    model,
		Params:   params,
		History:  history,
	}
	if provider.Kind == llm.Remote {
		resolved.Credential = ResolveCredential(in.Credential, in.HeaderCredential, s.defaultCredential)
	}
	return resolved, nil
}
