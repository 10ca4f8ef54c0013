package api

// ConfigResponse is the context the browser UI boots from.
type ConfigResponse struct {
	APIBaseURL         string     `json:"API_BASE_URL"`
	DefaultProvider    string     `json:"DEFAULT_PROVIDER"`
	AvailableProviders []Provider `json:"AVAILABLE_PROVIDERS"`
}

type Provider struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Type         string `json:"type"`
	DefaultModel string `json:"default_model"`
	Description  string `json:"description"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
