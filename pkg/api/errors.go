package api

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	// Fields is set when the body failed validation.
	Fields map[string]string `json:"fields,omitempty"`
}
