package model

import "time"

// Outcome values stored in RequestLog.Outcome.
const (
	OutcomeOK              = "ok"
	OutcomeValidationError = "validation_error"
	OutcomeTransportError  = "transport_error"
)

// RequestLog captures the metadata of one chat call. Message contents are
// never stored.
type RequestLog struct {
	ID               string    `db:"id" json:"id"`
	ProviderID       string    `db:"provider_id" json:"provider_id"`
	ProviderKind     string    `db:"provider_kind" json:"provider_kind"`
	ModelID          string    `db:"model_id" json:"model_id"`
	Outcome          string    `db:"outcome" json:"outcome"`
	ErrorMessage     string    `db:"error_message" json:"error_message,omitempty"`
	LatencyMS        int64     `db:"latency_ms" json:"latency_ms"`
	ResponseChars    int       `db:"response_chars" json:"response_chars"`
	HistoryLength    int       `db:"history_length" json:"history_length"`
	PromptTokens     *int64    `db:"prompt_tokens" json:"prompt_tokens,omitempty"`
	CompletionTokens *int64    `db:"completion_tokens" json:"completion_tokens,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// ProviderStats is one row of GetProviderStats.
type ProviderStats struct {
	ProviderID       string  `db:"provider_id" json:"provider_id"`
	Requests         int64   `db:"requests" json:"requests"`
	Failures         int64   `db:"failures" json:"failures"`
	AvgLatencyMS     float64 `db:"avg_latency_ms" json:"avg_latency_ms"`
	CompletionTokens int64   `db:"completion_tokens" json:"completion_tokens"`
}
