package store

import (
	"context"

	"github.com/Sahiljangra115/Aurora-chat/internal/store/model"
)

// Repository is the main contract for the data layer.
type Repository interface {
	Requests() RequestRepository

	Close() error
}

type RequestRepository interface {
	// Log stores a completed chat request.
	Log(ctx context.Context, log *model.RequestLog) error
	// GetRecent returns the last N logs, newest first.
	GetRecent(ctx context.Context, limit int) ([]model.RequestLog, error)
	// GetProviderStats aggregates outcomes and latency per provider.
	GetProviderStats(ctx context.Context) ([]model.ProviderStats, error)
}
