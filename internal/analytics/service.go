package analytics

import (
	"context"

	"github.com/Sahiljangra115/Aurora-chat/internal/store"
	"github.com/Sahiljangra115/Aurora-chat/internal/store/model"
)

const (
	DefaultRecentLimit = 50
	MaxRecentLimit     = 500
)

// Service exposes read access to persisted request logs.
type Service interface {
	Recent(ctx context.Context, limit int) ([]model.RequestLog, error)
	ProviderStats(ctx context.Context) ([]model.ProviderStats, error)
}

type service struct {
	repo store.Repository
}

func NewService(repo store.Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) Recent(ctx context.Context, limit int) ([]model.RequestLog, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	return s.repo.Requests().GetRecent(ctx, limit)
}

func (s *service) ProviderStats(ctx context.Context) ([]model.ProviderStats, error) {
	return s.repo.Requests().GetProviderStats(ctx)
}
