package analytics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sahiljangra115/Aurora-chat/internal/store"
	"github.com/Sahiljangra115/Aurora-chat/internal/store/model"
)

type memoryRepo struct {
	mu   sync.Mutex
	logs []model.RequestLog
}

func (m *memoryRepo) Requests() store.RequestRepository { return m }

func (m *memoryRepo) Close() error { return nil }

func (m *memoryRepo) Log(_ context.Context, log *model.RequestLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *log)
	return nil
}

func (m *memoryRepo) GetRecent(_ context.Context, limit int) ([]model.RequestLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.RequestLog{}
	for i := len(m.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.logs[i])
	}
	return out, nil
}

func (m *memoryRepo) GetProviderStats(context.Context) ([]model.ProviderStats, error) {
	return []model.ProviderStats{{ProviderID: "openrouter", Requests: int64(m.count())}}, nil
}

func (m *memoryRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.logs)
}

func TestIngestor_FlushesOnStop(t *testing.T) {
	repo := &memoryRepo{}
	ing := newIngestor(zap.NewNop(), repo, 10, 100, time.Hour)
	ing.Start(context.Background())

	ing.Log(&model.RequestLog{ID: "1"})
	ing.Log(&model.RequestLog{ID: "2"})
	ing.Stop()

	assert.Equal(t, 2, repo.count())
}

func TestIngestor_FlushesFullBatch(t *testing.T) {
	repo := &memoryRepo{}
	ing := newIngestor(zap.NewNop(), repo, 10, 2, time.Hour)
	ing.Start(context.Background())
	defer ing.Stop()

	ing.Log(&model.RequestLog{ID: "1"})
	ing.Log(&model.RequestLog{ID: "2"})

	assert.Eventually(t, func() bool { return repo.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestIngestor_FlushesOnTicker(t *testing.T) {
	repo := &memoryRepo{}
	ing := newIngestor(zap.NewNop(), repo, 10, 100, 10*time.Millisecond)
	ing.Start(context.Background())
	defer ing.Stop()

	ing.Log(&model.RequestLog{ID: "1"})

	assert.Eventually(t, func() bool { return repo.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestIngestor_DropsWhenFull(t *testing.T) {
	repo := &memoryRepo{}
	// worker not started, so nothing drains the buffer
	ing := newIngestor(zap.NewNop(), repo, 1, 100, time.Hour)

	ing.Log(&model.RequestLog{ID: "1"})
	ing.Log(&model.RequestLog{ID: "2"})

	assert.Len(t, ing.logChan, 1)
}

func TestIngestor_LogAfterStopIsIgnored(t *testing.T) {
	repo := &memoryRepo{}
	ing := newIngestor(zap.NewNop(), repo, 10, 100, time.Hour)
	ing.Start(context.Background())
	ing.Stop()

	require.NotPanics(t, func() { ing.Log(&model.RequestLog{ID: "late"}) })
	ing.Stop()
	assert.Equal(t, 0, repo.count())
}

func TestIngestor_ContextCancelDrains(t *testing.T) {
	repo := &memoryRepo{}
	ing := newIngestor(zap.NewNop(), repo, 10, 100, time.Hour)
	ing.Log(&model.RequestLog{ID: "1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ing.Start(ctx)

	assert.Eventually(t, func() bool { return repo.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestService_RecentClampsLimit(t *testing.T) {
	repo := &memoryRepo{}
	for i := 0; i < 3; i++ {
		_ = repo.Log(context.Background(), &model.RequestLog{ID: string(rune('a' + i))})
	}
	svc := NewService(repo)

	logs, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, logs, 3)
	assert.Equal(t, "c", logs[0].ID)

	logs, err = svc.Recent(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	stats, err := svc.ProviderStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats[0].Requests)
}
