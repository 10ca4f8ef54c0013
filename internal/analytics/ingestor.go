package analytics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Sahiljangra115/Aurora-chat/internal/store"
	"github.com/Sahiljangra115/Aurora-chat/internal/store/model"
)

const (
	defaultBufferSize = 10000
	defaultBatchSize  = 50
	defaultFlushTime  = 5 * time.Second
)

// Ingestor handles the asynchronous persistence of request logs.
type Ingestor interface {
	Log(log *model.RequestLog)
	Start(ctx context.Context)
	Stop()
}

type ingestor struct {
	logger    *zap.Logger
	repo      store.Repository
	logChan   chan *model.RequestLog
	batchSize int
	flushTime time.Duration

	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
}

func NewIngestor(logger *zap.Logger, repo store.Repository) Ingestor {
	return newIngestor(logger, repo, defaultBufferSize, defaultBatchSize, defaultFlushTime)
}

func newIngestor(logger *zap.Logger, repo store.Repository, buffer, batchSize int, flushTime time.Duration) *ingestor {
	return &ingestor{
		logger:    logger,
		repo:      repo,
		logChan:   make(chan *model.RequestLog, buffer),
		batchSize: batchSize,
		flushTime: flushTime,
		done:      make(chan struct{}),
	}
}

// Log enqueues without blocking. Entries are dropped when the buffer is full
// or the ingestor has been stopped.
func (i *ingestor) Log(log *model.RequestLog) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.stopped {
		return
	}

	select {
	case i.logChan <- log:
	default:
		i.logger.Warn("Analytics buffer full, dropping log", zap.String("request_id", log.ID))
	}
}

func (i *ingestor) Start(ctx context.Context) {
	go i.worker(ctx)
}

// Stop closes the queue and waits for the worker to flush what is left.
func (i *ingestor) Stop() {
	i.mu.Lock()
	if i.stopped {
		i.mu.Unlock()
		return
	}
	i.stopped = true
	close(i.logChan)
	i.mu.Unlock()

	<-i.done
}

func (i *ingestor) worker(ctx context.Context) {
	defer close(i.done)

	batch := make([]*model.RequestLog, 0, i.batchSize)
	ticker := time.NewTicker(i.flushTime)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		for _, log := range batch {
			if err := i.repo.Requests().Log(context.Background(), log); err != nil {
				i.logger.Error("Failed to persist request log", zap.String("id", log.ID), zap.Error(err))
			}
		}
		batch = batch[:0]
	}

	for {
		select {
		case log, ok := <-i.logChan:
			if !ok {
				flush()
				return
			}
			batch = append(batch, log)
			if len(batch) >= i.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			// drain whatever is already queued before exiting
			for {
				select {
				case log, ok := <-i.logChan:
					if !ok {
						flush()
						return
					}
					batch = append(batch, log)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Noop discards every log. Used when analytics is disabled.
type Noop struct{}

func (Noop) Log(*model.RequestLog) {}

func (Noop) Start(context.Context) {}

func (Noop) Stop() {}
