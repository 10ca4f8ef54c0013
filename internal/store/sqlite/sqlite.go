package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Sahiljangra115/Aurora-chat/internal/store"
	"github.com/Sahiljangra115/Aurora-chat/internal/store/model"
)

// DB is the query surface the request log needs from *sqlx.DB.
type DB interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository
type SqliteRepository struct {
	db *sqlx.DB
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{db: db}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) Requests() store.RequestRepository {
	return &requestRepo{db: r.db}
}

type requestRepo struct {
	db DB
}

func (r *requestRepo) Log(ctx context.Context, log *model.RequestLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO request_logs (
		id, provider_id, provider_kind, model_id, outcome, error_message,
		latency_ms, response_chars, history_length,
		prompt_tokens, completion_tokens, created_at
	) VALUES (
		:id, :provider_id, :provider_kind, :model_id, :outcome, :error_message,
		:latency_ms, :response_chars, :history_length,
		:prompt_tokens, :completion_tokens, :created_at
	)`
	_, err := r.db.NamedExecContext(ctx, query, log)
	return err
}

func (r *requestRepo) GetRecent(ctx context.Context, limit int) ([]model.RequestLog, error) {
	logs := []model.RequestLog{}
	query := `SELECT * FROM request_logs ORDER BY created_at DESC LIMIT ?`
	if err := r.db.SelectContext(ctx, &logs, query, limit); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *requestRepo) GetProviderStats(ctx context.Context) ([]model.ProviderStats, error) {
	stats := []model.ProviderStats{}
	query := `
		SELECT
			provider_id,
			COUNT(*) AS requests,
			SUM(CASE WHEN outcome != 'ok' THEN 1 ELSE 0 END) AS failures,
			COALESCE(AVG(latency_ms), 0) AS avg_latency_ms,
			COALESCE(SUM(completion_tokens), 0) AS completion_tokens
		FROM request_logs
		GROUP BY provider_id
		ORDER BY requests DESC, provider_id ASC
	`
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, err
	}
	return stats, nil
}
