package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/database/postgres"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

//go:generate mockgen -source=worker_heartbeat.go -destination=mocks/worker_heartbeat.go -package=mocks

const workerHeartbeatsTable = "worker_heartbeats"

type WorkerHeartbeatRepository interface {
	Save(ctx context.Context, hb *domain.WorkerHeartbeat) error
	List(ctx context.Context) ([]*domain.WorkerHeartbeat, error)
}

type workerHeartbeatRepository struct {
	conn *postgres.Connection
}

func NewWorkerHeartbeatRepository(conn *postgres.Connection) WorkerHeartbeatRepository {
	return &workerHeartbeatRepository{conn: conn}
}

func (r *workerHeartbeatRepository) Save(ctx context.Context, hb *domain.WorkerHeartbeat) error {
	query, args, err := squirrel.StatementBuilder.
		Insert(workerHeartbeatsTable).
		Columns("worker_id", "hostname", "started_at", "last_seen_at", "jobs_processed").
		Values(hb.WorkerID, hb.Hostname, hb.StartedAt, hb.LastSeenAt, hb.JobsProcessed).
		Suffix(`
			ON CONFLICT (worker_id) DO UPDATE SET
				last_seen_at = EXCLUDED.last_seen_at,
				jobs_processed = EXCLUDED.jobs_processed
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return wrapPQError("erro ao gravar heartbeat", err)
	}

	return nil
}

func (r *workerHeartbeatRepository) List(ctx context.Context) ([]*domain.WorkerHeartbeat, error) {
	query, args, err := squirrel.
		Select("worker_id", "hostname", "started_at", "last_seen_at", "jobs_processed").
		From(workerHeartbeatsTable).
		OrderBy("last_seen_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	heartbeats := make([]*domain.WorkerHeartbeat, 0)
	for rows.Next() {
		hb := &domain.WorkerHeartbeat{}
		if err := rows.Scan(&hb.WorkerID, &hb.Hostname, &hb.StartedAt, &hb.LastSeenAt, &hb.JobsProcessed); err != nil {
			return nil, fmt.Errorf("erro ao escanear heartbeat: %w", err)
		}
		heartbeats = append(heartbeats, hb)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return heartbeats, nil
}
