// Package pgqueue implementa o transporte de jobs sobre a tabela refresh_jobs.
// Workers disputam jobs com FOR UPDATE SKIP LOCKED, sem locks distribuídos.
package pgqueue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/database/postgres"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
	"github.com/vfg2006/ads-metrics-refresh/internal/queue"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const jobsTable = "refresh_jobs"

type Transport struct {
	conn     *postgres.Connection
	workerID string
	now      func() time.Time
}

var (
	_ queue.Transport  = (*Transport)(nil)
	_ queue.Maintainer = (*Transport)(nil)
)

func NewTransport(conn *postgres.Connection, workerID string) *Transport {
	return &Transport{
		conn:     conn,
		workerID: workerID,
		now:      time.Now,
	}
}

func buildEnqueue(id string, job domain.RefreshJob, payload []byte, now time.Time) (string, []interface{}, error) {
	return squirrel.StatementBuilder.
		Insert(jobsTable).
		Columns("id", "job_type", "payload", "priority", "status", "attempts", "run_at", "enqueued_at", "updated_at").
		Values(id, string(job.Type), string(payload), job.Priority, queue.StatusPending, 0, now, job.EnqueuedAt, now).
		Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				payload = EXCLUDED.payload,
				priority = EXCLUDED.priority,
				status = EXCLUDED.status,
				attempts = 0,
				run_at = EXCLUDED.run_at,
				locked_by = NULL,
				locked_at = NULL,
				last_error = NULL,
				enqueued_at = EXCLUDED.enqueued_at,
				updated_at = EXCLUDED.updated_at
			WHERE refresh_jobs.status IN ('completed', 'failed')
			RETURNING id
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// Enqueue insere o job ou o reativa se a execução anterior já terminou.
// Um id pendente ou em execução não é alterado.
func (t *Transport) Enqueue(ctx context.Context, id string, job domain.RefreshJob) (bool, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return false, fmt.Errorf("erro ao serializar job: %w", err)
	}

	query, args, err := buildEnqueue(id, job, payload, t.now())
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var returned string
	err = t.conn.QueryRow(ctx, query, args...).Scan(&returned)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("erro ao enfileirar job: %w", err)
	}

	return true, nil
}

func buildClaim(workerID string, now time.Time) (string, []interface{}, error) {
	next, nextArgs, err := squirrel.
		Select("id").
		From(jobsTable).
		Where(squirrel.Eq{"status": queue.StatusPending}).
		Where(squirrel.LtOrEq{"run_at": now}).
		OrderBy("priority ASC", "run_at ASC", "enqueued_at ASC").
		Limit(1).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return "", nil, err
	}

	return squirrel.
		Update(jobsTable).
		Set("status", queue.StatusActive).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("locked_by", workerID).
		Set("locked_at", now).
		Set("updated_at", now).
		Where(squirrel.Expr("id = ("+next+")", nextArgs...)).
		Suffix("RETURNING id, payload, attempts").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (t *Transport) Receive(ctx context.Context) (*queue.Delivery, error) {
	query, args, err := buildClaim(t.workerID, t.now())
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var (
		id      string
		payload []byte
		attempt int
	)

	err = t.conn.QueryRow(ctx, query, args...).Scan(&id, &payload, &attempt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, queue.ErrQueueEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar próximo job: %w", err)
	}

	var job domain.RefreshJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, fmt.Errorf("erro ao desserializar job %s: %w", id, err)
	}

	return &queue.Delivery{ID: id, Job: job, Attempt: attempt}, nil
}

func (t *Transport) Ack(ctx context.Context, d *queue.Delivery) error {
	return t.release(ctx, d, map[string]interface{}{"status": queue.StatusCompleted}, nil)
}

func (t *Transport) Fail(ctx context.Context, d *queue.Delivery, cause error) error {
	return t.release(ctx, d, map[string]interface{}{"status": queue.StatusFailed}, cause)
}

func (t *Transport) Retry(ctx context.Context, d *queue.Delivery, delay time.Duration, cause error) error {
	return t.release(ctx, d, map[string]interface{}{
		"status": queue.StatusPending,
		"run_at": t.now().Add(delay),
	}, cause)
}

// release devolve o lock do job; só o worker que o reivindicou pode alterá-lo
func (t *Transport) release(ctx context.Context, d *queue.Delivery, set map[string]interface{}, cause error) error {
	builder := squirrel.
		Update(jobsTable).
		SetMap(set).
		Set("locked_by", nil).
		Set("locked_at", nil).
		Set("updated_at", t.now()).
		Where(squirrel.Eq{"id": d.ID, "locked_by": t.workerID}).
		PlaceholderFormat(squirrel.Dollar)

	if cause != nil {
		builder = builder.Set("last_error", cause.Error())
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := t.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("erro ao atualizar job %s: %w", d.ID, err)
	}

	return nil
}

func buildStats(now time.Time) (string, []interface{}, error) {
	return squirrel.
		Select().
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = 'pending' AND run_at <= ?)", now)).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = 'pending' AND run_at > ?)", now)).
		Column("COUNT(*) FILTER (WHERE status = 'active')").
		Column("COUNT(*) FILTER (WHERE status = 'completed')").
		Column("COUNT(*) FILTER (WHERE status = 'failed')").
		From(jobsTable).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (t *Transport) Stats(ctx context.Context) (*queue.Stats, error) {
	query, args, err := buildStats(t.now())
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	stats := &queue.Stats{}
	err = t.conn.QueryRow(ctx, query, args...).Scan(
		&stats.Pending,
		&stats.Delayed,
		&stats.Active,
		&stats.Completed,
		&stats.Failed,
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao consultar estatísticas da fila: %w", err)
	}

	return stats, nil
}

// RequeueStale devolve para a fila jobs ativos cujo worker parou de responder
func (t *Transport) RequeueStale(ctx context.Context, visibilityTimeout time.Duration) (int64, error) {
	now := t.now()
	query, args, err := squirrel.
		Update(jobsTable).
		Set("status", queue.StatusPending).
		Set("run_at", now).
		Set("locked_by", nil).
		Set("locked_at", nil).
		Set("updated_at", now).
		Where(squirrel.Eq{"status": queue.StatusActive}).
		Where(squirrel.Lt{"locked_at": now.Add(-visibilityTimeout)}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := t.conn.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao recuperar jobs travados: %w", err)
	}

	return result.RowsAffected()
}

func (t *Transport) PurgeFinished(ctx context.Context, olderThan time.Time) (int64, error) {
	query, args, err := squirrel.
		Delete(jobsTable).
		Where(squirrel.Eq{"status": []string{queue.StatusCompleted, queue.StatusFailed}}).
		Where(squirrel.Lt{"updated_at": olderThan}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := t.conn.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao remover jobs finalizados: %w", err)
	}

	return result.RowsAffected()
}
