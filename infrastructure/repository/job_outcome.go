package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/database/postgres"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

//go:generate mockgen -source=job_outcome.go -destination=mocks/job_outcome.go -package=mocks

const jobOutcomeTable = "job_outcome_log"

// JobOutcomeRepository mantém uma linha por job id, atualizada a cada tentativa
type JobOutcomeRepository interface {
	// Start marca o job como processing e retorna o número da tentativa atual
	Start(ctx context.Context, outcome *domain.JobOutcome) (int, error)
	Finish(ctx context.Context, outcome *domain.JobOutcome) error
	Get(ctx context.Context, jobID string) (*domain.JobOutcome, error)
	List(ctx context.Context, filter domain.JobOutcomeFilter) ([]*domain.JobOutcome, error)
	CountByStatus(ctx context.Context) (map[domain.JobStatus]int, error)
}

type jobOutcomeRepository struct {
	conn *postgres.Connection
}

func NewJobOutcomeRepository(conn *postgres.Connection) JobOutcomeRepository {
	return &jobOutcomeRepository{conn: conn}
}

func buildOutcomeStart(o *domain.JobOutcome) (string, []interface{}, error) {
	return squirrel.StatementBuilder.
		Insert(jobOutcomeTable).
		Columns(
			"job_id",
			"job_type",
			"customer_id",
			"status",
			"attempt_number",
			"enqueued_at",
			"started_at",
			"updated_at",
		).
		Values(
			o.JobID,
			string(o.JobType),
			o.CustomerID,
			string(domain.JobStatusProcessing),
			1,
			o.EnqueuedAt,
			o.StartedAt,
			o.StartedAt,
		).
		Suffix(`
			ON CONFLICT (job_id) DO UPDATE SET
				status = EXCLUDED.status,
				attempt_number = CASE
					WHEN job_outcome_log.status IN ('completed', 'failed') THEN 1
					ELSE job_outcome_log.attempt_number + 1
				END,
				enqueued_at = EXCLUDED.enqueued_at,
				started_at = EXCLUDED.started_at,
				completed_at = NULL,
				duration_ms = 0,
				error_message = NULL,
				next_retry_at = NULL,
				updated_at = EXCLUDED.updated_at
			RETURNING attempt_number
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (r *jobOutcomeRepository) Start(ctx context.Context, outcome *domain.JobOutcome) (int, error) {
	query, args, err := buildOutcomeStart(outcome)
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var attempt int
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&attempt); err != nil {
		return 0, wrapPQError("erro ao registrar início do job", err)
	}

	return attempt, nil
}

func buildOutcomeFinish(o *domain.JobOutcome) (string, []interface{}, error) {
	return squirrel.StatementBuilder.
		Insert(jobOutcomeTable).
		Columns(
			"job_id",
			"job_type",
			"customer_id",
			"status",
			"attempt_number",
			"enqueued_at",
			"started_at",
			"completed_at",
			"duration_ms",
			"entity_count",
			"api_calls",
			"error_message",
			"next_retry_at",
			"updated_at",
		).
		Values(
			o.JobID,
			string(o.JobType),
			o.CustomerID,
			string(o.Status),
			o.AttemptNumber,
			o.EnqueuedAt,
			o.StartedAt,
			nullTime(o.CompletedAt),
			o.DurationMs,
			o.EntityCount,
			o.APICalls,
			nullString(o.ErrorMessage),
			nullTime(o.NextRetryAt),
			o.UpdatedAt,
		).
		Suffix(`
			ON CONFLICT (job_id) DO UPDATE SET
				status = EXCLUDED.status,
				completed_at = EXCLUDED.completed_at,
				duration_ms = EXCLUDED.duration_ms,
				entity_count = EXCLUDED.entity_count,
				api_calls = EXCLUDED.api_calls,
				error_message = EXCLUDED.error_message,
				next_retry_at = EXCLUDED.next_retry_at,
				updated_at = EXCLUDED.updated_at
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (r *jobOutcomeRepository) Finish(ctx context.Context, outcome *domain.JobOutcome) error {
	query, args, err := buildOutcomeFinish(outcome)
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return wrapPQError("erro ao registrar resultado do job", err)
	}

	return nil
}

var outcomeColumns = []string{
	"job_id",
	"job_type",
	"customer_id",
	"status",
	"attempt_number",
	"enqueued_at",
	"started_at",
	"completed_at",
	"duration_ms",
	"entity_count",
	"api_calls",
	"COALESCE(error_message, '')",
	"next_retry_at",
	"updated_at",
}

func (r *jobOutcomeRepository) Get(ctx context.Context, jobID string) (*domain.JobOutcome, error) {
	query, args, err := squirrel.
		Select(outcomeColumns...).
		From(jobOutcomeTable).
		Where(squirrel.Eq{"job_id": jobID}).
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

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
		}
		return nil, ErrNotFound
	}

	return scanOutcome(rows)
}

func (r *jobOutcomeRepository) List(ctx context.Context, filter domain.JobOutcomeFilter) ([]*domain.JobOutcome, error) {
	builder := squirrel.
		Select(outcomeColumns...).
		From(jobOutcomeTable).
		OrderBy("updated_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.CustomerID != "" {
		builder = builder.Where(squirrel.Eq{"customer_id": filter.CustomerID})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	outcomes := make([]*domain.JobOutcome, 0)
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear resultado de job: %w", err)
		}
		outcomes = append(outcomes, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return outcomes, nil
}

func (r *jobOutcomeRepository) CountByStatus(ctx context.Context) (map[domain.JobStatus]int, error) {
	query, args, err := squirrel.
		Select("status", "COUNT(*)").
		From(jobOutcomeTable).
		GroupBy("status").
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

	counts := make(map[domain.JobStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("erro ao escanear contagem: %w", err)
		}
		counts[domain.JobStatus(status)] = count
	}

	return counts, rows.Err()
}

func scanOutcome(rows *sql.Rows) (*domain.JobOutcome, error) {
	o := &domain.JobOutcome{}
	var jobType, status string
	var enqueuedAt, completedAt, nextRetryAt sql.NullTime

	err := rows.Scan(
		&o.JobID,
		&jobType,
		&o.CustomerID,
		&status,
		&o.AttemptNumber,
		&enqueuedAt,
		&o.StartedAt,
		&completedAt,
		&o.DurationMs,
		&o.EntityCount,
		&o.APICalls,
		&o.ErrorMessage,
		&nextRetryAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.JobType = domain.JobType(jobType)
	o.Status = domain.JobStatus(status)
	if enqueuedAt.Valid {
		o.EnqueuedAt = enqueuedAt.Time
	}
	if completedAt.Valid {
		o.CompletedAt = &completedAt.Time
	}
	if nextRetryAt.Valid {
		o.NextRetryAt = &nextRetryAt.Time
	}

	return o, nil
}
