package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/database/postgres"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

//go:generate mockgen -source=mismatch_event.go -destination=mocks/mismatch_event.go -package=mocks

const mismatchEventsTable = "hierarchy_mismatch_events"

// MismatchEventRepository é o histórico append-only de divergências de hierarquia
type MismatchEventRepository interface {
	InsertBatch(ctx context.Context, events []*domain.HierarchyMismatchEvent) error
	List(ctx context.Context, filter domain.MismatchEventFilter) ([]*domain.HierarchyMismatchEvent, error)
	Acknowledge(ctx context.Context, id string) error
	DeleteAcknowledgedOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type mismatchEventRepository struct {
	conn *postgres.Connection
}

func NewMismatchEventRepository(conn *postgres.Connection) MismatchEventRepository {
	return &mismatchEventRepository{conn: conn}
}

func buildMismatchInsert(events []*domain.HierarchyMismatchEvent) (string, []interface{}, error) {
	query := squirrel.StatementBuilder.
		Insert(mismatchEventsTable).
		Columns(
			"id",
			"customer_id",
			"trigger_type",
			"start_date",
			"end_date",
			"timezone",
			"entity_type",
			"entity_id",
			"entity_name",
			"metric",
			"parent_value",
			"child_sum",
			"absolute_diff",
			"variance_percent",
			"severity",
			"sampled_entities",
			"sample_rate",
			"acknowledged",
			"created_at",
		).
		PlaceholderFormat(squirrel.Dollar)

	for _, e := range events {
		query = query.Values(
			e.ID,
			e.CustomerID,
			string(e.Trigger),
			e.StartDate,
			e.EndDate,
			e.Timezone,
			string(e.EntityType),
			e.EntityID,
			e.EntityName,
			e.Metric,
			e.ParentValue,
			e.ChildSum,
			e.AbsoluteDiff,
			e.VariancePercent,
			string(e.Severity),
			e.SampledEntities,
			e.SampleRate,
			e.Acknowledged,
			e.CreatedAt,
		)
	}

	return query.ToSql()
}

func (r *mismatchEventRepository) InsertBatch(ctx context.Context, events []*domain.HierarchyMismatchEvent) error {
	if len(events) == 0 {
		return nil
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, b := range chunkBounds(len(events), maxRowsPerStatement) {
			query, args, err := buildMismatchInsert(events[b[0]:b[1]])
			if err != nil {
				return fmt.Errorf("erro ao construir insert de divergências: %w", err)
			}

			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return wrapPQError("erro ao gravar divergências", err)
			}
		}
		return nil
	})
}

func buildMismatchList(filter domain.MismatchEventFilter, now time.Time) (string, []interface{}, error) {
	builder := squirrel.
		Select(
			"id",
			"customer_id",
			"trigger_type",
			"to_char(start_date, 'YYYY-MM-DD')",
			"to_char(end_date, 'YYYY-MM-DD')",
			"timezone",
			"entity_type",
			"entity_id",
			"entity_name",
			"metric",
			"parent_value",
			"child_sum",
			"absolute_diff",
			"variance_percent",
			"severity",
			"sampled_entities",
			"sample_rate",
			"acknowledged",
			"created_at",
		).
		From(mismatchEventsTable).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.CustomerID != "" {
		builder = builder.Where(squirrel.Eq{"customer_id": filter.CustomerID})
	}
	if filter.Days > 0 {
		builder = builder.Where(squirrel.GtOrEq{"created_at": now.AddDate(0, 0, -filter.Days)})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	return builder.ToSql()
}

func (r *mismatchEventRepository) List(ctx context.Context, filter domain.MismatchEventFilter) ([]*domain.HierarchyMismatchEvent, error) {
	query, args, err := buildMismatchList(filter, time.Now())
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.HierarchyMismatchEvent, 0)
	for rows.Next() {
		e := &domain.HierarchyMismatchEvent{}
		var trigger, entityType, severity string

		err := rows.Scan(
			&e.ID,
			&e.CustomerID,
			&trigger,
			&e.StartDate,
			&e.EndDate,
			&e.Timezone,
			&entityType,
			&e.EntityID,
			&e.EntityName,
			&e.Metric,
			&e.ParentValue,
			&e.ChildSum,
			&e.AbsoluteDiff,
			&e.VariancePercent,
			&severity,
			&e.SampledEntities,
			&e.SampleRate,
			&e.Acknowledged,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear divergência: %w", err)
		}

		e.Trigger = domain.MismatchTrigger(trigger)
		e.EntityType = domain.EntityType(entityType)
		e.Severity = domain.Severity(severity)
		events = append(events, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return events, nil
}

func (r *mismatchEventRepository) Acknowledge(ctx context.Context, id string) error {
	query, args, err := squirrel.
		Update(mismatchEventsTable).
		Set("acknowledged", true).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return wrapPQError("erro ao reconhecer divergência", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao obter linhas afetadas: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteAcknowledgedOlderThan remove apenas eventos já reconhecidos
func (r *mismatchEventRepository) DeleteAcknowledgedOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := squirrel.
		Delete(mismatchEventsTable).
		Where(squirrel.Eq{"acknowledged": true}).
		Where(squirrel.Lt{"created_at": cutoff}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return 0, wrapPQError("erro ao remover divergências antigas", err)
	}

	return result.RowsAffected()
}
