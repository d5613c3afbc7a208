// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/database/postgres"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

//go:generate mockgen -source=metrics_store.go -destination=mocks/metrics_store.go -package=mocks

const (
	metricsFactsTable    = "metrics_facts"
	entityHierarchyTable = "entity_hierarchy"
)

// MetricsRepository persiste fatos de métricas e a hierarquia de entidades
type MetricsRepository interface {
	SaveBatch(ctx context.Context, facts []*domain.MetricsFact, entities []*domain.EntityHierarchy) error
	GetFact(ctx context.Context, key domain.FactKey) (*domain.MetricsFact, error)
	SumEntityMetrics(ctx context.Context, customerID string, entityType domain.EntityType, entityID, startDate, endDate string) (*domain.MetricTotals, error)
	SumChildMetrics(ctx context.Context, customerID string, childType domain.EntityType, parentID, startDate, endDate string) (*domain.MetricTotals, error)
}

// HierarchyRepository consulta a tabela desnormalizada de hierarquia
type HierarchyRepository interface {
	Get(ctx context.Context, customerID string, entityType domain.EntityType, entityID string) (*domain.EntityHierarchy, error)
	ListRecentlyUpdated(ctx context.Context, customerID string, entityType domain.EntityType, status string, limit int) ([]*domain.EntityHierarchy, error)
	ListCustomers(ctx context.Context) ([]domain.CustomerRef, error)
}

type metricsRepository struct {
	conn *postgres.Connection
}

func NewMetricsRepository(conn *postgres.Connection) MetricsRepository {
	return &metricsRepository{conn: conn}
}

// SaveBatch grava fatos e hierarquia em uma única transação. Os dois upserts são
// last-write-wins sobre a chave natural, então repetir o lote não altera o estado final.
func (r *metricsRepository) SaveBatch(ctx context.Context, facts []*domain.MetricsFact, entities []*domain.EntityHierarchy) error {
	facts = dedupeFacts(facts)
	entities = dedupeEntities(entities)

	if len(facts) == 0 && len(entities) == 0 {
		return nil
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, b := range chunkBounds(len(facts), maxRowsPerStatement) {
			query, args, err := buildFactUpsert(facts[b[0]:b[1]])
			if err != nil {
				return fmt.Errorf("erro ao construir upsert de métricas: %w", err)
			}

			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return wrapPQError("erro ao gravar métricas", err)
			}
		}

		for _, b := range chunkBounds(len(entities), maxRowsPerStatement) {
			query, args, err := buildHierarchyUpsert(entities[b[0]:b[1]])
			if err != nil {
				return fmt.Errorf("erro ao construir upsert de hierarquia: %w", err)
			}

			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return wrapPQError("erro ao gravar hierarquia", err)
			}
		}

		return nil
	})
}

func buildFactUpsert(facts []*domain.MetricsFact) (string, []interface{}, error) {
	query := squirrel.StatementBuilder.
		Insert(metricsFactsTable).
		Columns(
			"customer_id",
			"entity_type",
			"entity_id",
			"date",
			"impressions",
			"clicks",
			"cost_micros",
			"conversions",
			"conversions_value",
			"ctr",
			"average_cpc",
			"parent_entity_type",
			"parent_entity_id",
			"data_freshness",
			"account_id",
			"synced_at",
		).
		PlaceholderFormat(squirrel.Dollar)

	for _, f := range facts {
		query = query.Values(
			f.CustomerID,
			string(f.EntityType),
			f.EntityID,
			f.Date,
			f.Impressions,
			f.Clicks,
			f.CostMicros,
			f.Conversions,
			f.ConversionsValue,
			f.CTR,
			f.AverageCPC,
			nullString(string(f.ParentEntityType)),
			nullString(f.ParentEntityID),
			string(f.DataFreshness),
			nullString(f.AccountID),
			f.SyncedAt,
		)
	}

	return query.Suffix(`
		ON CONFLICT (customer_id, entity_type, entity_id, date) DO UPDATE SET
			impressions = EXCLUDED.impressions,
			clicks = EXCLUDED.clicks,
			cost_micros = EXCLUDED.cost_micros,
			conversions = EXCLUDED.conversions,
			conversions_value = EXCLUDED.conversions_value,
			ctr = EXCLUDED.ctr,
			average_cpc = EXCLUDED.average_cpc,
			parent_entity_type = EXCLUDED.parent_entity_type,
			parent_entity_id = EXCLUDED.parent_entity_id,
			data_freshness = EXCLUDED.data_freshness,
			account_id = EXCLUDED.account_id,
			synced_at = EXCLUDED.synced_at
	`).ToSql()
}

func buildHierarchyUpsert(entities []*domain.EntityHierarchy) (string, []interface{}, error) {
	query := squirrel.StatementBuilder.
		Insert(entityHierarchyTable).
		Columns(
			"customer_id",
			"entity_type",
			"entity_id",
			"entity_name",
			"status",
			"parent_entity_type",
			"parent_entity_id",
			"campaign_type",
			"last_updated",
		).
		PlaceholderFormat(squirrel.Dollar)

	for _, e := range entities {
		query = query.Values(
			e.CustomerID,
			string(e.EntityType),
			e.EntityID,
			e.EntityName,
			e.Status,
			nullString(string(e.ParentEntityType)),
			nullString(e.ParentEntityID),
			nullString(e.CampaignType),
			e.LastUpdated,
		)
	}

	return query.Suffix(`
		ON CONFLICT (customer_id, entity_type, entity_id) DO UPDATE SET
			entity_name = EXCLUDED.entity_name,
			status = EXCLUDED.status,
			parent_entity_type = EXCLUDED.parent_entity_type,
			parent_entity_id = EXCLUDED.parent_entity_id,
			campaign_type = COALESCE(EXCLUDED.campaign_type, entity_hierarchy.campaign_type),
			last_updated = EXCLUDED.last_updated
	`).ToSql()
}

func (r *metricsRepository) GetFact(ctx context.Context, key domain.FactKey) (*domain.MetricsFact, error) {
	query, args, err := squirrel.
		Select(
			"customer_id", "entity_type", "entity_id", "to_char(date, 'YYYY-MM-DD')",
			"impressions", "clicks", "cost_micros", "conversions", "conversions_value",
			"ctr", "average_cpc", "COALESCE(parent_entity_type, '')", "COALESCE(parent_entity_id, '')",
			"data_freshness", "COALESCE(account_id, '')", "synced_at",
		).
		From(metricsFactsTable).
		Where(squirrel.Eq{
			"customer_id": key.CustomerID,
			"entity_type": string(key.EntityType),
			"entity_id":   key.EntityID,
			"date":        key.Date,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	f := &domain.MetricsFact{}
	var entityType, parentType, freshness string

	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&f.CustomerID,
		&entityType,
		&f.EntityID,
		&f.Date,
		&f.Impressions,
		&f.Clicks,
		&f.CostMicros,
		&f.Conversions,
		&f.ConversionsValue,
		&f.CTR,
		&f.AverageCPC,
		&parentType,
		&f.ParentEntityID,
		&freshness,
		&f.AccountID,
		&f.SyncedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("erro ao escanear métrica: %w", err)
	}

	f.EntityType = domain.EntityType(entityType)
	f.ParentEntityType = domain.EntityType(parentType)
	f.DataFreshness = domain.DataFreshness(freshness)

	return f, nil
}

func (r *metricsRepository) SumEntityMetrics(ctx context.Context, customerID string, entityType domain.EntityType, entityID, startDate, endDate string) (*domain.MetricTotals, error) {
	query, args, err := buildSumQuery(squirrel.Eq{
		"customer_id": customerID,
		"entity_type": string(entityType),
		"entity_id":   entityID,
	}, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.scanTotals(ctx, query, args)
}

func (r *metricsRepository) SumChildMetrics(ctx context.Context, customerID string, childType domain.EntityType, parentID, startDate, endDate string) (*domain.MetricTotals, error) {
	query, args, err := buildSumQuery(squirrel.Eq{
		"customer_id":      customerID,
		"entity_type":      string(childType),
		"parent_entity_id": parentID,
	}, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.scanTotals(ctx, query, args)
}

func buildSumQuery(filter squirrel.Eq, startDate, endDate string) (string, []interface{}, error) {
	return squirrel.
		Select(
			"COALESCE(SUM(cost_micros), 0)",
			"COALESCE(SUM(clicks), 0)",
			"COALESCE(SUM(impressions), 0)",
			"COALESCE(SUM(conversions), 0)",
			"COUNT(*)",
		).
		From(metricsFactsTable).
		Where(filter).
		Where(squirrel.GtOrEq{"date": startDate}).
		Where(squirrel.LtOrEq{"date": endDate}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (r *metricsRepository) scanTotals(ctx context.Context, query string, args []interface{}) (*domain.MetricTotals, error) {
	var costMicros int64
	totals := &domain.MetricTotals{}

	err := r.conn.QueryRow(ctx, query, args...).Scan(
		&costMicros,
		&totals.Clicks,
		&totals.Impressions,
		&totals.Conversions,
		&totals.Rows,
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao agregar métricas: %w", err)
	}

	totals.Spend = domain.MicrosToUnits(costMicros)
	return totals, nil
}

type hierarchyRepository struct {
	conn *postgres.Connection
}

func NewHierarchyRepository(conn *postgres.Connection) HierarchyRepository {
	return &hierarchyRepository{conn: conn}
}

var hierarchyColumns = []string{
	"customer_id",
	"entity_type",
	"entity_id",
	"entity_name",
	"status",
	"COALESCE(parent_entity_type, '')",
	"COALESCE(parent_entity_id, '')",
	"COALESCE(campaign_type, '')",
	"last_updated",
}

func (r *hierarchyRepository) Get(ctx context.Context, customerID string, entityType domain.EntityType, entityID string) (*domain.EntityHierarchy, error) {
	query, args, err := squirrel.
		Select(hierarchyColumns...).
		From(entityHierarchyTable).
		Where(squirrel.Eq{
			"customer_id": customerID,
			"entity_type": string(entityType),
			"entity_id":   entityID,
		}).
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

	return scanHierarchy(rows)
}

// ListRecentlyUpdated retorna até limit entidades com o status informado,
// das atualizadas mais recentemente para as mais antigas
func (r *hierarchyRepository) ListRecentlyUpdated(ctx context.Context, customerID string, entityType domain.EntityType, status string, limit int) ([]*domain.EntityHierarchy, error) {
	query, args, err := squirrel.
		Select(hierarchyColumns...).
		From(entityHierarchyTable).
		Where(squirrel.Eq{
			"customer_id": customerID,
			"entity_type": string(entityType),
			"status":      status,
		}).
		OrderBy("last_updated DESC", "entity_id ASC").
		Limit(uint64(limit)).
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

	entities := make([]*domain.EntityHierarchy, 0, limit)
	for rows.Next() {
		e, err := scanHierarchy(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear hierarquia: %w", err)
		}
		entities = append(entities, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return entities, nil
}

// ListCustomers retorna as contas conhecidas (linhas ACCOUNT da hierarquia)
func (r *hierarchyRepository) ListCustomers(ctx context.Context) ([]domain.CustomerRef, error) {
	query, args, err := squirrel.
		Select("DISTINCT customer_id", "entity_id").
		From(entityHierarchyTable).
		Where(squirrel.Eq{"entity_type": string(domain.EntityTypeAccount)}).
		OrderBy("customer_id ASC").
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

	refs := make([]domain.CustomerRef, 0)
	for rows.Next() {
		var ref domain.CustomerRef
		if err := rows.Scan(&ref.CustomerID, &ref.AccountID); err != nil {
			return nil, fmt.Errorf("erro ao escanear conta: %w", err)
		}
		refs = append(refs, ref)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return refs, nil
}

func scanHierarchy(rows *sql.Rows) (*domain.EntityHierarchy, error) {
	e := &domain.EntityHierarchy{}
	var entityType, parentType string

	err := rows.Scan(
		&e.CustomerID,
		&entityType,
		&e.EntityID,
		&e.EntityName,
		&e.Status,
		&parentType,
		&e.ParentEntityID,
		&e.CampaignType,
		&e.LastUpdated,
	)
	if err != nil {
		return nil, err
	}

	e.EntityType = domain.EntityType(entityType)
	e.ParentEntityType = domain.EntityType(parentType)
	return e, nil
}

// dedupeFacts mantém a última ocorrência de cada chave; um INSERT ... ON CONFLICT
// não pode atualizar a mesma linha duas vezes no mesmo comando
func dedupeFacts(facts []*domain.MetricsFact) []*domain.MetricsFact {
	index := make(map[domain.FactKey]int, len(facts))
	out := make([]*domain.MetricsFact, 0, len(facts))
	for _, f := range facts {
		if i, ok := index[f.Key()]; ok {
			out[i] = f
			continue
		}
		index[f.Key()] = len(out)
		out = append(out, f)
	}
	return out
}

type entityKey struct {
	customerID string
	entityType domain.EntityType
	entityID   string
}

func dedupeEntities(entities []*domain.EntityHierarchy) []*domain.EntityHierarchy {
	index := make(map[entityKey]int, len(entities))
	out := make([]*domain.EntityHierarchy, 0, len(entities))
	for _, e := range entities {
		k := entityKey{e.CustomerID, e.EntityType, e.EntityID}
		if i, ok := index[k]; ok {
			out[i] = e
			continue
		}
		index[k] = len(out)
		out = append(out, e)
	}
	return out
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func wrapPQError(msg string, err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		return fmt.Errorf("%s: %w (código: %s)", msg, pqErr, pqErr.Code)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
