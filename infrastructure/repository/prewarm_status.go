package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/database/postgres"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

//go:generate mockgen -source=prewarm_status.go -destination=mocks/prewarm_status.go -package=mocks

const prewarmStatusTable = "prewarm_status"

// PrewarmStatusRepository guarda o progresso do pré-aquecimento de ad groups por campanha
type PrewarmStatusRepository interface {
	SetState(ctx context.Context, status *domain.PrewarmStatus) error
	Get(ctx context.Context, customerID, campaignID string) (*domain.PrewarmStatus, error)
}

type prewarmStatusRepository struct {
	conn *postgres.Connection
}

func NewPrewarmStatusRepository(conn *postgres.Connection) PrewarmStatusRepository {
	return &prewarmStatusRepository{conn: conn}
}

func (r *prewarmStatusRepository) SetState(ctx context.Context, status *domain.PrewarmStatus) error {
	query, args, err := squirrel.StatementBuilder.
		Insert(prewarmStatusTable).
		Columns("customer_id", "campaign_id", "state", "error_message", "updated_at").
		Values(status.CustomerID, status.CampaignID, string(status.State), nullString(status.ErrorMessage), status.UpdatedAt).
		Suffix(`
			ON CONFLICT (customer_id, campaign_id) DO UPDATE SET
				state = EXCLUDED.state,
				error_message = EXCLUDED.error_message,
				updated_at = EXCLUDED.updated_at
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return wrapPQError("erro ao gravar status de pré-aquecimento", err)
	}

	return nil
}

func (r *prewarmStatusRepository) Get(ctx context.Context, customerID, campaignID string) (*domain.PrewarmStatus, error) {
	query, args, err := squirrel.
		Select("customer_id", "campaign_id", "state", "COALESCE(error_message, '')", "updated_at").
		From(prewarmStatusTable).
		Where(squirrel.Eq{"customer_id": customerID, "campaign_id": campaignID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	status := &domain.PrewarmStatus{}
	var state string

	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&status.CustomerID,
		&status.CampaignID,
		&state,
		&status.ErrorMessage,
		&status.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("erro ao escanear status de pré-aquecimento: %w", err)
	}

	status.State = domain.PrewarmState(state)
	return status, nil
}
