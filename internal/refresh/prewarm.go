package refresh

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

// PrewarmObserver acompanha o progresso da carga de ad groups de uma campanha.
// Falhas do observador nunca alteram o resultado do job.
type PrewarmObserver interface {
	PrewarmStarted(ctx context.Context, customerID, campaignID string)
	PrewarmCompleted(ctx context.Context, customerID, campaignID string)
	PrewarmFailed(ctx context.Context, customerID, campaignID string, cause error)
}

type nopPrewarmObserver struct{}

func (nopPrewarmObserver) PrewarmStarted(context.Context, string, string)       {}
func (nopPrewarmObserver) PrewarmCompleted(context.Context, string, string)     {}
func (nopPrewarmObserver) PrewarmFailed(context.Context, string, string, error) {}

// StatusPrewarmObserver grava o progresso em PrewarmStatusRepository
type StatusPrewarmObserver struct {
	repo repository.PrewarmStatusRepository
	now  func() time.Time
}

func NewStatusPrewarmObserver(repo repository.PrewarmStatusRepository) *StatusPrewarmObserver {
	return &StatusPrewarmObserver{repo: repo, now: time.Now}
}

func (o *StatusPrewarmObserver) PrewarmStarted(ctx context.Context, customerID, campaignID string) {
	o.set(ctx, customerID, campaignID, domain.PrewarmStateRunning, "")
}

func (o *StatusPrewarmObserver) PrewarmCompleted(ctx context.Context, customerID, campaignID string) {
	o.set(ctx, customerID, campaignID, domain.PrewarmStateCompleted, "")
}

func (o *StatusPrewarmObserver) PrewarmFailed(ctx context.Context, customerID, campaignID string, cause error) {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	o.set(ctx, customerID, campaignID, domain.PrewarmStateFailed, msg)
}

func (o *StatusPrewarmObserver) set(ctx context.Context, customerID, campaignID string, state domain.PrewarmState, msg string) {
	err := o.repo.SetState(ctx, &domain.PrewarmStatus{
		CustomerID:   customerID,
		CampaignID:   campaignID,
		State:        state,
		ErrorMessage: msg,
		UpdatedAt:    o.now().UTC(),
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"customer_id": customerID,
			"campaign_id": campaignID,
			"state":       state,
			"error":       err.Error(),
		}).Warn("refresh: erro ao gravar status de pré-aquecimento")
	}
}
