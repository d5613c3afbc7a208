package refresh

import (
	"context"

	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

//go:generate mockgen -source=gateway.go -destination=mocks/gateway.go -package=mocks

// Gateway é a fonte externa das linhas de métricas por entidade e data
type Gateway interface {
	FetchCampaigns(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error)
	FetchAdGroups(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error)
	FetchKeywords(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error)
	FetchAds(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error)
	FetchDailyMetrics(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error)
}
