package ads

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/integrator/ads/adsdomain"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

// Recursos de relatório expostos pela API
const (
	resourceCampaigns    = "campaigns"
	resourceAdGroups     = "ad_groups"
	resourceKeywords     = "keywords"
	resourceAds          = "ads"
	resourceDailyMetrics = "daily_metrics"
)

// AdsIntegrator converte os relatórios da API nas linhas normalizadas do gateway
type AdsIntegrator struct {
	Client Client
}

func New(client Client) *AdsIntegrator {
	return &AdsIntegrator{Client: client}
}

func (s *AdsIntegrator) FetchCampaigns(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error) {
	return s.fetch(ctx, resourceCampaigns, req)
}

func (s *AdsIntegrator) FetchAdGroups(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error) {
	return s.fetch(ctx, resourceAdGroups, req)
}

func (s *AdsIntegrator) FetchKeywords(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error) {
	return s.fetch(ctx, resourceKeywords, req)
}

func (s *AdsIntegrator) FetchAds(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error) {
	return s.fetch(ctx, resourceAds, req)
}

func (s *AdsIntegrator) FetchDailyMetrics(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error) {
	return s.fetch(ctx, resourceDailyMetrics, req)
}

func (s *AdsIntegrator) fetch(ctx context.Context, resource string, req domain.FetchRequest) (*domain.FetchResult, error) {
	rows, apiCalls, err := s.Client.GetReport(ctx, resource, ReportParams{
		AuthToken:  req.AuthToken,
		CustomerID: req.CustomerID,
		ParentID:   req.ParentID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		ManagerID:  req.ManagerID,
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"resource":    resource,
			"customer_id": req.CustomerID,
			"parent_id":   req.ParentID,
			"error":       err.Error(),
		}).Warn("ads: falha ao buscar relatório")
		return nil, err
	}

	result := &domain.FetchResult{
		Rows:     make([]domain.GatewayRow, 0, len(rows)),
		APICalls: apiCalls,
	}

	for _, row := range rows {
		gatewayRow, err := FactoryGatewayRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "linha inválida em %s (id %s)", resource, row.ID)
		}
		result.Rows = append(result.Rows, *gatewayRow)
	}

	logrus.WithFields(logrus.Fields{
		"resource":    resource,
		"customer_id": req.CustomerID,
		"rows":        len(result.Rows),
		"api_calls":   apiCalls,
	}).Debug("ads: relatório obtido")

	return result, nil
}

// FactoryGatewayRow converte os campos textuais da API em valores tipados
func FactoryGatewayRow(row adsdomain.ReportRow) (*domain.GatewayRow, error) {
	spend, err := parseDecimal(row.Spend)
	if err != nil {
		return nil, errors.Wrap(err, "spend")
	}

	clicks, err := parseInt(row.Clicks)
	if err != nil {
		return nil, errors.Wrap(err, "clicks")
	}

	impressions, err := parseInt(row.Impressions)
	if err != nil {
		return nil, errors.Wrap(err, "impressions")
	}

	conversions, err := parseFloat(row.Conversions)
	if err != nil {
		return nil, errors.Wrap(err, "conversions")
	}

	gatewayRow := &domain.GatewayRow{
		ID:           row.ID,
		Name:         row.Name,
		Status:       strings.ToUpper(row.Status),
		ParentID:     row.ParentID,
		CampaignType: row.CampaignType,
		Date:         row.Date,
		Spend:        spend,
		Clicks:       clicks,
		Impressions:  impressions,
		Conversions:  conversions,
	}

	if strings.TrimSpace(row.ConversionValue) != "" {
		value, err := parseDecimal(row.ConversionValue)
		if err != nil {
			return nil, errors.Wrap(err, "conversion_value")
		}
		gatewayRow.ConversionValue = &value
	}

	return gatewayRow, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
