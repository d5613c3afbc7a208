// Package ads integra com a API externa de dados de anúncios
package ads

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/integrator/ads/adsdomain"
	"github.com/vfg2006/ads-metrics-refresh/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxPages evita laços infinitos caso a API devolva sempre o mesmo token
const maxPages = 1000

// ReportParams são os filtros de uma consulta de relatório
type ReportParams struct {
	AuthToken  string
	CustomerID string
	ParentID   string
	StartDate  string
	EndDate    string
	ManagerID  string
}

type Client interface {
	// GetReport percorre todas as páginas e retorna as linhas e o número de chamadas feitas
	GetReport(ctx context.Context, resource string, params ReportParams) ([]adsdomain.ReportRow, int, error)
}

type AdsClient struct {
	cfg        config.Ads
	httpClient *http.Client
}

func NewClient(cfg config.Ads) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &AdsClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *AdsClient) GetReport(ctx context.Context, resource string, params ReportParams) ([]adsdomain.ReportRow, int, error) {
	rows := make([]adsdomain.ReportRow, 0)
	apiCalls := 0
	pageToken := ""

	for page := 0; page < maxPages; page++ {
		response, err := c.getPage(ctx, resource, params, pageToken)
		apiCalls++
		if err != nil {
			return nil, apiCalls, err
		}

		rows = append(rows, response.Data...)

		if response.NextPageToken == "" || response.NextPageToken == pageToken {
			return rows, apiCalls, nil
		}
		pageToken = response.NextPageToken
	}

	logrus.WithFields(logrus.Fields{
		"resource":    resource,
		"customer_id": params.CustomerID,
	}).Warn("ads: limite de páginas atingido, relatório truncado")

	return rows, apiCalls, nil
}

func (c *AdsClient) getPage(ctx context.Context, resource string, params ReportParams, pageToken string) (*adsdomain.ReportResponse, error) {
	baseURL := fmt.Sprintf("%s/customers/%s/%s", strings.TrimRight(c.cfg.URL, "/"), url.PathEscape(params.CustomerID), resource)

	query := url.Values{}
	query.Add("start_date", params.StartDate)
	query.Add("end_date", params.EndDate)
	if params.ParentID != "" {
		query.Add("parent_id", params.ParentID)
	}
	if c.cfg.PageSize > 0 {
		query.Add("page_size", strconv.Itoa(c.cfg.PageSize))
	}
	if pageToken != "" {
		query.Add("page_token", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar a requisição")
	}

	token := params.AuthToken
	if token == "" {
		token = c.cfg.AccessToken
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	managerID := params.ManagerID
	if managerID == "" {
		managerID = c.cfg.ManagerID
	}
	if managerID != "" {
		req.Header.Set("login-customer-id", managerID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao chamar %s para o customer %s", resource, params.CustomerID)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler resposta")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, handleErrorResponse(resp, body)
	}

	var response adsdomain.ReportResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar JSON")
	}

	return &response, nil
}

// handleErrorResponse converte respostas de erro nos erros tipados do pacote
func handleErrorResponse(resp *http.Response, body []byte) error {
	var errorResp adsdomain.ErrorResponse
	parseErr := json.Unmarshal(body, &errorResp)
	if parseErr != nil {
		errorResp.Error.Message = string(body)
	}
	if errorResp.Error.Code == 0 {
		errorResp.Error.Code = resp.StatusCode
	}

	switch {
	case errorResp.IsQuotaExhausted():
		return errors.Wrap(ErrQuotaExhausted, errorResp.Error.Message)
	case errorResp.IsRateLimited():
		return &RateLimitError{
			Delay:   retryDelay(resp, &errorResp),
			Message: errorResp.Error.Message,
		}
	}

	return fmt.Errorf("erro na resposta da API. Status: %d, Corpo: %s", resp.StatusCode, string(body))
}

func retryDelay(resp *http.Response, errorResp *adsdomain.ErrorResponse) time.Duration {
	if errorResp.Error.RetryDelaySeconds > 0 {
		return time.Duration(errorResp.Error.RetryDelaySeconds) * time.Second
	}
	if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return DefaultRetryAfter
}
