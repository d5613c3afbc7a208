package domain

import "github.com/shopspring/decimal"

// FetchRequest são os parâmetros de uma chamada ao gateway de dados de anúncios
type FetchRequest struct {
	AuthToken  string
	CustomerID string
	ParentID   string
	StartDate  string
	EndDate    string
	ManagerID  string
}

// GatewayRow é uma linha normalizada devolvida pelo gateway, por entidade e data
type GatewayRow struct {
	ID              string
	Name            string
	Status          string
	ParentID        string
	CampaignType    string
	Date            string
	Spend           decimal.Decimal
	Clicks          int64
	Impressions     int64
	Conversions     float64
	ConversionValue *decimal.Decimal
}

// FetchResult agrupa as linhas e a quantidade de chamadas feitas à API
type FetchResult struct {
	Rows     []GatewayRow
	APICalls int
}
