package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntityType identifica o nível da hierarquia account → campaign → ad group → keyword/ad
type EntityType string

const (
	EntityTypeAccount  EntityType = "ACCOUNT"
	EntityTypeCampaign EntityType = "CAMPAIGN"
	EntityTypeAdGroup  EntityType = "AD_GROUP"
	EntityTypeKeyword  EntityType = "KEYWORD"
	EntityTypeAd       EntityType = "AD"
)

// DataFreshness indica se as métricas do dia ainda estão acumulando na origem
type DataFreshness string

const (
	DataFreshnessPartial DataFreshness = "PARTIAL"
	DataFreshnessFinal   DataFreshness = "FINAL"
)

const (
	EntityStatusEnabled = "ENABLED"
	EntityStatusPaused  = "PAUSED"
	EntityStatusRemoved = "REMOVED"
)

const microsPerUnit = 1_000_000

// MetricsFact é o fato diário de métricas de uma entidade.
// Chave única: (CustomerID, EntityType, EntityID, Date).
type MetricsFact struct {
	CustomerID       string          `json:"customer_id"`
	EntityType       EntityType      `json:"entity_type"`
	EntityID         string          `json:"entity_id"`
	Date             string          `json:"date"`
	Impressions      int64           `json:"impressions"`
	Clicks           int64           `json:"clicks"`
	CostMicros       int64           `json:"cost_micros"`
	Conversions      float64         `json:"conversions"`
	ConversionsValue decimal.Decimal `json:"conversions_value"`
	CTR              float64         `json:"ctr"`
	AverageCPC       int64           `json:"average_cpc"`
	ParentEntityType EntityType      `json:"parent_entity_type,omitempty"`
	ParentEntityID   string          `json:"parent_entity_id,omitempty"`
	DataFreshness    DataFreshness   `json:"data_freshness"`
	AccountID        string          `json:"account_id"`
	SyncedAt         time.Time       `json:"synced_at"`
}

// FactKey identifica um MetricsFact
type FactKey struct {
	CustomerID string
	EntityType EntityType
	EntityID   string
	Date       string
}

// Key retorna a chave natural do fato
func (f *MetricsFact) Key() FactKey {
	return FactKey{
		CustomerID: f.CustomerID,
		EntityType: f.EntityType,
		EntityID:   f.EntityID,
		Date:       f.Date,
	}
}

// ComputeDerived recalcula CTR e CPC médio a partir dos totais
func (f *MetricsFact) ComputeDerived() {
	f.CTR = 0
	if f.Impressions > 0 {
		f.CTR = float64(f.Clicks) / float64(f.Impressions)
	}

	f.AverageCPC = 0
	if f.Clicks > 0 {
		f.AverageCPC = f.CostMicros / f.Clicks
	}
}

// EntityHierarchy mantém a relação entidade → pai, nome e status
type EntityHierarchy struct {
	CustomerID       string     `json:"customer_id"`
	EntityType       EntityType `json:"entity_type"`
	EntityID         string     `json:"entity_id"`
	EntityName       string     `json:"entity_name"`
	Status           string     `json:"status"`
	ParentEntityType EntityType `json:"parent_entity_type,omitempty"`
	ParentEntityID   string     `json:"parent_entity_id,omitempty"`
	CampaignType     string     `json:"campaign_type,omitempty"`
	LastUpdated      time.Time  `json:"last_updated"`
}

// CustomerRef identifica uma conta conhecida pelo pipeline
type CustomerRef struct {
	CustomerID string `json:"customer_id"`
	AccountID  string `json:"account_id"`
}

// MetricTotals são somas de métricas em uma janela de datas
type MetricTotals struct {
	Spend       float64 `json:"spend"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	Conversions float64 `json:"conversions"`
	Rows        int     `json:"rows"`
}

// Add acumula um fato nos totais
func (t *MetricTotals) Add(f *MetricsFact) {
	t.Spend += MicrosToUnits(f.CostMicros)
	t.Clicks += f.Clicks
	t.Impressions += f.Impressions
	t.Conversions += f.Conversions
	t.Rows++
}

// UnitsToMicros converte um valor monetário para micros com arredondamento
func UnitsToMicros(v decimal.Decimal) int64 {
	return v.Mul(decimal.NewFromInt(microsPerUnit)).Round(0).IntPart()
}

// MicrosToUnits converte micros para a unidade monetária
func MicrosToUnits(micros int64) float64 {
	return float64(micros) / microsPerUnit
}
