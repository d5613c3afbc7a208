package domain

import "time"

// MismatchTrigger indica o que disparou a validação de hierarquia
type MismatchTrigger string

const (
	MismatchTriggerCacheHit  MismatchTrigger = "cache_hit"
	MismatchTriggerRefresh   MismatchTrigger = "refresh"
	MismatchTriggerManual    MismatchTrigger = "manual"
	MismatchTriggerScheduled MismatchTrigger = "scheduled"
)

// IsValid verifica se o trigger é conhecido
func (t MismatchTrigger) IsValid() bool {
	switch t {
	case MismatchTriggerCacheHit, MismatchTriggerRefresh, MismatchTriggerManual, MismatchTriggerScheduled:
		return true
	}
	return false
}

// Severity classifica uma divergência
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Métricas verificadas pelo validador
const (
	MetricSpend       = "spend"
	MetricClicks      = "clicks"
	MetricImpressions = "impressions"
	MetricConversions = "conversions"
)

// Mismatch é uma divergência encontrada entre pai e soma dos filhos
type Mismatch struct {
	EntityType      EntityType `json:"entity_type"`
	EntityID        string     `json:"entity_id"`
	EntityName      string     `json:"entity_name"`
	Metric          string     `json:"metric"`
	ParentValue     float64    `json:"parent_value"`
	ChildSum        float64    `json:"child_sum"`
	AbsoluteDiff    float64    `json:"absolute_diff"`
	VariancePercent float64    `json:"variance_percent"`
	Severity        Severity   `json:"severity"`
}

// HierarchyMismatchEvent é o registro persistido (append-only) de uma divergência
type HierarchyMismatchEvent struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	Trigger         MismatchTrigger `json:"trigger"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	Timezone        string          `json:"timezone"`
	EntityType      EntityType      `json:"entity_type"`
	EntityID        string          `json:"entity_id"`
	EntityName      string          `json:"entity_name"`
	Metric          string          `json:"metric"`
	ParentValue     float64         `json:"parent_value"`
	ChildSum        float64         `json:"child_sum"`
	AbsoluteDiff    float64         `json:"absolute_diff"`
	VariancePercent float64         `json:"variance_percent"`
	Severity        Severity        `json:"severity"`
	SampledEntities int             `json:"sampled_entities"`
	SampleRate      float64         `json:"sample_rate"`
	Acknowledged    bool            `json:"acknowledged"`
	CreatedAt       time.Time       `json:"created_at"`
}

// MismatchEventFilter filtra o histórico de divergências
type MismatchEventFilter struct {
	CustomerID string
	Days       int
	Limit      int
}

// ValidationResult é o retorno do validador de hierarquia. Validated=false com
// SampleError vazio significa que não havia campanhas para amostrar; com
// SampleError preenchido, a leitura da amostra falhou.
type ValidationResult struct {
	Validated           bool       `json:"validated"`
	SampleError         string     `json:"sample_error,omitempty"`
	SampledEntities     int        `json:"sampled_entities"`
	CampaignsChecked    int        `json:"campaigns_checked"`
	CampaignsWithIssues int        `json:"campaigns_with_issues"`
	TotalVariance       float64    `json:"total_variance"`
	AvgVariance         float64    `json:"avg_variance"`
	Mismatches          []Mismatch `json:"mismatches"`
}
