package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// JobType identifica o tipo de job de atualização de métricas
type JobType string

const (
	JobTypeRefreshCampaigns JobType = "refresh-campaigns"
	JobTypeRefreshAdGroups  JobType = "refresh-ad-groups"
	JobTypeRefreshKeywords  JobType = "refresh-keywords"
	JobTypeRefreshAds       JobType = "refresh-ads"
	JobTypeRefreshReports   JobType = "refresh-reports"
)

// JobTypes lista todos os tipos de job aceitos pelo worker
var JobTypes = []JobType{
	JobTypeRefreshCampaigns,
	JobTypeRefreshAdGroups,
	JobTypeRefreshKeywords,
	JobTypeRefreshAds,
	JobTypeRefreshReports,
}

// IsValid verifica se o tipo de job pertence à enumeração conhecida
func (t JobType) IsValid() bool {
	for _, known := range JobTypes {
		if t == known {
			return true
		}
	}
	return false
}

// RequiresParent indica se o job precisa de parentEntityId (drill-down)
func (t JobType) RequiresParent() bool {
	return t == JobTypeRefreshAdGroups || t == JobTypeRefreshKeywords || t == JobTypeRefreshAds
}

const (
	DefaultJobPriority = 5
	DefaultTimezone    = "UTC"
)

var (
	ErrUnknownJobType     = errors.New("tipo de job desconhecido")
	ErrCustomerIDRequired = errors.New("customer_id é obrigatório")
	ErrParentIDRequired   = errors.New("parent_entity_id é obrigatório para este tipo de job")
	ErrInvalidDateRange   = errors.New("intervalo de datas inválido")
)

// RefreshJob é o payload enfileirado para atualização de métricas.
// Imutável depois de enfileirado.
type RefreshJob struct {
	Type           JobType   `json:"type"`
	CustomerID     string    `json:"customer_id"`
	AccountID      string    `json:"account_id"`
	ParentEntityID string    `json:"parent_entity_id,omitempty"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	Priority       int       `json:"priority"`
	EnqueuedAt     time.Time `json:"enqueued_at"`
	Timezone       string    `json:"timezone,omitempty"`
	Cascade        bool      `json:"cascade,omitempty"`
}

// JobID calcula o identificador determinístico usado para idempotência.
// Apenas type, customerId, parentEntityId e o intervalo de datas participam do hash.
func (j RefreshJob) JobID() string {
	key := strings.Join([]string{
		string(j.Type),
		j.CustomerID,
		j.ParentEntityID,
		j.StartDate,
		j.EndDate,
	}, "|")

	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%s:%s", j.Type, hex.EncodeToString(sum[:])[:32])
}

// Validate verifica se o job pode ser enfileirado
func (j RefreshJob) Validate() error {
	if !j.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownJobType, j.Type)
	}

	if j.CustomerID == "" {
		return ErrCustomerIDRequired
	}

	if j.Type.RequiresParent() && j.ParentEntityID == "" {
		return fmt.Errorf("%w: %s", ErrParentIDRequired, j.Type)
	}

	start, end, err := j.DateRange()
	if err != nil {
		return err
	}

	if end.Before(start) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, j.StartDate, j.EndDate)
	}

	if _, err := j.Location(); err != nil {
		return fmt.Errorf("fuso horário inválido %q: %w", j.Timezone, err)
	}

	return nil
}

// DateRange converte StartDate e EndDate (intervalo fechado)
func (j RefreshJob) DateRange() (time.Time, time.Time, error) {
	start, err := time.Parse(time.DateOnly, j.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: data inicial: %v", ErrInvalidDateRange, err)
	}

	end, err := time.Parse(time.DateOnly, j.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: data final: %v", ErrInvalidDateRange, err)
	}

	return start, end, nil
}

// Location retorna o fuso horário do contexto de relatório do job
func (j RefreshJob) Location() (*time.Location, error) {
	if j.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(j.Timezone)
}

// Today retorna a data de "hoje" no fuso do job, no formato YYYY-MM-DD
func (j RefreshJob) Today(now time.Time) string {
	loc, err := j.Location()
	if err != nil {
		loc = time.UTC
	}
	return now.In(loc).Format(time.DateOnly)
}
