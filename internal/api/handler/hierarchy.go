package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
	"github.com/vfg2006/ads-metrics-refresh/internal/validation"
	"github.com/vfg2006/ads-metrics-refresh/pkg/apiErrors"
	"github.com/vfg2006/ads-metrics-refresh/pkg/utils"
)

const (
	defaultMismatchDays = 7
	defaultWindowDays   = 7
)

type HierarchyValidator interface {
	Validate(ctx context.Context, req validation.Request) *domain.ValidationResult
}

// HierarchyServices agrupa as dependências dos endpoints de divergência de hierarquia
type HierarchyServices struct {
	Mismatches repository.MismatchEventRepository
	Validator  HierarchyValidator
	Tolerance  float64
	Timezone   string
	Now        func() time.Time
}

func (s HierarchyServices) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ListMismatches lista o histórico recente de divergências
func ListMismatches(services HierarchyServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		limit, err := parseLimit(query.Get("limit"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro limit inválido", nil)
			return
		}

		days := defaultMismatchDays
		if raw := query.Get("days"); raw != "" {
			days, err = strconv.Atoi(raw)
			if err != nil || days < 1 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro days inválido", nil)
				return
			}
		}

		events, err := services.Mismatches.List(r.Context(), domain.MismatchEventFilter{
			CustomerID: query.Get("customer_id"),
			Days:       days,
			Limit:      limit,
		})
		if err != nil {
			logrus.WithError(err).Error("Erro ao listar divergências de hierarquia")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar divergências", nil)
			return
		}

		if events == nil {
			events = []*domain.HierarchyMismatchEvent{}
		}
		writeJSON(w, http.StatusOK, events)
	})
}

// AcknowledgeMismatch marca uma divergência como reconhecida
func AcknowledgeMismatch(services HierarchyServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da divergência não informado", nil)
			return
		}

		if err := services.Mismatches.Acknowledge(r.Context(), id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrNotFound, "Divergência não encontrada", nil)
				return
			}

			logrus.WithError(err).WithField("mismatch_id", id).Error("Erro ao reconhecer divergência")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao reconhecer divergência", nil)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"id":           id,
			"acknowledged": true,
		})
	})
}

type validateRequest struct {
	CustomerID string  `json:"customer_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Tolerance  float64 `json:"tolerance"`
}

// ValidateHierarchy executa uma validação manual para uma conta. Sem datas,
// usa os últimos 7 dias.
func ValidateHierarchy(services HierarchyServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req validateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}

		if req.CustomerID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "customer_id é obrigatório", nil)
			return
		}

		timezone := services.Timezone
		if timezone == "" {
			timezone = domain.DefaultTimezone
		}
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			loc = time.UTC
		}
		today := services.now().In(loc)

		endDate, err := utils.ParseDate(req.EndDate, today.Format(time.DateOnly))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}
		startDate, err := utils.ParseDate(req.StartDate, utils.DaysBack(today, defaultWindowDays))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}
		if startDate > endDate {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "start_date posterior a end_date", nil)
			return
		}

		tolerance := req.Tolerance
		if tolerance <= 0 {
			tolerance = services.Tolerance
		}

		logrus.WithFields(logrus.Fields{
			"customer_id": req.CustomerID,
			"start_date":  startDate,
			"end_date":    endDate,
		}).Info("Validação manual de hierarquia solicitada")

		result := services.Validator.Validate(r.Context(), validation.Request{
			CustomerID: req.CustomerID,
			StartDate:  startDate,
			EndDate:    endDate,
			Tolerance:  tolerance,
			Trigger:    domain.MismatchTriggerManual,
			Timezone:   timezone,
		})

		writeJSON(w, http.StatusOK, result)
	})
}
