package refresh

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
	"github.com/vfg2006/ads-metrics-refresh/internal/metrics"
	"github.com/vfg2006/ads-metrics-refresh/internal/queue"
	"github.com/vfg2006/ads-metrics-refresh/internal/validation"
)

// handlerResult é o que cada handler devolve ao ProcessJob
type handlerResult struct {
	entityCount int
	apiCalls    int
}

type handlerFunc func(ctx context.Context, job domain.RefreshJob) (*handlerResult, error)

// entityLevel descreve como as linhas de um tipo de job viram fatos e hierarquia
type entityLevel struct {
	entityType domain.EntityType
	parentType domain.EntityType
	parentID   func(job domain.RefreshJob, row domain.GatewayRow) string
}

var (
	campaignLevel = entityLevel{
		entityType: domain.EntityTypeCampaign,
		parentType: domain.EntityTypeAccount,
		parentID:   func(job domain.RefreshJob, _ domain.GatewayRow) string { return job.AccountID },
	}
	adGroupLevel = entityLevel{
		entityType: domain.EntityTypeAdGroup,
		parentType: domain.EntityTypeCampaign,
		parentID:   parentFromJob,
	}
	keywordLevel = entityLevel{
		entityType: domain.EntityTypeKeyword,
		parentType: domain.EntityTypeAdGroup,
		parentID:   parentFromJob,
	}
	adLevel = entityLevel{
		entityType: domain.EntityTypeAd,
		parentType: domain.EntityTypeAdGroup,
		parentID:   parentFromJob,
	}
	accountLevel = entityLevel{
		entityType: domain.EntityTypeAccount,
	}
)

func parentFromJob(job domain.RefreshJob, row domain.GatewayRow) string {
	if job.ParentEntityID != "" {
		return job.ParentEntityID
	}
	return row.ParentID
}

func (w *Worker) handlers() map[domain.JobType]handlerFunc {
	return map[domain.JobType]handlerFunc{
		domain.JobTypeRefreshCampaigns: w.refreshCampaigns,
		domain.JobTypeRefreshAdGroups:  w.refreshAdGroups,
		domain.JobTypeRefreshKeywords:  w.refreshKeywords,
		domain.JobTypeRefreshAds:       w.refreshAds,
		domain.JobTypeRefreshReports:   w.refreshReports,
	}
}

func (w *Worker) fetchRequest(job domain.RefreshJob) domain.FetchRequest {
	return domain.FetchRequest{
		AuthToken:  w.authToken,
		CustomerID: job.CustomerID,
		ParentID:   job.ParentEntityID,
		StartDate:  job.StartDate,
		EndDate:    job.EndDate,
		ManagerID:  w.managerID,
	}
}

func (w *Worker) refreshCampaigns(ctx context.Context, job domain.RefreshJob) (*handlerResult, error) {
	result, err := w.gateway.FetchCampaigns(ctx, w.fetchRequest(job))
	if err != nil {
		return nil, err
	}

	entities, err := w.write(ctx, job, campaignLevel, result.Rows)
	if err != nil {
		return nil, err
	}

	w.maybeValidate(ctx, job)

	if job.Cascade {
		w.cascade(ctx, job, entities, domain.JobTypeRefreshAdGroups)
	}

	return &handlerResult{entityCount: len(entities), apiCalls: result.APICalls}, nil
}

func (w *Worker) refreshAdGroups(ctx context.Context, job domain.RefreshJob) (*handlerResult, error) {
	w.prewarm.PrewarmStarted(ctx, job.CustomerID, job.ParentEntityID)

	res, err := w.loadAdGroups(ctx, job)
	if err != nil {
		w.prewarm.PrewarmFailed(ctx, job.CustomerID, job.ParentEntityID, err)
		return nil, err
	}

	w.prewarm.PrewarmCompleted(ctx, job.CustomerID, job.ParentEntityID)
	return res, nil
}

func (w *Worker) loadAdGroups(ctx context.Context, job domain.RefreshJob) (*handlerResult, error) {
	result, err := w.gateway.FetchAdGroups(ctx, w.fetchRequest(job))
	if err != nil {
		return nil, err
	}

	entities, err := w.write(ctx, job, adGroupLevel, result.Rows)
	if err != nil {
		return nil, err
	}

	if job.Cascade {
		w.cascade(ctx, job, entities, domain.JobTypeRefreshKeywords, domain.JobTypeRefreshAds)
	}

	return &handlerResult{entityCount: len(entities), apiCalls: result.APICalls}, nil
}

func (w *Worker) refreshKeywords(ctx context.Context, job domain.RefreshJob) (*handlerResult, error) {
	result, err := w.gateway.FetchKeywords(ctx, w.fetchRequest(job))
	if err != nil {
		return nil, err
	}

	entities, err := w.write(ctx, job, keywordLevel, result.Rows)
	if err != nil {
		return nil, err
	}

	return &handlerResult{entityCount: len(entities), apiCalls: result.APICalls}, nil
}

func (w *Worker) refreshAds(ctx context.Context, job domain.RefreshJob) (*handlerResult, error) {
	result, err := w.gateway.FetchAds(ctx, w.fetchRequest(job))
	if err != nil {
		return nil, err
	}

	entities, err := w.write(ctx, job, adLevel, result.Rows)
	if err != nil {
		return nil, err
	}

	return &handlerResult{entityCount: len(entities), apiCalls: result.APICalls}, nil
}

// refreshReports grava as métricas diárias no nível da conta
func (w *Worker) refreshReports(ctx context.Context, job domain.RefreshJob) (*handlerResult, error) {
	result, err := w.gateway.FetchDailyMetrics(ctx, w.fetchRequest(job))
	if err != nil {
		return nil, err
	}

	rows := make([]domain.GatewayRow, 0, len(result.Rows))
	for _, row := range result.Rows {
		row.ID = job.AccountID
		if row.Name == "" {
			row.Name = job.AccountID
		}
		rows = append(rows, row)
	}

	entities, err := w.write(ctx, job, accountLevel, rows)
	if err != nil {
		return nil, err
	}

	return &handlerResult{entityCount: len(entities), apiCalls: result.APICalls}, nil
}

// write converte as linhas do gateway em fatos e hierarquia e grava os dois na
// mesma transação. Retorna as entidades distintas gravadas.
func (w *Worker) write(ctx context.Context, job domain.RefreshJob, level entityLevel, rows []domain.GatewayRow) ([]*domain.EntityHierarchy, error) {
	now := w.now()
	today := job.Today(now)
	syncedAt := now.UTC()

	facts := make([]*domain.MetricsFact, 0, len(rows))
	entities := make([]*domain.EntityHierarchy, 0)
	seen := make(map[string]int)

	for _, row := range rows {
		if row.ID == "" {
			continue
		}

		date := row.Date
		if date == "" {
			if job.StartDate != job.EndDate {
				logrus.WithFields(logrus.Fields{
					"job_type":    job.Type,
					"customer_id": job.CustomerID,
					"entity_id":   row.ID,
				}).Warn("refresh: linha sem data em janela de vários dias ignorada")
				continue
			}
			date = job.StartDate
		}

		parentID := ""
		if level.parentID != nil {
			parentID = level.parentID(job, row)
		}

		freshness := domain.DataFreshnessFinal
		if date == today {
			freshness = domain.DataFreshnessPartial
		}

		fact := &domain.MetricsFact{
			CustomerID:       job.CustomerID,
			EntityType:       level.entityType,
			EntityID:         row.ID,
			Date:             date,
			Impressions:      row.Impressions,
			Clicks:           row.Clicks,
			CostMicros:       domain.UnitsToMicros(row.Spend),
			Conversions:      row.Conversions,
			ParentEntityType: level.parentType,
			ParentEntityID:   parentID,
			DataFreshness:    freshness,
			AccountID:        job.AccountID,
			SyncedAt:         syncedAt,
		}
		if row.ConversionValue != nil {
			fact.ConversionsValue = *row.ConversionValue
		}
		fact.ComputeDerived()
		facts = append(facts, fact)

		status := strings.ToUpper(row.Status)
		if status == "" {
			status = domain.EntityStatusEnabled
		}

		entity := &domain.EntityHierarchy{
			CustomerID:       job.CustomerID,
			EntityType:       level.entityType,
			EntityID:         row.ID,
			EntityName:       row.Name,
			Status:           status,
			ParentEntityType: level.parentType,
			ParentEntityID:   parentID,
			CampaignType:     row.CampaignType,
			LastUpdated:      syncedAt,
		}

		// a última linha de cada entidade vence, como no upsert
		if idx, ok := seen[row.ID]; ok {
			entities[idx] = entity
			continue
		}
		seen[row.ID] = len(entities)
		entities = append(entities, entity)
	}

	if err := w.metricsRepo.SaveBatch(ctx, facts, entities); err != nil {
		return nil, fmt.Errorf("erro ao gravar %s: %w", level.entityType, err)
	}

	metrics.EntitiesWritten.WithLabelValues(string(level.entityType)).Add(float64(len(facts)))

	return entities, nil
}

// maybeValidate roda a validação de hierarquia em uma amostra dos jobs de campanha.
// O resultado nunca altera o job.
func (w *Worker) maybeValidate(ctx context.Context, job domain.RefreshJob) {
	if w.validator == nil || w.sampleRate <= 0 || w.random() >= w.sampleRate {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"customer_id": job.CustomerID,
				"panic":       r,
			}).Error("refresh: validação de hierarquia interrompida")
		}
	}()

	result := w.validator.Validate(ctx, validation.Request{
		CustomerID: job.CustomerID,
		StartDate:  job.StartDate,
		EndDate:    job.EndDate,
		Tolerance:  w.tolerance,
		Trigger:    domain.MismatchTriggerRefresh,
		Timezone:   job.Timezone,
	})

	if result != nil && len(result.Mismatches) > 0 {
		logrus.WithFields(logrus.Fields{
			"customer_id":    job.CustomerID,
			"mismatches":     len(result.Mismatches),
			"campaigns":      result.CampaignsChecked,
			"with_issues":    result.CampaignsWithIssues,
			"total_variance": result.TotalVariance,
		}).Warn("refresh: divergências de hierarquia encontradas")
	}
}

// cascade enfileira os jobs filhos das entidades ativas. Falhas são apenas registradas.
func (w *Worker) cascade(ctx context.Context, job domain.RefreshJob, entities []*domain.EntityHierarchy, childTypes ...domain.JobType) {
	if w.transport == nil {
		return
	}

	enqueued := 0
	for _, entity := range entities {
		if entity.Status != domain.EntityStatusEnabled {
			continue
		}

		for _, childType := range childTypes {
			child := domain.RefreshJob{
				Type:           childType,
				CustomerID:     job.CustomerID,
				AccountID:      job.AccountID,
				ParentEntityID: entity.EntityID,
				StartDate:      job.StartDate,
				EndDate:        job.EndDate,
				Priority:       job.Priority + 1,
				EnqueuedAt:     w.now().UTC(),
				Timezone:       job.Timezone,
				Cascade:        childType == domain.JobTypeRefreshAdGroups,
			}

			id, ok, err := queue.Enqueue(ctx, w.transport, child)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"job_type":  childType,
					"parent_id": entity.EntityID,
					"error":     err.Error(),
				}).Warn("refresh: erro ao enfileirar job em cascata")
				continue
			}
			if ok {
				enqueued++
				logrus.WithField("job_id", id).Debug("refresh: job em cascata enfileirado")
			}
		}
	}

	if enqueued > 0 {
		logrus.WithFields(logrus.Fields{
			"job_type":    job.Type,
			"customer_id": job.CustomerID,
			"enqueued":    enqueued,
		}).Info("refresh: jobs em cascata enfileirados")
	}
}
