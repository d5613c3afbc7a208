// Package memory contém implementações em memória dos repositórios, usadas em
// testes e em execuções locais sem PostgreSQL
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

type hierarchyKey struct {
	customerID string
	entityType domain.EntityType
	entityID   string
}

// MetricsStore guarda fatos e hierarquia em mapas protegidos por mutex.
// Implementa repository.MetricsRepository e repository.HierarchyRepository.
type MetricsStore struct {
	mu        sync.RWMutex
	facts     map[domain.FactKey]domain.MetricsFact
	hierarchy map[hierarchyKey]domain.EntityHierarchy
}

var (
	_ repository.MetricsRepository   = (*MetricsStore)(nil)
	_ repository.HierarchyRepository = (*MetricsStore)(nil)
)

func NewMetricsStore() *MetricsStore {
	return &MetricsStore{
		facts:     make(map[domain.FactKey]domain.MetricsFact),
		hierarchy: make(map[hierarchyKey]domain.EntityHierarchy),
	}
}

func (s *MetricsStore) SaveBatch(ctx context.Context, facts []*domain.MetricsFact, entities []*domain.EntityHierarchy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range facts {
		s.facts[f.Key()] = *f
	}

	for _, e := range entities {
		k := hierarchyKey{e.CustomerID, e.EntityType, e.EntityID}
		row := *e
		if existing, ok := s.hierarchy[k]; ok && row.CampaignType == "" {
			row.CampaignType = existing.CampaignType
		}
		s.hierarchy[k] = row
	}

	return nil
}

func (s *MetricsStore) GetFact(ctx context.Context, key domain.FactKey) (*domain.MetricsFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.facts[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (s *MetricsStore) SumEntityMetrics(ctx context.Context, customerID string, entityType domain.EntityType, entityID, startDate, endDate string) (*domain.MetricTotals, error) {
	return s.sum(func(f *domain.MetricsFact) bool {
		return f.CustomerID == customerID && f.EntityType == entityType && f.EntityID == entityID &&
			f.Date >= startDate && f.Date <= endDate
	}), nil
}

func (s *MetricsStore) SumChildMetrics(ctx context.Context, customerID string, childType domain.EntityType, parentID, startDate, endDate string) (*domain.MetricTotals, error) {
	return s.sum(func(f *domain.MetricsFact) bool {
		return f.CustomerID == customerID && f.EntityType == childType && f.ParentEntityID == parentID &&
			f.Date >= startDate && f.Date <= endDate
	}), nil
}

func (s *MetricsStore) sum(match func(f *domain.MetricsFact) bool) *domain.MetricTotals {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := &domain.MetricTotals{}
	var costMicros int64
	for _, f := range s.facts {
		if !match(&f) {
			continue
		}
		costMicros += f.CostMicros
		totals.Clicks += f.Clicks
		totals.Impressions += f.Impressions
		totals.Conversions += f.Conversions
		totals.Rows++
	}
	totals.Spend = domain.MicrosToUnits(costMicros)
	return totals
}

// Facts retorna uma cópia de todos os fatos ordenados pela chave
func (s *MetricsStore) Facts() []domain.MetricsFact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.MetricsFact, 0, len(s.facts))
	for _, f := range s.facts {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.EntityType != b.EntityType {
			return a.EntityType < b.EntityType
		}
		if a.EntityID != b.EntityID {
			return a.EntityID < b.EntityID
		}
		return a.Date < b.Date
	})
	return out
}

// Entities retorna uma cópia de todas as linhas de hierarquia ordenadas pela chave
func (s *MetricsStore) Entities() []domain.EntityHierarchy {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.EntityHierarchy, 0, len(s.hierarchy))
	for _, e := range s.hierarchy {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntityType != out[j].EntityType {
			return out[i].EntityType < out[j].EntityType
		}
		return out[i].EntityID < out[j].EntityID
	})
	return out
}

func (s *MetricsStore) Get(ctx context.Context, customerID string, entityType domain.EntityType, entityID string) (*domain.EntityHierarchy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.hierarchy[hierarchyKey{customerID, entityType, entityID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (s *MetricsStore) ListRecentlyUpdated(ctx context.Context, customerID string, entityType domain.EntityType, status string, limit int) ([]*domain.EntityHierarchy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.EntityHierarchy, 0)
	for _, e := range s.hierarchy {
		if e.CustomerID != customerID || e.EntityType != entityType || e.Status != status {
			continue
		}
		row := e
		out = append(out, &row)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastUpdated.Equal(out[j].LastUpdated) {
			return out[i].LastUpdated.After(out[j].LastUpdated)
		}
		return out[i].EntityID < out[j].EntityID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MetricsStore) ListCustomers(ctx context.Context) ([]domain.CustomerRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[domain.CustomerRef]struct{})
	refs := make([]domain.CustomerRef, 0)
	for _, e := range s.hierarchy {
		if e.EntityType != domain.EntityTypeAccount {
			continue
		}
		ref := domain.CustomerRef{CustomerID: e.CustomerID, AccountID: e.EntityID}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].CustomerID < refs[j].CustomerID })
	return refs, nil
}
