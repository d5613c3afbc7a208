package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

type JobOutcomeStore struct {
	mu       sync.Mutex
	outcomes map[string]domain.JobOutcome
}

var _ repository.JobOutcomeRepository = (*JobOutcomeStore)(nil)

func NewJobOutcomeStore() *JobOutcomeStore {
	return &JobOutcomeStore{outcomes: make(map[string]domain.JobOutcome)}
}

func (s *JobOutcomeStore) Start(ctx context.Context, outcome *domain.JobOutcome) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := *outcome
	row.Status = domain.JobStatusProcessing
	row.AttemptNumber = 1
	row.CompletedAt = nil
	row.NextRetryAt = nil
	row.ErrorMessage = ""
	row.DurationMs = 0
	row.UpdatedAt = outcome.StartedAt

	if existing, ok := s.outcomes[outcome.JobID]; ok &&
		existing.Status != domain.JobStatusCompleted && existing.Status != domain.JobStatusFailed {
		row.AttemptNumber = existing.AttemptNumber + 1
	}

	s.outcomes[outcome.JobID] = row
	return row.AttemptNumber, nil
}

func (s *JobOutcomeStore) Finish(ctx context.Context, outcome *domain.JobOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.outcomes[outcome.JobID] = *outcome
	return nil
}

func (s *JobOutcomeStore) Get(ctx context.Context, jobID string) (*domain.JobOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.outcomes[jobID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (s *JobOutcomeStore) List(ctx context.Context, filter domain.JobOutcomeFilter) ([]*domain.JobOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.JobOutcome, 0)
	for _, o := range s.outcomes {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.CustomerID != "" && o.CustomerID != filter.CustomerID {
			continue
		}
		row := o
		out = append(out, &row)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *JobOutcomeStore) CountByStatus(ctx context.Context) (map[domain.JobStatus]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[domain.JobStatus]int)
	for _, o := range s.outcomes {
		counts[o.Status]++
	}
	return counts, nil
}
