package memory

import (
	"context"
	"sync"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

type PrewarmStatusStore struct {
	mu       sync.Mutex
	statuses map[[2]string]domain.PrewarmStatus
}

var _ repository.PrewarmStatusRepository = (*PrewarmStatusStore)(nil)

func NewPrewarmStatusStore() *PrewarmStatusStore {
	return &PrewarmStatusStore{statuses: make(map[[2]string]domain.PrewarmStatus)}
}

func (s *PrewarmStatusStore) SetState(ctx context.Context, status *domain.PrewarmStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statuses[[2]string{status.CustomerID, status.CampaignID}] = *status
	return nil
}

func (s *PrewarmStatusStore) Get(ctx context.Context, customerID, campaignID string) (*domain.PrewarmStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.statuses[[2]string{customerID, campaignID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &st, nil
}
