package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

type WorkerHeartbeatStore struct {
	mu         sync.Mutex
	heartbeats map[string]domain.WorkerHeartbeat
}

var _ repository.WorkerHeartbeatRepository = (*WorkerHeartbeatStore)(nil)

func NewWorkerHeartbeatStore() *WorkerHeartbeatStore {
	return &WorkerHeartbeatStore{heartbeats: make(map[string]domain.WorkerHeartbeat)}
}

func (s *WorkerHeartbeatStore) Save(ctx context.Context, hb *domain.WorkerHeartbeat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := *hb
	if existing, ok := s.heartbeats[hb.WorkerID]; ok {
		row.StartedAt = existing.StartedAt
		row.Hostname = existing.Hostname
	}
	s.heartbeats[hb.WorkerID] = row
	return nil
}

func (s *WorkerHeartbeatStore) List(ctx context.Context) ([]*domain.WorkerHeartbeat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.WorkerHeartbeat, 0, len(s.heartbeats))
	for _, hb := range s.heartbeats {
		row := hb
		out = append(out, &row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastSeenAt.After(out[j].LastSeenAt) })
	return out, nil
}
