package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

type MismatchEventStore struct {
	mu     sync.Mutex
	events []domain.HierarchyMismatchEvent
	now    func() time.Time
}

var _ repository.MismatchEventRepository = (*MismatchEventStore)(nil)

func NewMismatchEventStore() *MismatchEventStore {
	return &MismatchEventStore{now: time.Now}
}

func (s *MismatchEventStore) InsertBatch(ctx context.Context, events []*domain.HierarchyMismatchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		s.events = append(s.events, *e)
	}
	return nil
}

func (s *MismatchEventStore) List(ctx context.Context, filter domain.MismatchEventFilter) ([]*domain.HierarchyMismatchEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cutoff time.Time
	if filter.Days > 0 {
		cutoff = s.now().AddDate(0, 0, -filter.Days)
	}

	out := make([]*domain.HierarchyMismatchEvent, 0)
	for _, e := range s.events {
		if filter.CustomerID != "" && e.CustomerID != filter.CustomerID {
			continue
		}
		if !cutoff.IsZero() && e.CreatedAt.Before(cutoff) {
			continue
		}
		row := e
		out = append(out, &row)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *MismatchEventStore) Acknowledge(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].ID == id {
			s.events[i].Acknowledged = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *MismatchEventStore) DeleteAcknowledgedOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	var deleted int64
	for _, e := range s.events {
		if e.Acknowledged && e.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	return deleted, nil
}
