package queue

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

type memoryEntry struct {
	id        string
	job       domain.RefreshJob
	status    string
	runAt     time.Time
	attempts  int
	lastError string
	lockedAt  time.Time
	updatedAt time.Time
	seq       uint64
}

// MemoryTransport é um Transport em processo, usado em testes e execuções locais
type MemoryTransport struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	seq     uint64
	now     func() time.Time
}

var (
	_ Transport  = (*MemoryTransport)(nil)
	_ Maintainer = (*MemoryTransport)(nil)
)

func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

// WithClock substitui o relógio usado para run_at, útil em testes
func (t *MemoryTransport) WithClock(now func() time.Time) *MemoryTransport {
	t.now = now
	return t
}

func (t *MemoryTransport) Enqueue(ctx context.Context, id string, job domain.RefreshJob) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.entries[id]; ok && e.status != StatusCompleted && e.status != StatusFailed {
		return false, nil
	}

	t.seq++
	now := t.now()
	t.entries[id] = &memoryEntry{
		id:        id,
		job:       job,
		status:    StatusPending,
		runAt:     now,
		updatedAt: now,
		seq:       t.seq,
	}
	return true, nil
}

func (t *MemoryTransport) Receive(ctx context.Context) (*Delivery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	var next *memoryEntry
	for _, e := range t.entries {
		if e.status != StatusPending || e.runAt.After(now) {
			continue
		}
		if next == nil || before(e, next) {
			next = e
		}
	}

	if next == nil {
		return nil, ErrQueueEmpty
	}

	next.status = StatusActive
	next.attempts++
	next.lockedAt = now
	next.updatedAt = now

	return &Delivery{ID: next.id, Job: next.job, Attempt: next.attempts}, nil
}

// before ordena por prioridade (menor primeiro), run_at e ordem de chegada
func before(a, b *memoryEntry) bool {
	if a.job.Priority != b.job.Priority {
		return a.job.Priority < b.job.Priority
	}
	if !a.runAt.Equal(b.runAt) {
		return a.runAt.Before(b.runAt)
	}
	return a.seq < b.seq
}

func (t *MemoryTransport) Ack(ctx context.Context, d *Delivery) error {
	return t.finish(d, StatusCompleted, nil)
}

func (t *MemoryTransport) Fail(ctx context.Context, d *Delivery, cause error) error {
	return t.finish(d, StatusFailed, cause)
}

func (t *MemoryTransport) Retry(ctx context.Context, d *Delivery, delay time.Duration, cause error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[d.ID]
	if !ok {
		return nil
	}

	now := t.now()
	e.status = StatusPending
	e.runAt = now.Add(delay)
	e.updatedAt = now
	if cause != nil {
		e.lastError = cause.Error()
	}
	return nil
}

func (t *MemoryTransport) finish(d *Delivery, status string, cause error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[d.ID]
	if !ok {
		return nil
	}

	e.status = status
	e.updatedAt = t.now()
	if cause != nil {
		e.lastError = cause.Error()
	}
	return nil
}

func (t *MemoryTransport) Stats(ctx context.Context) (*Stats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	stats := &Stats{}
	for _, e := range t.entries {
		switch e.status {
		case StatusPending:
			if e.runAt.After(now) {
				stats.Delayed++
			} else {
				stats.Pending++
			}
		case StatusActive:
			stats.Active++
		case StatusCompleted:
			stats.Completed++
		case StatusFailed:
			stats.Failed++
		}
	}
	return stats, nil
}

func (t *MemoryTransport) RequeueStale(ctx context.Context, visibilityTimeout time.Duration) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	var requeued int64
	for _, e := range t.entries {
		if e.status == StatusActive && now.Sub(e.lockedAt) > visibilityTimeout {
			e.status = StatusPending
			e.runAt = now
			e.updatedAt = now
			requeued++
		}
	}
	return requeued, nil
}

func (t *MemoryTransport) PurgeFinished(ctx context.Context, olderThan time.Time) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var purged int64
	for id, e := range t.entries {
		if (e.status == StatusCompleted || e.status == StatusFailed) && e.updatedAt.Before(olderThan) {
			delete(t.entries, id)
			purged++
		}
	}
	return purged, nil
}
