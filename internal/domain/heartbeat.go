package domain

import "time"

// WorkerState classifica um worker pela idade do último heartbeat
type WorkerState string

const (
	WorkerStateActive WorkerState = "active"
	WorkerStateStale  WorkerState = "stale"
	WorkerStateDead   WorkerState = "dead"
)

// WorkerHeartbeat é o registro de vida de um worker
type WorkerHeartbeat struct {
	WorkerID      string    `json:"worker_id"`
	Hostname      string    `json:"hostname"`
	StartedAt     time.Time `json:"started_at"`
	LastSeenAt    time.Time `json:"last_seen_at"`
	JobsProcessed int64     `json:"jobs_processed"`
}

// State classifica o worker: ativo até 2 intervalos sem heartbeat,
// stale até 10 intervalos e dead a partir daí
func (h *WorkerHeartbeat) State(now time.Time, interval time.Duration) WorkerState {
	age := now.Sub(h.LastSeenAt)
	switch {
	case age < 2*interval:
		return WorkerStateActive
	case age < 10*interval:
		return WorkerStateStale
	default:
		return WorkerStateDead
	}
}
