package domain

import "time"

// JobStatus representa o estado de um job no log de resultados
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// JobOutcome é a linha do log de resultados, uma por job id (não por tentativa)
type JobOutcome struct {
	JobID         string     `json:"job_id"`
	JobType       JobType    `json:"job_type"`
	CustomerID    string     `json:"customer_id"`
	Status        JobStatus  `json:"status"`
	AttemptNumber int        `json:"attempt_number"`
	EnqueuedAt    time.Time  `json:"enqueued_at"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	DurationMs    int64      `json:"duration_ms"`
	EntityCount   int        `json:"entity_count"`
	APICalls      int        `json:"api_calls"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	NextRetryAt   *time.Time `json:"next_retry_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// JobOutcomeFilter filtra consultas no log de resultados
type JobOutcomeFilter struct {
	Status     JobStatus
	CustomerID string
	Limit      int
}

// JobResult é o retorno de ProcessJob
type JobResult struct {
	Success     bool   `json:"success"`
	EntityCount int    `json:"entity_count,omitempty"`
	APICalls    int    `json:"api_calls,omitempty"`
	DurationMs  int64  `json:"duration_ms"`
	Error       string `json:"error,omitempty"`
}
