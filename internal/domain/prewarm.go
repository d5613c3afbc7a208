package domain

import "time"

// PrewarmState é o progresso do pré-aquecimento de ad groups de uma campanha
type PrewarmState string

const (
	PrewarmStateRunning   PrewarmState = "running"
	PrewarmStateCompleted PrewarmState = "completed"
	PrewarmStateFailed    PrewarmState = "failed"
)

type PrewarmStatus struct {
	CustomerID   string       `json:"customer_id"`
	CampaignID   string       `json:"campaign_id"`
	State        PrewarmState `json:"state"`
	ErrorMessage string       `json:"error_message,omitempty"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
