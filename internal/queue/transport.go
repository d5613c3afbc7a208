// Package queue define o contrato do transporte de jobs de atualização e o
// enfileiramento determinístico usado por todos os produtores
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

var (
	ErrInvalidJob = errors.New("job inválido")
	ErrQueueEmpty = errors.New("nenhum job disponível")
)

// Status de um job dentro do transporte
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Delivery é um job entregue a um worker. Attempt conta as entregas do mesmo id.
type Delivery struct {
	ID      string
	Job     domain.RefreshJob
	Attempt int
}

// Stats resume a fila para diagnóstico operacional
type Stats struct {
	Pending   int `json:"pending"`
	Delayed   int `json:"delayed"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// Backlog é o total de jobs ainda não processados
func (s Stats) Backlog() int {
	return s.Pending + s.Delayed + s.Active
}

// Transport entrega jobs aos workers com semântica at-least-once.
// Enqueue de um id ainda pendente (ou em execução) não faz nada e retorna false.
type Transport interface {
	Enqueue(ctx context.Context, id string, job domain.RefreshJob) (bool, error)
	// Receive retorna ErrQueueEmpty quando não há job pronto
	Receive(ctx context.Context) (*Delivery, error)
	Ack(ctx context.Context, d *Delivery) error
	// Retry devolve o job para a fila, disponível novamente após delay
	Retry(ctx context.Context, d *Delivery, delay time.Duration, cause error) error
	// Fail encerra o job sem novas entregas
	Fail(ctx context.Context, d *Delivery, cause error) error
	Stats(ctx context.Context) (*Stats, error)
}

// Maintainer é implementado por transportes que precisam de manutenção periódica
type Maintainer interface {
	RequeueStale(ctx context.Context, visibilityTimeout time.Duration) (int64, error)
	PurgeFinished(ctx context.Context, olderThan time.Time) (int64, error)
}

// Enqueue valida o job, aplica os padrões e publica com o id determinístico.
// Retorna o id e se o job foi de fato enfileirado.
func Enqueue(ctx context.Context, t Transport, job domain.RefreshJob) (string, bool, error) {
	if job.Priority == 0 {
		job.Priority = domain.DefaultJobPriority
	}
	if job.Timezone == "" {
		job.Timezone = domain.DefaultTimezone
	}
	if job.AccountID == "" {
		job.AccountID = job.CustomerID
	}
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now().UTC()
	}

	if err := job.Validate(); err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}

	id := job.JobID()
	enqueued, err := t.Enqueue(ctx, id, job)
	if err != nil {
		return id, false, fmt.Errorf("erro ao enfileirar job %s: %w", id, err)
	}

	return id, enqueued, nil
}
