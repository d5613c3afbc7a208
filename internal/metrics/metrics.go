// Package metrics registra os coletores Prometheus do pipeline de atualização
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsProcessed conta jobs processados por tipo e status final da tentativa
	JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refresh_jobs_processed_total",
		Help: "Total refresh job attempts by job type and outcome status",
	}, []string{"job_type", "status"})

	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "refresh_job_duration_seconds",
		Help:    "Refresh job duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms a ~100s
	}, []string{"job_type"})

	GatewayCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refresh_gateway_api_calls_total",
		Help: "External ads API calls made by refresh jobs",
	}, []string{"job_type"})

	// RetriesScheduled conta reentregas agendadas por classe de erro
	RetriesScheduled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refresh_retries_scheduled_total",
		Help: "Refresh job retries scheduled by error class",
	}, []string{"error_class"})

	EntitiesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refresh_entities_written_total",
		Help: "Metrics facts written by entity type",
	}, []string{"entity_type"})

	QueueJobs = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "refresh_queue_jobs",
		Help: "Jobs in the refresh queue by state",
	}, []string{"state"})

	HierarchyMismatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hierarchy_mismatches_total",
		Help: "Hierarchy mismatches detected by metric and severity",
	}, []string{"metric", "severity"})

	ValidationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hierarchy_validation_runs_total",
		Help: "Hierarchy validation runs by trigger",
	}, []string{"trigger"})

	// ValidationSampleFailures conta validações abortadas por falha ao ler a amostra
	ValidationSampleFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hierarchy_validation_sample_failures_total",
		Help: "Hierarchy validations aborted because the campaign sample could not be read",
	}, []string{"trigger"})

	WorkerLastHeartbeat = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "refresh_worker_last_heartbeat_timestamp_seconds",
		Help: "Unix timestamp of the last heartbeat written by this worker",
	})
)
