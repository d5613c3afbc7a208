package pgqueue

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

func TestBuildEnqueue_OnlyReactivatesFinishedJobs(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	job := domain.RefreshJob{Type: domain.JobTypeRefreshCampaigns, CustomerID: "C1", Priority: 3, EnqueuedAt: now}

	query, args, err := buildEnqueue(job.JobID(), job, []byte(`{}`), now)

	require.NoError(t, err)
	assert.Contains(t, query, "ON CONFLICT (id) DO UPDATE")
	assert.Contains(t, query, "WHERE refresh_jobs.status IN ('completed', 'failed')")
	assert.Contains(t, query, "RETURNING id")
	require.Len(t, args, 9)
	assert.Equal(t, "{}", args[2])
	assert.Equal(t, 3, args[3])
}

func TestBuildClaim_SkipsLockedRowsInPriorityOrder(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	query, args, err := buildClaim("worker-1", now)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(query, "UPDATE refresh_jobs SET"))
	assert.Contains(t, query, "attempts = attempts + 1")
	assert.Contains(t, query, "ORDER BY priority ASC, run_at ASC, enqueued_at ASC LIMIT 1 FOR UPDATE SKIP LOCKED")
	assert.Contains(t, query, "RETURNING id, payload, attempts")
	assert.NotContains(t, query, "?")
	assert.Equal(t, []interface{}{"active", "worker-1", now, now, "pending", now}, args)
}

func TestBuildStats(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	query, args, err := buildStats(now)

	require.NoError(t, err)
	assert.Contains(t, query, "run_at <= $1")
	assert.Contains(t, query, "run_at > $2")
	assert.Equal(t, []interface{}{now, now}, args)
}
