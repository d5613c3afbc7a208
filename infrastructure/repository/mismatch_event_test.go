package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

func TestBuildMismatchInsert(t *testing.T) {
	events := []*domain.HierarchyMismatchEvent{
		{ID: "1", CustomerID: "C1", Trigger: domain.MismatchTriggerRefresh, Metric: domain.MetricSpend, Severity: domain.SeverityWarning},
		{ID: "2", CustomerID: "C1", Trigger: domain.MismatchTriggerRefresh, Metric: domain.MetricClicks, Severity: domain.SeverityError},
	}

	query, args, err := buildMismatchInsert(events)

	require.NoError(t, err)
	assert.Contains(t, query, "INSERT INTO hierarchy_mismatch_events")
	assert.Contains(t, query, "trigger_type")
	assert.Len(t, args, 38)
}

func TestBuildMismatchList(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		filter    domain.MismatchEventFilter
		wantInSQL []string
		wantNArgs int
	}{
		{
			name:      "sem filtros",
			filter:    domain.MismatchEventFilter{},
			wantInSQL: []string{"ORDER BY created_at DESC"},
			wantNArgs: 0,
		},
		{
			name:      "por conta, janela e limite",
			filter:    domain.MismatchEventFilter{CustomerID: "C1", Days: 7, Limit: 50},
			wantInSQL: []string{"customer_id = $1", "created_at >= $2", "LIMIT 50"},
			wantNArgs: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildMismatchList(tt.filter, now)

			require.NoError(t, err)
			for _, s := range tt.wantInSQL {
				assert.Contains(t, query, s)
			}
			assert.Len(t, args, tt.wantNArgs)
		})
	}
}
