package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

func fact(entityID, date string, costMicros int64) *domain.MetricsFact {
	return &domain.MetricsFact{
		CustomerID:       "C1",
		EntityType:       domain.EntityTypeCampaign,
		EntityID:         entityID,
		Date:             date,
		CostMicros:       costMicros,
		ConversionsValue: decimal.Zero,
		DataFreshness:    domain.DataFreshnessFinal,
		SyncedAt:         time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestChunkBounds(t *testing.T) {
	tests := []struct {
		name  string
		total int
		size  int
		want  [][2]int
	}{
		{name: "vazio", total: 0, size: 500, want: [][2]int{}},
		{name: "menor que o lote", total: 3, size: 500, want: [][2]int{{0, 3}}},
		{name: "exatamente um lote", total: 500, size: 500, want: [][2]int{{0, 500}}},
		{name: "lote parcial no final", total: 1201, size: 500, want: [][2]int{{0, 500}, {500, 1000}, {1000, 1201}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chunkBounds(tt.total, tt.size))
		})
	}
}

func TestDedupeFacts_LastWriteWins(t *testing.T) {
	facts := []*domain.MetricsFact{
		fact("camp1", "2024-01-01", 100),
		fact("camp2", "2024-01-01", 200),
		fact("camp1", "2024-01-01", 300),
	}

	out := dedupeFacts(facts)

	require.Len(t, out, 2)
	assert.Equal(t, "camp1", out[0].EntityID)
	assert.Equal(t, int64(300), out[0].CostMicros)
	assert.Equal(t, "camp2", out[1].EntityID)
}

func TestDedupeEntities_LastWriteWins(t *testing.T) {
	entities := []*domain.EntityHierarchy{
		{CustomerID: "C1", EntityType: domain.EntityTypeCampaign, EntityID: "camp1", EntityName: "Antigo"},
		{CustomerID: "C1", EntityType: domain.EntityTypeCampaign, EntityID: "camp1", EntityName: "Novo"},
		{CustomerID: "C1", EntityType: domain.EntityTypeAdGroup, EntityID: "camp1", EntityName: "Outro tipo"},
	}

	out := dedupeEntities(entities)

	require.Len(t, out, 2)
	assert.Equal(t, "Novo", out[0].EntityName)
	assert.Equal(t, domain.EntityTypeAdGroup, out[1].EntityType)
}

func TestBuildFactUpsert(t *testing.T) {
	query, args, err := buildFactUpsert([]*domain.MetricsFact{
		fact("camp1", "2024-01-01", 100),
		fact("camp2", "2024-01-01", 200),
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(query), "INSERT INTO metrics_facts"))
	assert.Contains(t, query, "ON CONFLICT (customer_id, entity_type, entity_id, date) DO UPDATE")
	assert.Contains(t, query, "$32")
	assert.NotContains(t, query, "?")
	assert.Len(t, args, 32)
}

func TestBuildHierarchyUpsert_KeepsCampaignType(t *testing.T) {
	query, args, err := buildHierarchyUpsert([]*domain.EntityHierarchy{
		{CustomerID: "C1", EntityType: domain.EntityTypeAdGroup, EntityID: "ag1", Status: domain.EntityStatusEnabled},
	})

	require.NoError(t, err)
	assert.Contains(t, query, "INSERT INTO entity_hierarchy")
	assert.Contains(t, query, "COALESCE")
	assert.NotEmpty(t, args)
}

func TestBuildSumQuery(t *testing.T) {
	query, args, err := buildSumQuery(map[string]interface{}{
		"customer_id":      "C1",
		"entity_type":      string(domain.EntityTypeAdGroup),
		"parent_entity_id": "camp1",
	}, "2024-01-01", "2024-01-07")

	require.NoError(t, err)
	assert.Contains(t, query, "COALESCE(SUM(cost_micros), 0)")
	assert.Contains(t, query, "date >= $4")
	assert.Contains(t, query, "date <= $5")
	assert.Equal(t, []interface{}{"C1", "AD_GROUP", "camp1", "2024-01-01", "2024-01-07"}, args)
}
