package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avestoai/avesto-go/core"
)

func newTestHistory(t *testing.T) *SQLiteHistory {
	t.Helper()
	h, err := NewSQLiteHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func sampleResult(id, userID string) *core.AnalysisResult {
	return &core.AnalysisResult{
		AnalysisID:       id,
		UserID:           userID,
		AnalysisType:     "comprehensive",
		TotalAnnualValue: 54_000,
		ConfidenceScore:  0.85,
		DataSource:       "live",
		Opportunities: []core.ScoredOpportunity{
			{
				Opportunity: core.Opportunity{
					ID:                   "opp-1",
					Type:                 core.TypeSavingsOptimization,
					Title:                "Move idle cash",
					PotentialAnnualValue: 12_000,
				},
				CompositeScore: 8.56,
			},
		},
		Recommendations: []string{"Start here: Move idle cash (worth ₹12000/year)"},
	}
}

func TestRecordAndGetRoundTrip(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	want := sampleResult("a1", "user-1")
	require.NoError(t, h.Record(ctx, want))

	got, err := h.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetMissingAnalysis(t *testing.T) {
	h := newTestHistory(t)
	_, err := h.Get(context.Background(), "nope")
	assert.EqualError(t, err, "analysis not found")
}

func TestListByUser(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	require.NoError(t, h.Record(ctx, sampleResult("a1", "user-1")))
	require.NoError(t, h.Record(ctx, sampleResult("a2", "user-1")))
	require.NoError(t, h.Record(ctx, sampleResult("a3", "user-2")))

	results, err := h.ListByUser(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "user-1", r.UserID)
	}

	limited, err := h.ListByUser(ctx, "user-1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
