package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrace/carbon-cli/internal/model"
)

func testStoreAnalysis(id, url string, grade model.Grade) *model.Analysis {
	weight := 2.27
	return &model.Analysis{
		ID: id,
		Record: model.ProductRecord{
			URL:      url,
			Title:    "Acme Whey 2.27kg",
			WeightKG: &weight,
			Material: "plastic",
			Fields: map[string]model.ExtractedField{
				"weight_kg": {Name: "weight_kg", Normalized: "2.2700", Tier: model.TierHigh},
			},
		},
		Quality:  model.QualityAssessment{Completeness: 0.5, OverallGrade: model.GradeB},
		Estimate: model.CarbonEstimate{Grade: grade, CO2KG: 8.1, TransportMode: model.TransportSea},
		Consensus: model.ConsensusResult{
			RuleGrade: grade, FinalGrade: grade, Agreement: true, Explanation: "test",
		},
		FetchSource: "direct",
		AnalyzedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	a := testStoreAnalysis("a1", "https://example.com/dp/B000000001", model.GradeB)
	require.NoError(t, s.SaveAnalysis(ctx, a))

	got, err := s.GetAnalysis(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, a.Record.URL, got.Record.URL)
	assert.Equal(t, a.Consensus.FinalGrade, got.Consensus.FinalGrade)
	require.NotNil(t, got.Record.WeightKG)
	assert.InDelta(t, 2.27, *got.Record.WeightKG, 0.0001)
	assert.Equal(t, model.TierHigh, got.Record.Field("weight_kg").Tier)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s := newTestSQLite(t)
	_, err := s.GetAnalysis(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteStore_ListWithFilters(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAnalysis(ctx, testStoreAnalysis("a1", "https://example.com/dp/1", model.GradeB)))
	require.NoError(t, s.SaveAnalysis(ctx, testStoreAnalysis("a2", "https://example.com/dp/2", model.GradeD)))
	require.NoError(t, s.SaveAnalysis(ctx, testStoreAnalysis("a3", "https://example.com/dp/1", model.GradeB)))

	all, err := s.ListAnalyses(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byURL, err := s.ListAnalyses(ctx, ListFilter{URL: "https://example.com/dp/1"})
	require.NoError(t, err)
	assert.Len(t, byURL, 2)

	byGrade, err := s.ListAnalyses(ctx, ListFilter{Grade: "D"})
	require.NoError(t, err)
	require.Len(t, byGrade, 1)
	assert.Equal(t, "a2", byGrade[0].ID)

	limited, err := s.ListAnalyses(ctx, ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSQLiteStore_MigrateIdempotent(t *testing.T) {
	s := newTestSQLite(t)
	assert.NoError(t, s.Migrate(context.Background()))
}

func TestOpen_DefaultsToSQLite(t *testing.T) {
	st, err := Open(context.Background(), "sqlite", "", filepath.Join(t.TempDir(), "open.db"))
	require.NoError(t, err)
	defer func() { _ = st.Close() }()
	assert.IsType(t, &SQLiteStore{}, st)
}
