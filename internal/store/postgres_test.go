package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrace/carbon-cli/internal/model"
)

func TestPostgresStore_Migrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS analyses").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	s := NewPostgresWithPool(mock)
	assert.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveAnalysis(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a := testStoreAnalysis("a1", "https://example.com/dp/1", model.GradeB)

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(a.ID, a.Record.URL, "B", true, pgxmock.AnyArg(), a.AnalyzedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	s := NewPostgresWithPool(mock)
	assert.NoError(t, s.SaveAnalysis(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetAnalysis(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a := testStoreAnalysis("a1", "https://example.com/dp/1", model.GradeB)
	payload, err := json.Marshal(a)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT payload FROM analyses WHERE id =").
		WithArgs("a1").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(payload))

	s := NewPostgresWithPool(mock)
	got, err := s.GetAnalysis(context.Background(), "a1")

	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)
	assert.Equal(t, model.GradeB, got.Consensus.FinalGrade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetAnalysis_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT payload FROM analyses WHERE id =").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}))

	s := NewPostgresWithPool(mock)
	_, err = s.GetAnalysis(context.Background(), "missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPostgresStore_ListAnalyses_Filters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a := testStoreAnalysis("a1", "https://example.com/dp/1", model.GradeB)
	payload, err := json.Marshal(a)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT payload FROM analyses WHERE 1=1 AND url = \\$1 AND final_grade = \\$2 ORDER BY analyzed_at DESC LIMIT \\$3").
		WithArgs("https://example.com/dp/1", "B", 10).
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(payload))

	s := NewPostgresWithPool(mock)
	out, err := s.ListAnalyses(context.Background(), ListFilter{
		URL: "https://example.com/dp/1", Grade: "B", Limit: 10,
	})

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a1", out[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
