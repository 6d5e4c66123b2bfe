package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/ecotrace/carbon-cli/internal/model"
)

func TestWriteXLSX(t *testing.T) {
	weight := 2.27
	analyses := []model.Analysis{
		{
			Record: model.ProductRecord{
				URL:      "https://example.com/dp/B000000001",
				Title:    "Acme Whey 2.27kg",
				WeightKG: &weight,
				Material: "plastic",
				Origin:   "canada",
				Brand:    "Acme",
			},
			Quality:  model.QualityAssessment{OverallGrade: model.GradeB},
			Estimate: model.CarbonEstimate{CO2KG: 8.1, TransportMode: model.TransportSea},
			Consensus: model.ConsensusResult{
				RuleGrade: model.GradeB, ModelGrade: model.GradeC, FinalGrade: model.GradeB,
				Agreement: false, Explanation: "disagree",
			},
		},
		{
			Record:    model.ProductRecord{URL: "https://example.com/dp/B000000002"},
			Consensus: model.ConsensusResult{FinalGrade: model.GradeD},
		},
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, analyses))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "analyses", sheet.Name)
	require.Len(t, sheet.Rows, 3) // header + two data rows

	header := sheet.Rows[0]
	assert.Equal(t, "url", header.Cells[0].Value)
	assert.Equal(t, "final_grade", header.Cells[11].Value)

	first := sheet.Rows[1]
	assert.Equal(t, "https://example.com/dp/B000000001", first.Cells[0].Value)
	assert.Equal(t, "2.2700", first.Cells[2].Value)
	assert.Equal(t, "B", first.Cells[11].Value)
	assert.Equal(t, "false", first.Cells[12].Value)

	// Missing weight renders as an empty cell, not a zero.
	assert.Equal(t, "", sheet.Rows[2].Cells[2].Value)
}

func TestWriteXLSX_EmptyInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteXLSX(path, nil))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	assert.Len(t, file.Sheets[0].Rows, 1)
}
