// Package report exports batch analysis results.
package report

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/ecotrace/carbon-cli/internal/model"
)

// WriteXLSX writes a summary sheet of batch results to path.
func WriteXLSX(path string, analyses []model.Analysis) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("analyses")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{
		"url", "title", "weight_kg", "material", "origin", "brand",
		"quality_grade", "co2_kg", "transport_mode", "rule_grade",
		"model_grade", "final_grade", "agreement", "explanation",
	} {
		header.AddCell().Value = h
	}

	for i := range analyses {
		a := &analyses[i]
		row := sheet.AddRow()
		row.AddCell().Value = a.Record.URL
		row.AddCell().Value = a.Record.Title
		if a.Record.WeightKG != nil {
			row.AddCell().Value = strconv.FormatFloat(*a.Record.WeightKG, 'f', 4, 64)
		} else {
			row.AddCell().Value = ""
		}
		row.AddCell().Value = a.Record.Material
		row.AddCell().Value = a.Record.Origin
		row.AddCell().Value = a.Record.Brand
		row.AddCell().Value = string(a.Quality.OverallGrade)
		row.AddCell().Value = strconv.FormatFloat(a.Estimate.CO2KG, 'f', 3, 64)
		row.AddCell().Value = string(a.Estimate.TransportMode)
		row.AddCell().Value = string(a.Consensus.RuleGrade)
		row.AddCell().Value = string(a.Consensus.ModelGrade)
		row.AddCell().Value = string(a.Consensus.FinalGrade)
		row.AddCell().Value = strconv.FormatBool(a.Consensus.Agreement)
		row.AddCell().Value = a.Consensus.Explanation
	}

	return eris.Wrapf(file.Save(path), "report: save %s", path)
}
