package model

import (
	"fmt"
	"strconv"
	"time"
)

// QualityAssessment holds the four data-quality ratios, each in [0, 1],
// and the weighted overall grade.
type QualityAssessment struct {
	Completeness float64 `json:"completeness"`
	Accuracy     float64 `json:"accuracy"`
	Consistency  float64 `json:"consistency"`
	Outlier      float64 `json:"outlier"`
	OverallGrade Grade   `json:"overall_grade"`
}

// TransportMode is the shipping mode selected from the origin distance.
type TransportMode string

const (
	TransportGround TransportMode = "ground"
	TransportSea    TransportMode = "sea"
	TransportAir    TransportMode = "air"
)

// CarbonEstimate is the deterministic rule-based carbon figure.
type CarbonEstimate struct {
	Grade             Grade         `json:"grade"`
	CO2KG             float64       `json:"co2_kg"`
	TransportMode     TransportMode `json:"transport_mode"`
	MaterialIntensity float64       `json:"material_intensity"`
	DistanceKM        float64       `json:"distance_km"`
	Confidence        float64       `json:"confidence"`
	LowConfidence     bool          `json:"low_confidence"`
}

// ModelPrediction is the external predictor's answer.
type ModelPrediction struct {
	Grade      Grade   `json:"grade"`
	Confidence float64 `json:"confidence"`
}

// FeatureVector is the fixed input contract of the external predictor.
type FeatureVector struct {
	Material      string  `json:"material"`
	TransportMode string  `json:"transport_mode"`
	Recyclability string  `json:"recyclability"`
	Origin        string  `json:"origin,omitempty"`
	LogWeight     float64 `json:"log_weight"`
	WeightBucket  string  `json:"weight_bucket"`
}

// ConsensusResult reconciles the rule-based and model grades. The
// explanation is part of the output contract.
type ConsensusResult struct {
	RuleGrade   Grade  `json:"rule_grade"`
	ModelGrade  Grade  `json:"model_grade,omitempty"`
	FinalGrade  Grade  `json:"final_grade"`
	Agreement   bool   `json:"agreement"`
	Explanation string `json:"explanation"`
}

// Analysis is the complete output for one analyzed URL.
type Analysis struct {
	ID          string            `json:"id"`
	Record      ProductRecord     `json:"record"`
	Quality     QualityAssessment `json:"quality"`
	Estimate    CarbonEstimate    `json:"estimate"`
	Consensus   ConsensusResult   `json:"consensus"`
	FetchSource string            `json:"fetch_source"`
	AnalyzedAt  time.Time         `json:"analyzed_at"`
}

// Flatten renders the analysis as flat key-value pairs for CLI and HTTP
// output. Every target attribute appears with a confidence_<attr> entry
// even when absent, so consumers see a stable key set.
func (a *Analysis) Flatten() map[string]string {
	flat := map[string]string{
		"id":           a.ID,
		"url":          a.Record.URL,
		"fetch_source": a.FetchSource,
		"analyzed_at":  a.AnalyzedAt.Format(time.RFC3339),

		"quality_grade":        string(a.Quality.OverallGrade),
		"quality_completeness": formatRatio(a.Quality.Completeness),
		"quality_accuracy":     formatRatio(a.Quality.Accuracy),
		"quality_consistency":  formatRatio(a.Quality.Consistency),
		"quality_outlier":      formatRatio(a.Quality.Outlier),

		"carbon_grade":      string(a.Estimate.Grade),
		"co2_kg":            strconv.FormatFloat(a.Estimate.CO2KG, 'f', 3, 64),
		"carbon_co2_kg":     strconv.FormatFloat(a.Estimate.CO2KG, 'f', 3, 64),
		"carbon_confidence": formatRatio(a.Estimate.Confidence),
		"transport_mode":    string(a.Estimate.TransportMode),
		"distance_km":       strconv.FormatFloat(a.Estimate.DistanceKM, 'f', 0, 64),
		"low_confidence":    strconv.FormatBool(a.Estimate.LowConfidence),

		"final_grade": string(a.Consensus.FinalGrade),
		"rule_grade":  string(a.Consensus.RuleGrade),
		"model_grade": string(a.Consensus.ModelGrade),
		"agreement":   strconv.FormatBool(a.Consensus.Agreement),
		"explanation": a.Consensus.Explanation,
	}

	for _, name := range AttributeNames {
		f := a.Record.Field(name)
		flat[name] = f.Normalized
		flat["confidence_"+name] = formatRatio(f.Tier.Score())
	}

	return flat
}

// Summary is the one-line rendering used by batch output.
func (a *Analysis) Summary() string {
	title := a.Record.Title
	if title == "" {
		title = a.Record.URL
	}
	return fmt.Sprintf("%s: %s (co2 %.2f kg, quality %s, agreement %t)",
		title, a.Consensus.FinalGrade, a.Estimate.CO2KG, a.Quality.OverallGrade, a.Consensus.Agreement)
}

func formatRatio(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
