// Package consensus reconciles the rule-based carbon estimate with the
// external model prediction into one reported grade.
package consensus

import (
	"fmt"

	"github.com/ecotrace/carbon-cli/internal/model"
)

// Engine merges the two estimates. Policy: above the configured model-
// confidence threshold the model grade is reported outright; below it the
// side with higher stated confidence wins, with an exact tie breaking
// toward the rule-based grade because it is auditable.
type Engine struct {
	modelConfidenceThreshold float64
}

// NewEngine creates a consensus Engine.
func NewEngine(modelConfidenceThreshold float64) *Engine {
	if modelConfidenceThreshold <= 0 {
		modelConfidenceThreshold = 0.8
	}
	return &Engine{modelConfidenceThreshold: modelConfidenceThreshold}
}

// Merge reconciles the two grades. prediction is nil when the predictor
// boundary was unavailable; the result then carries the rule grade alone
// and says so in the explanation. The explanation is part of the output
// contract, not telemetry: dual-method transparency is the point.
func (e *Engine) Merge(est model.CarbonEstimate, prediction *model.ModelPrediction) model.ConsensusResult {
	res := model.ConsensusResult{
		RuleGrade: est.Grade,
	}

	if prediction == nil || prediction.Grade == model.GradeUnknown {
		res.FinalGrade = est.Grade
		res.Agreement = false
		res.Explanation = fmt.Sprintf(
			"rule-based grade %s (confidence %.2f); model prediction unavailable, reporting rule-based grade only",
			est.Grade, est.Confidence)
		return res
	}

	res.ModelGrade = prediction.Grade
	res.Agreement = est.Grade == prediction.Grade

	if prediction.Confidence >= e.modelConfidenceThreshold {
		res.FinalGrade = prediction.Grade
	} else {
		res.FinalGrade = blend(est, *prediction)
	}

	agreeWord := "disagree"
	if res.Agreement {
		agreeWord = "agree"
	}
	res.Explanation = fmt.Sprintf(
		"rule-based grade %s (confidence %.2f) and model grade %s (confidence %.2f) %s; reporting %s",
		est.Grade, est.Confidence, prediction.Grade, prediction.Confidence, agreeWord, res.FinalGrade)

	return res
}

// blend combines the two grades on the ordinal scale, weighted by stated
// confidence so the more confident side dominates. An exact confidence
// tie reports the rule-based grade: it is explainable, the model is not.
func blend(est model.CarbonEstimate, prediction model.ModelPrediction) model.Grade {
	ruleOrd, ruleOK := est.Grade.Ordinal()
	modelOrd, modelOK := prediction.Grade.Ordinal()
	if !modelOK {
		return est.Grade
	}
	if !ruleOK {
		return prediction.Grade
	}
	if est.Confidence == prediction.Confidence {
		return est.Grade
	}

	total := est.Confidence + prediction.Confidence
	if total <= 0 {
		return est.Grade
	}
	return model.GradeFromOrdinal((est.Confidence*ruleOrd + prediction.Confidence*modelOrd) / total)
}
