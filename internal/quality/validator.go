// Package quality scores assembled product records across four
// independent dimensions. The validator only annotates: it never drops
// data, so downstream consumers pick their own threshold.
package quality

import (
	"math"
	"regexp"
	"strings"

	"github.com/ecotrace/carbon-cli/internal/config"
	"github.com/ecotrace/carbon-cli/internal/model"
	"github.com/ecotrace/carbon-cli/pkg/geocode"
	"go.uber.org/zap"
)

// Validator computes QualityAssessments. It is stateless; the same record
// always yields the same assessment.
type Validator struct {
	weights config.QualityWeights
}

// NewValidator creates a Validator with the given dimension weights.
func NewValidator(weights config.QualityWeights) *Validator {
	return &Validator{weights: weights}
}

// Assess computes the four quality ratios and the overall grade.
func (v *Validator) Assess(rec *model.ProductRecord) model.QualityAssessment {
	qa := model.QualityAssessment{
		Completeness: completeness(rec),
		Accuracy:     accuracy(rec),
		Consistency:  consistency(rec),
		Outlier:      outlier(rec),
	}

	w := v.weights
	total := w.Completeness + w.Accuracy + w.Consistency + w.Outlier
	var score float64
	if total == 0 {
		zap.L().Warn("quality: all weights are zero, falling back to completeness-only")
		score = qa.Completeness
	} else {
		// Outlier ratio counts against quality, so it enters inverted.
		score = (w.Completeness*qa.Completeness +
			w.Accuracy*qa.Accuracy +
			w.Consistency*qa.Consistency +
			w.Outlier*(1-qa.Outlier)) / total
	}
	qa.OverallGrade = gradeFor(score)
	return qa
}

func gradeFor(score float64) model.Grade {
	switch {
	case score >= 0.9:
		return model.GradeAPlus
	case score >= 0.8:
		return model.GradeA
	case score >= 0.65:
		return model.GradeB
	case score >= 0.5:
		return model.GradeC
	case score >= 0.35:
		return model.GradeD
	default:
		return model.GradeF
	}
}

// completeness is populated attributes over expected attributes. A
// low-confidence category fallback still counts as present.
func completeness(rec *model.ProductRecord) float64 {
	return float64(rec.Populated()) / float64(len(model.AttributeNames))
}

var asinFormatRe = regexp.MustCompile(`^[A-Z0-9]{10}$`)

// accuracy is populated attributes passing type/range checks over
// populated attributes.
func accuracy(rec *model.ProductRecord) float64 {
	populated, passing := 0, 0

	check := func(present, pass bool) {
		if !present {
			return
		}
		populated++
		if pass {
			passing++
		}
	}

	check(rec.Field("title").Present(), len(rec.Title) >= 3 && len(rec.Title) <= 500)
	check(rec.WeightKG != nil, rec.WeightKG != nil && *rec.WeightKG >= 0.001 && *rec.WeightKG <= 500)
	check(rec.Field("material").Present(), rec.Material != "" && len(rec.Material) <= 60)
	check(rec.Field("origin").Present(), geocode.Known(rec.Origin))
	check(rec.Field("brand").Present(), len(rec.Brand) >= 2 && len(rec.Brand) <= 40)
	check(rec.Dimensions != nil, rec.Dimensions != nil && rec.Dimensions.VolumeCM3() > 0)
	check(rec.Field("asin").Present(), asinFormatRe.MatchString(rec.ASIN))

	if populated == 0 {
		return 0
	}
	return float64(passing) / float64(populated)
}

// consistency runs cross-field checks and reports the passing ratio. With
// no checks attempted the record is vacuously consistent.
func consistency(rec *model.ProductRecord) float64 {
	attempted, passed := 0, 0

	// Weight plausible for declared dimensions: bulk density of a packaged
	// product stays within 0.01-20 g/cm3.
	if rec.WeightKG != nil && rec.Dimensions != nil {
		attempted++
		vol := rec.Dimensions.VolumeCM3()
		if vol > 0 {
			density := (*rec.WeightKG * 1000) / vol
			if density >= 0.01 && density <= 20 {
				passed++
			}
		}
	}

	// Declared origin resolves to a real place.
	if rec.Field("origin").Present() {
		attempted++
		if geocode.Known(rec.Origin) {
			passed++
		}
	}

	// Extracted brand should appear somewhere in the title.
	if rec.Field("brand").Present() && rec.Title != "" {
		attempted++
		if strings.Contains(strings.ToLower(rec.Title), strings.ToLower(rec.Brand)) {
			passed++
		}
	}

	if attempted == 0 {
		return 1
	}
	return float64(passed) / float64(attempted)
}

// Reference log10-weight distribution for consumer products shipped as
// parcels. Used for the outlier check; deliberately wide.
const (
	refLogWeightMean  = -0.3 // ~0.5 kg
	refLogWeightSigma = 1.0
)

// outlier is the share of populated numeric attributes that sit far out-
// side the reference distribution (|z| > 2 on log weight, or a degenerate
// aspect ratio on dimensions).
func outlier(rec *model.ProductRecord) float64 {
	populated, outliers := 0, 0

	if rec.WeightKG != nil {
		populated++
		z := (math.Log10(*rec.WeightKG) - refLogWeightMean) / refLogWeightSigma
		if math.Abs(z) > 2 {
			outliers++
		}
	}

	if rec.Dimensions != nil {
		populated++
		d := rec.Dimensions
		longest := math.Max(d.LengthCM, math.Max(d.WidthCM, d.HeightCM))
		shortest := math.Min(d.LengthCM, math.Min(d.WidthCM, d.HeightCM))
		if shortest > 0 && longest/shortest > 100 {
			outliers++
		}
	}

	if populated == 0 {
		return 0
	}
	return float64(outliers) / float64(populated)
}
