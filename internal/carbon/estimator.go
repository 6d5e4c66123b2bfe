package carbon

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/ecotrace/carbon-cli/internal/model"
	"github.com/ecotrace/carbon-cli/pkg/geocode"
)

// Transport-mode distance thresholds in km. Short hauls go by road, long
// intercontinental hauls by air, everything between by sea.
const (
	groundMaxKM = 1500.0
	seaMaxKM    = 6000.0
)

// Fallbacks applied when the record is missing data. The estimate is
// marked low-confidence instead of being omitted.
const fallbackWeightKG = 0.5

// Estimator computes the deterministic rule-based carbon figure. It never
// fails: missing inputs degrade to documented defaults.
type Estimator struct {
	table             *Table
	geo               geocode.Client
	defaultMaterial   string
	defaultDistanceKM float64
	destination       string
}

// NewEstimator creates an Estimator. geo may be nil; distance then always
// uses the configured default.
func NewEstimator(table *Table, geo geocode.Client, defaultMaterial string, defaultDistanceKM float64, destination string) *Estimator {
	if table == nil {
		table = DefaultTable()
	}
	if defaultMaterial == "" {
		defaultMaterial = "mixed"
	}
	if defaultDistanceKM <= 0 {
		defaultDistanceKM = 5000
	}
	return &Estimator{
		table:             table,
		geo:               geo,
		defaultMaterial:   defaultMaterial,
		defaultDistanceKM: defaultDistanceKM,
		destination:       destination,
	}
}

// SelectMode buckets a distance into a transport mode.
func SelectMode(distanceKM float64) model.TransportMode {
	switch {
	case distanceKM < groundMaxKM:
		return model.TransportGround
	case distanceKM <= seaMaxKM:
		return model.TransportSea
	default:
		return model.TransportAir
	}
}

// Estimate computes co2 = intensity(material) x weight + transport
// emissions for the resolved distance. destination overrides the
// configured default when non-empty; quantity scales the final figure.
func (e *Estimator) Estimate(ctx context.Context, rec *model.ProductRecord, destination string, quantity int) model.CarbonEstimate {
	if quantity < 1 {
		quantity = 1
	}

	confidence := 1.0

	material := rec.Material
	if material == "" {
		material = e.defaultMaterial
		confidence -= 0.25
	}
	intensity, known := e.table.Intensity(material)
	if !known {
		confidence -= 0.15
	}

	weight := fallbackWeightKG
	if rec.WeightKG != nil {
		weight = *rec.WeightKG
		// Downgrade trust in low-tier weight sources.
		if !rec.Field("weight_kg").Tier.AtLeast(model.TierMedium) {
			confidence -= 0.15
		}
	} else {
		confidence -= 0.3
	}

	dest := destination
	if dest == "" {
		dest = e.destination
	}
	distance, resolved := e.resolveDistance(ctx, rec.Origin, dest)
	if !resolved {
		confidence -= 0.2
	}

	mode := SelectMode(distance)
	perKgKm := e.table.Transport[mode]

	co2 := (intensity*weight + perKgKm*weight*distance) * float64(quantity)

	if confidence < 0 {
		confidence = 0
	}

	est := model.CarbonEstimate{
		Grade:             gradeForCO2(co2),
		CO2KG:             co2,
		TransportMode:     mode,
		MaterialIntensity: intensity,
		DistanceKM:        distance,
		Confidence:        confidence,
		LowConfidence:     confidence < 0.6,
	}

	zap.L().Debug("carbon: rule-based estimate",
		zap.Float64("co2_kg", est.CO2KG),
		zap.String("transport_mode", string(est.TransportMode)),
		zap.Float64("distance_km", distance),
		zap.Float64("confidence", confidence),
	)

	return est
}

// resolveDistance geocodes origin and destination and returns the great-
// circle distance, or the configured default when either end is unknown.
func (e *Estimator) resolveDistance(ctx context.Context, origin, destination string) (float64, bool) {
	if origin == "" || destination == "" || e.geo == nil {
		return e.defaultDistanceKM, false
	}

	from, err := e.geo.Geocode(ctx, origin)
	if err != nil || !from.Matched {
		return e.defaultDistanceKM, false
	}
	to, err := e.geo.Geocode(ctx, destination)
	if err != nil || !to.Matched {
		return e.defaultDistanceKM, false
	}

	return HaversineKM(from.Latitude, from.Longitude, to.Latitude, to.Longitude), true
}

// gradeForCO2 maps absolute kg CO2 onto the ordinal grade scale.
func gradeForCO2(co2 float64) model.Grade {
	switch {
	case co2 < 0.5:
		return model.GradeAPlus
	case co2 < 2:
		return model.GradeA
	case co2 < 6:
		return model.GradeB
	case co2 < 15:
		return model.GradeC
	case co2 < 40:
		return model.GradeD
	default:
		return model.GradeF
	}
}

// Features builds the fixed feature-vector contract supplied to the
// external predictor.
func Features(rec *model.ProductRecord, est model.CarbonEstimate) model.FeatureVector {
	weight := fallbackWeightKG
	if rec.WeightKG != nil {
		weight = *rec.WeightKG
	}

	bucket := "medium"
	switch {
	case weight < 0.1:
		bucket = "tiny"
	case weight < 0.5:
		bucket = "small"
	case weight < 5:
		bucket = "medium"
	case weight < 30:
		bucket = "large"
	default:
		bucket = "bulk"
	}

	material := rec.Material
	if material == "" {
		material = "unknown"
	}

	return model.FeatureVector{
		Material:      material,
		TransportMode: string(est.TransportMode),
		Recyclability: Recyclability(rec.Material),
		Origin:        rec.Origin,
		LogWeight:     math.Log10(weight),
		WeightBucket:  bucket,
	}
}
