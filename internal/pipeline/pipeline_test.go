package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrace/carbon-cli/internal/carbon"
	"github.com/ecotrace/carbon-cli/internal/config"
	"github.com/ecotrace/carbon-cli/internal/consensus"
	"github.com/ecotrace/carbon-cli/internal/extract"
	"github.com/ecotrace/carbon-cli/internal/fetch"
	"github.com/ecotrace/carbon-cli/internal/model"
	"github.com/ecotrace/carbon-cli/internal/quality"
	"github.com/ecotrace/carbon-cli/internal/ratelimit"
	"github.com/ecotrace/carbon-cli/pkg/geocode"
)

const fixtureURL = "https://www.amazon.com/MUTANT-ISO-Surge/dp/B01N5IYGQH"

const fixtureHTML = `<html>
<head><title>MUTANT ISO Surge | Whey Protein Isolate</title></head>
<body>
	<h1 id="productTitle">MUTANT ISO Surge Whey Protein Isolate Chocolate</h1>
	<div id="feature-bullets"><ul>
		<li>25g Protein Per Serving</li>
		<li>Resealable tub keeps powder fresh</li>
	</ul></div>
	<table>
		<tr><th>Brand</th><td>MUTANT</td></tr>
		<tr><th>Item Weight</th><td>2.27 Kilograms</td></tr>
		<tr><th>Country of Origin</th><td>Canada</td></tr>
	</table>
</body>
</html>`

// fixtureStrategy serves canned HTML without touching the network.
type fixtureStrategy struct {
	content string
	fail    bool
}

func (f *fixtureStrategy) Name() string { return "fixture" }

func (f *fixtureStrategy) Fetch(_ context.Context, targetURL string) fetch.Outcome {
	if f.fail {
		return fetch.Outcome{Kind: fetch.OutcomeNetworkFailure, Strategy: "fixture", URL: targetURL, Err: errors.New("unreachable")}
	}
	return fetch.Outcome{Kind: fetch.OutcomeDocument, Strategy: "fixture", URL: targetURL, Content: f.content}
}

// stubPredictor implements predictor.Client.
type stubPredictor struct {
	prediction *model.ModelPrediction
	err        error
	features   model.FeatureVector
}

func (s *stubPredictor) Predict(_ context.Context, features model.FeatureVector) (*model.ModelPrediction, error) {
	s.features = features
	return s.prediction, s.err
}

func newTestAnalyzer(strategy fetch.Strategy, pred *stubPredictor) *Analyzer {
	limiter := ratelimit.NewHostLimiter(1000, 10, ratelimit.WithBackoff(time.Millisecond, 2*time.Millisecond))
	chain := fetch.NewChain(limiter, 1, 0, 0, strategy)
	weights := config.QualityWeights{Completeness: 0.35, Accuracy: 0.30, Consistency: 0.20, Outlier: 0.15}
	estimator := carbon.NewEstimator(carbon.DefaultTable(), geocode.NewClient(), "mixed", 5000, "united states")

	a := NewAnalyzer(chain, extract.NewEngine(), quality.NewValidator(weights), estimator, consensus.NewEngine(0.8), nil)
	if pred != nil {
		// Assign after construction so a nil *stubPredictor never becomes a
		// non-nil interface value.
		a.predictor = pred
	}
	return a
}

func TestAnalyze_EndToEnd(t *testing.T) {
	pred := &stubPredictor{prediction: &model.ModelPrediction{Grade: model.GradeC, Confidence: 0.9}}
	a := newTestAnalyzer(&fixtureStrategy{content: fixtureHTML}, pred)

	analysis, err := a.Analyze(context.Background(), Request{URL: fixtureURL})
	require.NoError(t, err)

	assert.NotEmpty(t, analysis.ID)
	assert.Equal(t, "fixture", analysis.FetchSource)
	assert.False(t, analysis.AnalyzedAt.IsZero())

	require.NotNil(t, analysis.Record.WeightKG)
	assert.InDelta(t, 2.27, *analysis.Record.WeightKG, 0.0001)
	assert.Equal(t, "canada", analysis.Record.Origin)
	assert.Equal(t, "B01N5IYGQH", analysis.Record.ASIN)

	assert.NotEqual(t, model.GradeUnknown, analysis.Quality.OverallGrade)

	// Canada to the US by country centroid is a medium haul.
	assert.Equal(t, model.TransportSea, analysis.Estimate.TransportMode)

	// The confident model grade is reported outright.
	assert.Equal(t, model.GradeC, analysis.Consensus.FinalGrade)
	assert.NotEmpty(t, analysis.Consensus.Explanation)

	// The predictor saw features derived from the record.
	assert.Equal(t, "sea", pred.features.TransportMode)
	assert.Equal(t, "plastic", pred.features.Material)
}

func TestAnalyze_FetchFailureIsTheOnlyFatalPath(t *testing.T) {
	a := newTestAnalyzer(&fixtureStrategy{fail: true}, nil)

	analysis, err := a.Analyze(context.Background(), Request{URL: fixtureURL})
	require.Error(t, err)
	assert.Nil(t, analysis)

	var exhausted *fetch.ErrChainExhausted
	assert.ErrorAs(t, err, &exhausted)
}

func TestAnalyze_PredictorFailureDegradesToRuleOnly(t *testing.T) {
	pred := &stubPredictor{err: errors.New("model offline")}
	a := newTestAnalyzer(&fixtureStrategy{content: fixtureHTML}, pred)

	analysis, err := a.Analyze(context.Background(), Request{URL: fixtureURL})
	require.NoError(t, err)

	assert.Equal(t, analysis.Consensus.RuleGrade, analysis.Consensus.FinalGrade)
	assert.Equal(t, model.GradeUnknown, analysis.Consensus.ModelGrade)
	assert.Contains(t, analysis.Consensus.Explanation, "unavailable")
}

func TestAnalyze_NoPredictorConfigured(t *testing.T) {
	a := newTestAnalyzer(&fixtureStrategy{content: fixtureHTML}, nil)

	analysis, err := a.Analyze(context.Background(), Request{URL: fixtureURL})
	require.NoError(t, err)

	assert.Equal(t, analysis.Consensus.RuleGrade, analysis.Consensus.FinalGrade)
}

func TestAnalyze_QuantityMultiplies(t *testing.T) {
	a := newTestAnalyzer(&fixtureStrategy{content: fixtureHTML}, nil)

	one, err := a.Analyze(context.Background(), Request{URL: fixtureURL, Quantity: 1})
	require.NoError(t, err)
	five, err := a.Analyze(context.Background(), Request{URL: fixtureURL, Quantity: 5})
	require.NoError(t, err)

	assert.InDelta(t, one.Estimate.CO2KG*5, five.Estimate.CO2KG, 0.0001)
}

func TestAnalyze_DestinationOverride(t *testing.T) {
	a := newTestAnalyzer(&fixtureStrategy{content: fixtureHTML}, nil)

	// Canada to Australia forces a long haul regardless of the default.
	analysis, err := a.Analyze(context.Background(), Request{URL: fixtureURL, Destination: "australia"})
	require.NoError(t, err)

	assert.Equal(t, model.TransportAir, analysis.Estimate.TransportMode)
}
