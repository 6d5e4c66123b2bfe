// Package pipeline wires the fetch chain, extraction engine, validator,
// estimator, and consensus engine into the single-URL analysis flow.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ecotrace/carbon-cli/internal/carbon"
	"github.com/ecotrace/carbon-cli/internal/consensus"
	"github.com/ecotrace/carbon-cli/internal/extract"
	"github.com/ecotrace/carbon-cli/internal/fetch"
	"github.com/ecotrace/carbon-cli/internal/metrics"
	"github.com/ecotrace/carbon-cli/internal/model"
	"github.com/ecotrace/carbon-cli/internal/quality"
	"github.com/ecotrace/carbon-cli/pkg/predictor"
)

// Request is one analysis job.
type Request struct {
	URL         string
	Destination string // optional destination override for distance
	Quantity    int    // optional multiplier, defaults to 1
}

// Analyzer runs the full pipeline for single URLs. All fields are set at
// construction; instances are safe for concurrent use because every run
// builds its own worker-local values.
type Analyzer struct {
	chain     *fetch.Chain
	engine    *extract.Engine
	validator *quality.Validator
	estimator *carbon.Estimator
	consensus *consensus.Engine
	predictor predictor.Client // nil when no endpoint is configured
}

// NewAnalyzer wires the pipeline stages together.
func NewAnalyzer(chain *fetch.Chain, engine *extract.Engine, validator *quality.Validator, estimator *carbon.Estimator, cons *consensus.Engine, pred predictor.Client) *Analyzer {
	return &Analyzer{
		chain:     chain,
		engine:    engine,
		validator: validator,
		estimator: estimator,
		consensus: cons,
		predictor: pred,
	}
}

// Analyze processes one URL end to end. Total fetch failure is the only
// condition that fails the run; every other problem degrades to a
// partial, confidence-annotated result.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*model.Analysis, error) {
	start := time.Now()

	fetched, report, err := a.chain.Fetch(ctx, req.URL)
	if err != nil {
		metrics.Analysis("failed")
		return nil, eris.Wrapf(err, "pipeline: fetch %s", req.URL)
	}

	doc, err := extract.ParseDocument(fetched.URL, fetched.Content)
	if err != nil {
		metrics.Analysis("failed")
		return nil, eris.Wrapf(err, "pipeline: parse %s", req.URL)
	}

	rec := a.engine.Extract(doc)
	qa := a.validator.Assess(&rec)
	est := a.estimator.Estimate(ctx, &rec, req.Destination, req.Quantity)

	prediction := a.predict(ctx, &rec, est)
	cons := a.consensus.Merge(est, prediction)

	status := "ok"
	if prediction == nil || est.LowConfidence {
		status = "partial"
	}
	metrics.Analysis(status)

	analysis := &model.Analysis{
		ID:          uuid.NewString(),
		Record:      rec,
		Quality:     qa,
		Estimate:    est,
		Consensus:   cons,
		FetchSource: fetched.Source,
		AnalyzedAt:  time.Now().UTC(),
	}

	zap.L().Info("pipeline: analysis complete",
		zap.String("url", req.URL),
		zap.String("source", fetched.Source),
		zap.Bool("blocked_on_the_way", report.Blocked()),
		zap.String("final_grade", string(cons.FinalGrade)),
		zap.Bool("agreement", cons.Agreement),
		zap.Duration("elapsed", time.Since(start)),
	)

	return analysis, nil
}

// predict calls across the model boundary. Any failure, including a
// timeout, degrades to rule-based-only output.
func (a *Analyzer) predict(ctx context.Context, rec *model.ProductRecord, est model.CarbonEstimate) *model.ModelPrediction {
	if a.predictor == nil {
		return nil
	}

	prediction, err := a.predictor.Predict(ctx, carbon.Features(rec, est))
	if err != nil {
		metrics.PredictorFailure()
		zap.L().Warn("pipeline: model predictor unavailable, continuing rule-based only",
			zap.String("url", rec.URL),
			zap.Error(err),
		)
		return nil
	}
	return prediction
}
