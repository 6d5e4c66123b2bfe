package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ecotrace/carbon-cli/internal/carbon"
	"github.com/ecotrace/carbon-cli/internal/config"
	"github.com/ecotrace/carbon-cli/internal/consensus"
	"github.com/ecotrace/carbon-cli/internal/extract"
	"github.com/ecotrace/carbon-cli/internal/fetch"
	"github.com/ecotrace/carbon-cli/internal/pipeline"
	"github.com/ecotrace/carbon-cli/internal/quality"
	"github.com/ecotrace/carbon-cli/internal/ratelimit"
	"github.com/ecotrace/carbon-cli/pkg/geocode"
	"github.com/ecotrace/carbon-cli/pkg/predictor"
	"github.com/ecotrace/carbon-cli/pkg/websearch"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "carbon-cli",
	Short: "Product carbon impact analyzer",
	Long:  "Fetches a product listing, extracts typed attributes with per-field confidence, scores data quality, and reports a dual-method carbon grade.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// buildAnalyzer wires the pipeline stages from configuration. The returned
// analyzer is safe to share across batch workers: the only shared mutable
// state is the host limiter, which synchronizes internally.
func buildAnalyzer(c *config.Config) (*pipeline.Analyzer, error) {
	limiter := ratelimit.NewHostLimiter(
		c.RateLimit.RequestsPerSecond,
		c.RateLimit.Burst,
		ratelimit.WithBackoff(
			time.Duration(c.Fetch.InitialBackoffMs)*time.Millisecond,
			time.Duration(c.Fetch.MaxBackoffMs)*time.Millisecond,
		),
	)

	var search websearch.Client
	if c.Search.BaseURL != "" {
		search = websearch.NewClient(c.Search.Key, websearch.WithBaseURL(c.Search.BaseURL))
	}

	strategies := []fetch.Strategy{
		fetch.NewDirectStrategy(limiter, c.Fetch.UserAgent, c.Fetch.MaxBodyBytes),
	}
	if search != nil {
		strategies = append(strategies, fetch.NewSearchStrategy(search, limiter, c.Fetch.UserAgent, c.Fetch.MaxBodyBytes))
	}
	strategies = append(strategies, fetch.NewMobileStrategy(limiter, c.Fetch.MobileUserAgent, c.Fetch.MaxBodyBytes))

	chain := fetch.NewChain(limiter,
		c.Fetch.RetriesPerStrategy,
		time.Duration(c.Fetch.AttemptTimeoutSecs)*time.Second,
		time.Duration(c.Fetch.OverallTimeoutSecs)*time.Second,
		strategies...,
	)

	table := carbon.DefaultTable()
	if c.Estimator.MaterialTablePath != "" {
		t, err := carbon.LoadTable(c.Estimator.MaterialTablePath)
		if err != nil {
			return nil, err
		}
		table = t
	}

	geo := geocode.NewClient()
	estimator := carbon.NewEstimator(table, geo, c.Estimator.DefaultMaterial, c.Estimator.DefaultDistanceKM, c.Estimator.Destination)

	var pred predictor.Client
	if c.Predictor.BaseURL != "" {
		pred = predictor.NewClient(c.Predictor.BaseURL, c.Predictor.Key,
			predictor.WithTimeout(time.Duration(c.Predictor.TimeoutSecs)*time.Second),
		)
	}

	return pipeline.NewAnalyzer(
		chain,
		extract.NewEngine(),
		quality.NewValidator(c.Quality.Weights),
		estimator,
		consensus.NewEngine(c.Consensus.ModelConfidenceThreshold),
		pred,
	), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
