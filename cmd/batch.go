package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ecotrace/carbon-cli/internal/model"
	"github.com/ecotrace/carbon-cli/internal/pipeline"
	"github.com/ecotrace/carbon-cli/internal/report"
	"github.com/ecotrace/carbon-cli/internal/store"
)

var (
	batchConcurrency int
	batchXLSX        string
	batchSave        bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <url-file>",
	Short: "Analyze a file of listing URLs (one per line)",
	Long:  "Runs the pipeline across a bounded worker pool. All workers share one per-host rate limiter, so the requests-per-second ceiling holds regardless of concurrency.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		urls, err := readURLFile(args[0])
		if err != nil {
			return err
		}
		if len(urls) == 0 {
			return fmt.Errorf("batch: no URLs in %s", args[0])
		}

		analyzer, err := buildAnalyzer(cfg)
		if err != nil {
			return err
		}

		var st store.Store
		if batchSave {
			st, err = store.Open(cmd.Context(), cfg.Store.Driver, cfg.Store.DatabaseURL, cfg.Store.SQLitePath)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			if err := st.Migrate(cmd.Context()); err != nil {
				return err
			}
		}

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.MaxConcurrent
		}

		var (
			mu       sync.Mutex
			analyses []model.Analysis
			failed   int
		)

		g, gCtx := errgroup.WithContext(cmd.Context())
		g.SetLimit(concurrency)

		for _, u := range urls {
			u := u
			g.Go(func() error {
				analysis, err := analyzer.Analyze(gCtx, pipeline.Request{URL: u})
				if err != nil {
					zap.L().Error("batch: analysis failed",
						zap.String("url", u),
						zap.Error(err),
					)
					mu.Lock()
					failed++
					mu.Unlock()
					return nil
				}

				if st != nil {
					if err := st.SaveAnalysis(gCtx, analysis); err != nil {
						zap.L().Warn("batch: save failed",
							zap.String("url", u),
							zap.Error(err),
						)
					}
				}

				mu.Lock()
				analyses = append(analyses, *analysis)
				mu.Unlock()

				fmt.Println(analysis.Summary())
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		if batchXLSX != "" {
			if err := report.WriteXLSX(batchXLSX, analyses); err != nil {
				return err
			}
			zap.L().Info("batch: report written", zap.String("path", batchXLSX))
		}

		fmt.Printf("done: %d analyzed, %d failed\n", len(analyses), failed)
		return nil
	},
}

func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "worker pool size (defaults to config)")
	batchCmd.Flags().StringVar(&batchXLSX, "xlsx", "", "write an xlsx report to this path")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "persist results to the analysis store")
	rootCmd.AddCommand(batchCmd)
}
