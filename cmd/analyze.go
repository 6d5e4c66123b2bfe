package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ecotrace/carbon-cli/internal/pipeline"
)

var (
	analyzeDest string
	analyzeQty  int
	analyzeJSON bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze one product listing URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, err := buildAnalyzer(cfg)
		if err != nil {
			return err
		}

		analysis, err := analyzer.Analyze(cmd.Context(), pipeline.Request{
			URL:         args[0],
			Destination: analyzeDest,
			Quantity:    analyzeQty,
		})
		if err != nil {
			return err
		}

		flat := analysis.Flatten()
		if analyzeJSON {
			out, err := json.MarshalIndent(flat, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		keys := make([]string, 0, len(flat))
		for k := range flat {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%-26s %s\n", k, flat[k])
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDest, "dest", "", "destination location for transport distance (defaults to config)")
	analyzeCmd.Flags().IntVar(&analyzeQty, "qty", 1, "quantity multiplier")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "emit JSON instead of aligned text")
	rootCmd.AddCommand(analyzeCmd)
}
