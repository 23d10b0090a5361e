package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seo-optimizer/contentscore/analyzer"
	"github.com/seo-optimizer/contentscore/config"
)

func newAnalyzeCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var (
		asJSON   bool
		minScore int
	)

	cmd := &cobra.Command{
		Use:   "analyze <draft.yaml>",
		Short: "Print the report for a draft file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			in, _, err := loadDraft(args[0])
			if err != nil {
				return err
			}

			report := analyzer.EvaluateWithOptions(in, analyzerOptions(cfg, zap.NewNop()))

			out := cmd.OutOrStdout()
			if asJSON {
				err = writeJSON(out, report)
			} else {
				err = renderReport(out, report)
			}
			if err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			if report.Score < minScore {
				return fmt.Errorf("score %d is below the required %d", report.Score, minScore)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().IntVar(&minScore, "min-score", 0, "fail when the score is below this value")
	return cmd
}
