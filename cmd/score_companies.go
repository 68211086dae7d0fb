package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadrank-cli/internal/report"
	"github.com/sells-group/leadrank-cli/internal/scorer"
)

var scoreCompaniesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Score the company store",
	Long: `Recomputes Alignment, Budget, and Demand pillar scores, per-pillar
and entity confidence, and the weighted Company Score for every company in
the store, then persists the scores. Blacklisted companies are scored and
kept in the population; they are flagged in output, never dropped.`,
	RunE: runScoreCompanies,
}

func init() {
	f := scoreCompaniesCmd.Flags()
	f.String("output", "", "write scored companies to a CSV/TSV file")
	f.Int("limit", 25, "rows to print when no output file is given (0=all)")
	f.Bool("dry-run", false, "score without persisting to the store")

	scoreCmd.AddCommand(scoreCompaniesCmd)
}

func runScoreCompanies(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	outputPath, _ := cmd.Flags().GetString("output")
	limit, _ := cmd.Flags().GetInt("limit")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	tun, err := loadTuning()
	if err != nil {
		return err
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	companies, err := st.LoadCompanies(ctx)
	if err != nil {
		return err
	}
	if len(companies) == 0 {
		return eris.New("score companies: company store is empty (run 'companies import' first)")
	}

	scored, breakdowns, err := scorer.NewCompanyScorer(tun, timeNow().UTC()).Score(companies)
	if err != nil {
		return err
	}

	if !dryRun {
		if err := st.ReplaceCompanies(ctx, scored); err != nil {
			return err
		}
		zap.L().Info("company scores persisted", zap.Int("companies", len(scored)))
	}

	report.SortCompanies(scored, breakdowns)
	if outputPath != "" {
		return report.WriteCompanies(outputPath, scored, breakdowns)
	}
	return report.PrintCompanies(os.Stdout, scored, limit)
}
