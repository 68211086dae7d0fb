package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadrank-cli/internal/match"
	"github.com/sells-group/leadrank-cli/internal/report"
	"github.com/sells-group/leadrank-cli/internal/scorer"
	"github.com/sells-group/leadrank-cli/internal/stats"
	"github.com/sells-group/leadrank-cli/internal/velocity"
)

var scorePeopleCmd = &cobra.Command{
	Use:   "people",
	Short: "Score a conference's accumulated set",
	Long: `Runs the full people pipeline on the conference's accumulated set:
title pillars (Seniority, Domain), decayed Warmth, fuzzy company matching,
Contact Score, Lead Score composition, and population normalization. Appends
an entry to the conference's velocity log and writes the sorted output.

With --absolute, contact and lead scores are normalized against the master
baseline instead of this run's own population, so small sets stay comparable
across iterations.`,
	RunE: runScorePeople,
}

func init() {
	f := scorePeopleCmd.Flags()
	f.String("conference", "", "conference key, e.g. gdc_sf_26 (required)")
	f.String("version", "", "iteration tag recorded in the velocity log, e.g. v3")
	f.String("output", "", "write scored people to a CSV/TSV file")
	f.Int("limit", 25, "rows to print when no output file is given (0=all)")
	f.Bool("absolute", false, "normalize against the master baseline")
	scorePeopleCmd.MarkFlagRequired("conference") //nolint:errcheck

	scoreCmd.AddCommand(scorePeopleCmd)
}

func runScorePeople(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	conference, _ := cmd.Flags().GetString("conference")
	version, _ := cmd.Flags().GetString("version")
	outputPath, _ := cmd.Flags().GetString("output")
	limit, _ := cmd.Flags().GetInt("limit")
	absolute, _ := cmd.Flags().GetBool("absolute")

	tun, err := loadTuning()
	if err != nil {
		return err
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	people, err := st.LoadAccum(ctx, conference)
	if err != nil {
		return err
	}
	if len(people) == 0 {
		return eris.Errorf("score people: no accumulated set for %s (run 'accum add' first)", conference)
	}

	companies, err := st.LoadCompanies(ctx)
	if err != nil {
		return err
	}
	if len(companies) == 0 {
		return eris.New("score people: company store is empty (run 'companies import' and 'score companies' first)")
	}

	var baseline *stats.Baseline
	if absolute {
		baseline, err = stats.LoadBaseline(cfg.Data.BaselinePath)
		if err != nil {
			return err
		}
		if baseline == nil {
			return eris.Errorf("score people: --absolute requires a baseline at %s (run 'baseline rebuild')", cfg.Data.BaselinePath)
		}
	}

	now := timeNow().UTC()
	matcher := match.NewMatcher(companies, tun.Match.Threshold)
	run := scorer.NewPeopleRun(tun, matcher, baseline, now)

	scored, err := run.Score(people)
	if err != nil {
		return err
	}
	report.SortPeople(scored)

	// Record this iteration in the velocity log.
	log, err := st.ListVelocity(ctx, conference)
	if err != nil {
		return err
	}
	var prev *velocity.Entry
	if len(log) > 0 {
		prev = &log[len(log)-1]
	}
	entry := velocity.Compute(conference, version, scored, prev, now)
	if err := st.AppendVelocity(ctx, entry); err != nil {
		return err
	}
	zap.L().Info("velocity recorded",
		zap.String("conference", conference),
		zap.String("version", version),
		zap.Float64("match_rate", entry.MatchRate))

	if outputPath != "" {
		if err := report.WritePeople(outputPath, scored); err != nil {
			return err
		}
		fmt.Printf("Scored %d people, written to %s\n", len(scored), outputPath)
		return nil
	}
	return report.PrintPeople(os.Stdout, scored, limit)
}
