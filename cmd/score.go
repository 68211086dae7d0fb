package main

import "github.com/spf13/cobra"

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Run the scoring engine",
	Long: `Scoring is population-relative: every run recomputes scores across
the whole population, so a score only means something next to the other
scores from the same run.

  score companies   pillar scores (Budget, Alignment, Demand), confidence,
                    and the weighted Company Score for the company store
  score people      match a conference's accumulated set against the company
                    store and compose Contact and Lead Scores`,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
