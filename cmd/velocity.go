package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadrank-cli/internal/velocity"
)

var velocityCmd = &cobra.Command{
	Use:   "velocity",
	Short: "Report iteration-over-iteration scoring velocity",
	Long: `Prints the velocity log for a conference: per-iteration totals,
match rate, lead score tiers, per-source counts, and deltas against the
previous iteration. Entries are appended by 'score people'.`,
	RunE: runVelocity,
}

func init() {
	f := velocityCmd.Flags()
	f.String("conference", "", "conference key, e.g. gdc_sf_26 (required)")
	f.String("format", "text", "output format: text or markdown")
	velocityCmd.MarkFlagRequired("conference") //nolint:errcheck

	rootCmd.AddCommand(velocityCmd)
}

func runVelocity(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	conference, _ := cmd.Flags().GetString("conference")
	format, _ := cmd.Flags().GetString("format")

	if format != "text" && format != "markdown" {
		return eris.Errorf("velocity: --format must be text or markdown (got %q)", format)
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	log, err := st.ListVelocity(ctx, conference)
	if err != nil {
		return err
	}
	if len(log) == 0 {
		fmt.Printf("No velocity entries for %s.\n", conference)
		return nil
	}

	now := timeNow().UTC()
	switch format {
	case "markdown":
		fmt.Print(velocity.FormatMarkdown(conference, log, now))
	default:
		fmt.Print(velocity.FormatText(conference, log, now))
	}
	return nil
}
