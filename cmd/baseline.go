package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadrank-cli/internal/ingest"
	"github.com/sells-group/leadrank-cli/internal/report"
	"github.com/sells-group/leadrank-cli/internal/stats"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Maintain the master list and normalization baseline",
}

var baselineRebuildCmd = &cobra.Command{
	Use:   "rebuild [scored files...]",
	Short: "Rebuild the master people list and min/max baseline",
	Long: `Aggregates scored people snapshots into the deduplicated master list
and recomputes the contact/lead score min/max baseline used by --absolute
normalization. Snapshots are dated from a YYYY-MM-DD in the file name,
falling back to the file's modification time; the newest snapshot wins a
dedup collision.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBaselineRebuild,
}

func init() {
	baselineRebuildCmd.Flags().String("master", "", "write the master list to this CSV/TSV file")

	baselineCmd.AddCommand(baselineRebuildCmd)
	rootCmd.AddCommand(baselineCmd)
}

var filenameDate = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

func runBaselineRebuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	masterPath, _ := cmd.Flags().GetString("master")

	if err := cfg.Validate(); err != nil {
		return err
	}

	snapshots := make([]report.Snapshot, len(args))
	g, _ := errgroup.WithContext(ctx)
	for i, path := range args {
		g.Go(func() error {
			scored, err := ingest.ReadScored(path, ingest.Options{})
			if err != nil {
				return err
			}
			snapshots[i] = report.Snapshot{
				SourceList: filepath.Base(path),
				Date:       snapshotDate(path),
				People:     scored,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	master, baseline, err := report.BuildMaster(snapshots, timeNow().UTC())
	if err != nil {
		return err
	}

	if err := stats.SaveBaseline(cfg.Data.BaselinePath, baseline); err != nil {
		return err
	}
	fmt.Printf("Baseline saved to %s (%d people, lead %.0f-%.0f, contact %.0f-%.0f)\n",
		cfg.Data.BaselinePath, baseline.Population,
		baseline.LeadScore.Min, baseline.LeadScore.Max,
		baseline.ContactScore.Min, baseline.ContactScore.Max)

	if masterPath != "" {
		report.SortPeople(master)
		if err := report.WritePeople(masterPath, master); err != nil {
			return err
		}
		fmt.Printf("Master list saved to %s\n", masterPath)
	}
	return nil
}

// snapshotDate dates a snapshot from a YYYY-MM-DD in the file name, falling
// back to the file's modification time.
func snapshotDate(path string) time.Time {
	if m := filenameDate.FindString(filepath.Base(path)); m != "" {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			return t
		}
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime()
	}
	return time.Time{}
}
