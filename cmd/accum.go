package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadrank-cli/internal/accum"
	"github.com/sells-group/leadrank-cli/internal/ingest"
	"github.com/sells-group/leadrank-cli/internal/model"
)

var accumCmd = &cobra.Command{
	Use:   "accum",
	Short: "Maintain a conference's accumulated people set",
	Long: `The attendee pipeline works iteratively: each scrape or export is
merged into the conference's accumulated set. People are deduplicated by
normalized name + company; existing rows are refreshed, never replaced, and
every source that has contributed a person is tracked.`,
}

var accumAddCmd = &cobra.Command{
	Use:   "add [files...]",
	Short: "Merge one or more source batches into the accumulated set",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAccumAdd,
}

var accumIngestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Re-ingest an annotated scored snapshot, preserving annotations",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccumIngest,
}

var accumStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the accumulated set",
	RunE:  runAccumStatus,
}

func init() {
	accumCmd.PersistentFlags().String("conference", "", "conference key, e.g. gdc_sf_26 (required)")
	accumCmd.MarkPersistentFlagRequired("conference") //nolint:errcheck

	accumAddCmd.Flags().String("label", "", "source label for this batch (default: file name)")
	accumAddCmd.Flags().String("encoding", "", "input charset for CSV/TSV (IANA name, default UTF-8)")
	accumAddCmd.Flags().String("sheet", "", "XLSX sheet name (default: first sheet)")

	accumIngestCmd.Flags().String("label", "", "source label for the snapshot (default: file name)")
	accumIngestCmd.Flags().String("encoding", "", "input charset for CSV/TSV (IANA name, default UTF-8)")

	accumCmd.AddCommand(accumAddCmd, accumIngestCmd, accumStatusCmd)
	rootCmd.AddCommand(accumCmd)
}

func runAccumAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	conference, _ := cmd.Flags().GetString("conference")
	label, _ := cmd.Flags().GetString("label")
	encoding, _ := cmd.Flags().GetString("encoding")
	sheet, _ := cmd.Flags().GetString("sheet")

	if label != "" && len(args) > 1 {
		return eris.New("accum add: --label only applies to a single file")
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	// Read every input up front, concurrently. Merging stays sequential so
	// the result is deterministic in argument order.
	batches := make([][]model.Person, len(args))
	g, _ := errgroup.WithContext(ctx)
	for i, path := range args {
		g.Go(func() error {
			people, err := ingest.ReadPeople(path, ingest.Options{Encoding: encoding, Sheet: sheet})
			if err != nil {
				return err
			}
			batches[i] = people
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return withRunLock(ctx, st, conference, func() error {
		existing, err := st.LoadAccum(ctx, conference)
		if err != nil {
			return err
		}
		set := accum.Restore(conference, existing)

		now := timeNow().UTC()
		for i, people := range batches {
			batchLabel := label
			if batchLabel == "" {
				batchLabel = batchLabelFor(args[i])
			}

			stats := set.AddSource(people, batchLabel, now)
			if err := st.RecordBatch(ctx, model.SourceBatch{
				Conference: conference,
				Label:      batchLabel,
				RowCount:   len(people),
				IngestedAt: now,
			}); err != nil {
				return err
			}

			fmt.Printf("%s: %d added, %d merged, %d skipped (accum total %d)\n",
				batchLabel, stats.Added, stats.Merged, stats.Skipped, set.Len())
		}

		return st.ReplaceAccum(ctx, conference, set.People())
	})
}

func runAccumIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	conference, _ := cmd.Flags().GetString("conference")
	label, _ := cmd.Flags().GetString("label")
	encoding, _ := cmd.Flags().GetString("encoding")

	if label == "" {
		label = batchLabelFor(args[0])
	}

	people, err := ingest.ReadPeople(args[0], ingest.Options{Encoding: encoding})
	if err != nil {
		return err
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	return withRunLock(ctx, st, conference, func() error {
		existing, err := st.LoadAccum(ctx, conference)
		if err != nil {
			return err
		}
		set := accum.Restore(conference, existing)

		now := timeNow().UTC()
		stats := set.IngestSnapshot(people, label, now)
		if err := st.RecordBatch(ctx, model.SourceBatch{
			Conference: conference,
			Label:      label,
			RowCount:   len(people),
			IngestedAt: now,
		}); err != nil {
			return err
		}

		fmt.Printf("%s: %d added, %d merged, %d skipped (accum total %d)\n",
			label, stats.Added, stats.Merged, stats.Skipped, set.Len())

		return st.ReplaceAccum(ctx, conference, set.People())
	})
}

func runAccumStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	conference, _ := cmd.Flags().GetString("conference")

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
		fmt.Printf("No accumulated set for %s.\n", conference)
		return nil
	}

	printAccumSummary(conference, people)

	batches, err := st.ListBatches(ctx, conference)
	if err != nil {
		return err
	}
	if len(batches) > 0 {
		fmt.Println("\nBatch history:")
		for _, b := range batches {
			fmt.Printf("  %s  %-30s %6d rows\n",
				b.IngestedAt.Format("2006-01-02"), b.Label, b.RowCount)
		}
	}
	return nil
}

func printAccumSummary(conference string, people []model.Person) {
	var withTitle, withCompany int
	sourceCounts := map[string]int{}
	for _, p := range people {
		if p.HasTitle() {
			withTitle++
		}
		if strings.TrimSpace(p.CompanyName) != "" {
			withCompany++
		}
		for _, s := range p.Sources {
			sourceCounts[s]++
		}
	}

	n := len(people)
	fmt.Printf("Conference: %s\n", conference)
	fmt.Printf("Total people: %d\n", n)
	fmt.Printf("With job title: %d (%.0f%%)\n", withTitle, pct(withTitle, n))
	fmt.Printf("With company: %d (%.0f%%)\n", withCompany, pct(withCompany, n))

	if len(sourceCounts) > 0 {
		labels := make([]string, 0, len(sourceCounts))
		for label := range sourceCounts {
			labels = append(labels, label)
		}
		sort.Slice(labels, func(i, j int) bool {
			if sourceCounts[labels[i]] != sourceCounts[labels[j]] {
				return sourceCounts[labels[i]] > sourceCounts[labels[j]]
			}
			return labels[i] < labels[j]
		})
		fmt.Println("Sources contributing:")
		for _, label := range labels {
			fmt.Printf("  %-30s %6d people\n", label, sourceCounts[label])
		}
	}
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// batchLabelFor derives a source label from a file path.
func batchLabelFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
