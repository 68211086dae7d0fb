// Package report renders scoring output: the sorted people table, company
// score exports, and the master list + baseline rebuild.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadrank-cli/internal/model"
)

// peopleColumns is the fixed output schema; annotation columns are appended
// after it in sorted order.
var peopleColumns = []string{
	"First Name", "Last Name", "Job Title", "Company Name",
	"Lead Score", "Contact Score", "Company Score",
	"Seniority", "Domain", "Warmth",
	"Matched Company", "Match Confidence", "Penalty",
	"Source", "First Seen", "Last Updated",
}

// SortPeople orders scored people by Lead Score descending; equal scores fall
// back to full name so output order is deterministic.
func SortPeople(scored []model.ScoredPerson) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].LeadScore != scored[j].LeadScore {
			return scored[i].LeadScore > scored[j].LeadScore
		}
		return scored[i].FullName() < scored[j].FullName()
	})
}

// WritePeople writes the scored people table to a CSV or TSV file, dispatched
// on the extension. The write is atomic (temp file + rename).
func WritePeople(path string, scored []model.ScoredPerson) error {
	delimiter, err := delimiterFor(path)
	if err != nil {
		return err
	}
	return writeAtomic(path, func(w io.Writer) error {
		return writePeopleRows(w, delimiter, scored)
	})
}

func writePeopleRows(w io.Writer, delimiter rune, scored []model.ScoredPerson) error {
	annotations := annotationUnion(scored)

	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	defer cw.Flush()

	if err := cw.Write(append(append([]string{}, peopleColumns...), annotations...)); err != nil {
		return eris.Wrap(err, "report: write header")
	}

	for _, p := range scored {
		row := []string{
			p.FirstName, p.LastName, p.JobTitle, p.CompanyName,
			formatScore(p.LeadScore), formatScore(p.ContactScore), formatScore(p.CompanyScore),
			formatScore(p.Seniority), formatScore(p.Domain), formatScore(p.Warmth),
			p.MatchedCompany, formatScore(p.MatchConfidence), string(p.Penalty),
			strings.Join(p.Sources, " + "),
			formatDate(p.FirstSeen), formatDate(p.LastSeen),
		}
		for _, col := range annotations {
			row = append(row, p.Annotations[col])
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "report: write row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush")
}

// PrintPeople renders a fixed-width table of the top rows. limit <= 0 prints
// everything.
func PrintPeople(w io.Writer, scored []model.ScoredPerson, limit int) error {
	if len(scored) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return eris.Wrap(err, "report: print empty")
	}

	header := fmt.Sprintf("%-25s %-35s %-30s %5s %7s %7s %-10s\n",
		"Name", "Job Title", "Matched Company", "Lead", "Contact", "CoScore", "Penalty")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "report: print table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 125)); err != nil {
		return eris.Wrap(err, "report: print table separator")
	}

	rows := scored
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	for _, p := range rows {
		line := fmt.Sprintf("%-25s %-35s %-30s %5.0f %7.0f %7.0f %-10s\n",
			truncate(p.FullName(), 25), truncate(p.JobTitle, 35),
			truncate(p.MatchedCompany, 30),
			p.LeadScore, p.ContactScore, p.CompanyScore, p.Penalty)
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "report: print table row")
		}
	}
	return nil
}

// annotationUnion collects every annotation column name across the
// population, sorted.
func annotationUnion(scored []model.ScoredPerson) []string {
	set := map[string]bool{}
	for _, p := range scored {
		for col := range p.Annotations {
			set[col] = true
		}
	}
	cols := make([]string, 0, len(set))
	for col := range set {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func delimiterFor(path string) (rune, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ',', nil
	case ".tsv":
		return '\t', nil
	default:
		return 0, eris.Errorf("report: unsupported output type: %s", path)
	}
}

// writeAtomic writes through a temp file in the destination directory, then
// renames it into place.
func writeAtomic(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "report: create output dir for %s", path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*")
	if err != nil {
		return eris.Wrap(err, "report: create temp output")
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "report: close temp output")
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return eris.Wrapf(err, "report: rename output into place %s", path)
	}
	return nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
