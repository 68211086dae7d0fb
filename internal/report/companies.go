package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadrank-cli/internal/model"
	"github.com/sells-group/leadrank-cli/internal/scorer"
)

var companyColumns = []string{
	"Company Name", "Normalized Name", "Company Score",
	"Alignment", "Budget", "Demand", "Confidence",
	"Dev", "F2P", "Mobile", "Fresh",
	"Revenue", "Funding", "Headcount",
	"Status", "Volatility", "Hiring",
	"Blacklisted", "Blacklist Reason", "Country", "Website URL",
}

// SortCompanies orders companies by Company Score descending, name ascending
// on ties. Breakdowns travel with their company.
func SortCompanies(companies []model.Company, breakdowns []scorer.CompanyBreakdown) {
	idx := make([]int, len(companies))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		i, j := idx[a], idx[b]
		if companies[i].Score != companies[j].Score {
			return companies[i].Score > companies[j].Score
		}
		return companies[i].Name < companies[j].Name
	})

	sortedCompanies := make([]model.Company, len(companies))
	sortedBreakdowns := make([]scorer.CompanyBreakdown, len(breakdowns))
	for pos, i := range idx {
		sortedCompanies[pos] = companies[i]
		if i < len(breakdowns) {
			sortedBreakdowns[pos] = breakdowns[i]
		}
	}
	copy(companies, sortedCompanies)
	copy(breakdowns, sortedBreakdowns)
}

// WriteCompanies writes the scored company table with per-component
// breakdowns to a CSV or TSV file, atomically.
func WriteCompanies(path string, companies []model.Company, breakdowns []scorer.CompanyBreakdown) error {
	if len(breakdowns) != len(companies) {
		return eris.Errorf("report: %d companies but %d breakdowns", len(companies), len(breakdowns))
	}
	delimiter, err := delimiterFor(path)
	if err != nil {
		return err
	}
	return writeAtomic(path, func(w io.Writer) error {
		return writeCompanyRows(w, delimiter, companies, breakdowns)
	})
}

func writeCompanyRows(w io.Writer, delimiter rune, companies []model.Company, breakdowns []scorer.CompanyBreakdown) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	defer cw.Flush()

	if err := cw.Write(companyColumns); err != nil {
		return eris.Wrap(err, "report: write company header")
	}

	for i, c := range companies {
		b := breakdowns[i]
		blacklisted := ""
		if c.Blacklisted {
			blacklisted = "X"
		}
		row := []string{
			c.Name, c.NormalName, formatScore(c.Score),
			formatScore(c.Alignment), formatScore(c.Budget), formatScore(c.Demand), formatScore(c.Confidence),
			formatScore(b.Dev), formatScore(b.F2P), formatScore(b.Mobile), formatScore(b.Fresh),
			formatScore(b.Revenue), formatScore(b.Funding), formatScore(b.Headcount),
			formatScore(b.Status), formatScore(b.Volatility), formatScore(b.Hiring),
			blacklisted, c.BlacklistReason, c.Country, c.URL,
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "report: write company row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush companies")
}

// PrintCompanies renders a fixed-width company score table. limit <= 0
// prints everything.
func PrintCompanies(w io.Writer, companies []model.Company, limit int) error {
	if len(companies) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return eris.Wrap(err, "report: print empty")
	}

	header := fmt.Sprintf("%-40s %6s %6s %6s %6s %5s %-5s\n",
		"Company", "Score", "Align", "Budget", "Demand", "Conf", "Flag")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "report: print company header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 80)); err != nil {
		return eris.Wrap(err, "report: print company separator")
	}

	rows := companies
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	for _, c := range rows {
		flag := ""
		if c.Blacklisted {
			flag = "X"
		}
		line := fmt.Sprintf("%-40s %6.1f %6.1f %6.1f %6.1f %5.1f %-5s\n",
			truncate(c.Name, 40), c.Score, c.Alignment, c.Budget, c.Demand, c.Confidence, flag)
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "report: print company row")
		}
	}
	return nil
}
